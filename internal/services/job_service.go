package services

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/justsurfingit/job-board/internal/apperr"
	"github.com/justsurfingit/job-board/internal/dtos"
	"github.com/justsurfingit/job-board/internal/models"
	"github.com/justsurfingit/job-board/internal/repository"
	"github.com/sirupsen/logrus"
)

const (
	defaultPageLimit = 10
	maxPageLimit     = 100
)

type JobStore interface {
	Create(ctx context.Context, job *models.Job) error
	GetByID(ctx context.Context, id string) (*models.Job, error)
	ListActive(ctx context.Context, f repository.JobFilter) ([]models.Job, int64, error)
	SetActive(ctx context.Context, id string, active bool) error
}

type JobService struct {
	Store    JobStore
	Log      *logrus.Logger
	validate *validator.Validate
}

func NewJobService(store JobStore, log *logrus.Logger) *JobService {
	return &JobService{
		Store:    store,
		Log:      log,
		validate: validator.New(),
	}
}

type JobPage struct {
	Jobs       []models.Job
	Total      int64
	Pagination dtos.Pagination
}

func (s *JobService) CreateJob(ctx context.Context, caller models.Identity, req *dtos.JobCreationRequest) (*models.Job, error) {
	if errs := s.validateJob(req); len(errs) > 0 {
		return nil, apperr.Invalid(errs...)
	}

	job := &models.Job{
		Title:       strings.TrimSpace(req.Title),
		Company:     strings.TrimSpace(req.Company),
		Description: req.Description,
		Email:       strings.TrimSpace(req.Email),
		Salary:      req.Salary,
		IsActive:    true,
		PostedBy:    caller.UserID,
	}
	if req.IsActive != nil {
		job.IsActive = *req.IsActive
	}
	if err := s.Store.Create(ctx, job); err != nil {
		s.Log.WithError(err).WithField("posted_by", caller.UserID).Error("create job failed")
		return nil, apperr.Wrap(apperr.Internal, "Server error", err)
	}
	s.Log.WithFields(logrus.Fields{"job_id": job.ID, "posted_by": caller.UserID}).Info("job created")
	return job, nil
}

// validateJob collects every failed rule rather than stopping at the first.
func (s *JobService) validateJob(req *dtos.JobCreationRequest) []string {
	var errs []string
	title := utf8.RuneCountInString(strings.TrimSpace(req.Title))
	if title < 5 {
		errs = append(errs, "Title must be at least 5 characters")
	} else if title > 100 {
		errs = append(errs, "Title cannot exceed 100 characters")
	}
	company := utf8.RuneCountInString(strings.TrimSpace(req.Company))
	if company < 2 {
		errs = append(errs, "Company name must be at least 2 characters")
	} else if company > 50 {
		errs = append(errs, "Company name cannot exceed 50 characters")
	}
	if utf8.RuneCountInString(strings.TrimSpace(req.Description)) < 20 {
		errs = append(errs, "Description must be at least 20 characters")
	}
	if email := strings.TrimSpace(req.Email); email != "" && s.validate.Var(email, "email") != nil {
		errs = append(errs, "Please provide a valid email")
	}
	if req.Salary != nil && *req.Salary < 0 {
		errs = append(errs, "Salary cannot be negative")
	}
	return errs
}

// ListJobs returns one page of active jobs, newest first.
func (s *JobService) ListJobs(ctx context.Context, q dtos.JobListQuery) (*JobPage, error) {
	page := q.Page
	if page < 1 {
		page = 1
	}
	limit := q.Limit
	if limit < 1 {
		limit = defaultPageLimit
	} else if limit > maxPageLimit {
		limit = maxPageLimit
	}
	offset := (page - 1) * limit

	jobs, total, err := s.Store.ListActive(ctx, repository.JobFilter{
		Title:   q.Title,
		Company: q.Company,
		Limit:   limit,
		Offset:  offset,
	})
	if err != nil {
		s.Log.WithError(err).Error("list jobs failed")
		return nil, apperr.Wrap(apperr.Internal, "Cannot get jobs", err)
	}

	result := &JobPage{Jobs: jobs, Total: total}
	if int64(offset+limit) < total {
		result.Pagination.Next = &dtos.PageRef{Page: page + 1, Limit: limit}
	}
	if offset > 0 {
		result.Pagination.Prev = &dtos.PageRef{Page: page - 1, Limit: limit}
	}
	return result, nil
}

func (s *JobService) GetJob(ctx context.Context, id string) (*models.Job, error) {
	job, err := s.Store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.New(apperr.NotFound, "Job not found")
		}
		s.Log.WithError(err).WithField("job_id", id).Error("get job failed")
		return nil, apperr.Wrap(apperr.Internal, "Server error", err)
	}
	return job, nil
}

// SetActive opens or closes a job to new applications. Employers may only
// change jobs they posted.
func (s *JobService) SetActive(ctx context.Context, caller models.Identity, id string, active bool) (*models.Job, error) {
	job, err := s.GetJob(ctx, id)
	if err != nil {
		return nil, err
	}
	if caller.Role != models.RoleAdmin && job.PostedBy != caller.UserID {
		return nil, apperr.New(apperr.Forbidden, "Not authorized to modify this job")
	}
	if err := s.Store.SetActive(ctx, id, active); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.New(apperr.NotFound, "Job not found")
		}
		s.Log.WithError(err).WithField("job_id", id).Error("set job active failed")
		return nil, apperr.Wrap(apperr.Internal, "Server error", err)
	}
	job.IsActive = active
	return job, nil
}
