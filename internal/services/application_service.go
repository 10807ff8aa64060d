package services

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/justsurfingit/job-board/internal/apperr"
	"github.com/justsurfingit/job-board/internal/dtos"
	"github.com/justsurfingit/job-board/internal/metrics"
	"github.com/justsurfingit/job-board/internal/models"
	"github.com/justsurfingit/job-board/internal/repository"
	"github.com/sirupsen/logrus"
)

const maxCoverLetterLength = 2000

// Roles allowed to see other people's applications and change their status.
var reviewerRoles = models.NewRoleSet(models.RoleEmployer, models.RoleAdmin)

// ApplicationStore persists applications. Create must reject a second row for
// the same (job, applicant) with repository.ErrDuplicate; lookups of absent
// rows return repository.ErrNotFound.
type ApplicationStore interface {
	Create(ctx context.Context, app *models.Application) error
	GetByID(ctx context.Context, id string) (*models.Application, error)
	FindByJobAndApplicant(ctx context.Context, jobID, applicantID string) (*models.Application, error)
	ListByApplicant(ctx context.Context, applicantID string) ([]models.Application, error)
	ListByJob(ctx context.Context, jobID string) ([]models.Application, error)
	UpdateStatus(ctx context.Context, id string, status models.ApplicationStatus) (*models.Application, error)
}

type JobDirectory interface {
	FindJobs(ctx context.Context, ids []string) (map[string]models.JobSummary, error)
}

type UserDirectory interface {
	FindUsers(ctx context.Context, ids []string) (map[string]models.UserSummary, error)
}

// SubmitLimiter throttles submission attempts per key.
type SubmitLimiter interface {
	Allow(ctx context.Context, key string) bool
}

type ApplicationService struct {
	Store   ApplicationStore
	Jobs    JobDirectory
	Users   UserDirectory
	Log     *logrus.Logger
	Metrics *metrics.Metrics
	Limiter SubmitLimiter

	// StrictJobOwnership limits employers to applications for jobs they
	// posted. Admins are never limited.
	StrictJobOwnership bool
}

func NewApplicationService(store ApplicationStore, jobs JobDirectory, users UserDirectory, log *logrus.Logger, m *metrics.Metrics, limiter SubmitLimiter, strictJobOwnership bool) *ApplicationService {
	return &ApplicationService{
		Store:              store,
		Jobs:               jobs,
		Users:              users,
		Log:                log,
		Metrics:            m,
		Limiter:            limiter,
		StrictJobOwnership: strictJobOwnership,
	}
}

// Submit creates a pending application from caller to jobID.
func (s *ApplicationService) Submit(ctx context.Context, caller models.Identity, jobID string, req dtos.ApplicationRequest) (view *models.ApplicationView, err error) {
	defer func() {
		outcome := "created"
		if err != nil {
			outcome = apperr.KindOf(err).String()
		}
		s.Metrics.RecordSubmission(outcome)
	}()

	job, found, err := s.findJob(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if !found || !job.IsActive {
		return nil, apperr.New(apperr.JobNotAvailable, "Job not found or not active")
	}

	_, err = s.Store.FindByJobAndApplicant(ctx, jobID, caller.UserID)
	switch {
	case err == nil:
		return nil, duplicateApplication()
	case !errors.Is(err, repository.ErrNotFound):
		return nil, s.internal("find existing application", err, logrus.Fields{"job_id": jobID, "applicant_id": caller.UserID})
	}

	// Unavailable jobs and duplicates are reported as such, never as 429.
	if s.Limiter != nil && !s.Limiter.Allow(ctx, "apply:"+jobID+":"+caller.UserID) {
		return nil, apperr.New(apperr.RateLimited, "Too many application attempts, please try again later")
	}

	resumeURL := strings.TrimSpace(req.ResumeURL)
	if resumeURL == "" {
		return nil, apperr.Invalid("Resume URL is required")
	}
	if utf8.RuneCountInString(req.CoverLetter) > maxCoverLetterLength {
		return nil, apperr.Invalid("Cover letter cannot exceed 2000 characters")
	}

	app := &models.Application{
		JobID:       jobID,
		ApplicantID: caller.UserID,
		ResumeURL:   resumeURL,
		CoverLetter: req.CoverLetter,
		Status:      models.StatusPending,
	}
	// The pre-check above can race with a concurrent submission; the store's
	// unique index decides.
	if err := s.Store.Create(ctx, app); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, duplicateApplication()
		}
		return nil, s.internal("create application", err, logrus.Fields{"job_id": jobID, "applicant_id": caller.UserID})
	}

	s.Log.WithFields(logrus.Fields{"application_id": app.ID, "job_id": jobID, "applicant_id": caller.UserID}).
		Info("application submitted")

	view = &models.ApplicationView{Application: *app, Job: &job}
	// The row is already written; enrichment failures are only logged.
	users, err := s.Users.FindUsers(ctx, []string{caller.UserID})
	if err != nil {
		s.Log.WithError(err).WithField("application_id", app.ID).Warn("applicant enrichment failed")
		return view, nil
	}
	if u, ok := users[caller.UserID]; ok {
		view.Applicant = &u
	}
	return view, nil
}

// ListForApplicant returns the caller's own applications, newest first.
func (s *ApplicationService) ListForApplicant(ctx context.Context, caller models.Identity) ([]models.ApplicationView, error) {
	apps, err := s.Store.ListByApplicant(ctx, caller.UserID)
	if err != nil {
		return nil, s.internal("list applicant applications", err, logrus.Fields{"applicant_id": caller.UserID})
	}
	return s.enrich(ctx, apps, true, false)
}

// ListForJob returns every application to jobID, newest first.
func (s *ApplicationService) ListForJob(ctx context.Context, caller models.Identity, jobID string) ([]models.ApplicationView, error) {
	if !reviewerRoles.Allows(caller.Role) {
		return nil, forbiddenRole(caller.Role)
	}
	job, found, err := s.findJob(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, apperr.New(apperr.NotFound, "Job not found")
	}
	if !s.canReview(caller, job) {
		return nil, apperr.New(apperr.Forbidden, "Not authorized to view applications for this job")
	}

	apps, err := s.Store.ListByJob(ctx, jobID)
	if err != nil {
		return nil, s.internal("list job applications", err, logrus.Fields{"job_id": jobID})
	}
	return s.enrich(ctx, apps, false, true)
}

// Get returns one application to its applicant or to a reviewer. Access is
// decided before any enrichment lookups run.
func (s *ApplicationService) Get(ctx context.Context, caller models.Identity, applicationID string) (*models.ApplicationView, error) {
	app, err := s.load(ctx, applicationID)
	if err != nil {
		return nil, err
	}

	if app.ApplicantID != caller.UserID {
		if !reviewerRoles.Allows(caller.Role) {
			return nil, apperr.New(apperr.Forbidden, "Not authorized to view this application")
		}
		if s.StrictJobOwnership && caller.Role != models.RoleAdmin {
			job, found, err := s.findJob(ctx, app.JobID)
			if err != nil {
				return nil, err
			}
			if !found || !s.canReview(caller, job) {
				return nil, apperr.New(apperr.Forbidden, "Not authorized to view this application")
			}
		}
	}

	views, err := s.enrich(ctx, []models.Application{*app}, true, true)
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// UpdateStatus sets the status of an application. Any status may follow any
// other; accepted and rejected are not terminal.
func (s *ApplicationService) UpdateStatus(ctx context.Context, caller models.Identity, applicationID, status string) (*models.ApplicationView, error) {
	if !reviewerRoles.Allows(caller.Role) {
		return nil, forbiddenRole(caller.Role)
	}
	next := models.ApplicationStatus(status)
	if !next.Valid() {
		return nil, apperr.Invalid("Invalid status. Must be: pending, reviewed, accepted, rejected")
	}

	app, err := s.load(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if s.StrictJobOwnership && caller.Role != models.RoleAdmin {
		job, found, err := s.findJob(ctx, app.JobID)
		if err != nil {
			return nil, err
		}
		if !found || !s.canReview(caller, job) {
			return nil, apperr.New(apperr.Forbidden, "Not authorized to update this application")
		}
	}

	updated, err := s.Store.UpdateStatus(ctx, applicationID, next)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.New(apperr.NotFound, "Application not found")
		}
		return nil, s.internal("update application status", err, logrus.Fields{"application_id": applicationID})
	}
	s.Metrics.RecordStatusChange(string(next))
	s.Log.WithFields(logrus.Fields{
		"application_id": applicationID,
		"from":           app.Status,
		"to":             next,
		"by":             caller.UserID,
	}).Info("application status changed")

	views, err := s.enrich(ctx, []models.Application{*updated}, true, true)
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

func (s *ApplicationService) load(ctx context.Context, id string) (*models.Application, error) {
	app, err := s.Store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.New(apperr.NotFound, "Application not found")
		}
		return nil, s.internal("load application", err, logrus.Fields{"application_id": id})
	}
	return app, nil
}

func (s *ApplicationService) findJob(ctx context.Context, jobID string) (models.JobSummary, bool, error) {
	jobs, err := s.Jobs.FindJobs(ctx, []string{jobID})
	if err != nil {
		return models.JobSummary{}, false, s.internal("find job", err, logrus.Fields{"job_id": jobID})
	}
	job, ok := jobs[jobID]
	return job, ok, nil
}

func (s *ApplicationService) canReview(caller models.Identity, job models.JobSummary) bool {
	if !reviewerRoles.Allows(caller.Role) {
		return false
	}
	if caller.Role == models.RoleAdmin || !s.StrictJobOwnership {
		return true
	}
	return job.PostedBy == caller.UserID
}

// enrich attaches job and applicant summaries to each application. Base
// records are never modified.
func (s *ApplicationService) enrich(ctx context.Context, apps []models.Application, withJob, withApplicant bool) ([]models.ApplicationView, error) {
	views := make([]models.ApplicationView, len(apps))
	for i := range apps {
		views[i].Application = apps[i]
	}
	if len(apps) == 0 {
		return views, nil
	}

	if withJob {
		jobs, err := s.Jobs.FindJobs(ctx, uniqueIDs(apps, func(a models.Application) string { return a.JobID }))
		if err != nil {
			return nil, s.internal("enrich jobs", err, nil)
		}
		for i := range views {
			if j, ok := jobs[views[i].JobID]; ok {
				views[i].Job = &j
			}
		}
	}
	if withApplicant {
		users, err := s.Users.FindUsers(ctx, uniqueIDs(apps, func(a models.Application) string { return a.ApplicantID }))
		if err != nil {
			return nil, s.internal("enrich applicants", err, nil)
		}
		for i := range views {
			if u, ok := users[views[i].ApplicantID]; ok {
				views[i].Applicant = &u
			}
		}
	}
	return views, nil
}

// internal logs an unexpected storage failure and hides it from the caller.
func (s *ApplicationService) internal(op string, err error, fields logrus.Fields) error {
	s.Log.WithFields(fields).WithError(err).Error(op + " failed")
	return apperr.Wrap(apperr.Internal, "Internal server error", err)
}

func duplicateApplication() error {
	return apperr.New(apperr.DuplicateApplication, "You have already applied for this job")
}

func forbiddenRole(role models.Role) error {
	return apperr.New(apperr.Forbidden, "Role "+string(role)+" is not authorized")
}

func uniqueIDs(apps []models.Application, key func(models.Application) string) []string {
	seen := make(map[string]struct{}, len(apps))
	ids := make([]string, 0, len(apps))
	for _, a := range apps {
		id := key(a)
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids
}
