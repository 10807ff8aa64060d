package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/justsurfingit/job-board/internal/models"
	"gorm.io/gorm"
)

type JobRepository struct {
	DB *gorm.DB
}

func NewJobRepository(db *gorm.DB) *JobRepository {
	return &JobRepository{DB: db}
}

type JobFilter struct {
	Title   string
	Company string
	Limit   int
	Offset  int
}

func (r *JobRepository) Create(ctx context.Context, job *models.Job) error {
	if job.ID == "" {
		job.ID = uuid.NewString()
	}
	if err := r.DB.WithContext(ctx).Create(job).Error; err != nil {
		return fmt.Errorf("create job: %w", err)
	}
	return nil
}

func (r *JobRepository) GetByID(ctx context.Context, id string) (*models.Job, error) {
	var job models.Job
	err := r.DB.WithContext(ctx).Where("id = ?", id).Take(&job).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get job: %w", err)
	}
	return &job, nil
}

// ListActive returns one page of active jobs, newest first, plus the total
// number of active jobs matching the filter.
func (r *JobRepository) ListActive(ctx context.Context, f JobFilter) ([]models.Job, int64, error) {
	q := r.DB.WithContext(ctx).Model(&models.Job{}).Where("is_active = ?", true)
	if f.Title != "" {
		q = q.Where("title ILIKE ?", containsPattern(f.Title))
	}
	if f.Company != "" {
		q = q.Where("company ILIKE ?", containsPattern(f.Company))
	}
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count jobs: %w", err)
	}

	var jobs []models.Job
	err := q.Order("created_at DESC").Limit(f.Limit).Offset(f.Offset).Find(&jobs).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list jobs: %w", err)
	}
	return jobs, total, nil
}

func (r *JobRepository) SetActive(ctx context.Context, id string, active bool) error {
	res := r.DB.WithContext(ctx).Model(&models.Job{}).Where("id = ?", id).Update("is_active", active)
	if res.Error != nil {
		return fmt.Errorf("set job active: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// FindJobs resolves job ids to summaries. Unknown ids are absent from the map.
func (r *JobRepository) FindJobs(ctx context.Context, ids []string) (map[string]models.JobSummary, error) {
	out := make(map[string]models.JobSummary, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var jobs []models.Job
	if err := r.DB.WithContext(ctx).Where("id IN ?", ids).Find(&jobs).Error; err != nil {
		return nil, fmt.Errorf("find jobs: %w", err)
	}
	for _, j := range jobs {
		out[j.ID] = models.JobSummary{
			ID:          j.ID,
			Title:       j.Title,
			Company:     j.Company,
			Description: j.Description,
			IsActive:    j.IsActive,
			PostedBy:    j.PostedBy,
		}
	}
	return out, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func containsPattern(term string) string {
	return "%" + likeEscaper.Replace(strings.TrimSpace(term)) + "%"
}
