package services

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/justsurfingit/job-board/internal/models"
	"github.com/justsurfingit/job-board/internal/repository"
)

type fakeApplicationStore struct {
	mu        sync.Mutex
	byID      map[string]*models.Application
	seq       int
	clock     time.Time
	createErr error
	listErr   error
	// skipPrecheck makes FindByJobAndApplicant always miss, as if a
	// concurrent submitter inserted between the check and the write.
	skipPrecheck bool
}

func newFakeApplicationStore() *fakeApplicationStore {
	return &fakeApplicationStore{
		byID:  make(map[string]*models.Application),
		clock: time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC),
	}
}

func (s *fakeApplicationStore) Create(ctx context.Context, app *models.Application) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.createErr != nil {
		return s.createErr
	}
	for _, existing := range s.byID {
		if existing.JobID == app.JobID && existing.ApplicantID == app.ApplicantID {
			return repository.ErrDuplicate
		}
	}
	s.seq++
	s.clock = s.clock.Add(time.Minute)
	app.ID = fmt.Sprintf("app-%d", s.seq)
	app.CreatedAt = s.clock
	app.UpdatedAt = s.clock
	stored := *app
	s.byID[app.ID] = &stored
	return nil
}

func (s *fakeApplicationStore) GetByID(ctx context.Context, id string) (*models.Application, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	app, ok := s.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *app
	return &copy, nil
}

func (s *fakeApplicationStore) FindByJobAndApplicant(ctx context.Context, jobID, applicantID string) (*models.Application, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.skipPrecheck {
		return nil, repository.ErrNotFound
	}
	for _, app := range s.byID {
		if app.JobID == jobID && app.ApplicantID == applicantID {
			copy := *app
			return &copy, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *fakeApplicationStore) ListByApplicant(ctx context.Context, applicantID string) ([]models.Application, error) {
	return s.list(func(a *models.Application) bool { return a.ApplicantID == applicantID })
}

func (s *fakeApplicationStore) ListByJob(ctx context.Context, jobID string) ([]models.Application, error) {
	return s.list(func(a *models.Application) bool { return a.JobID == jobID })
}

func (s *fakeApplicationStore) list(match func(*models.Application) bool) ([]models.Application, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listErr != nil {
		return nil, s.listErr
	}
	var out []models.Application
	for _, app := range s.byID {
		if match(app) {
			out = append(out, *app)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *fakeApplicationStore) UpdateStatus(ctx context.Context, id string, status models.ApplicationStatus) (*models.Application, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	app, ok := s.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	s.clock = s.clock.Add(time.Second)
	app.Status = status
	app.UpdatedAt = s.clock
	copy := *app
	return &copy, nil
}

func (s *fakeApplicationStore) count(jobID, applicantID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, app := range s.byID {
		if app.JobID == jobID && app.ApplicantID == applicantID {
			n++
		}
	}
	return n
}

type fakeJobDirectory struct {
	jobs map[string]models.JobSummary
	err  error
}

func (d *fakeJobDirectory) FindJobs(ctx context.Context, ids []string) (map[string]models.JobSummary, error) {
	if d.err != nil {
		return nil, d.err
	}
	out := make(map[string]models.JobSummary)
	for _, id := range ids {
		if j, ok := d.jobs[id]; ok {
			out[id] = j
		}
	}
	return out, nil
}

type fakeUserDirectory struct {
	users map[string]models.UserSummary
	err   error
}

func (d *fakeUserDirectory) FindUsers(ctx context.Context, ids []string) (map[string]models.UserSummary, error) {
	if d.err != nil {
		return nil, d.err
	}
	out := make(map[string]models.UserSummary)
	for _, id := range ids {
		if u, ok := d.users[id]; ok {
			out[id] = u
		}
	}
	return out, nil
}

type fakeLimiter struct {
	mu    sync.Mutex
	allow bool
	keys  []string
}

func (l *fakeLimiter) Allow(ctx context.Context, key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.keys = append(l.keys, key)
	return l.allow
}
