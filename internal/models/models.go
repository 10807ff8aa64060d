package models

import (
	"time"
)

type Role string

const (
	RoleUser     Role = "user"
	RoleEmployer Role = "employer"
	RoleAdmin    Role = "admin"
)

// ParseRole returns the role and whether it is one of the known values.
func ParseRole(value string) (Role, bool) {
	switch r := Role(value); r {
	case RoleUser, RoleEmployer, RoleAdmin:
		return r, true
	}
	return "", false
}

// RoleSet is the set of roles allowed to perform an operation.
type RoleSet map[Role]struct{}

func NewRoleSet(roles ...Role) RoleSet {
	set := make(RoleSet, len(roles))
	for _, r := range roles {
		set[r] = struct{}{}
	}
	return set
}

func (s RoleSet) Allows(r Role) bool {
	_, ok := s[r]
	return ok
}

// Identity is the authenticated caller of a request.
type Identity struct {
	UserID string
	Role   Role
}

type ApplicationStatus string

const (
	StatusPending  ApplicationStatus = "pending"
	StatusReviewed ApplicationStatus = "reviewed"
	StatusAccepted ApplicationStatus = "accepted"
	StatusRejected ApplicationStatus = "rejected"
)

func (s ApplicationStatus) Valid() bool {
	switch s {
	case StatusPending, StatusReviewed, StatusAccepted, StatusRejected:
		return true
	}
	return false
}

type User struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Name         string `gorm:"not null" json:"name"`
	Email        string `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"not null" json:"-"`
	Role         Role   `gorm:"type:varchar(16);not null" json:"role"`
}

type Job struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Title       string   `gorm:"size:100;not null" json:"title"`
	Company     string   `gorm:"size:50;not null" json:"company"`
	Description string   `gorm:"type:text;not null" json:"description"`
	Email       string   `json:"email,omitempty"`
	Salary      *float64 `json:"salary,omitempty"`
	IsActive    bool     `gorm:"not null;index" json:"is_active"`

	// PostedBy is the employer who created the job.
	PostedBy string `gorm:"type:uuid;index" json:"posted_by"`
}

// Application is one applicant's submission to one job. JobID and ApplicantID
// share a unique index so the store rejects a second row for the same pair.
type Application struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	JobID       string            `gorm:"type:uuid;not null;uniqueIndex:idx_applications_job_applicant" json:"job_id"`
	ApplicantID string            `gorm:"type:uuid;not null;uniqueIndex:idx_applications_job_applicant;index" json:"applicant_id"`
	ResumeURL   string            `gorm:"not null" json:"resume_url"`
	CoverLetter string            `gorm:"type:text" json:"cover_letter"`
	Status      ApplicationStatus `gorm:"type:varchar(16);not null" json:"status"`
}

// JobSummary is the read-only job projection attached to an application.
type JobSummary struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Company     string `json:"company"`
	Description string `json:"description,omitempty"`
	IsActive    bool   `json:"is_active"`
	PostedBy    string `json:"-"`
}

// UserSummary is the read-only applicant projection attached to an application.
type UserSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// ApplicationView is an application enriched for display.
type ApplicationView struct {
	Application
	Job       *JobSummary  `json:"job,omitempty"`
	Applicant *UserSummary `json:"applicant,omitempty"`
}
