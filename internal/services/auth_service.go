package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/justsurfingit/job-board/internal/apperr"
	"github.com/justsurfingit/job-board/internal/auth"
	"github.com/justsurfingit/job-board/internal/dtos"
	"github.com/justsurfingit/job-board/internal/models"
	"github.com/justsurfingit/job-board/internal/repository"
	"github.com/sirupsen/logrus"
)

type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
}

type TokenIssuer interface {
	Issue(id models.Identity) (string, time.Time, error)
}

type AuthService struct {
	Users  UserStore
	Tokens TokenIssuer
	Log    *logrus.Logger
}

func NewAuthService(users UserStore, tokens TokenIssuer, log *logrus.Logger) *AuthService {
	return &AuthService{Users: users, Tokens: tokens, Log: log}
}

type AuthResult struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      *models.User `json:"user"`
}

// Register creates an account. Admin accounts cannot be self-registered.
func (s *AuthService) Register(ctx context.Context, req *dtos.RegisterRequest) (*AuthResult, error) {
	role := models.RoleUser
	if req.Role != "" {
		parsed, ok := models.ParseRole(req.Role)
		if !ok || parsed == models.RoleAdmin {
			return nil, apperr.Invalid("Role must be user or employer")
		}
		role = parsed
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperr.Invalid("Name is required")
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrPasswordTooLong) {
			return nil, apperr.Invalid("Password cannot exceed 72 bytes")
		}
		s.Log.WithError(err).Error("hash password failed")
		return nil, apperr.Wrap(apperr.Internal, "Registration failed", err)
	}
	user := &models.User{Name: name, Email: req.Email, PasswordHash: hash, Role: role}
	if err := s.Users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperr.New(apperr.Conflict, "Email is already registered")
		}
		s.Log.WithError(err).Error("create user failed")
		return nil, apperr.Wrap(apperr.Internal, "Registration failed", err)
	}
	s.Log.WithFields(logrus.Fields{"user_id": user.ID, "role": role}).Info("user registered")
	return s.issue(user)
}

func (s *AuthService) Login(ctx context.Context, req *dtos.LoginRequest) (*AuthResult, error) {
	user, err := s.Users.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.New(apperr.Unauthenticated, "Invalid email or password")
		}
		s.Log.WithError(err).Error("find user failed")
		return nil, apperr.Wrap(apperr.Internal, "Login failed", err)
	}
	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		return nil, apperr.New(apperr.Unauthenticated, "Invalid email or password")
	}
	return s.issue(user)
}

// Me returns the caller's own account. A token for a deleted user is
// treated as unauthenticated.
func (s *AuthService) Me(ctx context.Context, caller models.Identity) (*models.User, error) {
	user, err := s.Users.GetByID(ctx, caller.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.New(apperr.Unauthenticated, "User no longer exists")
		}
		s.Log.WithError(err).WithField("user_id", caller.UserID).Error("load user failed")
		return nil, apperr.Wrap(apperr.Internal, "Internal server error", err)
	}
	return user, nil
}

func (s *AuthService) issue(user *models.User) (*AuthResult, error) {
	token, expiresAt, err := s.Tokens.Issue(models.Identity{UserID: user.ID, Role: user.Role})
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "Failed to issue token", err)
	}
	return &AuthResult{Token: token, ExpiresAt: expiresAt, User: user}, nil
}
