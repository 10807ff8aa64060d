package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/justsurfingit/job-board/internal/apperr"
	"github.com/justsurfingit/job-board/internal/dtos"
	"github.com/justsurfingit/job-board/internal/middleware"
	"github.com/justsurfingit/job-board/internal/models"
	"github.com/justsurfingit/job-board/internal/response"
	"github.com/justsurfingit/job-board/internal/services"
)

type Authenticator interface {
	Register(ctx context.Context, req *dtos.RegisterRequest) (*services.AuthResult, error)
	Login(ctx context.Context, req *dtos.LoginRequest) (*services.AuthResult, error)
	Me(ctx context.Context, caller models.Identity) (*models.User, error)
}

type AuthHandler struct {
	Auth Authenticator
}

func NewAuthHandler(a Authenticator) *AuthHandler {
	return &AuthHandler{Auth: a}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req dtos.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperr.Invalid("Name, a valid email and a password of at least 8 characters are required"))
		return
	}
	res, err := h.Auth.Register(c.Request.Context(), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, http.StatusCreated, res)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req dtos.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperr.Invalid("Email and password are required"))
		return
	}
	res, err := h.Auth.Login(c.Request.Context(), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, http.StatusOK, res)
}

// Me is the GET /auth/me endpoint
func (h *AuthHandler) Me(c *gin.Context) {
	caller, _ := middleware.Caller(c)
	user, err := h.Auth.Me(c.Request.Context(), caller)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, http.StatusOK, user)
}
