package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/justsurfingit/job-board/internal/apperr"
	"github.com/justsurfingit/job-board/internal/dtos"
	"github.com/justsurfingit/job-board/internal/middleware"
	"github.com/justsurfingit/job-board/internal/models"
	"github.com/justsurfingit/job-board/internal/response"
)

// ApplicationEngine is the application lifecycle as seen by the HTTP layer.
type ApplicationEngine interface {
	Submit(ctx context.Context, caller models.Identity, jobID string, req dtos.ApplicationRequest) (*models.ApplicationView, error)
	ListForApplicant(ctx context.Context, caller models.Identity) ([]models.ApplicationView, error)
	ListForJob(ctx context.Context, caller models.Identity, jobID string) ([]models.ApplicationView, error)
	Get(ctx context.Context, caller models.Identity, applicationID string) (*models.ApplicationView, error)
	UpdateStatus(ctx context.Context, caller models.Identity, applicationID, status string) (*models.ApplicationView, error)
}

type ApplicationHandler struct {
	Engine ApplicationEngine
}

func NewApplicationHandler(engine ApplicationEngine) *ApplicationHandler {
	return &ApplicationHandler{Engine: engine}
}

// Apply is the POST /jobs/:jobId/apply endpoint
func (h *ApplicationHandler) Apply(c *gin.Context) {
	jobID, ok := pathID(c, "jobId", "Invalid job ID")
	if !ok {
		return
	}
	caller, _ := middleware.Caller(c)

	// An empty body still goes through the submit checks so that an
	// unavailable job is reported before missing fields.
	var req dtos.ApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		response.Error(c, apperr.Invalid("Invalid JSON format"))
		return
	}

	view, err := h.Engine.Submit(c.Request.Context(), caller, jobID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusCreated, "Application submitted successfully", view)
}

// MyApplications is the GET /applications/my-applications endpoint
func (h *ApplicationHandler) MyApplications(c *gin.Context) {
	caller, _ := middleware.Caller(c)
	views, err := h.Engine.ListForApplicant(c.Request.Context(), caller)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.List(c, views)
}

// JobApplications is the GET /jobs/:jobId/applications endpoint
func (h *ApplicationHandler) JobApplications(c *gin.Context) {
	jobID, ok := pathID(c, "jobId", "Invalid job ID")
	if !ok {
		return
	}
	caller, _ := middleware.Caller(c)
	views, err := h.Engine.ListForJob(c.Request.Context(), caller, jobID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.List(c, views)
}

func (h *ApplicationHandler) GetApplication(c *gin.Context) {
	id, ok := pathID(c, "applicationId", "Invalid application ID")
	if !ok {
		return
	}
	caller, _ := middleware.Caller(c)
	view, err := h.Engine.Get(c.Request.Context(), caller, id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, http.StatusOK, view)
}

// UpdateStatus is the PUT /applications/:applicationId/status endpoint
func (h *ApplicationHandler) UpdateStatus(c *gin.Context) {
	id, ok := pathID(c, "applicationId", "Invalid application ID")
	if !ok {
		return
	}
	var req dtos.StatusUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		response.Error(c, apperr.Invalid("Invalid JSON format"))
		return
	}
	caller, _ := middleware.Caller(c)
	view, err := h.Engine.UpdateStatus(c.Request.Context(), caller, id, req.Status)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusOK, fmt.Sprintf("Application status updated to %s", view.Status), view)
}
