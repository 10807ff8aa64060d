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

type JobCatalog interface {
	CreateJob(ctx context.Context, caller models.Identity, req *dtos.JobCreationRequest) (*models.Job, error)
	ListJobs(ctx context.Context, q dtos.JobListQuery) (*services.JobPage, error)
	GetJob(ctx context.Context, id string) (*models.Job, error)
	SetActive(ctx context.Context, caller models.Identity, id string, active bool) (*models.Job, error)
}

type JobHandler struct {
	Jobs JobCatalog
}

func NewJobHandler(jobs JobCatalog) *JobHandler {
	return &JobHandler{Jobs: jobs}
}

// ListJobs is the GET /jobs endpoint
func (h *JobHandler) ListJobs(c *gin.Context) {
	var q dtos.JobListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, apperr.Invalid("Invalid query parameters"))
		return
	}
	page, err := h.Jobs.ListJobs(c.Request.Context(), q)
	if err != nil {
		response.Error(c, err)
		return
	}
	jobs := page.Jobs
	if jobs == nil {
		jobs = []models.Job{}
	}
	count := len(jobs)
	c.JSON(http.StatusOK, response.Envelope{
		Success:    true,
		Count:      &count,
		Total:      &page.Total,
		Pagination: page.Pagination,
		Data:       jobs,
	})
}

func (h *JobHandler) GetJob(c *gin.Context) {
	id, ok := pathID(c, "jobId", "Invalid job ID")
	if !ok {
		return
	}
	job, err := h.Jobs.GetJob(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, http.StatusOK, job)
}

// CreateJob is the POST /jobs endpoint
func (h *JobHandler) CreateJob(c *gin.Context) {
	var req dtos.JobCreationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperr.Invalid("Invalid JSON format"))
		return
	}
	caller, _ := middleware.Caller(c)
	job, err := h.Jobs.CreateJob(c.Request.Context(), caller, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, http.StatusCreated, job)
}

func (h *JobHandler) SetActive(c *gin.Context) {
	id, ok := pathID(c, "jobId", "Invalid job ID")
	if !ok {
		return
	}
	var req dtos.JobActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperr.Invalid("is_active is required"))
		return
	}
	caller, _ := middleware.Caller(c)
	job, err := h.Jobs.SetActive(c.Request.Context(), caller, id, *req.IsActive)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, http.StatusOK, job)
}
