package handlers

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/justsurfingit/job-board/internal/metrics"
	"github.com/justsurfingit/job-board/internal/middleware"
	"github.com/justsurfingit/job-board/internal/models"
	"github.com/sirupsen/logrus"
)

type RouterDeps struct {
	Log            *logrus.Logger
	Metrics        *metrics.Metrics
	Tokens         middleware.TokenParser
	AllowedOrigins []string

	Jobs         *JobHandler
	Applications *ApplicationHandler
	Auth         *AuthHandler
}

var reviewerRoles = models.NewRoleSet(models.RoleEmployer, models.RoleAdmin)

func NewRouter(d RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(d.Log), middleware.Metrics(d.Metrics))

	config := cors.DefaultConfig()
	if len(d.AllowedOrigins) == 0 || (len(d.AllowedOrigins) == 1 && d.AllowedOrigins[0] == "*") {
		config.AllowAllOrigins = true
	} else {
		config.AllowOrigins = d.AllowedOrigins
	}
	config.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	r.Use(cors.New(config))

	r.GET("/metrics", gin.WrapH(d.Metrics.Handler()))

	authn := middleware.Authenticate(d.Tokens)
	reviewers := middleware.RequireRoles(reviewerRoles)

	api := r.Group("/api")
	{
		api.GET("/health", HealthCheck)

		api.POST("/auth/register", d.Auth.Register)
		api.POST("/auth/login", d.Auth.Login)
		api.GET("/auth/me", authn, d.Auth.Me)

		// Job Routes
		api.GET("/jobs", d.Jobs.ListJobs)
		api.GET("/jobs/:jobId", d.Jobs.GetJob)
		api.POST("/jobs", authn, reviewers, d.Jobs.CreateJob)
		api.PATCH("/jobs/:jobId/active", authn, reviewers, d.Jobs.SetActive)

		// Application Routes
		api.POST("/jobs/:jobId/apply", authn, d.Applications.Apply)
		api.GET("/jobs/:jobId/applications", authn, reviewers, d.Applications.JobApplications)
		api.GET("/applications/my-applications", authn, d.Applications.MyApplications)
		api.GET("/applications/:applicationId", authn, d.Applications.GetApplication)
		api.PUT("/applications/:applicationId/status", authn, reviewers, d.Applications.UpdateStatus)
	}
	return r
}
