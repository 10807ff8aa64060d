package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/justsurfingit/job-board/internal/apperr"
)

// Envelope is the body of every API response.
type Envelope struct {
	Success    bool        `json:"success"`
	Message    string      `json:"message,omitempty"`
	Count      *int        `json:"count,omitempty"`
	Total      *int64      `json:"total,omitempty"`
	Pagination interface{} `json:"pagination,omitempty"`
	Data       interface{} `json:"data,omitempty"`
	Error      string      `json:"error,omitempty"`
	Errors     []string    `json:"errors,omitempty"`
}

var kindStatus = map[apperr.Kind]int{
	apperr.InvalidInput:         http.StatusBadRequest,
	apperr.Unauthenticated:      http.StatusUnauthorized,
	apperr.Forbidden:            http.StatusForbidden,
	apperr.NotFound:             http.StatusNotFound,
	apperr.JobNotAvailable:      http.StatusNotFound,
	apperr.DuplicateApplication: http.StatusConflict,
	apperr.Conflict:             http.StatusConflict,
	apperr.RateLimited:          http.StatusTooManyRequests,
	apperr.Internal:             http.StatusInternalServerError,
}

func StatusFor(kind apperr.Kind) int {
	if status, ok := kindStatus[kind]; ok {
		return status
	}
	return http.StatusInternalServerError
}

func OK(c *gin.Context, status int, data interface{}) {
	c.JSON(status, Envelope{Success: true, Data: data})
}

func Message(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, Envelope{Success: true, Message: message, Data: data})
}

func List[T any](c *gin.Context, items []T) {
	if items == nil {
		items = []T{}
	}
	n := len(items)
	c.JSON(http.StatusOK, Envelope{Success: true, Count: &n, Data: items})
}

// Error writes err as a failure envelope. Only the message is exposed;
// unclassified errors become a generic 500.
func Error(c *gin.Context, err error) {
	var appErr *apperr.Error
	if !errors.As(err, &appErr) {
		appErr = apperr.New(apperr.Internal, "Internal server error")
	}
	status := StatusFor(appErr.Kind)

	body := Envelope{Success: false}
	if len(appErr.Details) > 1 {
		body.Errors = appErr.Details
	} else {
		body.Error = appErr.Message
	}
	if body.Error == "" && body.Errors == nil {
		body.Error = http.StatusText(status)
	}
	c.AbortWithStatusJSON(status, body)
}
