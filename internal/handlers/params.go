package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/justsurfingit/job-board/internal/apperr"
	"github.com/justsurfingit/job-board/internal/response"
)

// pathID reads a uuid path parameter and writes a 400 when it is malformed.
func pathID(c *gin.Context, name, message string) (string, bool) {
	raw := c.Param(name)
	if _, err := uuid.Parse(raw); err != nil {
		response.Error(c, apperr.Invalid(message))
		return "", false
	}
	return raw, true
}
