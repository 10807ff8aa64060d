package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/justsurfingit/job-board/internal/apperr"
	"github.com/justsurfingit/job-board/internal/models"
	"github.com/justsurfingit/job-board/internal/response"
)

const callerKey = "caller"

// TokenParser resolves a bearer token into the caller's identity.
type TokenParser interface {
	Parse(token string) (models.Identity, error)
}

// Authenticate rejects requests without a valid bearer token and stores the
// caller identity on the context.
func Authenticate(tokens TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		scheme, token, ok := strings.Cut(header, " ")
		if !ok || !strings.EqualFold(scheme, "bearer") || strings.TrimSpace(token) == "" {
			response.Error(c, apperr.New(apperr.Unauthenticated, "Not authorized, no token"))
			return
		}
		id, err := tokens.Parse(strings.TrimSpace(token))
		if err != nil {
			response.Error(c, apperr.Wrap(apperr.Unauthenticated, "Not authorized", err))
			return
		}
		c.Set(callerKey, id)
		c.Next()
	}
}

// RequireRoles rejects callers whose role is not in allowed.
func RequireRoles(allowed models.RoleSet) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := Caller(c)
		if !ok {
			response.Error(c, apperr.New(apperr.Unauthenticated, "Not authorized"))
			return
		}
		if !allowed.Allows(id.Role) {
			response.Error(c, apperr.New(apperr.Forbidden, "Role "+string(id.Role)+" is not authorized"))
			return
		}
		c.Next()
	}
}

func Caller(c *gin.Context) (models.Identity, bool) {
	v, ok := c.Get(callerKey)
	if !ok {
		return models.Identity{}, false
	}
	id, ok := v.(models.Identity)
	return id, ok
}
