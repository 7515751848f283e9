package response

import (
	"log"
	"net/http"

	"github.com/answerhub/community-api/pkg/apperror"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// GetUserID returns the caller's ID as stored by the auth middleware
// (RequireAuth always, OptionalAuth only when a valid token was sent).
func GetUserID(c *gin.Context) (uuid.UUID, error) {
	raw, exists := c.Get("user_id")
	if !exists {
		return uuid.Nil, apperror.ErrUnauthorized
	}

	idStr, ok := raw.(string)
	if !ok {
		return uuid.Nil, apperror.ErrUnauthorized
	}

	userID, err := uuid.Parse(idStr)
	if err != nil {
		return uuid.Nil, apperror.ErrUnauthorized
	}

	return userID, nil
}

// ResponseError writes the JSON error body with the status mapped from the
// error taxonomy. Rate-limit errors never reach this; the handlers answer
// those directly so they can set the Retry-After header.
func ResponseError(c *gin.Context, err error) {
	code := apperror.MapErrorToStatus(err)

	if code == http.StatusInternalServerError {
		log.Printf("[Internal Error]: %v", err)
	}

	c.JSON(code, gin.H{"error": err.Error()})
}
