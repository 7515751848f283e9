package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/answerhub/community-api/pkg/ratelimiter"
	"github.com/answerhub/community-api/pkg/response"
	"github.com/answerhub/community-api/pkg/validator"
	"github.com/gin-gonic/gin"
)

// bindError renders binding/validation failures with readable field messages.
func bindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
}

// serviceError maps service failures onto HTTP responses. Rate limit errors
// get a Retry-After header; everything else goes through the shared mapping.
func serviceError(c *gin.Context, err error) {
	var rateLimitErr *ratelimiter.RateLimitError
	if errors.As(err, &rateLimitErr) {
		c.Header("Retry-After", fmt.Sprintf("%.0f", rateLimitErr.RetryAfter.Seconds()))
		c.JSON(http.StatusTooManyRequests, gin.H{
			"error":       rateLimitErr.Message,
			"retry_after": int(rateLimitErr.RetryAfter.Seconds()),
		})
		return
	}

	response.ResponseError(c, err)
}
