package handler

import (
	"net/http"
	"strconv"

	"github.com/answerhub/community-api/internal/service"
	"github.com/gin-gonic/gin"
)

type SearchHandler struct {
	service service.SearchService
}

func NewSearchHandler(service service.SearchService) *SearchHandler {
	return &SearchHandler{service: service}
}

// Search queries the questions index. Supported params: q, category_id,
// solved, page, limit.
func (h *SearchHandler) Search(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query parameter q is required"})
		return
	}

	var solved *bool
	if solvedStr := c.Query("solved"); solvedStr != "" {
		value, err := strconv.ParseBool(solvedStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "solved must be true or false"})
			return
		}
		solved = &value
	}

	page, limit := pageParams(c)

	result, err := h.service.Search(query, c.Query("category_id"), solved, page, limit)
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
