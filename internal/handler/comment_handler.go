package handler

import (
	"net/http"

	"github.com/answerhub/community-api/internal/dto"
	"github.com/answerhub/community-api/internal/service"
	"github.com/answerhub/community-api/pkg/response"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CommentHandler struct {
	service service.CommentService
}

func NewCommentHandler(service service.CommentService) *CommentHandler {
	return &CommentHandler{service: service}
}

func (h *CommentHandler) Create(c *gin.Context) {
	var req dto.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	userID, err := response.GetUserID(c)
	if err != nil {
		serviceError(c, err)
		return
	}

	comment, err := h.service.Create(c.Request.Context(), userID, req)
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, comment)
}

func (h *CommentHandler) ListByQuestion(c *gin.Context) {
	questionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid question id"})
		return
	}

	comments, err := h.service.ListByQuestion(c.Request.Context(), questionID)
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": comments})
}

func (h *CommentHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid comment id"})
		return
	}

	var req dto.UpdateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	userID, err := response.GetUserID(c)
	if err != nil {
		serviceError(c, err)
		return
	}

	comment, err := h.service.Update(c.Request.Context(), userID, id, req)
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, comment)
}

func (h *CommentHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid comment id"})
		return
	}

	userID, err := response.GetUserID(c)
	if err != nil {
		serviceError(c, err)
		return
	}

	if err := h.service.Delete(c.Request.Context(), userID, callerIsModerator(c), id); err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "comment deleted"})
}

// Accept marks a comment as the accepted answer for its question.
func (h *CommentHandler) Accept(c *gin.Context) {
	commentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid comment id"})
		return
	}

	userID, err := response.GetUserID(c)
	if err != nil {
		serviceError(c, err)
		return
	}

	if err := h.service.Accept(c.Request.Context(), userID, commentID); err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "answer accepted"})
}

// Unaccept clears the accepted answer of a question.
func (h *CommentHandler) Unaccept(c *gin.Context) {
	questionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid question id"})
		return
	}

	userID, err := response.GetUserID(c)
	if err != nil {
		serviceError(c, err)
		return
	}

	if err := h.service.Unaccept(c.Request.Context(), userID, questionID); err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "accepted answer cleared"})
}
