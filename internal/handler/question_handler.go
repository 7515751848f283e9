package handler

import (
	"net/http"

	"github.com/answerhub/community-api/internal/dto"
	"github.com/answerhub/community-api/internal/model"
	"github.com/answerhub/community-api/internal/service"
	"github.com/answerhub/community-api/pkg/response"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type QuestionHandler struct {
	service service.QuestionService
}

func NewQuestionHandler(service service.QuestionService) *QuestionHandler {
	return &QuestionHandler{service: service}
}

func (h *QuestionHandler) Create(c *gin.Context) {
	var req dto.CreateQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	userID, err := response.GetUserID(c)
	if err != nil {
		serviceError(c, err)
		return
	}

	question, err := h.service.Create(c.Request.Context(), userID, req)
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, question)
}

func (h *QuestionHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid question id"})
		return
	}

	// Viewer identity is optional; it only drives view counting.
	var viewerID *uuid.UUID
	if userID, err := response.GetUserID(c); err == nil {
		viewerID = &userID
	}

	question, err := h.service.Get(c.Request.Context(), id, viewerID)
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, question)
}

func (h *QuestionHandler) List(c *gin.Context) {
	var filter dto.QuestionFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		bindError(c, err)
		return
	}

	questions, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, questions)
}

func (h *QuestionHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid question id"})
		return
	}

	var req dto.UpdateQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	userID, err := response.GetUserID(c)
	if err != nil {
		serviceError(c, err)
		return
	}

	question, err := h.service.Update(c.Request.Context(), userID, id, req)
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, question)
}

// Moderate is mounted behind the moderator middleware.
func (h *QuestionHandler) Moderate(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid question id"})
		return
	}

	var req dto.ModerateQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	if err := h.service.Moderate(c.Request.Context(), id, req); err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "question updated"})
}

func (h *QuestionHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid question id"})
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

	c.JSON(http.StatusOK, gin.H{"message": "question deleted"})
}

// callerIsModerator reads the user loaded by the moderator middleware, if any.
func callerIsModerator(c *gin.Context) bool {
	if value, exists := c.Get("user"); exists {
		if user, ok := value.(*model.User); ok {
			return user.IsModerator
		}
	}
	return false
}
