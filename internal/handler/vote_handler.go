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

type VoteHandler struct {
	service service.VoteService
}

func NewVoteHandler(service service.VoteService) *VoteHandler {
	return &VoteHandler{service: service}
}

func (h *VoteHandler) Cast(c *gin.Context) {
	var req dto.CastVoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	userID, err := response.GetUserID(c)
	if err != nil {
		serviceError(c, err)
		return
	}

	target, ok := parseTarget(c, req.TargetType, req.TargetID)
	if !ok {
		return
	}

	status, err := h.service.Cast(c.Request.Context(), userID, target, model.VoteType(req.Type))
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, status)
}

func (h *VoteHandler) Retract(c *gin.Context) {
	var req dto.RetractVoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	userID, err := response.GetUserID(c)
	if err != nil {
		serviceError(c, err)
		return
	}

	target, ok := parseTarget(c, req.TargetType, req.TargetID)
	if !ok {
		return
	}

	status, err := h.service.Retract(c.Request.Context(), userID, target)
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, status)
}

// Status reports counts and the caller's own vote for ?target_type=&target_id=.
func (h *VoteHandler) Status(c *gin.Context) {
	target, ok := parseTarget(c, c.Query("target_type"), c.Query("target_id"))
	if !ok {
		return
	}

	var userID *uuid.UUID
	if id, err := response.GetUserID(c); err == nil {
		userID = &id
	}

	status, err := h.service.GetStatus(c.Request.Context(), userID, target)
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, status)
}

func parseTarget(c *gin.Context, targetType, targetID string) (model.VoteTarget, bool) {
	id, err := uuid.Parse(targetID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid target id"})
		return model.VoteTarget{}, false
	}

	switch model.TargetKind(targetType) {
	case model.TargetQuestion:
		return model.QuestionTarget(id), true
	case model.TargetComment:
		return model.CommentTarget(id), true
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "target_type must be question or comment"})
		return model.VoteTarget{}, false
	}
}
