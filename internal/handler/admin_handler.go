package handler

import (
	"net/http"

	"github.com/answerhub/community-api/internal/dto"
	"github.com/answerhub/community-api/internal/service"
	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	notifications service.NotificationService
}

func NewAdminHandler(notifications service.NotificationService) *AdminHandler {
	return &AdminHandler{notifications: notifications}
}

// Broadcast fans a system alert out to every user.
func (h *AdminHandler) Broadcast(c *gin.Context) {
	var req dto.BroadcastRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	if err := h.notifications.Broadcast(c.Request.Context(), req.Title, req.Message); err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "broadcast sent"})
}
