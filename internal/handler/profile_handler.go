package handler

import (
	"net/http"

	"github.com/answerhub/community-api/internal/dto"
	"github.com/answerhub/community-api/internal/service"
	"github.com/answerhub/community-api/pkg/response"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ProfileHandler struct {
	service service.ProfileService
}

func NewProfileHandler(service service.ProfileService) *ProfileHandler {
	return &ProfileHandler{service: service}
}

// GetByUsername is public; an authenticated viewer additionally gets the
// is_followed_by_me flag.
func (h *ProfileHandler) GetByUsername(c *gin.Context) {
	username := c.Param("username")

	var viewerID *uuid.UUID
	if userID, err := response.GetUserID(c); err == nil {
		viewerID = &userID
	}

	profile, err := h.service.GetByUsername(c.Request.Context(), username, viewerID)
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

func (h *ProfileHandler) GetMe(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		serviceError(c, err)
		return
	}

	profile, err := h.service.GetMe(c.Request.Context(), userID)
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

// UpdateMe accepts multipart form data so a new avatar can ride along.
func (h *ProfileHandler) UpdateMe(c *gin.Context) {
	var req dto.UpdateProfileRequest
	if err := c.ShouldBind(&req); err != nil {
		bindError(c, err)
		return
	}

	userID, err := response.GetUserID(c)
	if err != nil {
		serviceError(c, err)
		return
	}

	var avatar *dto.AvatarFile
	if fileHeader, err := c.FormFile("avatar"); err == nil {
		file, err := fileHeader.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read avatar file"})
			return
		}
		defer file.Close()
		avatar = &dto.AvatarFile{Reader: file, FileName: fileHeader.Filename}
	}

	user, err := h.service.UpdateProfile(c.Request.Context(), userID, req, avatar)
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}
