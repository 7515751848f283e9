package handler

import (
	"net/http"

	"github.com/answerhub/community-api/internal/dto"
	"github.com/answerhub/community-api/internal/service"
	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	service service.AuthService
}

func NewAuthHandler(service service.AuthService) *AuthHandler {
	return &AuthHandler{service: service}
}

// Register accepts multipart form data so the avatar can be uploaded in the
// same request.
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterInput
	if err := c.ShouldBind(&req); err != nil {
		bindError(c, err)
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

	resp, err := h.service.Register(c.Request.Context(), req, avatar)
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginInput
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	resp, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
