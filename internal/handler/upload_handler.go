package handler

import (
	"net/http"

	"github.com/answerhub/community-api/pkg/storage"
	"github.com/gin-gonic/gin"
)

const maxUploadSize = 5 << 20 // 5 MB

type UploadHandler struct {
	storage storage.ImageStorage
}

func NewUploadHandler(storage storage.ImageStorage) *UploadHandler {
	return &UploadHandler{storage: storage}
}

// UploadImage stores an image and returns its URL. Clients attach the URL
// to questions or comments afterwards.
func (h *UploadHandler) UploadImage(c *gin.Context) {
	if h.storage == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "image uploads are not configured"})
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image file is required"})
		return
	}
	if fileHeader.Size > maxUploadSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image must be smaller than 5MB"})
		return
	}

	folder := c.DefaultPostForm("folder", "attachments")
	if folder != "attachments" && folder != "avatars" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "folder must be attachments or avatars"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read image file"})
		return
	}
	defer file.Close()

	url, err := h.storage.UploadImage(c.Request.Context(), file, folder, fileHeader.Filename)
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"url": url})
}
