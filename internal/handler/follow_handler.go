package handler

import (
	"net/http"
	"strconv"

	"github.com/answerhub/community-api/internal/service"
	"github.com/answerhub/community-api/pkg/response"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type FollowHandler struct {
	service service.FollowService
}

func NewFollowHandler(service service.FollowService) *FollowHandler {
	return &FollowHandler{service: service}
}

func (h *FollowHandler) Follow(c *gin.Context) {
	followingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	followerID, err := response.GetUserID(c)
	if err != nil {
		serviceError(c, err)
		return
	}

	if err := h.service.Follow(c.Request.Context(), followerID, followingID); err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "followed"})
}

func (h *FollowHandler) Unfollow(c *gin.Context) {
	followingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	followerID, err := response.GetUserID(c)
	if err != nil {
		serviceError(c, err)
		return
	}

	if err := h.service.Unfollow(c.Request.Context(), followerID, followingID); err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "unfollowed"})
}

func (h *FollowHandler) Followers(c *gin.Context) {
	userID, ok := pathUserID(c)
	if !ok {
		return
	}

	page, limit := pageParams(c)
	list, err := h.service.Followers(c.Request.Context(), userID, page, limit)
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, list)
}

func (h *FollowHandler) Following(c *gin.Context) {
	userID, ok := pathUserID(c)
	if !ok {
		return
	}

	page, limit := pageParams(c)
	list, err := h.service.Following(c.Request.Context(), userID, page, limit)
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, list)
}

func pathUserID(c *gin.Context) (uuid.UUID, bool) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return uuid.Nil, false
	}
	return userID, true
}

func pageParams(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return page, limit
}
