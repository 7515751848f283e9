package dto

import "github.com/answerhub/community-api/internal/model"

type CreateCategoryRequest struct {
	Name        string `json:"name" binding:"required,min=2,max=100"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Color       string `json:"color"`
	SortOrder   int    `json:"sort_order"`
}

type FollowListResponse struct {
	Data []AuthorResponse `json:"data"`
	Meta PaginationMeta   `json:"meta"`
}

type ProfileResponse struct {
	User           *model.User `json:"user"`
	FollowerCount  int64       `json:"follower_count"`
	FollowingCount int64       `json:"following_count"`
	IsFollowedByMe bool        `json:"is_followed_by_me"`
}

type UpdateProfileRequest struct {
	FullName *string `json:"full_name" form:"full_name" binding:"omitempty,max=100"`
	Bio      *string `json:"bio" form:"bio" binding:"omitempty,max=500"`
}

type BroadcastRequest struct {
	Title   string `json:"title" binding:"required,max=255"`
	Message string `json:"message" binding:"required"`
}
