package dto

import "github.com/google/uuid"

type AuthorResponse struct {
	ID         uuid.UUID `json:"id"`
	Username   string    `json:"username"`
	AvatarURL  *string   `json:"avatar_url"`
	Reputation int       `json:"reputation"`
	Level      int       `json:"level"`
	IsExpert   bool      `json:"is_expert"`
	IsVerified bool      `json:"is_verified"`
}

type PaginationMeta struct {
	CurrentPage int   `json:"current_page"`
	TotalPages  int   `json:"total_pages"`
	TotalItems  int64 `json:"total_items"`
	Limit       int   `json:"limit"`
}
