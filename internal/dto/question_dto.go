package dto

import "github.com/google/uuid"

type CreateQuestionRequest struct {
	Title       string   `json:"title" binding:"required,min=10,max=255"`
	Content     string   `json:"content" binding:"required,min=20"`
	CategoryID  string   `json:"category_id" binding:"required,uuid"`
	Tags        []string `json:"tags" binding:"max=5"`
	Images      []string `json:"images" binding:"max=5"`
	IsUrgent    bool     `json:"is_urgent"`
	IsAnonymous bool     `json:"is_anonymous"`
}

type UpdateQuestionRequest struct {
	Title   *string   `json:"title" binding:"omitempty,min=10,max=255"`
	Content *string   `json:"content" binding:"omitempty,min=20"`
	Tags    *[]string `json:"tags" binding:"omitempty,max=5"`
	Images  *[]string `json:"images" binding:"omitempty,max=5"`
}

type ModerateQuestionRequest struct {
	IsPinned *bool `json:"is_pinned"`
	IsUrgent *bool `json:"is_urgent"`
}

type QuestionFilter struct {
	CategoryID string `form:"category_id" binding:"omitempty,uuid"`
	Tag        string `form:"tag"`
	Solved     *bool  `form:"solved"`
	SortBy     string `form:"sort_by" binding:"omitempty,oneof=newest top views"`
	Page       int    `form:"page,default=1" binding:"min=1"`
	Limit      int    `form:"limit,default=10" binding:"min=1,max=50"`
}

type QuestionResponse struct {
	ID           uuid.UUID       `json:"id"`
	Title        string          `json:"title"`
	Content      string          `json:"content"`
	CategoryID   uuid.UUID       `json:"category_id"`
	CategoryName string          `json:"category_name"`
	Tags         []string        `json:"tags"`
	Images       []string        `json:"images"`
	Author       *AuthorResponse `json:"author"` // nil for anonymous questions
	IsSolved     bool            `json:"is_solved"`
	IsPinned     bool            `json:"is_pinned"`
	IsUrgent     bool            `json:"is_urgent"`
	IsAnonymous  bool            `json:"is_anonymous"`
	ViewCount    int             `json:"view_count"`
	VoteScore    int             `json:"vote_score"`
	CommentCount int64           `json:"comment_count"`
	CreatedAt    string          `json:"created_at"`
	UpdatedAt    string          `json:"updated_at"`
}

type PaginatedQuestionResponse struct {
	Data []QuestionResponse `json:"data"`
	Meta PaginationMeta     `json:"meta"`
}
