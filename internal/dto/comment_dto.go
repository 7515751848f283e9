package dto

import "github.com/google/uuid"

type CreateCommentRequest struct {
	QuestionID string   `json:"question_id" binding:"required,uuid"`
	ParentID   string   `json:"parent_id" binding:"omitempty,uuid"`
	Content    string   `json:"content" binding:"required,min=2"`
	Images     []string `json:"images" binding:"max=3"`
}

type UpdateCommentRequest struct {
	Content *string   `json:"content" binding:"omitempty,min=2"`
	Images  *[]string `json:"images" binding:"omitempty,max=3"`
}

type CommentResponse struct {
	ID         uuid.UUID         `json:"id"`
	QuestionID uuid.UUID         `json:"question_id"`
	ParentID   *uuid.UUID        `json:"parent_id,omitempty"`
	Content    string            `json:"content"`
	Images     []string          `json:"images"`
	Author     AuthorResponse    `json:"author"`
	IsAccepted bool              `json:"is_accepted"`
	IsByExpert bool              `json:"is_by_expert"`
	VoteScore  int               `json:"vote_score"`
	CreatedAt  string            `json:"created_at"`
	Replies    []CommentResponse `json:"replies"`
}
