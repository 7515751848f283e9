package dto

import (
	"io"

	"github.com/answerhub/community-api/internal/model"
)

type RegisterInput struct {
	Username string  `json:"username" form:"username" binding:"required,min=3,max=50"`
	Email    string  `json:"email" form:"email" binding:"required,email"`
	Password string  `json:"password" form:"password" binding:"required,min=8"`
	FullName string  `json:"full_name" form:"full_name" binding:"required"`
	Bio      *string `json:"bio" form:"bio"`
}

type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AvatarFile represents an uploaded avatar image.
type AvatarFile struct {
	Reader   io.Reader
	FileName string
}

type AuthResponse struct {
	AccessToken string      `json:"access_token"`
	TokenType   string      `json:"token_type"`
	ExpiresIn   int64       `json:"expires_in"`
	User        *model.User `json:"user"`
}
