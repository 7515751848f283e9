package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type User struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Username     string         `gorm:"size:50;uniqueIndex;not null" json:"username"`
	Email        string         `gorm:"size:100;uniqueIndex;not null" json:"email"`
	PasswordHash string         `gorm:"size:255;not null" json:"-"`
	FullName     string         `gorm:"size:100" json:"full_name"`
	Bio          *string        `gorm:"type:text" json:"bio,omitempty"`
	AvatarURL    *string        `gorm:"type:text" json:"avatar_url,omitempty"`
	Reputation   int            `gorm:"default:0" json:"reputation"`
	Level        int            `gorm:"default:1" json:"level"`
	Badges       datatypes.JSON `json:"badges,omitempty"` // list of badge slugs
	IsModerator  bool           `gorm:"default:false" json:"is_moderator"`
	IsExpert     bool           `gorm:"default:false" json:"is_expert"`
	IsVerified   bool           `gorm:"default:false" json:"is_verified"`
	CreatedAt    time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
