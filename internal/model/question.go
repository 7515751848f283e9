package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Question struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	AuthorID    uuid.UUID      `gorm:"type:uuid;not null;index" json:"author_id"`
	Author      User           `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"author,omitempty"`
	CategoryID  uuid.UUID      `gorm:"type:uuid;not null;index" json:"category_id"`
	Category    Category       `gorm:"constraint:OnDelete:RESTRICT" json:"category,omitempty"`
	Title       string         `gorm:"size:255;not null" json:"title"`
	Content     string         `gorm:"type:text;not null" json:"content"`
	Tags        datatypes.JSON `json:"tags,omitempty"`
	Images      datatypes.JSON `json:"images,omitempty"`
	IsSolved    bool           `gorm:"default:false" json:"is_solved"`
	IsPinned    bool           `gorm:"default:false" json:"is_pinned"`
	IsUrgent    bool           `gorm:"default:false" json:"is_urgent"`
	IsAnonymous bool           `gorm:"default:false" json:"is_anonymous"`
	ViewCount   int            `gorm:"default:0" json:"view_count"`
	// VoteScore is denormalized from the votes table and mutated only by the
	// vote ledger, inside the same transaction as the vote row.
	VoteScore int       `gorm:"default:0" json:"vote_score"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (q *Question) BeforeCreate(tx *gorm.DB) (err error) {
	if q.ID == uuid.Nil {
		q.ID, err = uuid.NewV7()
	}
	return
}
