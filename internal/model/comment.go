package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Comment struct {
	ID         uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	QuestionID uuid.UUID      `gorm:"type:uuid;not null;index" json:"question_id"`
	Question   Question       `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	AuthorID   uuid.UUID      `gorm:"type:uuid;not null;index" json:"author_id"`
	Author     User           `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"author,omitempty"`
	ParentID   *uuid.UUID     `gorm:"type:uuid;index" json:"parent_id,omitempty"`
	Parent     *Comment       `gorm:"foreignKey:ParentID;constraint:OnDelete:CASCADE" json:"-"`
	Content    string         `gorm:"type:text;not null" json:"content"`
	Images     datatypes.JSON `json:"images,omitempty"`
	IsAccepted bool           `gorm:"default:false" json:"is_accepted"`
	IsByExpert bool           `gorm:"default:false" json:"is_by_expert"`
	// VoteScore is denormalized from the votes table, see Question.VoteScore.
	VoteScore int       `gorm:"default:0" json:"vote_score"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (c *Comment) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == uuid.Nil {
		c.ID, err = uuid.NewV7()
	}
	return
}
