package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type VoteType string

const (
	VoteUp   VoteType = "UP"
	VoteDown VoteType = "DOWN"
)

// Delta is the contribution of a single vote to the target's score.
func (t VoteType) Delta() int {
	switch t {
	case VoteUp:
		return 1
	case VoteDown:
		return -1
	}
	return 0
}

func (t VoteType) Valid() bool {
	return t == VoteUp || t == VoteDown
}

// ScoreDelta is the score adjustment when a user's vote on a target moves
// from prev to next. The empty string means "no vote".
func ScoreDelta(prev, next VoteType) int {
	return next.Delta() - prev.Delta()
}

type TargetKind string

const (
	TargetQuestion TargetKind = "question"
	TargetComment  TargetKind = "comment"
)

// VoteTarget is the tagged variant the ledger API works with. The storage
// representation (two nullable foreign keys) never leaks past the repository.
type VoteTarget struct {
	Kind TargetKind
	ID   uuid.UUID
}

func QuestionTarget(id uuid.UUID) VoteTarget {
	return VoteTarget{Kind: TargetQuestion, ID: id}
}

func CommentTarget(id uuid.UUID) VoteTarget {
	return VoteTarget{Kind: TargetComment, ID: id}
}

func (t VoteTarget) Valid() bool {
	if t.ID == uuid.Nil {
		return false
	}
	return t.Kind == TargetQuestion || t.Kind == TargetComment
}

// Vote references exactly one of QuestionID / CommentID. The two composite
// unique indexes enforce at most one vote per (user, target); rows where the
// nullable column is NULL never collide on that index.
type Vote struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_votes_user_question,priority:1;uniqueIndex:idx_votes_user_comment,priority:1" json:"user_id"`
	User       User       `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	QuestionID *uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_votes_user_question,priority:2;index" json:"question_id,omitempty"`
	Question   *Question  `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	CommentID  *uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_votes_user_comment,priority:2;index" json:"comment_id,omitempty"`
	Comment    *Comment   `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Type       VoteType   `gorm:"size:10;not null" json:"type"`
	CreatedAt  time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (v *Vote) BeforeCreate(tx *gorm.DB) (err error) {
	if v.ID == uuid.Nil {
		v.ID, err = uuid.NewV7()
	}
	return
}

// Target reconstructs the tagged variant from the stored row.
func (v *Vote) Target() VoteTarget {
	if v.QuestionID != nil {
		return QuestionTarget(*v.QuestionID)
	}
	if v.CommentID != nil {
		return CommentTarget(*v.CommentID)
	}
	return VoteTarget{}
}
