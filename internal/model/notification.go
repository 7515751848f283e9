package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type NotificationType string

const (
	NotificationNewComment      NotificationType = "NEW_COMMENT"
	NotificationQuestionSolved  NotificationType = "QUESTION_SOLVED"
	NotificationNewFollower     NotificationType = "NEW_FOLLOWER"
	NotificationExpertReply     NotificationType = "EXPERT_REPLY"
	NotificationUpvoteMilestone NotificationType = "UPVOTE_MILESTONE"
	NotificationBadgeEarned     NotificationType = "BADGE_EARNED"
	NotificationSystemAlert     NotificationType = "SYSTEM_ALERT"
)

type Notification struct {
	ID      uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	UserID  uuid.UUID        `gorm:"type:uuid;not null;index" json:"user_id"` // recipient
	User    *User            `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Type    NotificationType `gorm:"size:50;not null" json:"type"`
	Title   string           `gorm:"size:255;not null" json:"title"`
	Message string           `gorm:"type:text" json:"message"`
	// Payload is opaque to the server; it carries whatever the client needs
	// to route (actor, target ids, milestone value).
	Payload   datatypes.JSON `json:"payload,omitempty"`
	IsRead    bool           `gorm:"default:false" json:"is_read"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
}

func (n *Notification) BeforeCreate(tx *gorm.DB) (err error) {
	if n.ID == uuid.Nil {
		n.ID, err = uuid.NewV7()
	}
	return
}
