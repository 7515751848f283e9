package service

import (
	"context"
	"errors"
	"testing"

	"github.com/answerhub/community-api/pkg/apperror"
	"github.com/google/uuid"
)

func TestFollowRejectsSelfFollow(t *testing.T) {
	svc := NewFollowService(nil, nil, nil)

	userID := uuid.New()
	err := svc.Follow(context.Background(), userID, userID)

	if !errors.Is(err, apperror.ErrValidation) {
		t.Errorf("self-follow = %v, want ErrValidation", err)
	}
}
