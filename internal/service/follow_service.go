package service

import (
	"context"
	"fmt"
	"log"

	"github.com/answerhub/community-api/internal/dto"
	"github.com/answerhub/community-api/internal/model"
	"github.com/answerhub/community-api/internal/repository"
	"github.com/answerhub/community-api/pkg/apperror"
	"github.com/google/uuid"
)

type FollowService interface {
	// Follow creates the follower->following edge. Duplicate follows surface
	// as a conflict; self-follows are rejected outright.
	Follow(ctx context.Context, followerID, followingID uuid.UUID) error
	// Unfollow is a no-op when no edge exists.
	Unfollow(ctx context.Context, followerID, followingID uuid.UUID) error
	Followers(ctx context.Context, userID uuid.UUID, page, limit int) (*dto.FollowListResponse, error)
	Following(ctx context.Context, userID uuid.UUID, page, limit int) (*dto.FollowListResponse, error)
}

type followService struct {
	repo                repository.FollowRepository
	userRepo            repository.UserRepository
	notificationService NotificationService
}

func NewFollowService(repo repository.FollowRepository, userRepo repository.UserRepository, notificationService NotificationService) FollowService {
	return &followService{
		repo:                repo,
		userRepo:            userRepo,
		notificationService: notificationService,
	}
}

func (s *followService) Follow(ctx context.Context, followerID, followingID uuid.UUID) error {
	if followerID == followingID {
		return apperror.Wrap(apperror.ErrValidation, "you cannot follow yourself")
	}

	if _, err := s.userRepo.FindByID(ctx, followingID); err != nil {
		return err
	}

	follow := &model.Follow{
		FollowerID:  followerID,
		FollowingID: followingID,
	}
	// The unique (follower, following) index turns a repeat into ErrConflict
	if err := s.repo.Create(ctx, follow); err != nil {
		return err
	}

	go func() {
		follower, err := s.userRepo.FindByID(context.Background(), followerID)
		if err != nil {
			log.Printf("Failed to load follower %s for notification: %v", followerID, err)
			return
		}

		notification := &model.Notification{
			UserID:  followingID,
			Type:    model.NotificationNewFollower,
			Title:   "New follower",
			Message: fmt.Sprintf("%s started following you", follower.Username),
			Payload: payloadJSON(map[string]any{
				"follower_id": followerID.String(),
			}),
		}
		if err := s.notificationService.Create(context.Background(), notification); err != nil {
			log.Printf("Failed to create follower notification: %v", err)
		}
	}()

	return nil
}

func (s *followService) Unfollow(ctx context.Context, followerID, followingID uuid.UUID) error {
	return s.repo.Delete(ctx, followerID, followingID)
}

func (s *followService) Followers(ctx context.Context, userID uuid.UUID, page, limit int) (*dto.FollowListResponse, error) {
	return s.list(ctx, userID, page, limit, true)
}

func (s *followService) Following(ctx context.Context, userID uuid.UUID, page, limit int) (*dto.FollowListResponse, error) {
	return s.list(ctx, userID, page, limit, false)
}

func (s *followService) list(ctx context.Context, userID uuid.UUID, page, limit int, followers bool) (*dto.FollowListResponse, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 || limit > 50 {
		limit = 20
	}
	offset := (page - 1) * limit

	var (
		users []*model.User
		total int64
		err   error
	)
	if followers {
		users, err = s.repo.ListFollowers(ctx, userID, limit, offset)
		if err == nil {
			total, err = s.repo.CountFollowers(ctx, userID)
		}
	} else {
		users, err = s.repo.ListFollowing(ctx, userID, limit, offset)
		if err == nil {
			total, err = s.repo.CountFollowing(ctx, userID)
		}
	}
	if err != nil {
		return nil, err
	}

	resp := &dto.FollowListResponse{
		Data: make([]dto.AuthorResponse, 0, len(users)),
		Meta: dto.PaginationMeta{
			CurrentPage: page,
			TotalPages:  int((total + int64(limit) - 1) / int64(limit)),
			TotalItems:  total,
			Limit:       limit,
		},
	}
	for _, user := range users {
		if author := toAuthorResponse(user); author != nil {
			resp.Data = append(resp.Data, *author)
		}
	}
	return resp, nil
}
