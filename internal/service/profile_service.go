package service

import (
	"context"

	"github.com/answerhub/community-api/internal/dto"
	"github.com/answerhub/community-api/internal/model"
	"github.com/answerhub/community-api/internal/repository"
	"github.com/answerhub/community-api/pkg/storage"
	"github.com/google/uuid"
)

type ProfileService interface {
	GetByUsername(ctx context.Context, username string, viewerID *uuid.UUID) (*dto.ProfileResponse, error)
	GetMe(ctx context.Context, userID uuid.UUID) (*dto.ProfileResponse, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, req dto.UpdateProfileRequest, avatar *dto.AvatarFile) (*model.User, error)
}

type profileService struct {
	users        repository.UserRepository
	follows      repository.FollowRepository
	imageStorage storage.ImageStorage
}

func NewProfileService(users repository.UserRepository, follows repository.FollowRepository, imageStorage storage.ImageStorage) ProfileService {
	return &profileService{users: users, follows: follows, imageStorage: imageStorage}
}

func (s *profileService) GetByUsername(ctx context.Context, username string, viewerID *uuid.UUID) (*dto.ProfileResponse, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	return s.buildProfile(ctx, user, viewerID)
}

func (s *profileService) GetMe(ctx context.Context, userID uuid.UUID) (*dto.ProfileResponse, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.buildProfile(ctx, user, nil)
}

func (s *profileService) buildProfile(ctx context.Context, user *model.User, viewerID *uuid.UUID) (*dto.ProfileResponse, error) {
	followers, err := s.follows.CountFollowers(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	following, err := s.follows.CountFollowing(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	followedByMe := false
	if viewerID != nil && *viewerID != user.ID {
		followedByMe, err = s.follows.Exists(ctx, *viewerID, user.ID)
		if err != nil {
			return nil, err
		}
	}

	return &dto.ProfileResponse{
		User:           user,
		FollowerCount:  followers,
		FollowingCount: following,
		IsFollowedByMe: followedByMe,
	}, nil
}

func (s *profileService) UpdateProfile(ctx context.Context, userID uuid.UUID, req dto.UpdateProfileRequest, avatar *dto.AvatarFile) (*model.User, error) {
	fields := map[string]interface{}{}
	if req.FullName != nil {
		fields["full_name"] = *req.FullName
	}
	if req.Bio != nil {
		fields["bio"] = *req.Bio
	}

	if avatar != nil && avatar.Reader != nil && s.imageStorage != nil {
		url, err := s.imageStorage.UploadImage(ctx, avatar.Reader, "avatars", avatar.FileName)
		if err != nil {
			return nil, err
		}
		fields["avatar_url"] = url
	}

	if len(fields) > 0 {
		if err := s.users.UpdateFields(ctx, userID, fields); err != nil {
			return nil, err
		}
	}

	return s.users.FindByID(ctx, userID)
}
