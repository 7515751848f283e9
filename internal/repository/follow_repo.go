package repository

import (
	"context"

	"github.com/answerhub/community-api/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type FollowRepository interface {
	Create(ctx context.Context, follow *model.Follow) error
	Delete(ctx context.Context, followerID, followingID uuid.UUID) error
	Exists(ctx context.Context, followerID, followingID uuid.UUID) (bool, error)
	ListFollowers(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*model.User, error)
	ListFollowing(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*model.User, error)
	CountFollowers(ctx context.Context, userID uuid.UUID) (int64, error)
	CountFollowing(ctx context.Context, userID uuid.UUID) (int64, error)
}

type followRepository struct {
	db *gorm.DB
}

func NewFollowRepository(db *gorm.DB) FollowRepository {
	return &followRepository{db: db}
}

func (r *followRepository) Create(ctx context.Context, follow *model.Follow) error {
	return translate(r.db.WithContext(ctx).Create(follow).Error)
}

func (r *followRepository) Delete(ctx context.Context, followerID, followingID uuid.UUID) error {
	return translate(r.db.WithContext(ctx).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Delete(&model.Follow{}).Error)
}

func (r *followRepository) Exists(ctx context.Context, followerID, followingID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Follow{}).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Count(&count).Error
	return count > 0, translate(err)
}

func (r *followRepository) ListFollowers(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*model.User, error) {
	var users []*model.User
	err := r.db.WithContext(ctx).Model(&model.User{}).
		Joins("JOIN follows ON follows.follower_id = users.id").
		Where("follows.following_id = ?", userID).
		Order("follows.created_at desc").
		Limit(limit).
		Offset(offset).
		Find(&users).Error
	return users, translate(err)
}

func (r *followRepository) ListFollowing(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*model.User, error) {
	var users []*model.User
	err := r.db.WithContext(ctx).Model(&model.User{}).
		Joins("JOIN follows ON follows.following_id = users.id").
		Where("follows.follower_id = ?", userID).
		Order("follows.created_at desc").
		Limit(limit).
		Offset(offset).
		Find(&users).Error
	return users, translate(err)
}

func (r *followRepository) CountFollowers(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Follow{}).
		Where("following_id = ?", userID).
		Count(&count).Error
	return count, translate(err)
}

func (r *followRepository) CountFollowing(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Follow{}).
		Where("follower_id = ?", userID).
		Count(&count).Error
	return count, translate(err)
}
