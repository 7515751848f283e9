package repository

import (
	"context"

	"github.com/answerhub/community-api/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CommentRepository interface {
	Create(ctx context.Context, comment *model.Comment) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Comment, error)
	ListByQuestion(ctx context.Context, questionID uuid.UUID) ([]*model.Comment, error)
	CountByQuestion(ctx context.Context, questionID uuid.UUID) (int64, error)
	UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error
	Delete(ctx context.Context, id uuid.UUID) error
	// SetAccepted marks one comment accepted and clears the flag on every
	// other comment of the same question, in one transaction.
	SetAccepted(ctx context.Context, questionID, commentID uuid.UUID) error
	ClearAccepted(ctx context.Context, questionID uuid.UUID) error
}

type commentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(ctx context.Context, comment *model.Comment) error {
	return translate(r.db.WithContext(ctx).Create(comment).Error)
}

func (r *commentRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Comment, error) {
	var comment model.Comment
	err := r.db.WithContext(ctx).
		Preload("Author").
		First(&comment, "id = ?", id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &comment, nil
}

func (r *commentRepository) ListByQuestion(ctx context.Context, questionID uuid.UUID) ([]*model.Comment, error) {
	var comments []*model.Comment
	err := r.db.WithContext(ctx).
		Where("question_id = ?", questionID).
		Order("created_at asc").
		Preload("Author").
		Find(&comments).Error
	if err != nil {
		return nil, translate(err)
	}
	return comments, nil
}

func (r *commentRepository) CountByQuestion(ctx context.Context, questionID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Comment{}).
		Where("question_id = ?", questionID).
		Count(&count).Error
	return count, translate(err)
}

func (r *commentRepository) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	res := r.db.WithContext(ctx).Model(&model.Comment{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound)
	}
	return nil
}

func (r *commentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return translate(r.db.WithContext(ctx).Delete(&model.Comment{}, "id = ?", id).Error)
}

func (r *commentRepository) SetAccepted(ctx context.Context, questionID, commentID uuid.UUID) error {
	return translate(r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Comment{}).
			Where("question_id = ? AND id <> ?", questionID, commentID).
			Update("is_accepted", false).Error; err != nil {
			return err
		}

		res := tx.Model(&model.Comment{}).
			Where("id = ? AND question_id = ?", commentID, questionID).
			Update("is_accepted", true)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	}))
}

func (r *commentRepository) ClearAccepted(ctx context.Context, questionID uuid.UUID) error {
	return translate(r.db.WithContext(ctx).Model(&model.Comment{}).
		Where("question_id = ?", questionID).
		Update("is_accepted", false).Error)
}
