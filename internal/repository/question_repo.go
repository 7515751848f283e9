package repository

import (
	"context"

	"github.com/answerhub/community-api/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type QuestionFilter struct {
	CategoryID *uuid.UUID
	AuthorID   *uuid.UUID
	Tag        string
	Solved     *bool
	SortBy     string // "newest", "top", "views"
	Page       int
	Limit      int
}

type QuestionRepository interface {
	Create(ctx context.Context, question *model.Question) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Question, error)
	List(ctx context.Context, filter QuestionFilter) ([]*model.Question, int64, error)
	UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error
	Delete(ctx context.Context, id uuid.UUID) error
	IncrementViews(ctx context.Context, id uuid.UUID) error
}

type questionRepository struct {
	db *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) QuestionRepository {
	return &questionRepository{db: db}
}

func (r *questionRepository) Create(ctx context.Context, question *model.Question) error {
	return translate(r.db.WithContext(ctx).Create(question).Error)
}

func (r *questionRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Question, error) {
	var question model.Question
	err := r.db.WithContext(ctx).
		Preload("Author").
		Preload("Category").
		First(&question, "id = ?", id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &question, nil
}

func (r *questionRepository) List(ctx context.Context, filter QuestionFilter) ([]*model.Question, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.Question{})

	if filter.CategoryID != nil {
		query = query.Where("category_id = ?", *filter.CategoryID)
	}
	if filter.AuthorID != nil {
		query = query.Where("author_id = ?", *filter.AuthorID)
	}
	if filter.Tag != "" {
		query = query.Where("tags @> ?", `["`+filter.Tag+`"]`)
	}
	if filter.Solved != nil {
		query = query.Where("is_solved = ?", *filter.Solved)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, translate(err)
	}

	switch filter.SortBy {
	case "top":
		query = query.Order("is_pinned desc, vote_score desc, created_at desc")
	case "views":
		query = query.Order("is_pinned desc, view_count desc, created_at desc")
	default:
		query = query.Order("is_pinned desc, created_at desc")
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 10
	}
	page := filter.Page
	if page <= 0 {
		page = 1
	}

	var questions []*model.Question
	err := query.
		Preload("Author").
		Preload("Category").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&questions).Error
	if err != nil {
		return nil, 0, translate(err)
	}
	return questions, total, nil
}

func (r *questionRepository) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	res := r.db.WithContext(ctx).Model(&model.Question{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound)
	}
	return nil
}

func (r *questionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return translate(r.db.WithContext(ctx).Delete(&model.Question{}, "id = ?", id).Error)
}

func (r *questionRepository) IncrementViews(ctx context.Context, id uuid.UUID) error {
	return translate(r.db.WithContext(ctx).Model(&model.Question{}).Where("id = ?", id).
		UpdateColumn("view_count", gorm.Expr("view_count + 1")).Error)
}
