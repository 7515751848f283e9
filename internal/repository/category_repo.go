package repository

import (
	"context"

	"github.com/answerhub/community-api/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CategoryRepository interface {
	Create(ctx context.Context, category *model.Category) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Category, error)
	FindAll(ctx context.Context, search string) ([]*model.Category, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type categoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) Create(ctx context.Context, category *model.Category) error {
	return translate(r.db.WithContext(ctx).Create(category).Error)
}

func (r *categoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Category, error) {
	var category model.Category
	if err := r.db.WithContext(ctx).First(&category, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &category, nil
}

func (r *categoryRepository) FindAll(ctx context.Context, search string) ([]*model.Category, error) {
	var categories []*model.Category
	query := r.db.WithContext(ctx).Order("sort_order asc, name asc")

	if search != "" {
		query = query.Where("name ILIKE ?", "%"+search+"%")
	}

	if err := query.Find(&categories).Error; err != nil {
		return nil, translate(err)
	}
	return categories, nil
}

func (r *categoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	// Questions reference categories with ON DELETE RESTRICT
	return translateDelete(r.db.WithContext(ctx).Delete(&model.Category{}, "id = ?", id).Error)
}
