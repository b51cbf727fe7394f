package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"fastcart-api/internal/model"
)

type CategoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

func (r *CategoryRepository) List(ctx context.Context) ([]model.Category, error) {
	var categories []model.Category
	if err := r.db.WithContext(ctx).Order("created_at ASC").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("list categories failed: %w", err)
	}
	return categories, nil
}

func (r *CategoryRepository) Create(ctx context.Context, category *model.Category) error {
	if err := r.db.WithContext(ctx).Create(category).Error; err != nil {
		return fmt.Errorf("create category failed: %w", err)
	}
	return nil
}

func (r *CategoryRepository) GetByID(ctx context.Context, id string) (*model.Category, error) {
	var category model.Category
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get category failed: %w", err)
	}
	return &category, nil
}

// Update writes only the columns present in patch and returns the fresh row.
func (r *CategoryRepository) Update(ctx context.Context, id string, patch model.CategoryPatch) (*model.Category, error) {
	if patch.IsEmpty() {
		return r.GetByID(ctx, id)
	}
	err := r.db.WithContext(ctx).
		Model(&model.Category{}).
		Where("id = ?", id).
		Updates(patch.Columns()).Error
	if err != nil {
		return nil, fmt.Errorf("update category failed: %w", err)
	}
	return r.GetByID(ctx, id)
}

func (r *CategoryRepository) Delete(ctx context.Context, id string) error {
	if err := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Category{}).Error; err != nil {
		return fmt.Errorf("delete category failed: %w", err)
	}
	return nil
}
