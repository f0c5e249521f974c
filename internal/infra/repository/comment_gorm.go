package repository

import (
	"context"

	"myshop/internal/domain/model"

	"gorm.io/gorm"
)

type CommentGormRepository struct {
	db *gorm.DB
}

func NewCommentGormRepository(db *gorm.DB) *CommentGormRepository {
	return &CommentGormRepository{db: db}
}

func (r *CommentGormRepository) Create(ctx context.Context, c *model.Comment) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *CommentGormRepository) ListByProductID(ctx context.Context, productID int64) ([]model.Comment, error) {
	var items []model.Comment
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("created_at desc").
		Find(&items).Error
	if err != nil {
		return []model.Comment{}, err
	}
	return items, nil
}
