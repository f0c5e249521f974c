package repository

import (
	"context"

	"myshop/internal/domain/model"
)

type CommentRepository interface {
	Create(ctx context.Context, c *model.Comment) error
	// 新着順
	ListByProductID(ctx context.Context, productID int64) ([]model.Comment, error)
}
