package repository

import (
	"context"

	"myshop/internal/domain/model"
)

type ProductRepository interface {
	Create(ctx context.Context, p *model.Product) error
	FindByID(ctx context.Context, productID int64) (model.Product, error)
	// 新着順で page/limit ページング
	List(ctx context.Context, page int, limit int) ([]model.Product, int64, error)
	// name / description / categories の部分一致
	Search(ctx context.Context, q string) ([]model.Product, error)
}
