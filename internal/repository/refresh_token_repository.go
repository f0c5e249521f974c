package repository

import (
	"context"

	"myshop/internal/domain/model"
)

type RefreshTokenRepository interface {
	Create(ctx context.Context, rt *model.RefreshToken) error
	// hashで1件取得。見つからなければ nil。
	FindByHash(ctx context.Context, tokenHash string) (*model.RefreshToken, error)
	// ローテーション時に使用済みへ
	MarkUsed(ctx context.Context, id string) error
	Revoke(ctx context.Context, id string) error
}
