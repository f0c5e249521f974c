package repository

import (
	"context"

	"myshop/internal/domain/model"
)

type CartItemRepository interface {
	ListByUserID(ctx context.Context, userID int64) ([]model.CartItem, error)
	// チェックアウト確定用。行ロック付きで取得して同一ユーザーの
	// 同時コミットがカートを二重に捌けないようにする。
	ListByUserIDForUpdate(ctx context.Context, userID int64) ([]model.CartItem, error)
	FindByUserAndProduct(ctx context.Context, userID int64, productID int64) (model.CartItem, error)
	Create(ctx context.Context, item *model.CartItem) error
	UpdateQuantity(ctx context.Context, itemID int64, quantity int64) error
	// 一括更新のwrite-through用。該当行が無ければ何もしない。
	SetQuantityByProduct(ctx context.Context, userID int64, productID int64, quantity int64) error
	// 自分の行だけ削除できる。0件なら ErrNotFound。
	DeleteByIDAndUser(ctx context.Context, itemID int64, userID int64) error
	DeleteByUserID(ctx context.Context, userID int64) error
}
