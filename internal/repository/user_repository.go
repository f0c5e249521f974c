package repository

import (
	"context"

	"myshop/internal/domain/model"
)

// 保存・取得を約束
type UserRepository interface {
	//新規ユーザー作成
	Create(ctx context.Context, user *model.User) error
	// IDからユーザーを1件取得する。見つからなければ nil を返す。
	FindByID(ctx context.Context, userID int64) (*model.User, error)
	//メールからユーザーを一件取得する。見つからなければ nil を返す。
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	// ユーザー情報の更新=>プロフィール・住所・パスワードハッシュの上書きなど
	Update(ctx context.Context, user *model.User) error
}
