package repository

import (
	"context"
	"time"

	"myshop/internal/domain/model"
)

type SessionRepository interface {
	Create(ctx context.Context, s *model.Session) error
	// 見つからない・期限切れは nil を返す。
	FindByID(ctx context.Context, id string) (*model.Session, error)
	SetUserID(ctx context.Context, id string, userID *int64) error
	// 支払い方法のスクラッチ。コミットで空文字にpopする。
	SetPaymentMethod(ctx context.Context, id string, method string) error
	// リセットチャレンジ {email, code, expiry} を一括で書く。
	SaveReset(ctx context.Context, id string, email string, code string, expiry time.Time) error
	// リセット成功時に関連キーを全部消す。
	ClearReset(ctx context.Context, id string) error
}
