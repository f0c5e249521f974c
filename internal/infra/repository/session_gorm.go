package repository

import (
	"context"
	"errors"
	"time"

	"myshop/internal/domain/model"
	repo "myshop/internal/repository"

	"gorm.io/gorm"
)

type SessionGormRepository struct {
	db *gorm.DB
}

// DI
func NewSessionGormRepository(db *gorm.DB) *SessionGormRepository {
	return &SessionGormRepository{db: db}
}

func (r *SessionGormRepository) Create(ctx context.Context, s *model.Session) error {
	return r.db.WithContext(ctx).Create(s).Error
}

// 期限切れは存在しない扱い。
func (r *SessionGormRepository) FindByID(ctx context.Context, id string) (*model.Session, error) {
	var s model.Session
	err := r.db.WithContext(ctx).
		Where("id = ? AND expires_at > ?", id, time.Now()).
		First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SessionGormRepository) SetUserID(ctx context.Context, id string, userID *int64) error {
	return r.updateColumns(ctx, id, map[string]interface{}{"user_id": userID})
}

func (r *SessionGormRepository) SetPaymentMethod(ctx context.Context, id string, method string) error {
	return r.updateColumns(ctx, id, map[string]interface{}{"payment_method": method})
}

func (r *SessionGormRepository) SaveReset(ctx context.Context, id string, email string, code string, expiry time.Time) error {
	return r.updateColumns(ctx, id, map[string]interface{}{
		"reset_email":  email,
		"reset_code":   code,
		"reset_expiry": expiry,
	})
}

func (r *SessionGormRepository) ClearReset(ctx context.Context, id string) error {
	return r.updateColumns(ctx, id, map[string]interface{}{
		"reset_email":  "",
		"reset_code":   "",
		"reset_expiry": nil,
	})
}

func (r *SessionGormRepository) updateColumns(ctx context.Context, id string, cols map[string]interface{}) error {
	res := r.db.WithContext(ctx).Model(&model.Session{}).
		Where("id = ?", id).
		Updates(cols)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
