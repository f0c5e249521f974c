package model

import "time"

// 商品コメント。会員（user_id）でもゲスト（nameのみ）でも投稿できる。
type Comment struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductID int64     `gorm:"not null;index" json:"product_id"`
	UserID    *int64    `gorm:"index" json:"user_id,omitempty"`
	Name      string    `gorm:"type:varchar(120)" json:"name"`
	Body      string    `gorm:"type:text;not null" json:"body"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}
