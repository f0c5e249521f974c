package model

import "time"

// サーバー側セッション。cookieのIDで引く。
// チェックアウトの支払い方法（1回使い切り）とパスワードリセットの
// チャレンジだけを持つ。プロセス全体のグローバルにはしない。
type Session struct {
	ID            string     `gorm:"type:uuid;primaryKey" json:"id"`
	UserID        *int64     `gorm:"index" json:"-"`
	PaymentMethod string     `gorm:"type:varchar(20)" json:"-"`
	ResetEmail    string     `gorm:"type:varchar(255)" json:"-"`
	ResetCode     string     `gorm:"type:varchar(6)" json:"-"`
	ResetExpiry   *time.Time `json:"-"`
	ExpiresAt     time.Time  `gorm:"not null;index" json:"-"`
	CreatedAt     time.Time  `gorm:"not null;autoCreateTime" json:"-"`
	UpdatedAt     time.Time  `gorm:"not null;autoUpdateTime" json:"-"`
}
