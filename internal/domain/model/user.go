package model

import "time"

type User struct {
	ID           int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Email        string `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"column:password_hash;not null" json:"-"`
	FirstName    string `gorm:"type:varchar(100)" json:"first_name"`
	LastName     string `gorm:"type:varchar(100)" json:"last_name"`
	Phone        string `gorm:"type:varchar(50)" json:"phone"`
	Country      string `gorm:"type:varchar(100)" json:"country"`
	Province     string `gorm:"type:varchar(100)" json:"province"`
	City         string `gorm:"type:varchar(100)" json:"city"`
	Address      string `gorm:"type:text" json:"address"`
	ZipCode      string `gorm:"type:varchar(20);column:zip_code" json:"zip_code"`
	CreatedAt    time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"not null;autoUpdateTime" json:"-"`
}
