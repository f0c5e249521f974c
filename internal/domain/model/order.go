package model

import "time"

type OrderStatus string

const (
	OrderStatusPending         OrderStatus = "Pending"
	OrderStatusAwaitingPayment OrderStatus = "Awaiting Payment"
	OrderStatusProcessing      OrderStatus = "Processing"
	OrderStatusPaid            OrderStatus = "Paid"
)

type Order struct {
	ID          int64       `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderNumber string      `gorm:"type:varchar(100);not null;uniqueIndex" json:"order_number"`
	UserID      int64       `gorm:"not null;index" json:"user_id"`
	TotalAmount float64     `gorm:"not null;default:0" json:"total_amount"`
	Shipping    float64     `gorm:"not null;default:0" json:"shipping"`
	Status      OrderStatus `gorm:"type:varchar(50);not null;index" json:"status"`
	CreatedAt   time.Time   `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time   `gorm:"not null;autoUpdateTime" json:"-"`
}
