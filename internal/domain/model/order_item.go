package model

// 注文明細
// 確定時点の商品名・単価のスナップショット。商品側が後で変わっても注文履歴は不変。
type OrderItem struct {
	ID          int64   `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID     int64   `gorm:"not null;index" json:"order_id"`
	ProductID   int64   `gorm:"not null" json:"product_id"`
	UserID      int64   `gorm:"not null" json:"user_id"`
	ProductName string  `gorm:"type:varchar(255)" json:"product_name"`
	UnitPrice   float64 `gorm:"not null;default:0" json:"unit_price"`
	Quantity    int64   `gorm:"not null;default:1" json:"quantity"`
}
