package model

import "time"

// 商品。カート/注文からは読み取り専用の参照。
type Product struct {
	ID             int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name           string    `gorm:"type:varchar(255);not null" json:"name"`
	Description    string    `gorm:"type:text" json:"description"`
	Specifications string    `gorm:"type:text" json:"specifications"`
	Categories     string    `gorm:"type:varchar(500)" json:"categories"` // カンマ区切り
	Price          float64   `gorm:"not null;default:0" json:"price"`
	MainImage      string    `gorm:"type:varchar(500)" json:"main_image"`
	Image2         string    `gorm:"type:varchar(500)" json:"image2"`
	Image3         string    `gorm:"type:varchar(500)" json:"image3"`
	Image4         string    `gorm:"type:varchar(500)" json:"image4"`
	CreatedAt      time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time `gorm:"not null;autoUpdateTime" json:"-"`
}

// 画像をスライスで返す（空は詰めない）
func (p Product) Images() []string {
	images := make([]string, 0, 4)
	for _, img := range []string{p.MainImage, p.Image2, p.Image3, p.Image4} {
		if img != "" {
			images = append(images, img)
		}
	}
	return images
}
