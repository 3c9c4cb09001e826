package models

import "time"

// OrderItem denormalizes product name and description at purchase time so
// later catalog edits or deletes do not corrupt order history. ProductID is
// a soft reference and may point at a product that no longer exists.
type OrderItem struct {
	ID                 uint      `gorm:"primaryKey" json:"id"`
	OrderID            uint      `gorm:"not null;index" json:"order_id"`
	ProductID          *uint     `gorm:"index" json:"product_id,omitempty"`
	ProductName        string    `gorm:"type:varchar(255);not null" json:"product_name"`
	ProductDescription string    `gorm:"type:text" json:"product_description,omitempty"`
	Quantity           int       `gorm:"not null" json:"quantity"`
	UnitPrice          int64     `gorm:"not null" json:"unit_price"`
	TotalPrice         int64     `gorm:"not null" json:"total_price"`
	CreatedAt          time.Time `gorm:"autoCreateTime" json:"created_at"`
}
