package models

import "time"

// Product is the catalog entry consulted when enriching order items and
// decrementing inventory. Catalog management itself lives outside this
// service; here the table is read and its inventory counter adjusted.
type Product struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"type:varchar(255);not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	Price       int64     `gorm:"not null" json:"price"`
	Currency    string    `gorm:"type:varchar(3);not null;default:'USD'" json:"currency"`
	Inventory   int       `gorm:"not null;default:0" json:"inventory"`
	Active      bool      `gorm:"not null;default:true;index" json:"active"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
