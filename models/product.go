package models

import "time"

// Product prices are whole currency units. MrpPrice is the list price,
// SellingPrice the discounted price actually charged.
type Product struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Title        string    `gorm:"not null" json:"title"`
	Description  string    `json:"description"`
	MrpPrice     int64     `gorm:"not null" json:"mrp_price"`
	SellingPrice int64     `gorm:"not null" json:"selling_price"`
	Quantity     int       `json:"quantity"`
	Color        string    `json:"color"`
	Sizes        string    `json:"sizes"`
	SellerID     uint      `gorm:"index;not null" json:"seller_id"`
	Seller       Seller    `gorm:"foreignKey:SellerID" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
