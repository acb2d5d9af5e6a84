package models

import "time"

type Cart struct {
	ID uint `gorm:"primaryKey" json:"id"`
	// Enforces ONE cart per user
	UserID uint       `gorm:"uniqueIndex;not null" json:"user_id"`
	Items  []CartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE" json:"items"`

	// Aggregates are always recomputed from Items inside the same
	// transaction as the mutation; they are never written independently.
	TotalMrpPrice     int64 `json:"total_mrp_price"`
	TotalSellingPrice int64 `json:"total_selling_price"`
	TotalItem         int   `json:"total_item"`
	Discount          int   `json:"discount"`

	CouponCode  *string `json:"coupon_code"`
	CouponPrice int64   `json:"coupon_price"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CartItem is unique per (cart, product, size); re-adding the same variant
// increments the quantity instead of inserting a second row.
type CartItem struct {
	ID        uint    `gorm:"primaryKey" json:"id"`
	CartID    uint    `gorm:"index;uniqueIndex:idx_cart_product_size" json:"cart_id"`
	ProductID uint    `gorm:"uniqueIndex:idx_cart_product_size" json:"product_id"`
	Product   Product `gorm:"foreignKey:ProductID" json:"product"`
	Size      string  `gorm:"uniqueIndex:idx_cart_product_size" json:"size"`
	Quantity  int     `gorm:"not null" json:"quantity"`

	// Line totals: quantity times the product's unit prices at the time of
	// the last mutation of this line.
	MrpPrice     int64 `json:"mrp_price"`
	SellingPrice int64 `json:"selling_price"`

	UserID  uint      `json:"user_id"`
	AddedAt time.Time `json:"added_at"`
}
