package models

import "time"

type Seller struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	SellerName string    `gorm:"not null" json:"seller_name"`
	Email      string    `gorm:"uniqueIndex;not null" json:"email"`
	Mobile     string    `json:"mobile"`
	CreatedAt  time.Time `json:"created_at"`
}
