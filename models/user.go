package models

import "time"

type User struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Email       string    `gorm:"uniqueIndex;not null" json:"email"`
	Password    string    `gorm:"not null" json:"-"`
	FullName    string    `gorm:"not null" json:"full_name"`
	Mobile      string    `json:"mobile"`
	Addresses   []Address `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"addresses"`
	UsedCoupons []Coupon  `gorm:"many2many:user_coupons" json:"-"`
	CreatedAt   time.Time `json:"created_at"`
}

// Address belongs to a user. Orders reference an address by id; the same
// logical address is reused rather than inserted twice (see order service).
type Address struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	UserID   uint   `gorm:"index" json:"user_id"`
	Name     string `json:"name"`
	Street   string `json:"street"`
	Locality string `json:"locality"`
	City     string `json:"city"`
	State    string `json:"state"`
	PinCode  string `json:"pin_code"`
	Mobile   string `json:"mobile"`
}

// SameAs reports whether two addresses are the same logical address.
func (a Address) SameAs(b Address) bool {
	return a.Name == b.Name &&
		a.Street == b.Street &&
		a.Locality == b.Locality &&
		a.City == b.City &&
		a.State == b.State &&
		a.PinCode == b.PinCode &&
		a.Mobile == b.Mobile
}
