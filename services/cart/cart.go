package cart

import (
	"errors"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/vendora-labs/multivendor-api/errs"
	"github.com/vendora-labs/multivendor-api/models"
)

// Service owns the single active cart per user. Every mutation recomputes the
// cart aggregates inside the same transaction, so readers never observe stale
// totals.
type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// GetOrCreateCart returns the user's cart, creating an empty one if absent.
// Aggregates are recomputed from the current items before returning.
func (s *Service) GetOrCreateCart(userID uint) (*models.Cart, error) {
	var cart models.Cart
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).First(&cart).Error; err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			cart = models.Cart{UserID: userID}
			if err := tx.Create(&cart).Error; err != nil {
				return err
			}
		}
		return s.recalcTotals(tx, &cart)
	})
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

// AddItem adds quantity of (product, size) to the user's cart. If the variant
// is already in the cart the quantity is incremented and the line totals are
// recomputed from the product's current unit prices, so a catalog price change
// never leaves a line priced per-unit at a stale rate.
func (s *Service) AddItem(userID, productID uint, size string, quantity int) (*models.CartItem, error) {
	if quantity <= 0 {
		return nil, errs.Validationf("quantity must be positive, got %d", quantity)
	}

	var product models.Product
	if err := s.db.First(&product, "id = ?", productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NotFoundf("product not exist with id %d", productID)
		}
		return nil, err
	}

	cart, err := s.GetOrCreateCart(userID)
	if err != nil {
		return nil, err
	}

	var item models.CartItem
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.upsertItem(tx, cart, &product, size, quantity, userID); err != nil {
			return err
		}
		if err := tx.Where("cart_id = ? AND product_id = ? AND size = ?",
			cart.ID, product.ID, size).First(&item).Error; err != nil {
			return err
		}
		return s.recalcTotals(tx, cart)
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// upsertItem increments an existing line in place or inserts a new one. The
// increment is a single guarded UPDATE so concurrent adds to the same line
// never lose a quantity update.
func (s *Service) upsertItem(tx *gorm.DB, cart *models.Cart, product *models.Product, size string, quantity int, userID uint) error {
	increment := func() (int64, error) {
		res := tx.Model(&models.CartItem{}).
			Where("cart_id = ? AND product_id = ? AND size = ?", cart.ID, product.ID, size).
			Updates(map[string]interface{}{
				"quantity":      gorm.Expr("quantity + ?", quantity),
				"mrp_price":     gorm.Expr("(quantity + ?) * ?", quantity, product.MrpPrice),
				"selling_price": gorm.Expr("(quantity + ?) * ?", quantity, product.SellingPrice),
				"added_at":      time.Now(),
			})
		return res.RowsAffected, res.Error
	}

	affected, err := increment()
	if err != nil {
		return err
	}
	if affected > 0 {
		return nil
	}

	newItem := models.CartItem{
		CartID:       cart.ID,
		ProductID:    product.ID,
		Size:         size,
		Quantity:     quantity,
		MrpPrice:     int64(quantity) * product.MrpPrice,
		SellingPrice: int64(quantity) * product.SellingPrice,
		UserID:       userID,
		AddedAt:      time.Now(),
	}
	if err := tx.Create(&newItem).Error; err != nil {
		// Lost the insert race against a concurrent add of the same
		// variant; fold our quantity into the winner's row.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			_, err = increment()
		}
		return err
	}
	return nil
}

// findUserItem resolves a cart line owned by the user.
func (s *Service) findUserItem(userID, itemID uint) (*models.Cart, *models.CartItem, error) {
	var cart models.Cart
	if err := s.db.Where("user_id = ?", userID).First(&cart).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, errs.NotFoundf("cart not exist for user %d", userID)
		}
		return nil, nil, err
	}

	var item models.CartItem
	if err := s.db.Where("id = ? AND cart_id = ?", itemID, cart.ID).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, errs.NotFoundf("cart item not exist with id %d", itemID)
		}
		return nil, nil, err
	}
	return &cart, &item, nil
}

// UpdateItemQuantity sets the quantity of a cart line and reprices it from the
// product's current unit prices.
func (s *Service) UpdateItemQuantity(userID, itemID uint, quantity int) (*models.CartItem, error) {
	if quantity <= 0 {
		return nil, errs.Validationf("quantity must be positive, got %d", quantity)
	}

	cart, item, err := s.findUserItem(userID, itemID)
	if err != nil {
		return nil, err
	}

	var product models.Product
	if err := s.db.First(&product, "id = ?", item.ProductID).Error; err != nil {
		return nil, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		item.Quantity = quantity
		item.MrpPrice = int64(quantity) * product.MrpPrice
		item.SellingPrice = int64(quantity) * product.SellingPrice
		if err := tx.Model(item).Updates(map[string]interface{}{
			"quantity":      item.Quantity,
			"mrp_price":     item.MrpPrice,
			"selling_price": item.SellingPrice,
		}).Error; err != nil {
			return err
		}
		return s.recalcTotals(tx, cart)
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

// RemoveItem deletes one line from the user's cart.
func (s *Service) RemoveItem(userID, itemID uint) error {
	cart, item, err := s.findUserItem(userID, itemID)
	if err != nil {
		return err
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(item).Error; err != nil {
			return err
		}
		return s.recalcTotals(tx, cart)
	})
}

// ApplyCoupon applies a coupon to the user's cart. A cart carries at most one
// coupon, each user may redeem a code once, and the cart's pre-coupon selling
// total must reach the coupon's minimum order value.
func (s *Service) ApplyCoupon(userID uint, code string) (*models.Cart, error) {
	var coupon models.Coupon
	if err := s.db.Where("code = ?", code).First(&coupon).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NotFoundf("coupon not exist with code %s", code)
		}
		return nil, err
	}
	if !coupon.Active {
		return nil, errs.Validationf("coupon %s is not active", code)
	}

	cart, err := s.GetOrCreateCart(userID)
	if err != nil {
		return nil, err
	}
	if cart.CouponCode != nil {
		return nil, errs.Validationf("cart already has coupon %s applied", *cart.CouponCode)
	}

	preCouponTotal := cart.TotalSellingPrice + cart.CouponPrice
	if preCouponTotal < coupon.MinimumOrderValue {
		return nil, errs.Validationf("cart total %d below coupon minimum %d",
			preCouponTotal, coupon.MinimumOrderValue)
	}

	var used int64
	if err := s.db.Table("user_coupons").
		Where("user_id = ? AND coupon_id = ?", userID, coupon.ID).
		Count(&used).Error; err != nil {
		return nil, err
	}
	if used > 0 {
		return nil, errs.Validationf("coupon %s already used", code)
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		cart.CouponCode = &coupon.Code
		cart.CouponPrice = coupon.DiscountAmount
		if err := tx.Model(&models.Cart{}).Where("id = ?", cart.ID).Updates(map[string]interface{}{
			"coupon_code":  coupon.Code,
			"coupon_price": coupon.DiscountAmount,
		}).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.User{ID: userID}).
			Association("UsedCoupons").Append(&coupon); err != nil {
			return err
		}
		return s.recalcTotals(tx, cart)
	})
	if err != nil {
		return nil, err
	}
	return cart, nil
}

// ClearCart empties the user's cart: items are hard-deleted at the storage
// layer and the coupon and aggregate fields reset. Safe to call when no cart
// exists.
func (s *Service) ClearCart(userID uint) error {
	return s.ClearCartIn(s.db, userID)
}

// ClearCartIn is ClearCart scoped to an existing transaction, so settlement
// can clear the cart atomically with the payment transition.
func (s *Service) ClearCartIn(db *gorm.DB, userID uint) error {
	var cart models.Cart
	if err := db.Where("user_id = ?", userID).First(&cart).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}

	if err := db.Where("cart_id = ?", cart.ID).Delete(&models.CartItem{}).Error; err != nil {
		return err
	}
	if err := db.Model(&models.Cart{}).Where("id = ?", cart.ID).Updates(map[string]interface{}{
		"coupon_code":         nil,
		"coupon_price":        0,
		"total_mrp_price":     0,
		"total_selling_price": 0,
		"total_item":          0,
		"discount":            0,
	}).Error; err != nil {
		return err
	}
	log.Debug().Uint("user_id", userID).Msg("cart cleared")
	return nil
}

// recalcTotals recomputes the cart aggregates from the current items and
// persists them. The discount percentage is derived from the pre-coupon
// selling total while the stored selling total is post-coupon; applying a
// coupon therefore changes the total but not the displayed discount.
func (s *Service) recalcTotals(tx *gorm.DB, cart *models.Cart) error {
	var items []models.CartItem
	if err := tx.Where("cart_id = ?", cart.ID).Order("id").Find(&items).Error; err != nil {
		return err
	}

	var totalMrp, totalSelling int64
	var totalQuantity int
	for _, item := range items {
		totalMrp += item.MrpPrice
		totalSelling += item.SellingPrice
		totalQuantity += item.Quantity
	}

	cart.Items = items
	cart.TotalMrpPrice = totalMrp
	cart.TotalSellingPrice = totalSelling - cart.CouponPrice
	cart.TotalItem = totalQuantity
	cart.Discount = discountPercentage(totalMrp, totalSelling)

	return tx.Model(&models.Cart{}).Where("id = ?", cart.ID).Updates(map[string]interface{}{
		"total_mrp_price":     cart.TotalMrpPrice,
		"total_selling_price": cart.TotalSellingPrice,
		"total_item":          cart.TotalItem,
		"discount":            cart.Discount,
	}).Error
}

func discountPercentage(mrpPrice, sellingPrice int64) int {
	if mrpPrice <= 0 {
		return 0
	}
	return int((mrpPrice - sellingPrice) * 100 / mrpPrice)
}
