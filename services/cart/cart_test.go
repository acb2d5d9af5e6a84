package cart

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/vendora-labs/multivendor-api/errs"
	"github.com/vendora-labs/multivendor-api/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, models.AutoMigrate(db))
	return db
}

func seedUser(t *testing.T, db *gorm.DB) models.User {
	t.Helper()
	user := models.User{Email: "buyer@example.com", Password: "secret", FullName: "Test Buyer"}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func seedProduct(t *testing.T, db *gorm.DB, sellerID uint, mrp, selling int64) models.Product {
	t.Helper()
	product := models.Product{
		Title:        "Product",
		MrpPrice:     mrp,
		SellingPrice: selling,
		SellerID:     sellerID,
	}
	require.NoError(t, db.Create(&product).Error)
	return product
}

func TestGetOrCreateCartCreatesEmptyCart(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	user := seedUser(t, db)

	cart, err := svc.GetOrCreateCart(user.ID)
	require.NoError(t, err)
	require.NotZero(t, cart.ID)
	require.Equal(t, user.ID, cart.UserID)
	require.Zero(t, cart.TotalItem)
	require.Zero(t, cart.TotalSellingPrice)
	require.Empty(t, cart.Items)

	again, err := svc.GetOrCreateCart(user.ID)
	require.NoError(t, err)
	require.Equal(t, cart.ID, again.ID)
}

func TestGetOrCreateCartRecomputesStaleAggregates(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	user := seedUser(t, db)
	product := seedProduct(t, db, 1, 1000, 800)

	_, err := svc.AddItem(user.ID, product.ID, "M", 1)
	require.NoError(t, err)

	// Corrupt the stored aggregates behind the service's back.
	require.NoError(t, db.Model(&models.Cart{}).Where("user_id = ?", user.ID).
		Update("total_selling_price", 99999).Error)

	cart, err := svc.GetOrCreateCart(user.ID)
	require.NoError(t, err)
	require.Equal(t, int64(800), cart.TotalSellingPrice)
}

func TestAddItemAggregates(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	user := seedUser(t, db)
	p1 := seedProduct(t, db, 1, 1000, 800)
	p2 := seedProduct(t, db, 2, 600, 500)

	_, err := svc.AddItem(user.ID, p1.ID, "M", 2)
	require.NoError(t, err)
	_, err = svc.AddItem(user.ID, p2.ID, "L", 1)
	require.NoError(t, err)

	cart, err := svc.GetOrCreateCart(user.ID)
	require.NoError(t, err)
	require.Len(t, cart.Items, 2)
	require.Equal(t, 3, cart.TotalItem)
	require.Equal(t, int64(2600), cart.TotalMrpPrice)
	require.Equal(t, int64(2100), cart.TotalSellingPrice)
}

func TestAddItemMergesSameVariant(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	user := seedUser(t, db)
	product := seedProduct(t, db, 1, 1000, 800)

	_, err := svc.AddItem(user.ID, product.ID, "M", 1)
	require.NoError(t, err)

	// Catalog price changes between adds; the merged line must be priced at
	// the current unit price for its full quantity.
	require.NoError(t, db.Model(&models.Product{}).Where("id = ?", product.ID).
		Updates(map[string]interface{}{"mrp_price": 1200, "selling_price": 900}).Error)

	item, err := svc.AddItem(user.ID, product.ID, "M", 2)
	require.NoError(t, err)
	require.Equal(t, 3, item.Quantity)
	require.Equal(t, int64(3*1200), item.MrpPrice)
	require.Equal(t, int64(3*900), item.SellingPrice)

	var count int64
	require.NoError(t, db.Model(&models.CartItem{}).Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestAddItemDistinctSizesAreSeparateLines(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	user := seedUser(t, db)
	product := seedProduct(t, db, 1, 1000, 800)

	_, err := svc.AddItem(user.ID, product.ID, "M", 1)
	require.NoError(t, err)
	_, err = svc.AddItem(user.ID, product.ID, "L", 1)
	require.NoError(t, err)

	cart, err := svc.GetOrCreateCart(user.ID)
	require.NoError(t, err)
	require.Len(t, cart.Items, 2)
}

func TestAddItemRejectsNonPositiveQuantity(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	user := seedUser(t, db)
	product := seedProduct(t, db, 1, 1000, 800)

	_, err := svc.AddItem(user.ID, product.ID, "M", 0)
	require.ErrorIs(t, err, errs.ErrValidation)
	_, err = svc.AddItem(user.ID, product.ID, "M", -3)
	require.ErrorIs(t, err, errs.ErrValidation)
}

func TestAddItemUnknownProduct(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	user := seedUser(t, db)

	_, err := svc.AddItem(user.ID, 999, "M", 1)
	require.ErrorIs(t, err, errs.ErrNotFound)
}

func TestUpdateItemQuantityReprices(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	user := seedUser(t, db)
	product := seedProduct(t, db, 1, 1000, 800)

	item, err := svc.AddItem(user.ID, product.ID, "M", 1)
	require.NoError(t, err)

	updated, err := svc.UpdateItemQuantity(user.ID, item.ID, 4)
	require.NoError(t, err)
	require.Equal(t, 4, updated.Quantity)
	require.Equal(t, int64(3200), updated.SellingPrice)

	cart, err := svc.GetOrCreateCart(user.ID)
	require.NoError(t, err)
	require.Equal(t, 4, cart.TotalItem)
	require.Equal(t, int64(3200), cart.TotalSellingPrice)

	_, err = svc.UpdateItemQuantity(user.ID, item.ID, 0)
	require.ErrorIs(t, err, errs.ErrValidation)
}

func TestRemoveItem(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	user := seedUser(t, db)
	p1 := seedProduct(t, db, 1, 1000, 800)
	p2 := seedProduct(t, db, 1, 600, 500)

	item, err := svc.AddItem(user.ID, p1.ID, "M", 1)
	require.NoError(t, err)
	_, err = svc.AddItem(user.ID, p2.ID, "M", 1)
	require.NoError(t, err)

	require.NoError(t, svc.RemoveItem(user.ID, item.ID))

	cart, err := svc.GetOrCreateCart(user.ID)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	require.Equal(t, int64(500), cart.TotalSellingPrice)

	require.ErrorIs(t, svc.RemoveItem(user.ID, item.ID), errs.ErrNotFound)
}

func TestApplyCouponAdjustsTotalNotDiscount(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	user := seedUser(t, db)
	product := seedProduct(t, db, 1, 1000, 800)
	coupon := models.Coupon{Code: "SAVE100", DiscountAmount: 100, MinimumOrderValue: 500, Active: true}
	require.NoError(t, db.Create(&coupon).Error)

	_, err := svc.AddItem(user.ID, product.ID, "M", 1)
	require.NoError(t, err)

	cart, err := svc.ApplyCoupon(user.ID, "SAVE100")
	require.NoError(t, err)
	require.Equal(t, int64(700), cart.TotalSellingPrice)
	// Discount percentage stays derived from the pre-coupon selling total.
	require.Equal(t, 20, cart.Discount)
}

func TestApplyCouponValidations(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	user := seedUser(t, db)
	product := seedProduct(t, db, 1, 1000, 800)

	inactive := models.Coupon{Code: "OLD", DiscountAmount: 50, Active: false}
	small := models.Coupon{Code: "BIGSPEND", DiscountAmount: 50, MinimumOrderValue: 5000, Active: true}
	ok := models.Coupon{Code: "SAVE50", DiscountAmount: 50, Active: true}
	other := models.Coupon{Code: "EXTRA", DiscountAmount: 25, Active: true}
	require.NoError(t, db.Create(&inactive).Error)
	require.NoError(t, db.Create(&small).Error)
	require.NoError(t, db.Create(&ok).Error)
	require.NoError(t, db.Create(&other).Error)

	_, err := svc.AddItem(user.ID, product.ID, "M", 1)
	require.NoError(t, err)

	_, err = svc.ApplyCoupon(user.ID, "MISSING")
	require.ErrorIs(t, err, errs.ErrNotFound)

	_, err = svc.ApplyCoupon(user.ID, "OLD")
	require.ErrorIs(t, err, errs.ErrValidation)

	_, err = svc.ApplyCoupon(user.ID, "BIGSPEND")
	require.ErrorIs(t, err, errs.ErrValidation)

	_, err = svc.ApplyCoupon(user.ID, "SAVE50")
	require.NoError(t, err)

	// One coupon per cart.
	_, err = svc.ApplyCoupon(user.ID, "EXTRA")
	require.ErrorIs(t, err, errs.ErrValidation)

	// One redemption per user, even after the cart is cleared.
	require.NoError(t, svc.ClearCart(user.ID))
	_, err = svc.AddItem(user.ID, product.ID, "M", 1)
	require.NoError(t, err)
	_, err = svc.ApplyCoupon(user.ID, "SAVE50")
	require.ErrorIs(t, err, errs.ErrValidation)
}

func TestClearCartIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	user := seedUser(t, db)
	product := seedProduct(t, db, 1, 1000, 800)
	coupon := models.Coupon{Code: "SAVE100", DiscountAmount: 100, Active: true}
	require.NoError(t, db.Create(&coupon).Error)

	_, err := svc.AddItem(user.ID, product.ID, "M", 2)
	require.NoError(t, err)
	_, err = svc.ApplyCoupon(user.ID, "SAVE100")
	require.NoError(t, err)

	require.NoError(t, svc.ClearCart(user.ID))
	require.NoError(t, svc.ClearCart(user.ID))

	cart, err := svc.GetOrCreateCart(user.ID)
	require.NoError(t, err)
	require.Empty(t, cart.Items)
	require.Zero(t, cart.TotalItem)
	require.Zero(t, cart.TotalMrpPrice)
	require.Zero(t, cart.TotalSellingPrice)
	require.Zero(t, cart.CouponPrice)
	require.Nil(t, cart.CouponCode)

	// Items are gone from storage, not just detached in memory.
	var count int64
	require.NoError(t, db.Model(&models.CartItem{}).Count(&count).Error)
	require.Zero(t, count)
}

func TestClearCartWithoutCartIsNoop(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)

	require.NoError(t, svc.ClearCart(42))
}

func TestDiscountPercentage(t *testing.T) {
	require.Equal(t, 0, discountPercentage(0, 0))
	require.Equal(t, 0, discountPercentage(-10, 5))
	require.Equal(t, 20, discountPercentage(1000, 800))
	// Truncated, not rounded.
	require.Equal(t, 33, discountPercentage(300, 200))
}
