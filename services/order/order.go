package order

import (
	"errors"
	"sort"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/vendora-labs/multivendor-api/errs"
	"github.com/vendora-labs/multivendor-api/models"
)

// Service converts carts into per-seller orders and drives the order
// lifecycle. A cart holding items from k distinct sellers always yields
// exactly k orders; every cart line maps to exactly one order item.
type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// CreateOrders splits the user's cart into one PENDING order per seller, each
// with its own immutable item snapshots and totals. The shipping address is
// attached to the user first, reusing an equivalent address already on file.
// The cart is left untouched and no payment is taken here: if payment-link
// creation fails afterwards, the same still-PENDING orders can be
// re-aggregated without re-deriving the split.
func (s *Service) CreateOrders(userID uint, shipping models.Address) ([]models.Order, error) {
	var user models.User
	if err := s.db.Preload("Addresses").First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NotFoundf("user not exist with id %d", userID)
		}
		return nil, err
	}

	address, err := s.attachAddress(&user, shipping)
	if err != nil {
		return nil, err
	}

	var cart models.Cart
	if err := s.db.Preload("Items.Product").Where("user_id = ?", userID).First(&cart).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return []models.Order{}, nil
		}
		return nil, err
	}
	if len(cart.Items) == 0 {
		return []models.Order{}, nil
	}

	// Partition the cart lines by the owning seller of each product.
	bySeller := map[uint][]models.CartItem{}
	for _, item := range cart.Items {
		sellerID := item.Product.SellerID
		bySeller[sellerID] = append(bySeller[sellerID], item)
	}
	sellerIDs := make([]uint, 0, len(bySeller))
	for sellerID := range bySeller {
		sellerIDs = append(sellerIDs, sellerID)
	}
	sort.Slice(sellerIDs, func(i, j int) bool { return sellerIDs[i] < sellerIDs[j] })

	var orders []models.Order
	err = s.db.Transaction(func(tx *gorm.DB) error {
		for _, sellerID := range sellerIDs {
			items := bySeller[sellerID]

			var totalMrp, totalSelling int64
			var totalQuantity int
			orderItems := make([]models.OrderItem, 0, len(items))
			for _, item := range items {
				totalMrp += item.MrpPrice
				totalSelling += item.SellingPrice
				totalQuantity += item.Quantity
				orderItems = append(orderItems, models.OrderItem{
					ProductID:    item.ProductID,
					Size:         item.Size,
					Quantity:     item.Quantity,
					MrpPrice:     item.MrpPrice,
					SellingPrice: item.SellingPrice,
				})
			}

			o := models.Order{
				UserID:            userID,
				SellerID:          sellerID,
				ShippingAddressID: address.ID,
				Items:             orderItems,
				TotalMrpPrice:     totalMrp,
				TotalSellingPrice: totalSelling,
				TotalItem:         totalQuantity,
				OrderStatus:       models.OrderStatusPending,
				PaymentDetails:    models.PaymentDetails{Status: models.PaymentStatusPending},
				OrderDate:         time.Now(),
			}
			if err := tx.Create(&o).Error; err != nil {
				return err
			}
			orders = append(orders, o)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info().Uint("user_id", userID).Int("orders", len(orders)).Msg("cart split into orders")
	return orders, nil
}

// attachAddress stores the shipping address for the user unless an equivalent
// one is already on file, in which case the existing row is reused.
func (s *Service) attachAddress(user *models.User, shipping models.Address) (*models.Address, error) {
	for i := range user.Addresses {
		if user.Addresses[i].SameAs(shipping) {
			return &user.Addresses[i], nil
		}
	}
	shipping.ID = 0
	shipping.UserID = user.ID
	if err := s.db.Create(&shipping).Error; err != nil {
		return nil, err
	}
	return &shipping, nil
}

// FindByID returns one order with its items and shipping address.
func (s *Service) FindByID(orderID uint) (*models.Order, error) {
	var o models.Order
	if err := s.db.
		Preload("Items").
		Preload("ShippingAddress").
		First(&o, "id = ?", orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NotFoundf("order not exist with id %d", orderID)
		}
		return nil, err
	}
	return &o, nil
}

// UserOrderHistory returns the user's orders, newest first.
func (s *Service) UserOrderHistory(userID uint) ([]models.Order, error) {
	var orders []models.Order
	if err := s.db.
		Preload("Items").
		Where("user_id = ?", userID).
		Order("order_date DESC").
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// SellerOrders returns all orders routed to one seller, newest first.
func (s *Service) SellerOrders(sellerID uint) ([]models.Order, error) {
	var orders []models.Order
	if err := s.db.
		Preload("Items").
		Where("seller_id = ?", sellerID).
		Order("order_date DESC").
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// UpdateOrderStatus moves an order along the fulfilment state machine.
// Transitions out of DELIVERED or CANCELLED are rejected, as is any edge the
// state machine does not define.
func (s *Service) UpdateOrderStatus(orderID uint, next models.OrderStatus) (*models.Order, error) {
	o, err := s.FindByID(orderID)
	if err != nil {
		return nil, err
	}
	if err := s.transition(o, next); err != nil {
		return nil, err
	}
	return o, nil
}

// CancelOrder cancels an order on behalf of its owner. Only the owning user
// may cancel; anyone else gets a Forbidden error and the order is untouched.
func (s *Service) CancelOrder(orderID, userID uint) (*models.Order, error) {
	o, err := s.FindByID(orderID)
	if err != nil {
		return nil, err
	}
	if o.UserID != userID {
		return nil, errs.Forbiddenf("user %d cannot cancel order %d", userID, orderID)
	}
	if err := s.transition(o, models.OrderStatusCancelled); err != nil {
		return nil, err
	}
	return o, nil
}

// transition applies a validated status change with a guarded UPDATE so a
// concurrent transition on the same order cannot be overwritten.
func (s *Service) transition(o *models.Order, next models.OrderStatus) error {
	if !o.OrderStatus.CanTransitionTo(next) {
		return errs.InvalidStatef("order %d cannot move from %s to %s", o.ID, o.OrderStatus, next)
	}
	res := s.db.Model(&models.Order{}).
		Where("id = ? AND order_status = ?", o.ID, o.OrderStatus).
		Update("order_status", next)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errs.InvalidStatef("order %d was concurrently updated", o.ID)
	}
	o.OrderStatus = next
	return nil
}

// DeleteOrder removes an order and its items.
func (s *Service) DeleteOrder(orderID uint) error {
	if _, err := s.FindByID(orderID); err != nil {
		return err
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", orderID).Delete(&models.OrderItem{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", orderID).Delete(&models.Order{}).Error
	})
}
