package payment

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/vendora-labs/multivendor-api/errs"
	"github.com/vendora-labs/multivendor-api/models"
	"github.com/vendora-labs/multivendor-api/services/cart"
	"github.com/vendora-labs/multivendor-api/services/notify"
)

// errAlreadySettled aborts the settlement transaction when another request
// won the PENDING transition first.
var errAlreadySettled = errors.New("payment order already settled")

// ProviderResolver returns the payment gateway for a payment method.
type ProviderResolver func(models.PaymentMethod) (Provider, error)

// Service aggregates freshly created orders into a single payable unit and
// reconciles the provider's confirmation back into order state.
type Service struct {
	db        *gorm.DB
	providers ProviderResolver
	mailer    notify.Mailer
	carts     *cart.Service
}

func NewService(db *gorm.DB, providers ProviderResolver, mailer notify.Mailer) *Service {
	if providers == nil {
		providers = NewProviderFromEnv
	}
	return &Service{
		db:        db,
		providers: providers,
		mailer:    mailer,
		carts:     cart.NewService(db),
	}
}

// CreatePaymentOrder groups the given orders into one PENDING PaymentOrder
// with a single provider payment link. The coupon discount is applied once at
// the aggregate, never per order. The provider is called before anything is
// persisted: a provider failure leaves no PaymentOrder behind, so settlement
// can never be misled by a record with no external counterpart.
func (s *Service) CreatePaymentOrder(ctx context.Context, userID uint, orders []models.Order, method models.PaymentMethod) (*models.PaymentOrder, string, error) {
	if len(orders) == 0 {
		return nil, "", errs.Validationf("no orders to pay for")
	}

	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", errs.NotFoundf("user not exist with id %d", userID)
		}
		return nil, "", err
	}

	var amount int64
	for _, o := range orders {
		amount += o.TotalSellingPrice
	}
	var userCart models.Cart
	if err := s.db.Where("user_id = ?", userID).First(&userCart).Error; err == nil {
		amount -= userCart.CouponPrice
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", err
	}

	provider, err := s.providers(method)
	if err != nil {
		return nil, "", err
	}
	link, err := provider.CreatePaymentLink(ctx, LinkRequest{
		Amount:        amount,
		ReceiptID:     uuid.NewString(),
		CustomerName:  user.FullName,
		CustomerEmail: user.Email,
		CustomerPhone: user.Mobile,
		CallbackURL:   os.Getenv("PAYMENT_CALLBACK_URL"),
	})
	if err != nil {
		return nil, "", err
	}

	po := models.PaymentOrder{
		UserID:        userID,
		Amount:        amount,
		Status:        models.PaymentOrderStatusPending,
		PaymentMethod: method,
		PaymentLinkID: link.ID,
		Orders:        orders,
	}
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Orders").Create(&po).Error; err != nil {
			return err
		}
		if err := tx.Model(&po).Association("Orders").Append(orders); err != nil {
			return err
		}
		orderIDs := make([]uint, 0, len(orders))
		for _, o := range orders {
			orderIDs = append(orderIDs, o.ID)
		}
		return tx.Model(&models.Order{}).
			Where("id IN ?", orderIDs).
			Update("payment_link_id", link.ID).Error
	})
	if err != nil {
		return nil, "", err
	}

	log.Info().Uint("payment_order_id", po.ID).Int64("amount", amount).
		Str("payment_link_id", link.ID).Msg("payment order created")
	return &po, link.URL, nil
}

// FindByID returns a payment order with its member orders.
func (s *Service) FindByID(id uint) (*models.PaymentOrder, error) {
	var po models.PaymentOrder
	if err := s.db.Preload("Orders").Preload("User").First(&po, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NotFoundf("payment order not exist with id %d", id)
		}
		return nil, err
	}
	return &po, nil
}

// FindByPaymentLinkID resolves the payment order for a provider reference.
func (s *Service) FindByPaymentLinkID(linkID string) (*models.PaymentOrder, error) {
	var po models.PaymentOrder
	if err := s.db.Preload("Orders").Preload("User").
		Where("payment_link_id = ?", linkID).First(&po).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NotFoundf("payment order not exist with link id %s", linkID)
		}
		return nil, err
	}
	return &po, nil
}

// Settle reconciles a provider confirmation into durable state. It returns
// true only for the single invocation that transitions the payment order from
// PENDING to SUCCESS; duplicate provider callbacks are a no-op returning
// false. On a captured payment every member order's payment status flips to
// COMPLETED, a Transaction audit row is written per order, and the
// originating cart is cleared, all in one database transaction. A payment the
// provider reports as anything other than captured marks the payment order
// FAILED and leaves the member orders untouched, eligible for a fresh
// payment attempt.
func (s *Service) Settle(ctx context.Context, po *models.PaymentOrder, providerPaymentID string) (bool, error) {
	if po.Status != models.PaymentOrderStatusPending {
		return false, nil
	}

	provider, err := s.providers(po.PaymentMethod)
	if err != nil {
		return false, err
	}
	status, err := provider.FetchPaymentStatus(ctx, providerPaymentID)
	if err != nil {
		// Provider outage: leave everything PENDING, safe to retry.
		return false, err
	}

	if status != StatusCaptured {
		res := s.db.Model(&models.PaymentOrder{}).
			Where("id = ? AND status = ?", po.ID, models.PaymentOrderStatusPending).
			Update("status", models.PaymentOrderStatusFailed)
		if res.Error != nil {
			return false, res.Error
		}
		if res.RowsAffected > 0 {
			po.Status = models.PaymentOrderStatusFailed
			log.Warn().Uint("payment_order_id", po.ID).Str("provider_status", string(status)).
				Msg("payment order failed")
		}
		return false, nil
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		// Exactly one settlement attempt may claim the PENDING state.
		res := tx.Model(&models.PaymentOrder{}).
			Where("id = ? AND status = ?", po.ID, models.PaymentOrderStatusPending).
			Update("status", models.PaymentOrderStatusSuccess)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errAlreadySettled
		}

		for _, o := range po.Orders {
			if err := tx.Model(&models.Order{}).Where("id = ?", o.ID).Updates(map[string]interface{}{
				"payment_status":         models.PaymentStatusCompleted,
				"payment_transaction_id": providerPaymentID,
			}).Error; err != nil {
				return err
			}
			txn := models.Transaction{
				CustomerID: po.UserID,
				OrderID:    o.ID,
				SellerID:   o.SellerID,
				Date:       time.Now(),
			}
			if err := tx.Create(&txn).Error; err != nil {
				return err
			}
		}

		return s.carts.ClearCartIn(tx, po.UserID)
	})
	if errors.Is(err, errAlreadySettled) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	po.Status = models.PaymentOrderStatusSuccess

	s.notifySuccess(po)

	log.Info().Uint("payment_order_id", po.ID).Int("orders", len(po.Orders)).
		Msg("payment order settled")
	return true, nil
}

// notifySuccess sends the confirmation mail after the settlement transaction
// has committed. Failures are logged and swallowed; they can never roll back
// the payment state.
func (s *Service) notifySuccess(po *models.PaymentOrder) {
	if s.mailer == nil {
		return
	}
	subject := "Payment Successful - Order Confirmed"
	body := fmt.Sprintf(
		"Dear %s,\n\nYour payment has been successfully processed.\n\nAmount Paid: %d\nNumber of Orders: %d\n\nThank you for your purchase!",
		po.User.FullName, po.Amount, len(po.Orders),
	)
	if err := s.mailer.Send(po.User.Email, subject, body); err != nil {
		log.Error().Err(err).Uint("payment_order_id", po.ID).Msg("payment confirmation email failed")
	}
}
