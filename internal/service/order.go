package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"restaurant-ordering-server/internal/model"
	"restaurant-ordering-server/internal/pkg/lock"
	"restaurant-ordering-server/internal/repository"
)

// Order service errors.
var (
	ErrEmptyOrder    = errors.New("order has no items")
	ErrTotalMismatch = errors.New("order total does not match item prices")
	ErrOrderNotFound = errors.New("order not found")
	ErrInvalidStatus = errors.New("invalid order status")
)

// Orders validates and records customer orders and debits the ledger for
// them.
type Orders struct {
	orders   *repository.Orders
	users    *repository.Users
	ledger   *Ledger
	userLock *lock.UserLock
}

// NewOrders creates a new Orders service.
func NewOrders(orders *repository.Orders, users *repository.Users, ledger *Ledger, userLock *lock.UserLock) *Orders {
	return &Orders{orders: orders, users: users, ledger: ledger, userLock: userLock}
}

// Submit records a pending order and debits the user's heart value by its
// total. The order write precedes the debit; a debit failure leaves the
// order recorded without a transaction, which is the accepted failure
// mode. Fails with InsufficientBalanceError when the total exceeds the
// balance at call time.
func (s *Orders) Submit(ctx context.Context, userID, username string, items []model.OrderItem, total int64, customerInfo string) (*model.Order, error) {
	if len(items) == 0 {
		return nil, ErrEmptyOrder
	}
	var sum int64
	for _, item := range items {
		if item.Price < 0 || item.Quantity <= 0 {
			return nil, ErrTotalMismatch
		}
		sum += item.Price * item.Quantity
	}
	if total <= 0 || sum != total {
		return nil, ErrTotalMismatch
	}

	var order *model.Order
	err := s.userLock.WithLock(userID, func() error {
		user, err := s.users.GetByID(ctx, userID)
		if err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return ErrUserNotFound
			}
			return err
		}
		if user.HeartValue < total {
			return &InsufficientBalanceError{Required: total, Available: user.HeartValue}
		}

		order = &model.Order{
			ID:           model.NextID(),
			UserID:       userID,
			Username:     username,
			Items:        items,
			Total:        total,
			CustomerInfo: customerInfo,
			Status:       model.OrderPending,
			CreatedAt:    time.Now(),
		}
		if err := s.orders.Append(ctx, *order); err != nil {
			return err
		}

		relatedID := order.ID
		desc := fmt.Sprintf("订单支付 - 订单号#%d", order.ID)
		_, err = s.ledger.ApplyDelta(ctx, userID, user.HeartValue-total, desc, model.TxTypeOrder, &relatedID)
		return err
	})
	if err != nil {
		return nil, err
	}

	log.Info().Str("user", username).Int64("order_id", order.ID).Int64("total", total).Msg("order submitted")
	return order, nil
}

// List returns all orders, newest first.
func (s *Orders) List(ctx context.Context) ([]model.Order, error) {
	return s.orders.List(ctx)
}

// UpdateStatus moves an order to a new status.
func (s *Orders) UpdateStatus(ctx context.Context, id int64, status string) error {
	if !model.ValidOrderStatus(status) {
		return ErrInvalidStatus
	}
	if err := s.orders.UpdateStatus(ctx, id, status); err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return ErrOrderNotFound
		}
		return err
	}
	return nil
}

// Delete permanently removes an order. Its payment transaction, if any,
// is left in the ledger.
func (s *Orders) Delete(ctx context.Context, id int64) error {
	if err := s.orders.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return ErrOrderNotFound
		}
		return err
	}
	log.Info().Int64("order_id", id).Msg("order deleted")
	return nil
}
