package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"restaurant-ordering-server/internal/model"
	"restaurant-ordering-server/internal/store"
)

// Orders persists the order collection.
type Orders struct {
	store store.Store
}

// NewOrders creates a new Orders repository.
func NewOrders(s store.Store) *Orders {
	return &Orders{store: s}
}

func (r *Orders) all(ctx context.Context) ([]model.Order, error) {
	var orders []model.Order
	err := r.store.Load(ctx, store.RecordOrders, &orders)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("failed to load orders: %w", err)
	}
	return orders, nil
}

func (r *Orders) save(ctx context.Context, orders []model.Order) error {
	if orders == nil {
		orders = []model.Order{}
	}
	if err := r.store.Save(ctx, store.RecordOrders, orders); err != nil {
		return fmt.Errorf("failed to save orders: %w", err)
	}
	return nil
}

// Append adds a new order to the collection.
func (r *Orders) Append(ctx context.Context, o model.Order) error {
	orders, err := r.all(ctx)
	if err != nil {
		return err
	}
	return r.save(ctx, append(orders, o))
}

// List returns all orders, newest first.
func (r *Orders) List(ctx context.Context) ([]model.Order, error) {
	orders, err := r.all(ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
	return orders, nil
}

// Get retrieves an order by id.
func (r *Orders) Get(ctx context.Context, id int64) (*model.Order, error) {
	orders, err := r.all(ctx)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		if orders[i].ID == id {
			o := orders[i]
			return &o, nil
		}
	}
	return nil, ErrOrderNotFound
}

// UpdateStatus sets the status of the order with the given id.
func (r *Orders) UpdateStatus(ctx context.Context, id int64, status string) error {
	orders, err := r.all(ctx)
	if err != nil {
		return err
	}
	for i := range orders {
		if orders[i].ID == id {
			orders[i].Status = status
			return r.save(ctx, orders)
		}
	}
	return ErrOrderNotFound
}

// Delete permanently removes the order with the given id.
func (r *Orders) Delete(ctx context.Context, id int64) error {
	orders, err := r.all(ctx)
	if err != nil {
		return err
	}
	for i := range orders {
		if orders[i].ID == id {
			return r.save(ctx, append(orders[:i], orders[i+1:]...))
		}
	}
	return ErrOrderNotFound
}

// DeleteByUser removes every order belonging to the user. Used by the
// account deletion cascade.
func (r *Orders) DeleteByUser(ctx context.Context, userID string) error {
	orders, err := r.all(ctx)
	if err != nil {
		return err
	}
	kept := orders[:0]
	for _, o := range orders {
		if o.UserID != userID {
			kept = append(kept, o)
		}
	}
	if len(kept) == len(orders) {
		return nil
	}
	return r.save(ctx, kept)
}
