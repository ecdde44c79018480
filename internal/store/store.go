// Package store persists named JSON documents.
package store

import (
	"context"
	"errors"
)

// Record names managed by the store.
const (
	RecordUsers        = "users"
	RecordOrders       = "orders"
	RecordRecharges    = "recharge-requests"
	RecordTransactions = "heart-transactions"
	RecordDiscounts    = "daily-discounts"
)

// ManagedRecords lists every record name the application persists.
var ManagedRecords = []string{
	RecordUsers,
	RecordOrders,
	RecordRecharges,
	RecordTransactions,
	RecordDiscounts,
}

// ErrNotFound is returned by Load when no document exists under the name.
var ErrNotFound = errors.New("record not found")

// Store loads and saves named JSON documents. Implementations serialize
// concurrent access per store instance; callers that perform
// read-modify-write cycles across records must hold their own per-user
// lock around the whole cycle.
type Store interface {
	Load(ctx context.Context, name string, v any) error
	Save(ctx context.Context, name string, v any) error
}
