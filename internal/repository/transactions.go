package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"restaurant-ordering-server/internal/model"
	"restaurant-ordering-server/internal/store"
)

// Transactions persists the append-only heart-value ledger entries.
type Transactions struct {
	store store.Store
}

// NewTransactions creates a new Transactions repository.
func NewTransactions(s store.Store) *Transactions {
	return &Transactions{store: s}
}

func (r *Transactions) all(ctx context.Context) ([]model.Transaction, error) {
	var txs []model.Transaction
	err := r.store.Load(ctx, store.RecordTransactions, &txs)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}
	return txs, nil
}

func (r *Transactions) save(ctx context.Context, txs []model.Transaction) error {
	if txs == nil {
		txs = []model.Transaction{}
	}
	if err := r.store.Save(ctx, store.RecordTransactions, txs); err != nil {
		return fmt.Errorf("failed to save transactions: %w", err)
	}
	return nil
}

// Append adds a new ledger entry.
func (r *Transactions) Append(ctx context.Context, tx model.Transaction) error {
	txs, err := r.all(ctx)
	if err != nil {
		return err
	}
	return r.save(ctx, append(txs, tx))
}

// List returns every transaction, newest first.
func (r *Transactions) List(ctx context.Context) ([]model.Transaction, error) {
	txs, err := r.all(ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(txs, func(i, j int) bool {
		return txs[i].CreatedAt.After(txs[j].CreatedAt)
	})
	return txs, nil
}

// ListByUser returns the user's transactions, newest first.
func (r *Transactions) ListByUser(ctx context.Context, userID string) ([]model.Transaction, error) {
	txs, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]model.Transaction, 0, len(txs))
	for _, tx := range txs {
		if tx.UserID == userID {
			out = append(out, tx)
		}
	}
	return out, nil
}

// ListByUserAsc returns the user's transactions in creation order.
// Replaying them reconstructs the user's current balance.
func (r *Transactions) ListByUserAsc(ctx context.Context, userID string) ([]model.Transaction, error) {
	txs, err := r.all(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]model.Transaction, 0, len(txs))
	for _, tx := range txs {
		if tx.UserID == userID {
			out = append(out, tx)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

// Prune removes every transaction for which drop returns true and reports
// how many entries were removed.
func (r *Transactions) Prune(ctx context.Context, drop func(model.Transaction) bool) (int, error) {
	txs, err := r.all(ctx)
	if err != nil {
		return 0, err
	}
	kept := txs[:0]
	for _, tx := range txs {
		if !drop(tx) {
			kept = append(kept, tx)
		}
	}
	removed := len(txs) - len(kept)
	if removed == 0 {
		return 0, nil
	}
	if err := r.save(ctx, kept); err != nil {
		return 0, err
	}
	return removed, nil
}

// DeleteByUser removes every transaction belonging to the user. Used by
// the account deletion cascade.
func (r *Transactions) DeleteByUser(ctx context.Context, userID string) error {
	_, err := r.Prune(ctx, func(tx model.Transaction) bool {
		return tx.UserID == userID
	})
	return err
}

// DeleteByRechargeRef removes recharge transactions that reference the
// given request id. Used when a recharge request is deleted.
func (r *Transactions) DeleteByRechargeRef(ctx context.Context, requestID int64) (int, error) {
	return r.Prune(ctx, func(tx model.Transaction) bool {
		return tx.Type == model.TxTypeRecharge && tx.RelatedID != nil && *tx.RelatedID == requestID
	})
}
