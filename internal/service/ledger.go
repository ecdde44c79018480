// Package service provides the business logic of the ordering system.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"restaurant-ordering-server/internal/model"
	"restaurant-ordering-server/internal/repository"
)

// Common errors for service operations.
var (
	ErrUserNotFound = errors.New("user not found")
)

// Ledger maintains heart-value balances and the append-only transaction
// history. Every balance mutation flows through ApplyDelta so no balance
// ever changes without a matching ledger entry.
type Ledger struct {
	users     *repository.Users
	txs       *repository.Transactions
	recharges *repository.Recharges
}

// NewLedger creates a new Ledger instance.
func NewLedger(users *repository.Users, txs *repository.Transactions, recharges *repository.Recharges) *Ledger {
	return &Ledger{users: users, txs: txs, recharges: recharges}
}

// ApplyDelta sets the user's balance to newBalance and appends a
// transaction recording the change. The target is an absolute balance;
// callers compute it from the balance they read while holding the user's
// lock. The balance write precedes the ledger append and there is no
// rollback if the append fails.
func (s *Ledger) ApplyDelta(ctx context.Context, userID string, newBalance int64, description, txType string, relatedID *int64) (*model.Transaction, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	oldValue := user.HeartValue
	user.HeartValue = newBalance
	if err := s.users.Update(ctx, *user); err != nil {
		return nil, fmt.Errorf("failed to update balance: %w", err)
	}

	tx := model.Transaction{
		ID:           model.NextID(),
		UserID:       userID,
		Username:     user.Username,
		OldValue:     oldValue,
		NewValue:     newBalance,
		ChangeAmount: newBalance - oldValue,
		Type:         txType,
		Description:  description,
		RelatedID:    relatedID,
		CreatedAt:    time.Now(),
	}
	if err := s.txs.Append(ctx, tx); err != nil {
		// The balance is already written; losing the ledger entry is the
		// accepted failure mode here, so log instead of failing the call.
		log.Error().Err(err).Str("user_id", userID).Msg("failed to append ledger transaction")
	}

	log.Info().
		Str("user", user.Username).
		Int64("old", oldValue).
		Int64("new", newBalance).
		Str("type", txType).
		Msg("heart value changed")

	return &tx, nil
}

// Balance returns the user's current heart value.
func (s *Ledger) Balance(ctx context.Context, userID string) (int64, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return 0, ErrUserNotFound
		}
		return 0, err
	}
	return user.HeartValue, nil
}

// History returns the user's transactions, newest first. Before reading
// it runs the orphan cleanup pass: recharge transactions whose request no
// longer exists are dropped. This is an opportunistic repair, not a
// migration.
func (s *Ledger) History(ctx context.Context, userID string) ([]model.Transaction, error) {
	if err := s.cleanupOrphans(ctx); err != nil {
		return nil, err
	}
	return s.txs.ListByUser(ctx, userID)
}

// AllTransactions returns every transaction, newest first.
func (s *Ledger) AllTransactions(ctx context.Context) ([]model.Transaction, error) {
	return s.txs.List(ctx)
}

func (s *Ledger) cleanupOrphans(ctx context.Context) error {
	ids, err := s.recharges.IDs(ctx)
	if err != nil {
		return err
	}
	removed, err := s.txs.Prune(ctx, func(tx model.Transaction) bool {
		if tx.Type != model.TxTypeRecharge {
			return false
		}
		if tx.RelatedID == nil {
			return true
		}
		_, ok := ids[*tx.RelatedID]
		return !ok
	})
	if err != nil {
		return err
	}
	if removed > 0 {
		log.Info().Int("count", removed).Msg("removed orphaned recharge transactions")
	}
	return nil
}
