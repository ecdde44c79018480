package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"restaurant-ordering-server/internal/model"
)

func TestLedger_ApplyDelta(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	user := env.addUser(t, 100)

	tx, err := env.ledger.ApplyDelta(ctx, user.ID, 150, "test credit", model.TxTypeOther, nil)
	require.NoError(t, err)

	assert.Equal(t, int64(100), tx.OldValue)
	assert.Equal(t, int64(150), tx.NewValue)
	assert.Equal(t, int64(50), tx.ChangeAmount)
	assert.Equal(t, user.ID, tx.UserID)

	balance, err := env.ledger.Balance(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(150), balance)
}

func TestLedger_ApplyDeltaUnknownUser(t *testing.T) {
	env := newTestEnv()

	_, err := env.ledger.ApplyDelta(context.Background(), "999", 50, "", model.TxTypeOther, nil)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestLedger_HistoryNewestFirst(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	user := env.addUser(t, 100)

	_, err := env.ledger.ApplyDelta(ctx, user.ID, 80, "first", model.TxTypeOther, nil)
	require.NoError(t, err)
	_, err = env.ledger.ApplyDelta(ctx, user.ID, 120, "second", model.TxTypeOther, nil)
	require.NoError(t, err)

	history, err := env.ledger.History(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "second", history[0].Description)
	assert.Equal(t, "first", history[1].Description)
}

// TestLedger_OrphanCleanup verifies that reading the history drops
// recharge transactions whose request no longer exists, and only those.
func TestLedger_OrphanCleanup(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	user := env.addUser(t, 100)

	req, err := env.recharge.Submit(ctx, user.ID, user.Username, 50)
	require.NoError(t, err)
	_, err = env.recharge.Resolve(ctx, req.ID, model.RechargeApproved, nil, "admin")
	require.NoError(t, err)

	// A recharge transaction pointing at a request that was never stored.
	ghostID := model.NextID()
	require.NoError(t, env.txs.Append(ctx, model.Transaction{
		ID:        model.NextID(),
		UserID:    user.ID,
		Type:      model.TxTypeRecharge,
		RelatedID: &ghostID,
		CreatedAt: time.Now(),
	}))
	// A non-recharge transaction must survive regardless of its reference.
	_, err = env.ledger.ApplyDelta(ctx, user.ID, 140, "spend", model.TxTypeOther, nil)
	require.NoError(t, err)

	history, err := env.ledger.History(ctx, user.ID)
	require.NoError(t, err)

	require.Len(t, history, 2)
	for _, tx := range history {
		if tx.Type == model.TxTypeRecharge {
			require.NotNil(t, tx.RelatedID)
			assert.Equal(t, req.ID, *tx.RelatedID)
		}
	}
}

// TestLedgerReplayProperty checks that folding a user's transactions in
// creation order reconstructs the final balance, with each entry's old
// value chaining to the previous entry's new value.
func TestLedgerReplayProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		env := newTestEnv()
		ctx := context.Background()

		initial := rapid.Int64Range(0, 10000).Draw(t, "initial")
		user := model.User{ID: "424242", Username: "replay", HeartValue: initial}
		if err := env.users.Create(ctx, user); err != nil {
			t.Fatalf("create user: %v", err)
		}

		balance := initial
		numTxs := rapid.IntRange(1, 20).Draw(t, "numTxs")
		for i := 0; i < numTxs; i++ {
			delta := rapid.Int64Range(-balance, 5000).Draw(t, "delta")
			balance += delta
			if _, err := env.ledger.ApplyDelta(ctx, user.ID, balance, "step", model.TxTypeOther, nil); err != nil {
				t.Fatalf("apply delta: %v", err)
			}
		}

		txs, err := env.txs.ListByUserAsc(ctx, user.ID)
		if err != nil {
			t.Fatalf("list transactions: %v", err)
		}
		if len(txs) != numTxs {
			t.Fatalf("expected %d transactions, got %d", numTxs, len(txs))
		}

		replayed := initial
		for i, tx := range txs {
			if tx.OldValue != replayed {
				t.Fatalf("tx %d: old value %d does not chain from %d", i, tx.OldValue, replayed)
			}
			if tx.ChangeAmount != tx.NewValue-tx.OldValue {
				t.Fatalf("tx %d: change amount %d != %d-%d", i, tx.ChangeAmount, tx.NewValue, tx.OldValue)
			}
			replayed = tx.NewValue
		}

		final, err := env.ledger.Balance(ctx, user.ID)
		if err != nil {
			t.Fatalf("read balance: %v", err)
		}
		if replayed != final {
			t.Fatalf("replayed balance %d != stored balance %d", replayed, final)
		}
	})
}
