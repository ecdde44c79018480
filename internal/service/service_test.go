package service

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"restaurant-ordering-server/internal/model"
	"restaurant-ordering-server/internal/pkg/lock"
	"restaurant-ordering-server/internal/repository"
	"restaurant-ordering-server/internal/store"
)

// testEnv wires the full service stack over an in-memory store.
type testEnv struct {
	users     *repository.Users
	orders    *repository.Orders
	recharges *repository.Recharges
	txs       *repository.Transactions
	discounts *repository.Discounts

	ledger   *Ledger
	discount *Discount
	order    *Orders
	recharge *Recharges
	accounts *Accounts

	now time.Time
}

func newTestEnv() *testEnv {
	st := store.NewMemStore()
	env := &testEnv{
		users:     repository.NewUsers(st),
		orders:    repository.NewOrders(st),
		recharges: repository.NewRecharges(st),
		txs:       repository.NewTransactions(st),
		discounts: repository.NewDiscounts(st),
		now:       time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC),
	}

	userLock := lock.NewUserLock()
	env.ledger = NewLedger(env.users, env.txs, env.recharges)
	env.discount = NewDiscount(env.discounts, env.users, env.ledger, userLock, 100, func() time.Time { return env.now })
	env.order = NewOrders(env.orders, env.users, env.ledger, userLock)
	env.recharge = NewRecharges(env.recharges, env.users, env.txs, env.ledger, userLock)
	env.accounts = NewAccounts(env.users, env.orders, env.recharges, env.txs, env.discounts, env.ledger, userLock, 100)

	return env
}

// addUser inserts a user directly, bypassing registration.
func (env *testEnv) addUser(t *testing.T, balance int64) *model.User {
	t.Helper()

	user := model.User{
		ID:         strconv.FormatInt(model.NextID(), 10),
		Username:   "user-" + strconv.FormatInt(model.NextID(), 10),
		HeartValue: balance,
		CreatedAt:  env.now,
	}
	require.NoError(t, env.users.Create(context.Background(), user))
	return &user
}
