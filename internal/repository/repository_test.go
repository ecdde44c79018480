package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restaurant-ordering-server/internal/model"
	"restaurant-ordering-server/internal/store"
)

func TestUsers_CreateEnforcesUniqueUsername(t *testing.T) {
	r := NewUsers(store.NewMemStore())
	ctx := context.Background()

	require.NoError(t, r.Create(ctx, model.User{ID: "1", Username: "kristy"}))
	assert.ErrorIs(t, r.Create(ctx, model.User{ID: "2", Username: "kristy"}), ErrUsernameTaken)

	u, err := r.GetByUsername(ctx, "kristy")
	require.NoError(t, err)
	assert.Equal(t, "1", u.ID)
}

func TestUsers_UpdateAndDelete(t *testing.T) {
	r := NewUsers(store.NewMemStore())
	ctx := context.Background()

	require.NoError(t, r.Create(ctx, model.User{ID: "1", Username: "kristy", HeartValue: 100}))

	assert.ErrorIs(t, r.Update(ctx, model.User{ID: "2"}), ErrUserNotFound)
	require.NoError(t, r.Update(ctx, model.User{ID: "1", Username: "kristy", HeartValue: 250}))

	u, err := r.GetByID(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, int64(250), u.HeartValue)

	require.NoError(t, r.Delete(ctx, "1"))
	_, err = r.GetByID(ctx, "1")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestOrders_ListNewestFirst(t *testing.T) {
	r := NewOrders(store.NewMemStore())
	ctx := context.Background()

	base := time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		require.NoError(t, r.Append(ctx, model.Order{
			ID:        int64(i + 1),
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}

	orders, err := r.List(ctx)
	require.NoError(t, err)
	require.Len(t, orders, 3)
	assert.Equal(t, int64(3), orders[0].ID)
	assert.Equal(t, int64(1), orders[2].ID)
}

func TestTransactions_Prune(t *testing.T) {
	r := NewTransactions(store.NewMemStore())
	ctx := context.Background()

	require.NoError(t, r.Append(ctx, model.Transaction{ID: 1, UserID: "a", Type: model.TxTypeOrder}))
	require.NoError(t, r.Append(ctx, model.Transaction{ID: 2, UserID: "a", Type: model.TxTypeRecharge}))
	require.NoError(t, r.Append(ctx, model.Transaction{ID: 3, UserID: "b", Type: model.TxTypeRecharge}))

	removed, err := r.Prune(ctx, func(tx model.Transaction) bool {
		return tx.Type == model.TxTypeRecharge
	})
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	all, err := r.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, int64(1), all[0].ID)

	// Nothing left to drop.
	removed, err = r.Prune(ctx, func(tx model.Transaction) bool {
		return tx.Type == model.TxTypeRecharge
	})
	require.NoError(t, err)
	assert.Zero(t, removed)
}

func TestRecharges_ReplaceAndIDs(t *testing.T) {
	r := NewRecharges(store.NewMemStore())
	ctx := context.Background()

	require.NoError(t, r.Append(ctx, model.RechargeRequest{ID: 10, UserID: "a", Status: model.RechargePending}))
	require.NoError(t, r.Append(ctx, model.RechargeRequest{ID: 11, UserID: "b", Status: model.RechargePending}))

	require.NoError(t, r.Replace(ctx, model.RechargeRequest{ID: 10, UserID: "a", Status: model.RechargeApproved}))
	req, err := r.Get(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, model.RechargeApproved, req.Status)

	assert.ErrorIs(t, r.Replace(ctx, model.RechargeRequest{ID: 99}), ErrRechargeNotFound)

	ids, err := r.IDs(ctx)
	require.NoError(t, err)
	assert.Contains(t, ids, int64(10))
	assert.Contains(t, ids, int64(11))
	assert.NotContains(t, ids, int64(99))
}

func TestDiscounts_PutGetDelete(t *testing.T) {
	r := NewDiscounts(store.NewMemStore())
	ctx := context.Background()

	rec, err := r.Get(ctx, "a")
	require.NoError(t, err)
	assert.Nil(t, rec)

	in := &model.UserDiscounts{LastRefreshDate: "2026-08-31", RefreshCount: 2}
	require.NoError(t, r.Put(ctx, "a", in, "2026-08-31"))

	rec, err = r.Get(ctx, "a")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, 2, rec.RefreshCount)

	doc, err := r.Document(ctx)
	require.NoError(t, err)
	assert.Equal(t, "2026-08-31", doc.GlobalLastCheck)

	require.NoError(t, r.Delete(ctx, "a"))
	rec, err = r.Get(ctx, "a")
	require.NoError(t, err)
	assert.Nil(t, rec)
}
