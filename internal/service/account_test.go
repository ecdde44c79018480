package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restaurant-ordering-server/internal/model"
)

func TestAccounts_RegisterAndLogin(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	user, err := env.accounts.Register(ctx, "kristy", "secret123")
	require.NoError(t, err)
	assert.Equal(t, int64(100), user.HeartValue)
	assert.False(t, user.IsAdmin)
	assert.NotEqual(t, "secret123", user.PasswordHash)

	logged, err := env.accounts.Login(ctx, "kristy", "secret123")
	require.NoError(t, err)
	assert.Equal(t, user.ID, logged.ID)

	_, err = env.accounts.Login(ctx, "kristy", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = env.accounts.Login(ctx, "nobody", "secret123")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestAccounts_RegisterValidation(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	_, err := env.accounts.Register(ctx, "", "secret123")
	assert.ErrorIs(t, err, ErrMissingCredentials)
	_, err = env.accounts.Register(ctx, "kristy", "")
	assert.ErrorIs(t, err, ErrMissingCredentials)

	_, err = env.accounts.Register(ctx, "kristy", "secret123")
	require.NoError(t, err)
	_, err = env.accounts.Register(ctx, "kristy", "other456")
	assert.ErrorIs(t, err, ErrUsernameTaken)
}

func TestAccounts_ChangePassword(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	user, err := env.accounts.Register(ctx, "kristy", "secret123")
	require.NoError(t, err)

	assert.ErrorIs(t, env.accounts.ChangePassword(ctx, user.ID, "secret123", "short"), ErrPasswordTooShort)
	assert.ErrorIs(t, env.accounts.ChangePassword(ctx, user.ID, "wrong", "newsecret"), ErrInvalidCredentials)

	require.NoError(t, env.accounts.ChangePassword(ctx, user.ID, "secret123", "newsecret"))

	_, err = env.accounts.Login(ctx, "kristy", "newsecret")
	assert.NoError(t, err)
	_, err = env.accounts.Login(ctx, "kristy", "secret123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

// TestAccounts_DeleteCascades verifies that deleting an account removes
// every record tied to it.
func TestAccounts_DeleteCascades(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	user, err := env.accounts.Register(ctx, "kristy", "secret123")
	require.NoError(t, err)
	other := env.addUser(t, 100)

	items := []model.OrderItem{{ID: 17, Name: "麻婆豆腐", Price: 28, Quantity: 1}}
	_, err = env.order.Submit(ctx, user.ID, user.Username, items, 28, "")
	require.NoError(t, err)
	_, err = env.recharge.Submit(ctx, user.ID, user.Username, 50)
	require.NoError(t, err)
	_, err = env.discount.GetOrCreate(ctx, user.ID)
	require.NoError(t, err)

	otherOrder, err := env.order.Submit(ctx, other.ID, other.Username, items, 28, "")
	require.NoError(t, err)

	require.NoError(t, env.accounts.Delete(ctx, user.ID))

	_, err = env.accounts.Get(ctx, user.ID)
	assert.ErrorIs(t, err, ErrUserNotFound)

	orders, err := env.order.List(ctx)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, otherOrder.ID, orders[0].ID)

	requests, err := env.recharge.ListForUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, requests)

	history, err := env.ledger.History(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, history)

	rec, err := env.discounts.Get(ctx, user.ID)
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestAccounts_DeleteAdminRefused(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	require.NoError(t, env.accounts.EnsureAdmin(ctx, "kristy", 9999))
	admin, err := env.users.GetByUsername(ctx, "admin")
	require.NoError(t, err)

	assert.ErrorIs(t, env.accounts.Delete(ctx, admin.ID), ErrAdminImmutable)
}

func TestAccounts_EnsureAdminIdempotent(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	require.NoError(t, env.accounts.EnsureAdmin(ctx, "kristy", 9999))
	admin, err := env.users.GetByUsername(ctx, "admin")
	require.NoError(t, err)
	assert.True(t, admin.IsAdmin)
	assert.Equal(t, int64(9999), admin.HeartValue)

	// A second call does not reset the account.
	_, err = env.ledger.ApplyDelta(ctx, admin.ID, 5000, "spend", model.TxTypeOther, nil)
	require.NoError(t, err)
	require.NoError(t, env.accounts.EnsureAdmin(ctx, "kristy", 9999))

	admin, err = env.users.GetByUsername(ctx, "admin")
	require.NoError(t, err)
	assert.Equal(t, int64(5000), admin.HeartValue)
}

func TestAccounts_AdminUpdate(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	user, err := env.accounts.Register(ctx, "kristy", "secret123")
	require.NoError(t, err)

	newName := "kris"
	newBalance := int64(500)
	changes, err := env.accounts.AdminUpdate(ctx, user.ID, &newName, nil, &newBalance)
	require.NoError(t, err)
	assert.Len(t, changes, 2)

	updated, err := env.accounts.Get(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "kris", updated.Username)
	assert.Equal(t, int64(500), updated.HeartValue)

	// The heart adjustment went through the ledger.
	history, err := env.ledger.History(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, model.TxTypeAdmin, history[0].Type)
	assert.Equal(t, int64(400), history[0].ChangeAmount)
}

func TestAccounts_AdminUpdateValidation(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	user, err := env.accounts.Register(ctx, "kristy", "secret123")
	require.NoError(t, err)
	_, err = env.accounts.Register(ctx, "taken", "secret123")
	require.NoError(t, err)

	taken := "taken"
	_, err = env.accounts.AdminUpdate(ctx, user.ID, &taken, nil, nil)
	assert.ErrorIs(t, err, ErrUsernameTaken)

	negative := int64(-1)
	_, err = env.accounts.AdminUpdate(ctx, user.ID, nil, nil, &negative)
	assert.ErrorIs(t, err, ErrInvalidHeartValue)

	_, err = env.accounts.AdminUpdate(ctx, "999", nil, nil, nil)
	assert.ErrorIs(t, err, ErrUserNotFound)
}
