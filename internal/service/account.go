package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"restaurant-ordering-server/internal/model"
	"restaurant-ordering-server/internal/pkg/lock"
	"restaurant-ordering-server/internal/repository"
)

// Account service errors.
var (
	ErrMissingCredentials = errors.New("username and password are required")
	ErrUsernameTaken      = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrPasswordTooShort   = errors.New("password must be at least 6 characters")
	ErrAdminImmutable     = errors.New("admin accounts cannot be deleted")
	ErrInvalidHeartValue  = errors.New("heart value must be a non-negative integer")
)

const minPasswordLen = 6

// Accounts manages registration, login, credential changes and account
// deletion with its cascade across the user's records.
type Accounts struct {
	users     *repository.Users
	orders    *repository.Orders
	recharges *repository.Recharges
	txs       *repository.Transactions
	discounts *repository.Discounts
	ledger    *Ledger
	userLock  *lock.UserLock

	initialBalance int64
}

// NewAccounts creates a new Accounts service.
func NewAccounts(
	users *repository.Users,
	orders *repository.Orders,
	recharges *repository.Recharges,
	txs *repository.Transactions,
	discounts *repository.Discounts,
	ledger *Ledger,
	userLock *lock.UserLock,
	initialBalance int64,
) *Accounts {
	return &Accounts{
		users:          users,
		orders:         orders,
		recharges:      recharges,
		txs:            txs,
		discounts:      discounts,
		ledger:         ledger,
		userLock:       userLock,
		initialBalance: initialBalance,
	}
}

// Register creates a new user with the configured initial heart value.
func (s *Accounts) Register(ctx context.Context, username, password string) (*model.User, error) {
	if username == "" || password == "" {
		return nil, ErrMissingCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := model.User{
		ID:           strconv.FormatInt(model.NextID(), 10),
		Username:     username,
		PasswordHash: string(hash),
		HeartValue:   s.initialBalance,
		CreatedAt:    time.Now(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrUsernameTaken) {
			return nil, ErrUsernameTaken
		}
		return nil, err
	}

	log.Info().Str("user", username).Msg("user registered")
	return &user, nil
}

// Login verifies the credentials and returns the user.
func (s *Accounts) Login(ctx context.Context, username, password string) (*model.User, error) {
	if username == "" || password == "" {
		return nil, ErrMissingCredentials
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// Get returns the user by id.
func (s *Accounts) Get(ctx context.Context, userID string) (*model.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// ChangePassword verifies the current password and replaces it.
func (s *Accounts) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	if oldPassword == "" || newPassword == "" {
		return ErrMissingCredentials
	}
	if len(newPassword) < minPasswordLen {
		return ErrPasswordTooShort
	}

	user, err := s.Get(ctx, userID)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(oldPassword)) != nil {
		return ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.PasswordHash = string(hash)
	if err := s.users.Update(ctx, *user); err != nil {
		return err
	}

	log.Info().Str("user", user.Username).Msg("password changed")
	return nil
}

// Delete removes the user and cascades across their orders, recharge
// requests, transactions and discount record, so nothing is left
// referencing a nonexistent user. Admin accounts are refused.
func (s *Accounts) Delete(ctx context.Context, userID string) error {
	user, err := s.Get(ctx, userID)
	if err != nil {
		return err
	}
	if user.IsAdmin {
		return ErrAdminImmutable
	}

	if err := s.users.Delete(ctx, userID); err != nil {
		return err
	}
	if err := s.orders.DeleteByUser(ctx, userID); err != nil {
		return err
	}
	if err := s.recharges.DeleteByUser(ctx, userID); err != nil {
		return err
	}
	if err := s.txs.DeleteByUser(ctx, userID); err != nil {
		return err
	}
	if err := s.discounts.Delete(ctx, userID); err != nil {
		return err
	}

	log.Info().Str("user", user.Username).Str("user_id", userID).Msg("account and related records deleted")
	return nil
}

// List returns all users without password hashes.
func (s *Accounts) List(ctx context.Context) ([]model.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]model.User, len(users))
	for i, u := range users {
		out[i] = u.Sanitized()
	}
	return out, nil
}

// AdminUpdate applies an admin edit to a user: rename, reset password
// and/or set the heart value. Heart changes go through the ledger so the
// adjustment shows up in the user's history.
func (s *Accounts) AdminUpdate(ctx context.Context, userID string, username, password *string, heartValue *int64) ([]string, error) {
	user, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	var changes []string

	if username != nil && *username != "" && *username != user.Username {
		if existing, err := s.users.GetByUsername(ctx, *username); err == nil && existing.ID != userID {
			return nil, ErrUsernameTaken
		}
		changes = append(changes, fmt.Sprintf("用户名: %s → %s", user.Username, *username))
		user.Username = *username
	}

	if password != nil && *password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		user.PasswordHash = string(hash)
		changes = append(changes, "密码已更新")
	}

	if err := s.users.Update(ctx, *user); err != nil {
		return nil, err
	}

	if heartValue != nil && *heartValue != user.HeartValue {
		if *heartValue < 0 {
			return nil, ErrInvalidHeartValue
		}
		delta := *heartValue - user.HeartValue
		desc := fmt.Sprintf("管理员调整心动值 (%+d)", delta)
		err := s.userLock.WithLock(userID, func() error {
			_, err := s.ledger.ApplyDelta(ctx, userID, *heartValue, desc, model.TxTypeAdmin, nil)
			return err
		})
		if err != nil {
			return nil, err
		}
		changes = append(changes, fmt.Sprintf("心动值: 💓%d → 💓%d", user.HeartValue, *heartValue))
	}

	return changes, nil
}

// EnsureAdmin seeds the admin account when it does not exist yet.
func (s *Accounts) EnsureAdmin(ctx context.Context, password string, balance int64) error {
	if _, err := s.users.GetByUsername(ctx, "admin"); err == nil {
		return nil
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}
	admin := model.User{
		ID:           strconv.FormatInt(model.NextID(), 10),
		Username:     "admin",
		PasswordHash: string(hash),
		IsAdmin:      true,
		HeartValue:   balance,
		CreatedAt:    time.Now(),
	}
	if err := s.users.Create(ctx, admin); err != nil {
		return err
	}

	log.Info().Msg("admin account initialized")
	return nil
}
