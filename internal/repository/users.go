// Package repository provides typed access to the persisted records.
// Every method runs a full load-mutate-save cycle against the record
// store; callers serialize per-user mutations with the lock package.
package repository

import (
	"context"
	"errors"
	"fmt"

	"restaurant-ordering-server/internal/model"
	"restaurant-ordering-server/internal/store"
)

// Common errors for repository operations.
var (
	ErrUserNotFound     = errors.New("user not found")
	ErrUsernameTaken    = errors.New("username already exists")
	ErrOrderNotFound    = errors.New("order not found")
	ErrRechargeNotFound = errors.New("recharge request not found")
)

// Users persists the user collection.
type Users struct {
	store store.Store
}

// NewUsers creates a new Users repository.
func NewUsers(s store.Store) *Users {
	return &Users{store: s}
}

func (r *Users) all(ctx context.Context) ([]model.User, error) {
	var users []model.User
	err := r.store.Load(ctx, store.RecordUsers, &users)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("failed to load users: %w", err)
	}
	return users, nil
}

func (r *Users) save(ctx context.Context, users []model.User) error {
	if users == nil {
		users = []model.User{}
	}
	if err := r.store.Save(ctx, store.RecordUsers, users); err != nil {
		return fmt.Errorf("failed to save users: %w", err)
	}
	return nil
}

// List returns all users in stored order.
func (r *Users) List(ctx context.Context) ([]model.User, error) {
	return r.all(ctx)
}

// GetByID retrieves a user by id. Returns ErrUserNotFound if absent.
func (r *Users) GetByID(ctx context.Context, id string) (*model.User, error) {
	users, err := r.all(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].ID == id {
			u := users[i]
			return &u, nil
		}
	}
	return nil, ErrUserNotFound
}

// GetByUsername retrieves a user by username. Usernames are unique.
func (r *Users) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	users, err := r.all(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].Username == username {
			u := users[i]
			return &u, nil
		}
	}
	return nil, ErrUserNotFound
}

// Create appends a new user. Returns ErrUsernameTaken when the username is
// already in use.
func (r *Users) Create(ctx context.Context, u model.User) error {
	users, err := r.all(ctx)
	if err != nil {
		return err
	}
	for i := range users {
		if users[i].Username == u.Username {
			return ErrUsernameTaken
		}
	}
	return r.save(ctx, append(users, u))
}

// Update replaces the stored user with the same id.
func (r *Users) Update(ctx context.Context, u model.User) error {
	users, err := r.all(ctx)
	if err != nil {
		return err
	}
	for i := range users {
		if users[i].ID == u.ID {
			users[i] = u
			return r.save(ctx, users)
		}
	}
	return ErrUserNotFound
}

// Delete removes the user with the given id.
func (r *Users) Delete(ctx context.Context, id string) error {
	users, err := r.all(ctx)
	if err != nil {
		return err
	}
	for i := range users {
		if users[i].ID == id {
			return r.save(ctx, append(users[:i], users[i+1:]...))
		}
	}
	return ErrUserNotFound
}
