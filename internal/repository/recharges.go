package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"restaurant-ordering-server/internal/model"
	"restaurant-ordering-server/internal/store"
)

// Recharges persists the recharge request collection.
type Recharges struct {
	store store.Store
}

// NewRecharges creates a new Recharges repository.
func NewRecharges(s store.Store) *Recharges {
	return &Recharges{store: s}
}

func (r *Recharges) all(ctx context.Context) ([]model.RechargeRequest, error) {
	var requests []model.RechargeRequest
	err := r.store.Load(ctx, store.RecordRecharges, &requests)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("failed to load recharge requests: %w", err)
	}
	return requests, nil
}

func (r *Recharges) save(ctx context.Context, requests []model.RechargeRequest) error {
	if requests == nil {
		requests = []model.RechargeRequest{}
	}
	if err := r.store.Save(ctx, store.RecordRecharges, requests); err != nil {
		return fmt.Errorf("failed to save recharge requests: %w", err)
	}
	return nil
}

// Append adds a new request to the collection.
func (r *Recharges) Append(ctx context.Context, req model.RechargeRequest) error {
	requests, err := r.all(ctx)
	if err != nil {
		return err
	}
	return r.save(ctx, append(requests, req))
}

// List returns all requests, newest first.
func (r *Recharges) List(ctx context.Context) ([]model.RechargeRequest, error) {
	requests, err := r.all(ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(requests, func(i, j int) bool {
		return requests[i].CreatedAt.After(requests[j].CreatedAt)
	})
	return requests, nil
}

// ListByUser returns the user's requests, newest first.
func (r *Recharges) ListByUser(ctx context.Context, userID string) ([]model.RechargeRequest, error) {
	requests, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]model.RechargeRequest, 0, len(requests))
	for _, req := range requests {
		if req.UserID == userID {
			out = append(out, req)
		}
	}
	return out, nil
}

// Get retrieves a request by id.
func (r *Recharges) Get(ctx context.Context, id int64) (*model.RechargeRequest, error) {
	requests, err := r.all(ctx)
	if err != nil {
		return nil, err
	}
	for i := range requests {
		if requests[i].ID == id {
			req := requests[i]
			return &req, nil
		}
	}
	return nil, ErrRechargeNotFound
}

// Replace overwrites the stored request with the same id.
func (r *Recharges) Replace(ctx context.Context, req model.RechargeRequest) error {
	requests, err := r.all(ctx)
	if err != nil {
		return err
	}
	for i := range requests {
		if requests[i].ID == req.ID {
			requests[i] = req
			return r.save(ctx, requests)
		}
	}
	return ErrRechargeNotFound
}

// Delete permanently removes the request with the given id.
func (r *Recharges) Delete(ctx context.Context, id int64) error {
	requests, err := r.all(ctx)
	if err != nil {
		return err
	}
	for i := range requests {
		if requests[i].ID == id {
			return r.save(ctx, append(requests[:i], requests[i+1:]...))
		}
	}
	return ErrRechargeNotFound
}

// DeleteByUser removes every request belonging to the user. Used by the
// account deletion cascade.
func (r *Recharges) DeleteByUser(ctx context.Context, userID string) error {
	requests, err := r.all(ctx)
	if err != nil {
		return err
	}
	kept := requests[:0]
	for _, req := range requests {
		if req.UserID != userID {
			kept = append(kept, req)
		}
	}
	if len(kept) == len(requests) {
		return nil
	}
	return r.save(ctx, kept)
}

// IDs returns the set of existing request ids. The ledger service uses it
// for the recharge orphan cleanup pass.
func (r *Recharges) IDs(ctx context.Context) (map[int64]struct{}, error) {
	requests, err := r.all(ctx)
	if err != nil {
		return nil, err
	}
	ids := make(map[int64]struct{}, len(requests))
	for _, req := range requests {
		ids[req.ID] = struct{}{}
	}
	return ids, nil
}
