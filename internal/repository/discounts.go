package repository

import (
	"context"
	"errors"
	"fmt"

	"restaurant-ordering-server/internal/model"
	"restaurant-ordering-server/internal/store"
)

// Discounts persists the single daily-discounts document that holds every
// user's discount record plus the global last-check date.
type Discounts struct {
	store store.Store
}

// NewDiscounts creates a new Discounts repository.
func NewDiscounts(s store.Store) *Discounts {
	return &Discounts{store: s}
}

// Document loads the discount document, returning an initialized empty one
// when nothing has been persisted yet.
func (r *Discounts) Document(ctx context.Context) (*model.DiscountDocument, error) {
	var doc model.DiscountDocument
	err := r.store.Load(ctx, store.RecordDiscounts, &doc)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("failed to load daily discounts: %w", err)
	}
	if doc.UserDiscounts == nil {
		doc.UserDiscounts = map[string]*model.UserDiscounts{}
	}
	return &doc, nil
}

// SaveDocument persists the discount document.
func (r *Discounts) SaveDocument(ctx context.Context, doc *model.DiscountDocument) error {
	if err := r.store.Save(ctx, store.RecordDiscounts, doc); err != nil {
		return fmt.Errorf("failed to save daily discounts: %w", err)
	}
	return nil
}

// Get returns the user's discount record, or nil when none exists.
func (r *Discounts) Get(ctx context.Context, userID string) (*model.UserDiscounts, error) {
	doc, err := r.Document(ctx)
	if err != nil {
		return nil, err
	}
	return doc.UserDiscounts[userID], nil
}

// Put stores the user's discount record and stamps the global check date.
func (r *Discounts) Put(ctx context.Context, userID string, rec *model.UserDiscounts, day string) error {
	doc, err := r.Document(ctx)
	if err != nil {
		return err
	}
	doc.UserDiscounts[userID] = rec
	doc.GlobalLastCheck = day
	return r.SaveDocument(ctx, doc)
}

// Delete removes the user's discount record. Used by the account deletion
// cascade.
func (r *Discounts) Delete(ctx context.Context, userID string) error {
	doc, err := r.Document(ctx)
	if err != nil {
		return err
	}
	if _, ok := doc.UserDiscounts[userID]; !ok {
		return nil
	}
	delete(doc.UserDiscounts, userID)
	return r.SaveDocument(ctx, doc)
}
