// Package model defines the persisted records of the ordering system.
package model

import "time"

// User is one registered account. HeartValue is the virtual currency
// balance and is only ever mutated through the ledger service.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"password,omitempty"`
	IsAdmin      bool      `json:"isAdmin"`
	HeartValue   int64     `json:"heartValue"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Sanitized returns a copy of the user without the password hash.
func (u User) Sanitized() User {
	u.PasswordHash = ""
	return u
}

// Transaction is one entry of the append-only heart-value ledger.
// ChangeAmount is always NewValue - OldValue, and for a given user the
// OldValue of each transaction equals the NewValue of the previous one.
type Transaction struct {
	ID           int64     `json:"id"`
	UserID       string    `json:"userId"`
	Username     string    `json:"username"`
	OldValue     int64     `json:"oldValue"`
	NewValue     int64     `json:"newValue"`
	ChangeAmount int64     `json:"changeAmount"`
	Type         string    `json:"type"`
	Description  string    `json:"description"`
	RelatedID    *int64    `json:"relatedId"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Transaction types for categorizing balance changes.
const (
	TxTypeOrder    = "order"    // order payment
	TxTypeRecharge = "recharge" // approved top-up
	TxTypeAdmin    = "admin"    // admin balance adjustment
	TxTypeOther    = "other"    // discount reroll and misc charges
)

// OrderItem is one line of a submitted order.
type OrderItem struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Price    int64  `json:"price"`
	Quantity int64  `json:"quantity"`
}

// Order is a submitted customer order. Total must equal the sum of
// Price*Quantity over Items at submission time.
type Order struct {
	ID           int64       `json:"id"`
	UserID       string      `json:"userId"`
	Username     string      `json:"username"`
	Items        []OrderItem `json:"items"`
	Total        int64       `json:"total"`
	CustomerInfo string      `json:"customerInfo"`
	Status       string      `json:"status"`
	CreatedAt    time.Time   `json:"createdAt"`
}

// Order statuses.
const (
	OrderPending    = "pending"
	OrderProcessing = "processing"
	OrderCompleted  = "completed"
	OrderCancelled  = "cancelled"
)

// ValidOrderStatus reports whether s is a known order status.
func ValidOrderStatus(s string) bool {
	switch s {
	case OrderPending, OrderProcessing, OrderCompleted, OrderCancelled:
		return true
	}
	return false
}

// RechargeRequest is a user-submitted top-up awaiting admin resolution.
// Status transitions once from pending to approved or rejected and then
// never changes again. ActualAmount and OriginalAmount are recorded only
// when an approval credits a different amount than was requested.
type RechargeRequest struct {
	ID             int64      `json:"id"`
	UserID         string     `json:"userId"`
	Username       string     `json:"username"`
	Amount         int64      `json:"amount"`
	Status         string     `json:"status"`
	CreatedAt      time.Time  `json:"createdAt"`
	ProcessedAt    *time.Time `json:"processedAt"`
	ProcessedBy    string     `json:"processedBy,omitempty"`
	ActualAmount   *int64     `json:"actualAmount,omitempty"`
	OriginalAmount *int64     `json:"originalAmount,omitempty"`
}

// Recharge request statuses.
const (
	RechargePending  = "pending"
	RechargeApproved = "approved"
	RechargeRejected = "rejected"
)

// DiscountedItem is one dish of a user's daily discount set.
type DiscountedItem struct {
	ID              int    `json:"id"`
	Name            string `json:"name"`
	OriginalPrice   int64  `json:"originalPrice"`
	DiscountedPrice int64  `json:"discountedPrice"`
	DiscountRate    int    `json:"discountRate"`
	SavedAmount     int64  `json:"savedAmount"`
}

// UserDiscounts is one user's daily discount record. LastRefreshDate is a
// calendar-day key; the set is regenerated the first time the user is seen
// on a new day, and on demand through the paid reroll.
type UserDiscounts struct {
	DiscountedItems []DiscountedItem `json:"discountedItems"`
	LastRefreshDate string           `json:"lastRefreshDate"`
	RefreshCount    int              `json:"refreshCount"`
	LastRefreshTime *time.Time       `json:"lastRefreshTime,omitempty"`
	LastRefreshBy   string           `json:"lastRefreshBy,omitempty"`
}

// DiscountDocument is the single persisted discount record, keyed by user.
type DiscountDocument struct {
	UserDiscounts   map[string]*UserDiscounts `json:"userDiscounts"`
	GlobalLastCheck string                    `json:"globalLastCheck"`
}
