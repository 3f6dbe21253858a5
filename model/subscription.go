package model

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

// Subscription assigns a product to a contact with a lifecycle status. For a
// given (contact, product) pair at most one row may be active at a time;
// historical ended/cancelled rows coexist freely.
type Subscription struct {
	ID        int64              `db:"id"`
	ContactID int64              `db:"contact_id"`
	ProductID int64              `db:"product_id"`
	Status    SubscriptionStatus `db:"status"`

	StartDate   time.Time           `db:"start_date"`
	EndDate     sql.NullTime        `db:"end_date"`
	ActualPrice decimal.NullDecimal `db:"actual_price"`
	Notes       sql.NullString      `db:"notes"`

	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// SubscriptionStatus ...
type SubscriptionStatus string

const (
	// SubscriptionStatusActive ...
	SubscriptionStatusActive SubscriptionStatus = "active"

	// SubscriptionStatusEnded ...
	SubscriptionStatusEnded SubscriptionStatus = "ended"

	// SubscriptionStatusCancelled ...
	SubscriptionStatusCancelled SubscriptionStatus = "cancelled"

	// SubscriptionStatusSuspended ...
	SubscriptionStatusSuspended SubscriptionStatus = "suspended"
)

// ParseSubscriptionStatus ...
func ParseSubscriptionStatus(s string) (SubscriptionStatus, bool) {
	switch v := SubscriptionStatus(s); v {
	case SubscriptionStatusActive, SubscriptionStatusEnded,
		SubscriptionStatusCancelled, SubscriptionStatusSuspended:
		return v, true
	}
	return "", false
}

// SubscriptionPatch contains the mutable subscription fields, nil meaning
// keep current value. Contact, product and start date are immutable.
type SubscriptionPatch struct {
	Status      *SubscriptionStatus
	EndDate     *sql.NullTime
	ActualPrice *decimal.NullDecimal
	Notes       *sql.NullString
}
