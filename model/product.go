package model

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

// Product ...
type Product struct {
	ID          int64          `db:"id"`
	Name        string         `db:"name"`
	Description sql.NullString `db:"description"`
	Status      ProductStatus  `db:"status"`
	ProductType string         `db:"product_type"`

	// Version and ParentProductID form a version chain: a new revision of a
	// logical product is a fresh row whose parent points at the prior
	// terminal row. Chains are acyclic by construction.
	Version         int64         `db:"version"`
	ParentProductID sql.NullInt64 `db:"parent_product_id"`

	EffectiveDate    time.Time       `db:"effective_date"`
	BasePrice        decimal.Decimal `db:"base_price"`
	Currency         string          `db:"currency"`
	BillingFrequency string          `db:"billing_frequency"`

	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// ProductStatus ...
type ProductStatus string

const (
	// ProductStatusActive ...
	ProductStatusActive ProductStatus = "active"

	// ProductStatusInactive ...
	ProductStatusInactive ProductStatus = "inactive"

	// ProductStatusArchived ...
	ProductStatusArchived ProductStatus = "archived"
)

// ParseProductStatus ...
func ParseProductStatus(s string) (ProductStatus, bool) {
	switch p := ProductStatus(s); p {
	case ProductStatusActive, ProductStatusInactive, ProductStatusArchived:
		return p, true
	}
	return "", false
}

// ProductPatch contains the mutable product fields, nil meaning keep current
// value. Version and parent are never patched: superseding a product is
// modeled as inserting a new row.
type ProductPatch struct {
	Name             *string
	Description      *sql.NullString
	Status           *ProductStatus
	ProductType      *string
	EffectiveDate    *time.Time
	BasePrice        *decimal.Decimal
	Currency         *string
	BillingFrequency *string
}
