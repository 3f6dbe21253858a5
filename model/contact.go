package model

import (
	"database/sql"
	"time"
)

// Contact ...
type Contact struct {
	ID          int64          `db:"id"`
	FullName    string         `db:"full_name"`
	ContactType ContactType    `db:"contact_type"`
	Email       sql.NullString `db:"email"`
	Phone       sql.NullString `db:"phone"`
	CompanyName sql.NullString `db:"company_name"`
	Notes       sql.NullString `db:"notes"`

	CreatedAt time.Time `db:"created_at"`
}

// ContactType ...
type ContactType string

const (
	// ContactTypeIndividual ...
	ContactTypeIndividual ContactType = "individual"

	// ContactTypeBusiness ...
	ContactTypeBusiness ContactType = "business"

	// ContactTypeEstate ...
	ContactTypeEstate ContactType = "estate"
)

// ParseContactType validates an incoming contact type string.
func ParseContactType(s string) (ContactType, bool) {
	switch t := ContactType(s); t {
	case ContactTypeIndividual, ContactTypeBusiness, ContactTypeEstate:
		return t, true
	}
	return "", false
}

// IsOrganisation reports whether the contact type denotes a business or estate.
func (t ContactType) IsOrganisation() bool {
	return t == ContactTypeBusiness || t == ContactTypeEstate
}

// ContactPatch contains the mutable contact fields, nil meaning keep current value.
type ContactPatch struct {
	FullName    *string
	ContactType *ContactType
	Email       *sql.NullString
	Phone       *sql.NullString
	CompanyName *sql.NullString
	Notes       *sql.NullString
}
