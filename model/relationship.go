package model

import "time"

// Relationship is a directed, typed edge between two contacts. The "from"
// side is the subject (e.g. the employee), the "to" side the object (e.g.
// the employer). At most one edge may exist per ordered (from, to) pair.
type Relationship struct {
	ID               int64  `db:"id"`
	FromContactID    int64  `db:"from_contact_id"`
	ToContactID      int64  `db:"to_contact_id"`
	RelationshipType string `db:"relationship_type"`

	CreatedAt time.Time `db:"created_at"`
}

// RelatedContact ...
type RelatedContact struct {
	Relationship Relationship
	Contact      Contact
}

// RelationshipSummary is the short form used when a full counterparty record
// is not needed: the edge type plus the counterparty's display name.
type RelationshipSummary struct {
	RelationshipID   int64
	RelationshipType string
	ContactID        int64
	FullName         string
}
