package model

import (
	"database/sql"
	"time"
)

// CampaignResponse records one contact's engagement outcome for one campaign.
// The set of response rows for a campaign is its recipient list: there is no
// separate "sent to" entity.
type CampaignResponse struct {
	ID             int64          `db:"id"`
	CampaignID     int64          `db:"campaign_id"`
	ContactID      int64          `db:"contact_id"`
	ResponseStatus ResponseStatus `db:"response_status"`
	ResponseDate   sql.NullTime   `db:"response_date"`
	Notes          sql.NullString `db:"notes"`

	CreatedAt time.Time `db:"created_at"`
}

// ResponseStatus ...
type ResponseStatus string

const (
	// ResponseStatusPending ...
	ResponseStatusPending ResponseStatus = "pending"

	// ResponseStatusResponded ...
	ResponseStatusResponded ResponseStatus = "responded"

	// ResponseStatusConverted ...
	ResponseStatusConverted ResponseStatus = "converted"

	// ResponseStatusNotInterested ...
	ResponseStatusNotInterested ResponseStatus = "not_interested"
)

// ParseResponseStatus ...
func ParseResponseStatus(s string) (ResponseStatus, bool) {
	switch r := ResponseStatus(s); r {
	case ResponseStatusPending, ResponseStatusResponded,
		ResponseStatusConverted, ResponseStatusNotInterested:
		return r, true
	}
	return "", false
}

// CampaignResponsePatch contains the mutable response fields, nil meaning
// keep current value. ResponseDate is derived by the engagement service when
// the status leaves (or returns to) pending, never supplied by callers.
type CampaignResponsePatch struct {
	ResponseStatus *ResponseStatus
	Notes          *sql.NullString
	ResponseDate   *sql.NullTime
}
