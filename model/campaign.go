package model

import (
	"database/sql"
	"time"
)

// Campaign ...
type Campaign struct {
	ID          int64           `db:"id"`
	Name        string          `db:"name"`
	Description sql.NullString  `db:"description"`
	Channel     CampaignChannel `db:"channel"`
	SendDate    time.Time       `db:"send_date"`
	Status      CampaignStatus  `db:"status"`

	CreatedAt time.Time `db:"created_at"`
}

// CampaignChannel ...
type CampaignChannel string

const (
	// CampaignChannelEmail ...
	CampaignChannelEmail CampaignChannel = "email"

	// CampaignChannelPhone ...
	CampaignChannelPhone CampaignChannel = "phone"

	// CampaignChannelMail ...
	CampaignChannelMail CampaignChannel = "mail"
)

// ParseCampaignChannel ...
func ParseCampaignChannel(s string) (CampaignChannel, bool) {
	switch c := CampaignChannel(s); c {
	case CampaignChannelEmail, CampaignChannelPhone, CampaignChannelMail:
		return c, true
	}
	return "", false
}

// CampaignStatus ...
type CampaignStatus string

const (
	// CampaignStatusDraft ...
	CampaignStatusDraft CampaignStatus = "draft"

	// CampaignStatusSent ...
	CampaignStatusSent CampaignStatus = "sent"

	// CampaignStatusCompleted ...
	CampaignStatusCompleted CampaignStatus = "completed"
)

// ParseCampaignStatus ...
func ParseCampaignStatus(s string) (CampaignStatus, bool) {
	switch c := CampaignStatus(s); c {
	case CampaignStatusDraft, CampaignStatusSent, CampaignStatusCompleted:
		return c, true
	}
	return "", false
}

// CampaignPatch contains the mutable campaign fields, nil meaning keep current value.
type CampaignPatch struct {
	Name        *string
	Description *sql.NullString
	Channel     *CampaignChannel
	SendDate    *time.Time
	Status      *CampaignStatus
}
