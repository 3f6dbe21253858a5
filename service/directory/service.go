package directory

import (
	"context"
	"database/sql"
	"time"

	"github.com/clientdesk/crm-core/model"
	"github.com/clientdesk/crm-core/pkg/errcode"
	"github.com/clientdesk/crm-core/repository"
)

// Service owns the contact directory: contact records, the directed
// relationship graph between them, and the read models composed from both.
type Service struct {
	provider      repository.Provider
	contacts      repository.Contact
	relationships repository.Relationship
	campaigns     repository.Campaign

	now func() time.Time
}

// NewService ...
func NewService(
	provider repository.Provider,
	contacts repository.Contact,
	relationships repository.Relationship,
	campaigns repository.Campaign,
	now func() time.Time,
) *Service {
	return &Service{
		provider:      provider,
		contacts:      contacts,
		relationships: relationships,
		campaigns:     campaigns,
		now:           now,
	}
}

// CreateContactInput ...
type CreateContactInput struct {
	FullName    string
	ContactType model.ContactType
	Email       sql.NullString
	Phone       sql.NullString
	CompanyName sql.NullString
	Notes       sql.NullString
}

// CreateContact ...
func (s *Service) CreateContact(ctx context.Context, input CreateContactInput) (model.Contact, error) {
	if input.FullName == "" {
		return model.Contact{}, errcode.InvalidArgumentf("full_name is required")
	}
	if _, ok := model.ParseContactType(string(input.ContactType)); !ok {
		return model.Contact{}, errcode.InvalidArgumentf("unknown contact type %q", input.ContactType)
	}

	contact := model.Contact{
		FullName:    input.FullName,
		ContactType: input.ContactType,
		Email:       input.Email,
		Phone:       input.Phone,
		CompanyName: input.CompanyName,
		Notes:       input.Notes,
		CreatedAt:   s.now(),
	}

	err := s.provider.Transact(ctx, func(ctx context.Context) error {
		var err error
		contact, err = s.contacts.InsertContact(ctx, contact)
		return err
	})
	return contact, err
}

// GetContact ...
func (s *Service) GetContact(ctx context.Context, contactID int64) (model.Contact, error) {
	return s.contacts.GetContact(s.provider.Readonly(ctx), contactID)
}

// UpdateContact merges the provided fields only. Fields not supplied are
// left unchanged.
func (s *Service) UpdateContact(ctx context.Context, contactID int64, patch model.ContactPatch) (model.Contact, error) {
	if patch.FullName != nil && *patch.FullName == "" {
		return model.Contact{}, errcode.InvalidArgumentf("full_name cannot be empty")
	}
	if patch.ContactType != nil {
		if _, ok := model.ParseContactType(string(*patch.ContactType)); !ok {
			return model.Contact{}, errcode.InvalidArgumentf("unknown contact type %q", *patch.ContactType)
		}
	}

	var updated model.Contact
	err := s.provider.Transact(ctx, func(ctx context.Context) error {
		if err := s.contacts.LockContact(ctx, contactID); err != nil {
			return err
		}
		if err := s.contacts.UpdateContact(ctx, contactID, patch); err != nil {
			return err
		}
		var err error
		updated, err = s.contacts.GetContact(ctx, contactID)
		return err
	})
	return updated, err
}

// DeleteContact removes the contact. Relationships, campaign responses and
// subscriptions referencing it are left in place; composed reads skip
// unresolved references.
func (s *Service) DeleteContact(ctx context.Context, contactID int64) error {
	return s.provider.Transact(ctx, func(ctx context.Context) error {
		return s.contacts.DeleteContact(ctx, contactID)
	})
}

// ListContacts returns all contacts in insertion order.
func (s *Service) ListContacts(ctx context.Context) ([]model.Contact, error) {
	return s.contacts.ListContacts(s.provider.Readonly(ctx))
}

// Stats ...
type Stats struct {
	TotalContacts  int64
	Individuals    int64
	Businesses     int64
	Estates        int64
	TotalCampaigns int64
}

// GetStats ...
func (s *Service) GetStats(ctx context.Context) (Stats, error) {
	ctx = s.provider.Readonly(ctx)

	byType, err := s.contacts.CountContactsByType(ctx)
	if err != nil {
		return Stats{}, err
	}
	totalCampaigns, err := s.campaigns.CountCampaigns(ctx)
	if err != nil {
		return Stats{}, err
	}

	stats := Stats{
		Individuals:    byType[model.ContactTypeIndividual],
		Businesses:     byType[model.ContactTypeBusiness],
		Estates:        byType[model.ContactTypeEstate],
		TotalCampaigns: totalCampaigns,
	}
	for _, count := range byType {
		stats.TotalContacts += count
	}
	return stats, nil
}
