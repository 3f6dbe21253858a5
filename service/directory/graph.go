package directory

import (
	"context"

	"github.com/clientdesk/crm-core/model"
	"github.com/clientdesk/crm-core/pkg/errcode"
	"github.com/clientdesk/crm-core/repository"
)

// CreateRelationship creates a directed edge between two existing contacts.
// Both contacts are locked inside the transaction so a concurrent delete
// cannot invalidate the existence check before commit; the duplicate ordered
// pair is rejected by the store's unique key.
func (s *Service) CreateRelationship(
	ctx context.Context, fromContactID, toContactID int64, relationshipType string,
) (model.Relationship, error) {
	if relationshipType == "" {
		return model.Relationship{}, errcode.InvalidArgumentf("relationship_type is required")
	}
	if fromContactID == toContactID {
		return model.Relationship{}, errcode.InvalidArgumentf("a contact cannot relate to itself")
	}

	rel := model.Relationship{
		FromContactID:    fromContactID,
		ToContactID:      toContactID,
		RelationshipType: relationshipType,
		CreatedAt:        s.now(),
	}

	err := s.provider.Transact(ctx, func(ctx context.Context) error {
		// Lock in id order to keep concurrent a->b / b->a creations from
		// deadlocking.
		first, second := fromContactID, toContactID
		if second < first {
			first, second = second, first
		}
		if err := s.contacts.LockContact(ctx, first); err != nil {
			return err
		}
		if err := s.contacts.LockContact(ctx, second); err != nil {
			return err
		}

		var err error
		rel, err = s.relationships.InsertRelationship(ctx, rel)
		return err
	})
	return rel, err
}

// DeleteRelationship ...
func (s *Service) DeleteRelationship(ctx context.Context, relationshipID int64) error {
	return s.provider.Transact(ctx, func(ctx context.Context) error {
		return s.relationships.DeleteRelationship(ctx, relationshipID)
	})
}

// Outgoing returns the edges where the contact is the subject, each resolved
// to its target contact. Edges whose target no longer resolves are skipped.
func (s *Service) Outgoing(ctx context.Context, contactID int64) ([]model.RelatedContact, error) {
	ctx = s.provider.Readonly(ctx)

	if _, err := s.contacts.GetContact(ctx, contactID); err != nil {
		return nil, err
	}

	rels, err := s.relationships.ListOutgoing(ctx, contactID)
	if err != nil {
		return nil, err
	}
	return s.resolveEdges(ctx, rels, func(rel model.Relationship) int64 {
		return rel.ToContactID
	})
}

// Incoming returns the edges where the contact is the object, each resolved
// to its source contact. Edges whose source no longer resolves are skipped.
func (s *Service) Incoming(ctx context.Context, contactID int64) ([]model.RelatedContact, error) {
	ctx = s.provider.Readonly(ctx)

	if _, err := s.contacts.GetContact(ctx, contactID); err != nil {
		return nil, err
	}

	rels, err := s.relationships.ListIncoming(ctx, contactID)
	if err != nil {
		return nil, err
	}
	return s.resolveEdges(ctx, rels, func(rel model.Relationship) int64 {
		return rel.FromContactID
	})
}

func (s *Service) resolveEdges(
	ctx context.Context, rels []model.Relationship, counterparty func(model.Relationship) int64,
) ([]model.RelatedContact, error) {
	ids := make([]int64, 0, len(rels))
	for _, rel := range rels {
		ids = append(ids, counterparty(rel))
	}

	contacts, err := s.contacts.GetContactsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	result := make([]model.RelatedContact, 0, len(rels))
	for _, rel := range rels {
		contact, ok := contacts[counterparty(rel)]
		if !ok {
			continue
		}
		result = append(result, model.RelatedContact{
			Relationship: rel,
			Contact:      contact,
		})
	}
	return result, nil
}

// OrganisationSummary ...
type OrganisationSummary struct {
	Contact           model.Contact
	LinkedPeopleCount int64
}

// ListOrganisations returns the business and estate contacts, each with the
// number of contacts linked to it.
func (s *Service) ListOrganisations(ctx context.Context) ([]OrganisationSummary, error) {
	ctx = s.provider.Readonly(ctx)

	orgs, err := s.contacts.ListContactsByTypes(ctx, model.ContactTypeBusiness, model.ContactTypeEstate)
	if err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(orgs))
	for _, org := range orgs {
		ids = append(ids, org.ID)
	}
	counts, err := s.relationships.CountIncomingForContacts(ctx, ids)
	if err != nil {
		return nil, err
	}

	result := make([]OrganisationSummary, 0, len(orgs))
	for _, org := range orgs {
		result = append(result, OrganisationSummary{
			Contact:           org,
			LinkedPeopleCount: counts[org.ID],
		})
	}
	return result, nil
}

// OrganisationDetail ...
type OrganisationDetail struct {
	Organisation model.Contact
	LinkedPeople []model.RelatedContact
}

// GetOrganisationDetail returns a business or estate contact together with
// the contacts linked to it (inbound edges resolved to their source).
func (s *Service) GetOrganisationDetail(ctx context.Context, contactID int64) (OrganisationDetail, error) {
	ctx = s.provider.Readonly(ctx)

	org, err := s.contacts.GetContact(ctx, contactID)
	if err != nil {
		return OrganisationDetail{}, err
	}
	if !org.ContactType.IsOrganisation() {
		return OrganisationDetail{}, errcode.InvalidArgumentf(
			"contact %d is not a business or estate", contactID)
	}

	rels, err := s.relationships.ListIncoming(ctx, contactID)
	if err != nil {
		return OrganisationDetail{}, err
	}
	linked, err := s.resolveEdges(ctx, rels, func(rel model.Relationship) int64 {
		return rel.FromContactID
	})
	if err != nil {
		return OrganisationDetail{}, err
	}

	return OrganisationDetail{
		Organisation: org,
		LinkedPeople: linked,
	}, nil
}

// ContactOrganisations returns the outbound relationship summaries for one
// contact: the edge type plus the counterparty's name.
func (s *Service) ContactOrganisations(ctx context.Context, contactID int64) ([]model.RelationshipSummary, error) {
	ctx = s.provider.Readonly(ctx)

	if _, err := s.contacts.GetContact(ctx, contactID); err != nil {
		return nil, err
	}

	rels, err := s.relationships.ListOutgoing(ctx, contactID)
	if err != nil {
		return nil, err
	}
	return summarizeOutgoing(ctx, s.contacts, rels)
}

// summarizeOutgoing resolves outbound edges to short summaries, skipping
// edges whose target contact no longer exists.
func summarizeOutgoing(
	ctx context.Context, contacts repository.Contact, rels []model.Relationship,
) ([]model.RelationshipSummary, error) {
	ids := make([]int64, 0, len(rels))
	for _, rel := range rels {
		ids = append(ids, rel.ToContactID)
	}

	targets, err := contacts.GetContactsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	result := make([]model.RelationshipSummary, 0, len(rels))
	for _, rel := range rels {
		target, ok := targets[rel.ToContactID]
		if !ok {
			continue
		}
		result = append(result, model.RelationshipSummary{
			RelationshipID:   rel.ID,
			RelationshipType: rel.RelationshipType,
			ContactID:        target.ID,
			FullName:         target.FullName,
		})
	}
	return result, nil
}
