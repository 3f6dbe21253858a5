package directory

import (
	"bytes"
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/clientdesk/crm-core/model"
	"github.com/clientdesk/crm-core/pkg/errcode"
	"github.com/clientdesk/crm-core/pkg/integration"
	"github.com/clientdesk/crm-core/repository"
)

func newContext() context.Context {
	return context.Background()
}

func newTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t.UTC()
}

func newNullString(s string) sql.NullString {
	return sql.NullString{
		Valid:  true,
		String: s,
	}
}

type serviceTest struct {
	tc      *integration.TestCase
	now     time.Time
	service *Service
}

func newServiceTest() *serviceTest {
	tc := integration.NewTestCase()
	tc.Truncate("contacts")
	tc.Truncate("relationships")
	tc.Truncate("campaigns")

	s := &serviceTest{
		tc:  tc,
		now: newTime("2024-05-01T10:00:00Z"),
	}
	s.service = NewService(
		repository.NewProvider(tc.DB),
		repository.NewContact(),
		repository.NewRelationship(),
		repository.NewCampaign(),
		func() time.Time { return s.now },
	)
	return s
}

func (s *serviceTest) createContact(t *testing.T, name string, contactType model.ContactType) model.Contact {
	t.Helper()

	contact, err := s.service.CreateContact(newContext(), CreateContactInput{
		FullName:    name,
		ContactType: contactType,
	})
	assert.Equal(t, nil, err)
	return contact
}

func TestService_CreateContact(t *testing.T) {
	s := newServiceTest()

	//---------------------------------------
	// Validation
	//---------------------------------------
	_, err := s.service.CreateContact(newContext(), CreateContactInput{
		ContactType: model.ContactTypeIndividual,
	})
	assert.Equal(t, errcode.KindInvalidArgument, errcode.KindOf(err))

	_, err = s.service.CreateContact(newContext(), CreateContactInput{
		FullName:    "Sarah Mitchell",
		ContactType: "household",
	})
	assert.Equal(t, errcode.KindInvalidArgument, errcode.KindOf(err))

	//---------------------------------------
	// Create And Get
	//---------------------------------------
	contact, err := s.service.CreateContact(newContext(), CreateContactInput{
		FullName:    "Sarah Mitchell",
		ContactType: model.ContactTypeIndividual,
		Email:       newNullString("sarah.mitchell@example.com"),
	})
	assert.Equal(t, nil, err)
	assert.Equal(t, s.now, contact.CreatedAt)

	found, err := s.service.GetContact(newContext(), contact.ID)
	assert.Equal(t, nil, err)
	assert.Equal(t, contact, found)

	//---------------------------------------
	// Update Patch
	//---------------------------------------
	newName := "Sarah Mitchell-Barnes"
	updated, err := s.service.UpdateContact(newContext(), contact.ID, model.ContactPatch{
		FullName: &newName,
	})
	assert.Equal(t, nil, err)
	assert.Equal(t, "Sarah Mitchell-Barnes", updated.FullName)
	assert.Equal(t, contact.Email, updated.Email)

	//---------------------------------------
	// Delete
	//---------------------------------------
	err = s.service.DeleteContact(newContext(), contact.ID)
	assert.Equal(t, nil, err)

	_, err = s.service.GetContact(newContext(), contact.ID)
	assert.Equal(t, errcode.KindNotFound, errcode.KindOf(err))
}

func TestService_Relationships(t *testing.T) {
	s := newServiceTest()

	person := s.createContact(t, "Daniel Walker", model.ContactTypeIndividual)
	business := s.createContact(t, "Oakwood Financial Advisors", model.ContactTypeBusiness)

	//---------------------------------------
	// Validation
	//---------------------------------------
	_, err := s.service.CreateRelationship(newContext(), person.ID, person.ID, "works_for")
	assert.Equal(t, errcode.KindInvalidArgument, errcode.KindOf(err))

	_, err = s.service.CreateRelationship(newContext(), person.ID, business.ID, "")
	assert.Equal(t, errcode.KindInvalidArgument, errcode.KindOf(err))

	_, err = s.service.CreateRelationship(newContext(), person.ID, 9999, "works_for")
	assert.Equal(t, errcode.KindNotFound, errcode.KindOf(err))

	//---------------------------------------
	// Create
	//---------------------------------------
	rel, err := s.service.CreateRelationship(newContext(), person.ID, business.ID, "works_for")
	assert.Equal(t, nil, err)

	_, err = s.service.CreateRelationship(newContext(), person.ID, business.ID, "advises")
	assert.Equal(t, errcode.KindConflict, errcode.KindOf(err))

	//---------------------------------------
	// Resolved Views
	//---------------------------------------
	outgoing, err := s.service.Outgoing(newContext(), person.ID)
	assert.Equal(t, nil, err)
	assert.Equal(t, []model.RelatedContact{
		{Relationship: rel, Contact: business},
	}, outgoing)

	incoming, err := s.service.Incoming(newContext(), business.ID)
	assert.Equal(t, nil, err)
	assert.Equal(t, []model.RelatedContact{
		{Relationship: rel, Contact: person},
	}, incoming)

	orgs, err := s.service.ContactOrganisations(newContext(), person.ID)
	assert.Equal(t, nil, err)
	assert.Equal(t, []model.RelationshipSummary{
		{
			RelationshipID:   rel.ID,
			RelationshipType: "works_for",
			ContactID:        business.ID,
			FullName:         business.FullName,
		},
	}, orgs)

	//---------------------------------------
	// Organisation Views
	//---------------------------------------
	summaries, err := s.service.ListOrganisations(newContext())
	assert.Equal(t, nil, err)
	assert.Equal(t, []OrganisationSummary{
		{Contact: business, LinkedPeopleCount: 1},
	}, summaries)

	detail, err := s.service.GetOrganisationDetail(newContext(), business.ID)
	assert.Equal(t, nil, err)
	assert.Equal(t, OrganisationDetail{
		Organisation: business,
		LinkedPeople: []model.RelatedContact{
			{Relationship: rel, Contact: person},
		},
	}, detail)

	_, err = s.service.GetOrganisationDetail(newContext(), person.ID)
	assert.Equal(t, errcode.KindInvalidArgument, errcode.KindOf(err))

	//---------------------------------------
	// Delete Edge
	//---------------------------------------
	err = s.service.DeleteRelationship(newContext(), rel.ID)
	assert.Equal(t, nil, err)

	outgoing, err = s.service.Outgoing(newContext(), person.ID)
	assert.Equal(t, nil, err)
	assert.Equal(t, 0, len(outgoing))
}

func TestService_Search(t *testing.T) {
	s := newServiceTest()

	person := s.createContact(t, "Daniel Walker", model.ContactTypeIndividual)
	business := s.createContact(t, "Oakwood Financial Advisors", model.ContactTypeBusiness)

	rel, err := s.service.CreateRelationship(newContext(), person.ID, business.ID, "works_for")
	assert.Equal(t, nil, err)

	//---------------------------------------
	// Individuals Carry Organisation Summaries
	//---------------------------------------
	results, err := s.service.Search(newContext(), "walker")
	assert.Equal(t, nil, err)
	assert.Equal(t, []SearchResult{
		{
			Contact: person,
			Organisations: []model.RelationshipSummary{
				{
					RelationshipID:   rel.ID,
					RelationshipType: "works_for",
					ContactID:        business.ID,
					FullName:         business.FullName,
				},
			},
		},
	}, results)

	//---------------------------------------
	// Organisations Do Not
	//---------------------------------------
	results, err = s.service.Search(newContext(), "oakwood")
	assert.Equal(t, nil, err)
	assert.Equal(t, []SearchResult{
		{Contact: business},
	}, results)

	//---------------------------------------
	// No Match Is Empty, Not An Error
	//---------------------------------------
	results, err = s.service.Search(newContext(), "zzz-no-match")
	assert.Equal(t, nil, err)
	assert.Equal(t, 0, len(results))
}

func TestService_ExportContactsCSV(t *testing.T) {
	s := newServiceTest()

	//---------------------------------------
	// Header Only When Empty
	//---------------------------------------
	var buf bytes.Buffer
	err := s.service.ExportContactsCSV(newContext(), &buf)
	assert.Equal(t, nil, err)
	assert.Equal(t, "Full Name,Contact Type,Email,Phone,Company,Notes\n", buf.String())

	//---------------------------------------
	// Optional Fields Render Empty
	//---------------------------------------
	_, err = s.service.CreateContact(newContext(), CreateContactInput{
		FullName:    "Daniel Walker",
		ContactType: model.ContactTypeIndividual,
		Email:       newNullString("daniel.walker@example.com"),
	})
	assert.Equal(t, nil, err)

	buf.Reset()
	err = s.service.ExportContactsCSV(newContext(), &buf)
	assert.Equal(t, nil, err)
	assert.Equal(t,
		"Full Name,Contact Type,Email,Phone,Company,Notes\n"+
			"Daniel Walker,individual,daniel.walker@example.com,,,\n",
		buf.String())
}

func TestService_GetStats(t *testing.T) {
	s := newServiceTest()

	s.createContact(t, "Daniel Walker", model.ContactTypeIndividual)
	s.createContact(t, "Sarah Mitchell", model.ContactTypeIndividual)
	s.createContact(t, "Oakwood Financial Advisors", model.ContactTypeBusiness)
	s.createContact(t, "The Blackwood Trust", model.ContactTypeEstate)

	stats, err := s.service.GetStats(newContext())
	assert.Equal(t, nil, err)
	assert.Equal(t, Stats{
		TotalContacts:  4,
		Individuals:    2,
		Businesses:     1,
		Estates:        1,
		TotalCampaigns: 0,
	}, stats)
}
