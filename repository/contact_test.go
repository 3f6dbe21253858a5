package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/clientdesk/crm-core/model"
	"github.com/clientdesk/crm-core/pkg/errcode"
	"github.com/clientdesk/crm-core/pkg/integration"
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

func newNullTime(s string) sql.NullTime {
	return sql.NullTime{
		Valid: true,
		Time:  newTime(s),
	}
}

func newNullString(s string) sql.NullString {
	return sql.NullString{
		Valid:  true,
		String: s,
	}
}

type contactTest struct {
	tc       *integration.TestCase
	provider Provider
}

func newContactTest() *contactTest {
	tc := integration.NewTestCase()
	tc.Truncate("contacts")
	return &contactTest{
		tc:       tc,
		provider: NewProvider(tc.DB),
	}
}

func TestContact(t *testing.T) {
	tc := newContactTest()

	repo := NewContact()

	//---------------------------------------
	// Get Not Found
	//---------------------------------------
	readCtx := tc.provider.Readonly(newContext())
	_, err := repo.GetContact(readCtx, 100)
	assert.Equal(t, errcode.KindNotFound, errcode.KindOf(err))

	//---------------------------------------
	// Insert
	//---------------------------------------
	var contact model.Contact
	err = tc.provider.Transact(newContext(), func(ctx context.Context) error {
		contact, err = repo.InsertContact(ctx, model.Contact{
			FullName:    "Sarah Mitchell",
			ContactType: model.ContactTypeIndividual,
			Email:       newNullString("sarah.mitchell@example.com"),
			CreatedAt:   newTime("2024-03-10T08:00:00Z"),
		})
		return err
	})
	assert.Equal(t, nil, err)
	assert.Equal(t, model.Contact{
		ID:          contact.ID,
		FullName:    "Sarah Mitchell",
		ContactType: model.ContactTypeIndividual,
		Email:       newNullString("sarah.mitchell@example.com"),
		CreatedAt:   newTime("2024-03-10T08:00:00Z"),
	}, contact)

	//---------------------------------------
	// Get
	//---------------------------------------
	found, err := repo.GetContact(readCtx, contact.ID)
	assert.Equal(t, nil, err)
	assert.Equal(t, contact, found)

	//---------------------------------------
	// Update
	//---------------------------------------
	newName := "Sarah Mitchell-Barnes"
	newPhone := newNullString("07700 900123")
	err = tc.provider.Transact(newContext(), func(ctx context.Context) error {
		err := repo.LockContact(ctx, contact.ID)
		if err != nil {
			return err
		}
		return repo.UpdateContact(ctx, contact.ID, model.ContactPatch{
			FullName: &newName,
			Phone:    &newPhone,
		})
	})
	assert.Equal(t, nil, err)

	found, err = repo.GetContact(readCtx, contact.ID)
	assert.Equal(t, nil, err)
	assert.Equal(t, "Sarah Mitchell-Barnes", found.FullName)
	assert.Equal(t, newPhone, found.Phone)
	assert.Equal(t, newNullString("sarah.mitchell@example.com"), found.Email)

	//---------------------------------------
	// Empty Patch Keeps The Row
	//---------------------------------------
	err = tc.provider.Transact(newContext(), func(ctx context.Context) error {
		return repo.UpdateContact(ctx, contact.ID, model.ContactPatch{})
	})
	assert.Equal(t, nil, err)

	unchanged, err := repo.GetContact(readCtx, contact.ID)
	assert.Equal(t, nil, err)
	assert.Equal(t, found, unchanged)

	//---------------------------------------
	// Delete
	//---------------------------------------
	err = tc.provider.Transact(newContext(), func(ctx context.Context) error {
		return repo.DeleteContact(ctx, contact.ID)
	})
	assert.Equal(t, nil, err)

	_, err = repo.GetContact(readCtx, contact.ID)
	assert.Equal(t, errcode.KindNotFound, errcode.KindOf(err))

	//---------------------------------------
	// Delete Not Found
	//---------------------------------------
	err = tc.provider.Transact(newContext(), func(ctx context.Context) error {
		return repo.DeleteContact(ctx, contact.ID)
	})
	assert.Equal(t, errcode.KindNotFound, errcode.KindOf(err))
}

func TestContact_List_Search_Count(t *testing.T) {
	tc := newContactTest()

	repo := NewContact()

	var first, second, third model.Contact
	err := tc.provider.Transact(newContext(), func(ctx context.Context) (err error) {
		first, err = repo.InsertContact(ctx, model.Contact{
			FullName:    "Oakwood Financial Advisors",
			ContactType: model.ContactTypeBusiness,
			CompanyName: newNullString("Oakwood Financial Advisors"),
			CreatedAt:   newTime("2024-01-05T09:00:00Z"),
		})
		if err != nil {
			return err
		}
		second, err = repo.InsertContact(ctx, model.Contact{
			FullName:    "Daniel Walker",
			ContactType: model.ContactTypeIndividual,
			Email:       newNullString("daniel.walker@example.com"),
			CreatedAt:   newTime("2024-01-06T09:00:00Z"),
		})
		if err != nil {
			return err
		}
		third, err = repo.InsertContact(ctx, model.Contact{
			FullName:    "The Blackwood Trust",
			ContactType: model.ContactTypeEstate,
			CreatedAt:   newTime("2024-01-07T09:00:00Z"),
		})
		return err
	})
	assert.Equal(t, nil, err)

	readCtx := tc.provider.Readonly(newContext())

	//---------------------------------------
	// List In Insertion Order
	//---------------------------------------
	contacts, err := repo.ListContacts(readCtx)
	assert.Equal(t, nil, err)
	assert.Equal(t, []model.Contact{first, second, third}, contacts)

	//---------------------------------------
	// List By Types
	//---------------------------------------
	orgs, err := repo.ListContactsByTypes(readCtx, model.ContactTypeBusiness, model.ContactTypeEstate)
	assert.Equal(t, nil, err)
	assert.Equal(t, []model.Contact{first, third}, orgs)

	//---------------------------------------
	// Get By IDs
	//---------------------------------------
	byID, err := repo.GetContactsByIDs(readCtx, []int64{second.ID, third.ID, 9999})
	assert.Equal(t, nil, err)
	assert.Equal(t, map[int64]model.Contact{
		second.ID: second,
		third.ID:  third,
	}, byID)

	//---------------------------------------
	// Search Matches Name, Email And Company
	//---------------------------------------
	results, err := repo.SearchContacts(readCtx, "wood", 10)
	assert.Equal(t, nil, err)
	assert.Equal(t, []model.Contact{first, third}, results)

	results, err = repo.SearchContacts(readCtx, "WALKER", 10)
	assert.Equal(t, nil, err)
	assert.Equal(t, []model.Contact{second}, results)

	results, err = repo.SearchContacts(readCtx, "no-such-contact", 10)
	assert.Equal(t, nil, err)
	assert.Equal(t, 0, len(results))

	//---------------------------------------
	// Search Escapes LIKE Wildcards
	//---------------------------------------
	results, err = repo.SearchContacts(readCtx, "%", 10)
	assert.Equal(t, nil, err)
	assert.Equal(t, 0, len(results))

	//---------------------------------------
	// Count By Type
	//---------------------------------------
	counts, err := repo.CountContactsByType(readCtx)
	assert.Equal(t, nil, err)
	assert.Equal(t, map[model.ContactType]int64{
		model.ContactTypeIndividual: 1,
		model.ContactTypeBusiness:   1,
		model.ContactTypeEstate:     1,
	}, counts)
}
