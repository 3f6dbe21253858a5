package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/clientdesk/crm-core/model"
	"github.com/clientdesk/crm-core/pkg/errcode"
	"github.com/clientdesk/crm-core/pkg/integration"
)

type relationshipTest struct {
	tc       *integration.TestCase
	provider Provider
}

func newRelationshipTest() *relationshipTest {
	tc := integration.NewTestCase()
	tc.Truncate("relationships")
	return &relationshipTest{
		tc:       tc,
		provider: NewProvider(tc.DB),
	}
}

func TestRelationship(t *testing.T) {
	tc := newRelationshipTest()

	repo := NewRelationship()

	//---------------------------------------
	// Insert
	//---------------------------------------
	var rel model.Relationship
	var err error
	err = tc.provider.Transact(newContext(), func(ctx context.Context) error {
		rel, err = repo.InsertRelationship(ctx, model.Relationship{
			FromContactID:    11,
			ToContactID:      21,
			RelationshipType: "works_for",
			CreatedAt:        newTime("2024-02-01T10:00:00Z"),
		})
		return err
	})
	assert.Equal(t, nil, err)
	assert.Equal(t, model.Relationship{
		ID:               rel.ID,
		FromContactID:    11,
		ToContactID:      21,
		RelationshipType: "works_for",
		CreatedAt:        newTime("2024-02-01T10:00:00Z"),
	}, rel)

	//---------------------------------------
	// Duplicate Ordered Pair Rejected
	//---------------------------------------
	err = tc.provider.Transact(newContext(), func(ctx context.Context) error {
		_, err := repo.InsertRelationship(ctx, model.Relationship{
			FromContactID:    11,
			ToContactID:      21,
			RelationshipType: "advises",
			CreatedAt:        newTime("2024-02-02T10:00:00Z"),
		})
		return err
	})
	assert.Equal(t, errcode.KindConflict, errcode.KindOf(err))

	//---------------------------------------
	// Reverse Direction Is A Different Edge
	//---------------------------------------
	var reverse model.Relationship
	err = tc.provider.Transact(newContext(), func(ctx context.Context) error {
		reverse, err = repo.InsertRelationship(ctx, model.Relationship{
			FromContactID:    21,
			ToContactID:      11,
			RelationshipType: "employs",
			CreatedAt:        newTime("2024-02-02T10:00:00Z"),
		})
		return err
	})
	assert.Equal(t, nil, err)

	//---------------------------------------
	// Get, Outgoing, Incoming
	//---------------------------------------
	readCtx := tc.provider.Readonly(newContext())

	found, err := repo.GetRelationship(readCtx, rel.ID)
	assert.Equal(t, nil, err)
	assert.Equal(t, rel, found)

	outgoing, err := repo.ListOutgoing(readCtx, 11)
	assert.Equal(t, nil, err)
	assert.Equal(t, []model.Relationship{rel}, outgoing)

	incoming, err := repo.ListIncoming(readCtx, 11)
	assert.Equal(t, nil, err)
	assert.Equal(t, []model.Relationship{reverse}, incoming)

	count, err := repo.CountIncoming(readCtx, 21)
	assert.Equal(t, nil, err)
	assert.Equal(t, int64(1), count)

	//---------------------------------------
	// Batch Queries
	//---------------------------------------
	var third model.Relationship
	err = tc.provider.Transact(newContext(), func(ctx context.Context) error {
		third, err = repo.InsertRelationship(ctx, model.Relationship{
			FromContactID:    12,
			ToContactID:      21,
			RelationshipType: "works_for",
			CreatedAt:        newTime("2024-02-03T10:00:00Z"),
		})
		return err
	})
	assert.Equal(t, nil, err)

	grouped, err := repo.ListOutgoingForContacts(readCtx, []int64{11, 12, 999})
	assert.Equal(t, nil, err)
	assert.Equal(t, map[int64][]model.Relationship{
		11: {rel},
		12: {third},
	}, grouped)

	counts, err := repo.CountIncomingForContacts(readCtx, []int64{21, 11, 999})
	assert.Equal(t, nil, err)
	assert.Equal(t, map[int64]int64{
		21: 2,
		11: 1,
	}, counts)

	//---------------------------------------
	// Delete
	//---------------------------------------
	err = tc.provider.Transact(newContext(), func(ctx context.Context) error {
		return repo.DeleteRelationship(ctx, rel.ID)
	})
	assert.Equal(t, nil, err)

	_, err = repo.GetRelationship(readCtx, rel.ID)
	assert.Equal(t, errcode.KindNotFound, errcode.KindOf(err))

	err = tc.provider.Transact(newContext(), func(ctx context.Context) error {
		return repo.DeleteRelationship(ctx, rel.ID)
	})
	assert.Equal(t, errcode.KindNotFound, errcode.KindOf(err))
}
