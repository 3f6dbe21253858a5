package repository

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/clientdesk/crm-core/model"
	"github.com/clientdesk/crm-core/pkg/errcode"
	"github.com/clientdesk/crm-core/pkg/integration"
)

type subscriptionTest struct {
	tc       *integration.TestCase
	provider Provider
}

func newSubscriptionTest() *subscriptionTest {
	tc := integration.NewTestCase()
	tc.Truncate("subscriptions")
	return &subscriptionTest{
		tc:       tc,
		provider: NewProvider(tc.DB),
	}
}

func (s *subscriptionTest) insert(t *testing.T, sub model.Subscription) model.Subscription {
	t.Helper()

	repo := NewSubscription()
	err := s.provider.Transact(newContext(), func(ctx context.Context) (err error) {
		sub, err = repo.InsertSubscription(ctx, sub)
		return err
	})
	assert.Equal(t, nil, err)
	return sub
}

func TestSubscription(t *testing.T) {
	tc := newSubscriptionTest()

	repo := NewSubscription()

	//---------------------------------------
	// Insert Active
	//---------------------------------------
	sub := tc.insert(t, model.Subscription{
		ContactID: 11,
		ProductID: 501,
		Status:    model.SubscriptionStatusActive,
		StartDate: newTime("2024-01-15T00:00:00Z"),
		ActualPrice: decimal.NullDecimal{
			Valid:   true,
			Decimal: newPrice("650.00"),
		},
		CreatedAt: newTime("2024-01-15T08:00:00Z"),
		UpdatedAt: newTime("2024-01-15T08:00:00Z"),
	})

	readCtx := tc.provider.Readonly(newContext())

	found, err := repo.GetSubscription(readCtx, sub.ID)
	assert.Equal(t, nil, err)
	assert.Equal(t, model.SubscriptionStatusActive, found.Status)
	assert.Equal(t, true, found.ActualPrice.Decimal.Equal(newPrice("650.00")))

	//---------------------------------------
	// Second Active Row For Same Pair Rejected
	//---------------------------------------
	err = tc.provider.Transact(newContext(), func(ctx context.Context) error {
		_, err := repo.InsertSubscription(ctx, model.Subscription{
			ContactID: 11,
			ProductID: 501,
			Status:    model.SubscriptionStatusActive,
			StartDate: newTime("2024-02-01T00:00:00Z"),
			CreatedAt: newTime("2024-02-01T08:00:00Z"),
			UpdatedAt: newTime("2024-02-01T08:00:00Z"),
		})
		return err
	})
	assert.Equal(t, errcode.KindConflict, errcode.KindOf(err))

	//---------------------------------------
	// Same Pair With Ended Status Is Allowed
	//---------------------------------------
	tc.insert(t, model.Subscription{
		ContactID: 11,
		ProductID: 501,
		Status:    model.SubscriptionStatusEnded,
		StartDate: newTime("2023-01-15T00:00:00Z"),
		EndDate:   newNullTime("2023-12-31T00:00:00Z"),
		CreatedAt: newTime("2023-01-15T08:00:00Z"),
		UpdatedAt: newTime("2023-01-15T08:00:00Z"),
	})

	//---------------------------------------
	// End Then Re-Subscribe
	//---------------------------------------
	ended := model.SubscriptionStatusEnded
	endDate := newNullTime("2024-06-30T00:00:00Z")
	err = tc.provider.Transact(newContext(), func(ctx context.Context) error {
		_, err := repo.LockSubscription(ctx, sub.ID)
		if err != nil {
			return err
		}
		return repo.UpdateSubscription(ctx, sub.ID, model.SubscriptionPatch{
			Status:  &ended,
			EndDate: &endDate,
		}, newTime("2024-06-30T08:00:00Z"))
	})
	assert.Equal(t, nil, err)

	found, err = repo.GetSubscription(readCtx, sub.ID)
	assert.Equal(t, nil, err)
	assert.Equal(t, model.SubscriptionStatusEnded, found.Status)
	assert.Equal(t, endDate, found.EndDate)
	assert.Equal(t, newTime("2024-06-30T08:00:00Z"), found.UpdatedAt)

	tc.insert(t, model.Subscription{
		ContactID: 11,
		ProductID: 501,
		Status:    model.SubscriptionStatusActive,
		StartDate: newTime("2024-07-01T00:00:00Z"),
		CreatedAt: newTime("2024-07-01T08:00:00Z"),
		UpdatedAt: newTime("2024-07-01T08:00:00Z"),
	})

	//---------------------------------------
	// Reactivating A Second Row Is Rejected
	//---------------------------------------
	active := model.SubscriptionStatusActive
	err = tc.provider.Transact(newContext(), func(ctx context.Context) error {
		_, err := repo.LockSubscription(ctx, sub.ID)
		if err != nil {
			return err
		}
		return repo.UpdateSubscription(ctx, sub.ID, model.SubscriptionPatch{
			Status: &active,
		}, newTime("2024-07-02T08:00:00Z"))
	})
	assert.Equal(t, errcode.KindConflict, errcode.KindOf(err))

	//---------------------------------------
	// List By Contact, Count Active
	//---------------------------------------
	subs, err := repo.ListSubscriptionsByContact(readCtx, 11)
	assert.Equal(t, nil, err)
	assert.Equal(t, 3, len(subs))

	count, err := repo.CountActiveByProduct(readCtx, 501)
	assert.Equal(t, nil, err)
	assert.Equal(t, int64(1), count)

	tc.insert(t, model.Subscription{
		ContactID: 12,
		ProductID: 501,
		Status:    model.SubscriptionStatusActive,
		StartDate: newTime("2024-07-01T00:00:00Z"),
		CreatedAt: newTime("2024-07-01T08:00:00Z"),
		UpdatedAt: newTime("2024-07-01T08:00:00Z"),
	})
	tc.insert(t, model.Subscription{
		ContactID: 12,
		ProductID: 502,
		Status:    model.SubscriptionStatusSuspended,
		StartDate: newTime("2024-07-01T00:00:00Z"),
		CreatedAt: newTime("2024-07-01T08:00:00Z"),
		UpdatedAt: newTime("2024-07-01T08:00:00Z"),
	})

	counts, err := repo.CountActiveForProducts(readCtx, []int64{501, 502, 999})
	assert.Equal(t, nil, err)
	assert.Equal(t, map[int64]int64{501: 2}, counts)
}
