package catalog

import (
	"context"
	"database/sql"
	"time"

	"github.com/shopspring/decimal"

	"github.com/clientdesk/crm-core/model"
	"github.com/clientdesk/crm-core/pkg/errcode"
)

// SubscribeInput ...
type SubscribeInput struct {
	ContactID   int64
	ProductID   int64
	Status      model.SubscriptionStatus
	StartDate   time.Time
	EndDate     sql.NullTime
	ActualPrice decimal.NullDecimal
	Notes       sql.NullString
}

// Subscribe assigns a product to a contact. The product row is locked for
// the duration of the transaction so the status check and the insert commit
// together; the duplicate-active unique key turns a concurrent duplicate
// into a Conflict instead of a second active row.
func (s *Service) Subscribe(ctx context.Context, input SubscribeInput) (model.Subscription, error) {
	if input.Status == "" {
		input.Status = model.SubscriptionStatusActive
	}
	if _, ok := model.ParseSubscriptionStatus(string(input.Status)); !ok {
		return model.Subscription{}, errcode.InvalidArgumentf("unknown subscription status %q", input.Status)
	}
	if input.ActualPrice.Valid && input.ActualPrice.Decimal.IsNegative() {
		return model.Subscription{}, errcode.InvalidArgumentf("actual_price cannot be negative")
	}

	startDate := input.StartDate
	if startDate.IsZero() {
		startDate = s.now()
	}

	now := s.now()
	sub := model.Subscription{
		ContactID:   input.ContactID,
		ProductID:   input.ProductID,
		Status:      input.Status,
		StartDate:   startDate,
		EndDate:     input.EndDate,
		ActualPrice: input.ActualPrice,
		Notes:       input.Notes,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err := s.provider.Transact(ctx, func(ctx context.Context) error {
		if err := s.contacts.LockContact(ctx, input.ContactID); err != nil {
			return err
		}

		product, err := s.products.LockProduct(ctx, input.ProductID)
		if err != nil {
			return err
		}
		if product.Status != model.ProductStatusActive {
			return errcode.FailedPreconditionf(
				"product %d is %s, only active products can be subscribed to",
				product.ID, product.Status)
		}

		sub, err = s.subscriptions.InsertSubscription(ctx, sub)
		return err
	})
	return sub, err
}

// GetSubscription ...
func (s *Service) GetSubscription(ctx context.Context, subscriptionID int64) (model.Subscription, error) {
	return s.subscriptions.GetSubscription(s.provider.Readonly(ctx), subscriptionID)
}

// UpdateSubscription patches status, end_date, actual_price and notes only,
// always refreshing updated_at.
func (s *Service) UpdateSubscription(ctx context.Context, subscriptionID int64, patch model.SubscriptionPatch) (model.Subscription, error) {
	if patch.Status != nil {
		if _, ok := model.ParseSubscriptionStatus(string(*patch.Status)); !ok {
			return model.Subscription{}, errcode.InvalidArgumentf("unknown subscription status %q", *patch.Status)
		}
	}
	if patch.ActualPrice != nil && patch.ActualPrice.Valid && patch.ActualPrice.Decimal.IsNegative() {
		return model.Subscription{}, errcode.InvalidArgumentf("actual_price cannot be negative")
	}

	var updated model.Subscription
	err := s.provider.Transact(ctx, func(ctx context.Context) error {
		if _, err := s.subscriptions.LockSubscription(ctx, subscriptionID); err != nil {
			return err
		}
		if err := s.subscriptions.UpdateSubscription(ctx, subscriptionID, patch, s.now()); err != nil {
			return err
		}
		var err error
		updated, err = s.subscriptions.GetSubscription(ctx, subscriptionID)
		return err
	})
	return updated, err
}

// ContactSubscription ...
type ContactSubscription struct {
	Subscription model.Subscription
	Product      model.Product
}

// ContactSubscriptions returns a contact's subscriptions joined to their
// products. Subscriptions whose product no longer resolves are skipped.
func (s *Service) ContactSubscriptions(ctx context.Context, contactID int64) ([]ContactSubscription, error) {
	ctx = s.provider.Readonly(ctx)

	if _, err := s.contacts.GetContact(ctx, contactID); err != nil {
		return nil, err
	}

	subs, err := s.subscriptions.ListSubscriptionsByContact(ctx, contactID)
	if err != nil {
		return nil, err
	}

	productIDs := make([]int64, 0, len(subs))
	for _, sub := range subs {
		productIDs = append(productIDs, sub.ProductID)
	}
	products, err := s.products.GetProductsByIDs(ctx, productIDs)
	if err != nil {
		return nil, err
	}

	result := make([]ContactSubscription, 0, len(subs))
	for _, sub := range subs {
		product, ok := products[sub.ProductID]
		if !ok {
			continue
		}
		result = append(result, ContactSubscription{
			Subscription: sub,
			Product:      product,
		})
	}
	return result, nil
}
