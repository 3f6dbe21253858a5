package repository

import (
	"context"
	"time"

	"github.com/huandu/go-sqlbuilder"
	"github.com/jmoiron/sqlx"

	"github.com/clientdesk/crm-core/model"
	"github.com/clientdesk/crm-core/pkg/errcode"
)

// Subscription ...
type Subscription interface {
	InsertSubscription(ctx context.Context, sub model.Subscription) (model.Subscription, error)
	GetSubscription(ctx context.Context, subscriptionID int64) (model.Subscription, error)
	LockSubscription(ctx context.Context, subscriptionID int64) (model.Subscription, error)
	UpdateSubscription(ctx context.Context, subscriptionID int64, patch model.SubscriptionPatch, updatedAt time.Time) error
	ListSubscriptionsByContact(ctx context.Context, contactID int64) ([]model.Subscription, error)
	CountActiveByProduct(ctx context.Context, productID int64) (int64, error)
	CountActiveForProducts(ctx context.Context, productIDs []int64) (map[int64]int64, error)
}

type subscriptionImpl struct {
}

// NewSubscription ...
func NewSubscription() Subscription {
	return &subscriptionImpl{}
}

const subscriptionColumns = `id, contact_id, product_id, status, start_date, end_date,
	actual_price, notes, created_at, updated_at`

// InsertSubscription inserts a subscription row. The generated active_flag
// column and its unique key reject a second active row for the same
// (contact, product) pair, so a concurrent duplicate subscribe cannot both
// pass the check and commit.
func (s *subscriptionImpl) InsertSubscription(ctx context.Context, sub model.Subscription) (model.Subscription, error) {
	query := `
INSERT INTO subscriptions (
	contact_id, product_id, status, start_date, end_date,
	actual_price, notes, created_at, updated_at
) VALUES (
	:contact_id, :product_id, :status, :start_date, :end_date,
	:actual_price, :notes, :created_at, :updated_at
)
`
	result, err := GetTx(ctx).NamedExecContext(ctx, query, sub)
	if isDuplicateEntry(err) {
		return model.Subscription{}, errcode.Conflictf(
			"contact %d already has an active subscription to product %d",
			sub.ContactID, sub.ProductID)
	}
	if err != nil {
		return model.Subscription{}, err
	}
	sub.ID, err = result.LastInsertId()
	return sub, err
}

// GetSubscription ...
func (s *subscriptionImpl) GetSubscription(ctx context.Context, subscriptionID int64) (model.Subscription, error) {
	query := `SELECT ` + subscriptionColumns + ` FROM subscriptions WHERE id = ?`
	var sub model.Subscription
	err := GetReadonly(ctx).GetContext(ctx, &sub, query, subscriptionID)
	if isNoRows(err) {
		return model.Subscription{}, errcode.NotFoundf("subscription %d not found", subscriptionID)
	}
	return sub, err
}

// LockSubscription ...
func (s *subscriptionImpl) LockSubscription(ctx context.Context, subscriptionID int64) (model.Subscription, error) {
	query := `SELECT ` + subscriptionColumns + ` FROM subscriptions WHERE id = ? FOR UPDATE`
	var sub model.Subscription
	err := GetTx(ctx).GetContext(ctx, &sub, query, subscriptionID)
	if isNoRows(err) {
		return model.Subscription{}, errcode.NotFoundf("subscription %d not found", subscriptionID)
	}
	return sub, err
}

// UpdateSubscription applies the non-nil patch fields and always refreshes
// updated_at. Reactivating a row can hit the active-pair unique key, which
// surfaces as Conflict.
func (s *subscriptionImpl) UpdateSubscription(
	ctx context.Context, subscriptionID int64, patch model.SubscriptionPatch, updatedAt time.Time,
) error {
	ub := sqlbuilder.MySQL.NewUpdateBuilder()
	ub.Update("subscriptions")

	assigns := []string{ub.Assign("updated_at", updatedAt)}
	if patch.Status != nil {
		assigns = append(assigns, ub.Assign("status", *patch.Status))
	}
	if patch.EndDate != nil {
		assigns = append(assigns, ub.Assign("end_date", *patch.EndDate))
	}
	if patch.ActualPrice != nil {
		assigns = append(assigns, ub.Assign("actual_price", *patch.ActualPrice))
	}
	if patch.Notes != nil {
		assigns = append(assigns, ub.Assign("notes", *patch.Notes))
	}

	ub.Set(assigns...)
	ub.Where(ub.Equal("id", subscriptionID))

	query, args := ub.Build()
	_, err := GetTx(ctx).ExecContext(ctx, query, args...)
	if isDuplicateEntry(err) {
		return errcode.Conflictf("subscription %d cannot be reactivated: an active subscription already exists", subscriptionID)
	}
	return err
}

// ListSubscriptionsByContact ...
func (s *subscriptionImpl) ListSubscriptionsByContact(ctx context.Context, contactID int64) ([]model.Subscription, error) {
	query := `SELECT ` + subscriptionColumns + ` FROM subscriptions WHERE contact_id = ? ORDER BY id`
	var subs []model.Subscription
	err := GetReadonly(ctx).SelectContext(ctx, &subs, query, contactID)
	return subs, err
}

// CountActiveByProduct ...
func (s *subscriptionImpl) CountActiveByProduct(ctx context.Context, productID int64) (int64, error) {
	query := `SELECT COUNT(*) FROM subscriptions WHERE product_id = ? AND status = ?`
	var count int64
	err := GetReadonly(ctx).GetContext(ctx, &count, query, productID, model.SubscriptionStatusActive)
	return count, err
}

// CountActiveForProducts ...
func (s *subscriptionImpl) CountActiveForProducts(ctx context.Context, productIDs []int64) (map[int64]int64, error) {
	if len(productIDs) == 0 {
		return map[int64]int64{}, nil
	}

	query, args, err := sqlx.In(`
SELECT product_id, COUNT(*) AS total
FROM subscriptions
WHERE product_id IN (?) AND status = ?
GROUP BY product_id`, productIDs, model.SubscriptionStatusActive)
	if err != nil {
		return nil, err
	}

	var rows []struct {
		ProductID int64 `db:"product_id"`
		Total     int64 `db:"total"`
	}
	if err := GetReadonly(ctx).SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}

	result := make(map[int64]int64, len(rows))
	for _, row := range rows {
		result[row.ProductID] = row.Total
	}
	return result, nil
}
