package repository

import (
	"context"
	"time"

	"github.com/huandu/go-sqlbuilder"
	"github.com/jmoiron/sqlx"

	"github.com/clientdesk/crm-core/model"
	"github.com/clientdesk/crm-core/pkg/errcode"
)

// Product ...
type Product interface {
	InsertProduct(ctx context.Context, product model.Product) (model.Product, error)
	GetProduct(ctx context.Context, productID int64) (model.Product, error)
	GetProductsByIDs(ctx context.Context, productIDs []int64) (map[int64]model.Product, error)
	LockProduct(ctx context.Context, productID int64) (model.Product, error)
	UpdateProduct(ctx context.Context, productID int64, patch model.ProductPatch, updatedAt time.Time) error
	ListProducts(ctx context.Context) ([]model.Product, error)
}

type productImpl struct {
}

// NewProduct ...
func NewProduct() Product {
	return &productImpl{}
}

const productColumns = `id, name, description, status, product_type, version, parent_product_id,
	effective_date, base_price, currency, billing_frequency, created_at, updated_at`

// InsertProduct ...
func (p *productImpl) InsertProduct(ctx context.Context, product model.Product) (model.Product, error) {
	query := `
INSERT INTO products (
	name, description, status, product_type, version, parent_product_id,
	effective_date, base_price, currency, billing_frequency, created_at, updated_at
) VALUES (
	:name, :description, :status, :product_type, :version, :parent_product_id,
	:effective_date, :base_price, :currency, :billing_frequency, :created_at, :updated_at
)
`
	result, err := GetTx(ctx).NamedExecContext(ctx, query, product)
	if err != nil {
		return model.Product{}, err
	}
	product.ID, err = result.LastInsertId()
	return product, err
}

// GetProduct ...
func (p *productImpl) GetProduct(ctx context.Context, productID int64) (model.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = ?`
	var product model.Product
	err := GetReadonly(ctx).GetContext(ctx, &product, query, productID)
	if isNoRows(err) {
		return model.Product{}, errcode.NotFoundf("product %d not found", productID)
	}
	return product, err
}

// GetProductsByIDs ...
func (p *productImpl) GetProductsByIDs(ctx context.Context, productIDs []int64) (map[int64]model.Product, error) {
	if len(productIDs) == 0 {
		return map[int64]model.Product{}, nil
	}

	query, args, err := sqlx.In(`SELECT `+productColumns+` FROM products WHERE id IN (?)`, productIDs)
	if err != nil {
		return nil, err
	}

	var products []model.Product
	if err := GetReadonly(ctx).SelectContext(ctx, &products, query, args...); err != nil {
		return nil, err
	}

	result := make(map[int64]model.Product, len(products))
	for _, product := range products {
		result[product.ID] = product
	}
	return result, nil
}

// LockProduct returns the row under FOR UPDATE so subscribe can check the
// product status and insert within one transaction.
func (p *productImpl) LockProduct(ctx context.Context, productID int64) (model.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = ? FOR UPDATE`
	var product model.Product
	err := GetTx(ctx).GetContext(ctx, &product, query, productID)
	if isNoRows(err) {
		return model.Product{}, errcode.NotFoundf("product %d not found", productID)
	}
	return product, err
}

// UpdateProduct applies the non-nil patch fields and always refreshes
// updated_at. The caller must have locked the row in the same transaction.
func (p *productImpl) UpdateProduct(ctx context.Context, productID int64, patch model.ProductPatch, updatedAt time.Time) error {
	ub := sqlbuilder.MySQL.NewUpdateBuilder()
	ub.Update("products")

	assigns := []string{ub.Assign("updated_at", updatedAt)}
	if patch.Name != nil {
		assigns = append(assigns, ub.Assign("name", *patch.Name))
	}
	if patch.Description != nil {
		assigns = append(assigns, ub.Assign("description", *patch.Description))
	}
	if patch.Status != nil {
		assigns = append(assigns, ub.Assign("status", *patch.Status))
	}
	if patch.ProductType != nil {
		assigns = append(assigns, ub.Assign("product_type", *patch.ProductType))
	}
	if patch.EffectiveDate != nil {
		assigns = append(assigns, ub.Assign("effective_date", *patch.EffectiveDate))
	}
	if patch.BasePrice != nil {
		assigns = append(assigns, ub.Assign("base_price", *patch.BasePrice))
	}
	if patch.Currency != nil {
		assigns = append(assigns, ub.Assign("currency", *patch.Currency))
	}
	if patch.BillingFrequency != nil {
		assigns = append(assigns, ub.Assign("billing_frequency", *patch.BillingFrequency))
	}

	ub.Set(assigns...)
	ub.Where(ub.Equal("id", productID))

	query, args := ub.Build()
	_, err := GetTx(ctx).ExecContext(ctx, query, args...)
	return err
}

// ListProducts ...
func (p *productImpl) ListProducts(ctx context.Context) ([]model.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products ORDER BY id`
	var products []model.Product
	err := GetReadonly(ctx).SelectContext(ctx, &products, query)
	return products, err
}
