package catalog

import (
	"context"
	"database/sql"
	"time"

	"github.com/shopspring/decimal"

	"github.com/clientdesk/crm-core/model"
	"github.com/clientdesk/crm-core/pkg/errcode"
	"github.com/clientdesk/crm-core/repository"
)

// Service owns the product catalog with its version lineage and the
// customer subscription ledger.
type Service struct {
	provider      repository.Provider
	products      repository.Product
	subscriptions repository.Subscription
	contacts      repository.Contact

	now func() time.Time
}

// NewService ...
func NewService(
	provider repository.Provider,
	products repository.Product,
	subscriptions repository.Subscription,
	contacts repository.Contact,
	now func() time.Time,
) *Service {
	return &Service{
		provider:      provider,
		products:      products,
		subscriptions: subscriptions,
		contacts:      contacts,
		now:           now,
	}
}

// CreateProductInput ...
type CreateProductInput struct {
	Name             string
	Description      sql.NullString
	Status           model.ProductStatus
	ProductType      string
	EffectiveDate    time.Time
	BasePrice        decimal.Decimal
	Currency         string
	BillingFrequency string
}

// CreateProduct inserts a catalog entry. Products always start at version 1
// with no parent: superseding an existing product would be a new row linking
// back to it, a capability the schema supports but for which no command
// exists yet.
func (s *Service) CreateProduct(ctx context.Context, input CreateProductInput) (model.Product, error) {
	if input.Name == "" {
		return model.Product{}, errcode.InvalidArgumentf("name is required")
	}
	if input.Status == "" {
		input.Status = model.ProductStatusActive
	}
	if _, ok := model.ParseProductStatus(string(input.Status)); !ok {
		return model.Product{}, errcode.InvalidArgumentf("unknown product status %q", input.Status)
	}
	if input.BasePrice.IsNegative() {
		return model.Product{}, errcode.InvalidArgumentf("base_price cannot be negative")
	}

	now := s.now()
	product := model.Product{
		Name:             input.Name,
		Description:      input.Description,
		Status:           input.Status,
		ProductType:      input.ProductType,
		Version:          1,
		EffectiveDate:    input.EffectiveDate,
		BasePrice:        input.BasePrice,
		Currency:         input.Currency,
		BillingFrequency: input.BillingFrequency,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	err := s.provider.Transact(ctx, func(ctx context.Context) error {
		var err error
		product, err = s.products.InsertProduct(ctx, product)
		return err
	})
	return product, err
}

// GetProduct ...
func (s *Service) GetProduct(ctx context.Context, productID int64) (model.Product, error) {
	return s.products.GetProduct(s.provider.Readonly(ctx), productID)
}

// UpdateProduct merges the provided fields only and refreshes updated_at.
func (s *Service) UpdateProduct(ctx context.Context, productID int64, patch model.ProductPatch) (model.Product, error) {
	if patch.Name != nil && *patch.Name == "" {
		return model.Product{}, errcode.InvalidArgumentf("name cannot be empty")
	}
	if patch.Status != nil {
		if _, ok := model.ParseProductStatus(string(*patch.Status)); !ok {
			return model.Product{}, errcode.InvalidArgumentf("unknown product status %q", *patch.Status)
		}
	}
	if patch.BasePrice != nil && patch.BasePrice.IsNegative() {
		return model.Product{}, errcode.InvalidArgumentf("base_price cannot be negative")
	}

	var updated model.Product
	err := s.provider.Transact(ctx, func(ctx context.Context) error {
		if _, err := s.products.LockProduct(ctx, productID); err != nil {
			return err
		}
		if err := s.products.UpdateProduct(ctx, productID, patch, s.now()); err != nil {
			return err
		}
		var err error
		updated, err = s.products.GetProduct(ctx, productID)
		return err
	})
	return updated, err
}

// ProductSummary ...
type ProductSummary struct {
	Product               model.Product
	ActiveSubscriberCount int64
}

// ListProducts returns the catalog with active subscriber counts.
func (s *Service) ListProducts(ctx context.Context) ([]ProductSummary, error) {
	ctx = s.provider.Readonly(ctx)

	products, err := s.products.ListProducts(ctx)
	if err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(products))
	for _, product := range products {
		ids = append(ids, product.ID)
	}
	counts, err := s.subscriptions.CountActiveForProducts(ctx, ids)
	if err != nil {
		return nil, err
	}

	result := make([]ProductSummary, 0, len(products))
	for _, product := range products {
		result = append(result, ProductSummary{
			Product:               product,
			ActiveSubscriberCount: counts[product.ID],
		})
	}
	return result, nil
}

// ActiveSubscriberCount ...
func (s *Service) ActiveSubscriberCount(ctx context.Context, productID int64) (int64, error) {
	ctx = s.provider.Readonly(ctx)

	if _, err := s.products.GetProduct(ctx, productID); err != nil {
		return 0, err
	}
	return s.subscriptions.CountActiveByProduct(ctx, productID)
}

// maxVersionChain bounds chain traversal; chains are acyclic by construction
// but a corrupted parent link must not loop forever.
const maxVersionChain = 100

// VersionChain walks parent_product_id links from the given product back to
// the version-1 root, newest first. No command creates chains yet; the
// traversal exists for catalogs imported with lineage.
func (s *Service) VersionChain(ctx context.Context, productID int64) ([]model.Product, error) {
	ctx = s.provider.Readonly(ctx)

	var chain []model.Product
	seen := make(map[int64]bool)

	currentID := productID
	for len(chain) < maxVersionChain {
		if seen[currentID] {
			break
		}
		seen[currentID] = true

		product, err := s.products.GetProduct(ctx, currentID)
		if err != nil {
			if len(chain) > 0 && errcode.KindOf(err) == errcode.KindNotFound {
				// Dangling parent link: return what resolved.
				return chain, nil
			}
			return nil, err
		}
		chain = append(chain, product)

		if !product.ParentProductID.Valid {
			break
		}
		currentID = product.ParentProductID.Int64
	}
	return chain, nil
}
