package api

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/clientdesk/crm-core/model"
	"github.com/clientdesk/crm-core/pkg/errcode"
	"github.com/clientdesk/crm-core/service/catalog"
)

func parsePrice(raw string) (decimal.Decimal, error) {
	price, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Decimal{}, errcode.InvalidArgumentf("invalid price %q", raw)
	}
	return price, nil
}

type createProductRequest struct {
	Name             string    `json:"name" validate:"required"`
	Description      *string   `json:"description"`
	Status           string    `json:"status"`
	ProductType      string    `json:"product_type" validate:"required"`
	EffectiveDate    time.Time `json:"effective_date" validate:"required"`
	BasePrice        string    `json:"base_price" validate:"required"`
	Currency         string    `json:"currency" validate:"required,len=3"`
	BillingFrequency string    `json:"billing_frequency" validate:"required"`
}

func (s *Server) createProduct(c echo.Context) error {
	var req createProductRequest
	if err := c.Bind(&req); err != nil {
		return writeError(c, errcode.InvalidArgumentf("invalid request body"))
	}
	if err := validate.Struct(req); err != nil {
		return writeError(c, errcode.InvalidArgumentf("%s", err.Error()))
	}
	basePrice, err := parsePrice(req.BasePrice)
	if err != nil {
		return writeError(c, err)
	}

	product, err := s.catalog.CreateProduct(c.Request().Context(), catalog.CreateProductInput{
		Name:             req.Name,
		Description:      toNullString(req.Description),
		Status:           model.ProductStatus(req.Status),
		ProductType:      req.ProductType,
		EffectiveDate:    req.EffectiveDate,
		BasePrice:        basePrice,
		Currency:         req.Currency,
		BillingFrequency: req.BillingFrequency,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, newProductView(product))
}

func (s *Server) listProducts(c echo.Context) error {
	products, err := s.catalog.ListProducts(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, newProductSummaryViews(products))
}

func (s *Server) getProduct(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return writeError(c, err)
	}
	product, err := s.catalog.GetProduct(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, newProductView(product))
}

type updateProductRequest struct {
	Name             *string    `json:"name"`
	Description      *string    `json:"description"`
	Status           *string    `json:"status"`
	ProductType      *string    `json:"product_type"`
	EffectiveDate    *time.Time `json:"effective_date"`
	BasePrice        *string    `json:"base_price"`
	Currency         *string    `json:"currency" validate:"omitempty,len=3"`
	BillingFrequency *string    `json:"billing_frequency"`
}

func (s *Server) updateProduct(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return writeError(c, err)
	}
	var req updateProductRequest
	if err := c.Bind(&req); err != nil {
		return writeError(c, errcode.InvalidArgumentf("invalid request body"))
	}
	if err := validate.Struct(req); err != nil {
		return writeError(c, errcode.InvalidArgumentf("%s", err.Error()))
	}

	patch := model.ProductPatch{
		Name:             req.Name,
		Description:      patchNullString(req.Description),
		ProductType:      req.ProductType,
		EffectiveDate:    req.EffectiveDate,
		Currency:         req.Currency,
		BillingFrequency: req.BillingFrequency,
	}
	if req.Status != nil {
		status, ok := model.ParseProductStatus(*req.Status)
		if !ok {
			return writeError(c, errcode.InvalidArgumentf("unknown product status %q", *req.Status))
		}
		patch.Status = &status
	}
	if req.BasePrice != nil {
		basePrice, err := parsePrice(*req.BasePrice)
		if err != nil {
			return writeError(c, err)
		}
		patch.BasePrice = &basePrice
	}

	product, err := s.catalog.UpdateProduct(c.Request().Context(), id, patch)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, newProductView(product))
}

func (s *Server) getProductVersionChain(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return writeError(c, err)
	}
	chain, err := s.catalog.VersionChain(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}

	views := make([]productView, 0, len(chain))
	for _, product := range chain {
		views = append(views, newProductView(product))
	}
	return c.JSON(http.StatusOK, views)
}

type subscribeRequest struct {
	ContactID   int64      `json:"contact_id" validate:"required"`
	ProductID   int64      `json:"product_id" validate:"required"`
	Status      string     `json:"status"`
	StartDate   time.Time  `json:"start_date" validate:"required"`
	EndDate     *time.Time `json:"end_date"`
	ActualPrice *string    `json:"actual_price"`
	Notes       *string    `json:"notes"`
}

func (s *Server) subscribe(c echo.Context) error {
	var req subscribeRequest
	if err := c.Bind(&req); err != nil {
		return writeError(c, errcode.InvalidArgumentf("invalid request body"))
	}
	if err := validate.Struct(req); err != nil {
		return writeError(c, errcode.InvalidArgumentf("%s", err.Error()))
	}

	input := catalog.SubscribeInput{
		ContactID: req.ContactID,
		ProductID: req.ProductID,
		Status:    model.SubscriptionStatus(req.Status),
		StartDate: req.StartDate,
		Notes:     toNullString(req.Notes),
	}
	if req.EndDate != nil {
		input.EndDate = sqlNullTime(*req.EndDate)
	}
	if req.ActualPrice != nil {
		price, err := parsePrice(*req.ActualPrice)
		if err != nil {
			return writeError(c, err)
		}
		input.ActualPrice = decimal.NullDecimal{Decimal: price, Valid: true}
	}

	sub, err := s.catalog.Subscribe(c.Request().Context(), input)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, newSubscriptionView(sub))
}

type updateSubscriptionRequest struct {
	Status      *string    `json:"status"`
	EndDate     *time.Time `json:"end_date"`
	ActualPrice *string    `json:"actual_price"`
	Notes       *string    `json:"notes"`
}

func (s *Server) updateSubscription(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return writeError(c, err)
	}
	var req updateSubscriptionRequest
	if err := c.Bind(&req); err != nil {
		return writeError(c, errcode.InvalidArgumentf("invalid request body"))
	}

	patch := model.SubscriptionPatch{
		Notes: patchNullString(req.Notes),
	}
	if req.Status != nil {
		status, ok := model.ParseSubscriptionStatus(*req.Status)
		if !ok {
			return writeError(c, errcode.InvalidArgumentf("unknown subscription status %q", *req.Status))
		}
		patch.Status = &status
	}
	if req.EndDate != nil {
		endDate := sqlNullTime(*req.EndDate)
		patch.EndDate = &endDate
	}
	if req.ActualPrice != nil {
		price, err := parsePrice(*req.ActualPrice)
		if err != nil {
			return writeError(c, err)
		}
		actual := decimal.NullDecimal{Decimal: price, Valid: true}
		patch.ActualPrice = &actual
	}

	sub, err := s.catalog.UpdateSubscription(c.Request().Context(), id, patch)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, newSubscriptionView(sub))
}
