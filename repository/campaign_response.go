package repository

import (
	"context"

	"github.com/huandu/go-sqlbuilder"

	"github.com/clientdesk/crm-core/model"
	"github.com/clientdesk/crm-core/pkg/errcode"
)

// ResponseFilter restricts a response listing. A nil/empty field means no
// restriction on that dimension.
type ResponseFilter struct {
	CampaignIDs []int64
	Status      *model.ResponseStatus
}

// CampaignResponse ...
type CampaignResponse interface {
	InsertResponse(ctx context.Context, response model.CampaignResponse) (model.CampaignResponse, error)
	GetResponse(ctx context.Context, responseID int64) (model.CampaignResponse, error)
	LockResponse(ctx context.Context, responseID int64) (model.CampaignResponse, error)
	UpdateResponse(ctx context.Context, responseID int64, patch model.CampaignResponsePatch) error
	ListResponses(ctx context.Context, filter ResponseFilter) ([]model.CampaignResponse, error)
}

type campaignResponseImpl struct {
}

// NewCampaignResponse ...
func NewCampaignResponse() CampaignResponse {
	return &campaignResponseImpl{}
}

const responseColumns = `id, campaign_id, contact_id, response_status, response_date, notes, created_at`

// InsertResponse ...
func (c *campaignResponseImpl) InsertResponse(ctx context.Context, response model.CampaignResponse) (model.CampaignResponse, error) {
	query := `
INSERT INTO campaign_responses (campaign_id, contact_id, response_status, response_date, notes, created_at)
VALUES (:campaign_id, :contact_id, :response_status, :response_date, :notes, :created_at)
`
	result, err := GetTx(ctx).NamedExecContext(ctx, query, response)
	if err != nil {
		return model.CampaignResponse{}, err
	}
	response.ID, err = result.LastInsertId()
	return response, err
}

// GetResponse ...
func (c *campaignResponseImpl) GetResponse(ctx context.Context, responseID int64) (model.CampaignResponse, error) {
	query := `SELECT ` + responseColumns + ` FROM campaign_responses WHERE id = ?`
	var response model.CampaignResponse
	err := GetReadonly(ctx).GetContext(ctx, &response, query, responseID)
	if isNoRows(err) {
		return model.CampaignResponse{}, errcode.NotFoundf("campaign response %d not found", responseID)
	}
	return response, err
}

// LockResponse returns the row under FOR UPDATE so a status transition can
// inspect the current status in the same transaction.
func (c *campaignResponseImpl) LockResponse(ctx context.Context, responseID int64) (model.CampaignResponse, error) {
	query := `SELECT ` + responseColumns + ` FROM campaign_responses WHERE id = ? FOR UPDATE`
	var response model.CampaignResponse
	err := GetTx(ctx).GetContext(ctx, &response, query, responseID)
	if isNoRows(err) {
		return model.CampaignResponse{}, errcode.NotFoundf("campaign response %d not found", responseID)
	}
	return response, err
}

// UpdateResponse ...
func (c *campaignResponseImpl) UpdateResponse(
	ctx context.Context, responseID int64, patch model.CampaignResponsePatch,
) error {
	ub := sqlbuilder.MySQL.NewUpdateBuilder()
	ub.Update("campaign_responses")

	var assigns []string
	if patch.ResponseStatus != nil {
		assigns = append(assigns, ub.Assign("response_status", *patch.ResponseStatus))
	}
	if patch.Notes != nil {
		assigns = append(assigns, ub.Assign("notes", *patch.Notes))
	}
	if patch.ResponseDate != nil {
		assigns = append(assigns, ub.Assign("response_date", *patch.ResponseDate))
	}
	if len(assigns) == 0 {
		return nil
	}

	ub.Set(assigns...)
	ub.Where(ub.Equal("id", responseID))

	query, args := ub.Build()
	_, err := GetTx(ctx).ExecContext(ctx, query, args...)
	return err
}

// ListResponses ...
func (c *campaignResponseImpl) ListResponses(ctx context.Context, filter ResponseFilter) ([]model.CampaignResponse, error) {
	sb := sqlbuilder.MySQL.NewSelectBuilder()
	sb.Select("id", "campaign_id", "contact_id", "response_status", "response_date", "notes", "created_at")
	sb.From("campaign_responses")

	var conds []string
	if len(filter.CampaignIDs) > 0 {
		conds = append(conds, sb.In("campaign_id", sqlbuilder.Flatten(filter.CampaignIDs)...))
	}
	if filter.Status != nil {
		conds = append(conds, sb.Equal("response_status", *filter.Status))
	}
	if len(conds) > 0 {
		sb.Where(conds...)
	}
	sb.OrderBy("id")

	query, args := sb.Build()
	var responses []model.CampaignResponse
	err := GetReadonly(ctx).SelectContext(ctx, &responses, query, args...)
	return responses, err
}
