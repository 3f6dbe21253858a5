package repository

import (
	"context"

	"github.com/huandu/go-sqlbuilder"

	"github.com/clientdesk/crm-core/model"
	"github.com/clientdesk/crm-core/pkg/errcode"
)

// Campaign ...
type Campaign interface {
	InsertCampaign(ctx context.Context, campaign model.Campaign) (model.Campaign, error)
	GetCampaign(ctx context.Context, campaignID int64) (model.Campaign, error)
	LockCampaign(ctx context.Context, campaignID int64) error
	UpdateCampaign(ctx context.Context, campaignID int64, patch model.CampaignPatch) error
	DeleteCampaign(ctx context.Context, campaignID int64) error
	ListCampaigns(ctx context.Context) ([]model.Campaign, error)
	CountCampaigns(ctx context.Context) (int64, error)
}

type campaignImpl struct {
}

// NewCampaign ...
func NewCampaign() Campaign {
	return &campaignImpl{}
}

const campaignColumns = `id, name, description, channel, send_date, status, created_at`

// InsertCampaign ...
func (c *campaignImpl) InsertCampaign(ctx context.Context, campaign model.Campaign) (model.Campaign, error) {
	query := `
INSERT INTO campaigns (name, description, channel, send_date, status, created_at)
VALUES (:name, :description, :channel, :send_date, :status, :created_at)
`
	result, err := GetTx(ctx).NamedExecContext(ctx, query, campaign)
	if err != nil {
		return model.Campaign{}, err
	}
	campaign.ID, err = result.LastInsertId()
	return campaign, err
}

// GetCampaign ...
func (c *campaignImpl) GetCampaign(ctx context.Context, campaignID int64) (model.Campaign, error) {
	query := `SELECT ` + campaignColumns + ` FROM campaigns WHERE id = ?`
	var campaign model.Campaign
	err := GetReadonly(ctx).GetContext(ctx, &campaign, query, campaignID)
	if isNoRows(err) {
		return model.Campaign{}, errcode.NotFoundf("campaign %d not found", campaignID)
	}
	return campaign, err
}

// LockCampaign ...
func (c *campaignImpl) LockCampaign(ctx context.Context, campaignID int64) error {
	query := `SELECT id FROM campaigns WHERE id = ? FOR UPDATE`
	var id int64
	err := GetTx(ctx).GetContext(ctx, &id, query, campaignID)
	if isNoRows(err) {
		return errcode.NotFoundf("campaign %d not found", campaignID)
	}
	return err
}

// UpdateCampaign ...
func (c *campaignImpl) UpdateCampaign(ctx context.Context, campaignID int64, patch model.CampaignPatch) error {
	ub := sqlbuilder.MySQL.NewUpdateBuilder()
	ub.Update("campaigns")

	var assigns []string
	if patch.Name != nil {
		assigns = append(assigns, ub.Assign("name", *patch.Name))
	}
	if patch.Description != nil {
		assigns = append(assigns, ub.Assign("description", *patch.Description))
	}
	if patch.Channel != nil {
		assigns = append(assigns, ub.Assign("channel", *patch.Channel))
	}
	if patch.SendDate != nil {
		assigns = append(assigns, ub.Assign("send_date", *patch.SendDate))
	}
	if patch.Status != nil {
		assigns = append(assigns, ub.Assign("status", *patch.Status))
	}
	if len(assigns) == 0 {
		return nil
	}

	ub.Set(assigns...)
	ub.Where(ub.Equal("id", campaignID))

	query, args := ub.Build()
	_, err := GetTx(ctx).ExecContext(ctx, query, args...)
	return err
}

// DeleteCampaign ...
func (c *campaignImpl) DeleteCampaign(ctx context.Context, campaignID int64) error {
	query := `DELETE FROM campaigns WHERE id = ?`
	result, err := GetTx(ctx).ExecContext(ctx, query, campaignID)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return errcode.NotFoundf("campaign %d not found", campaignID)
	}
	return nil
}

// ListCampaigns ...
func (c *campaignImpl) ListCampaigns(ctx context.Context) ([]model.Campaign, error) {
	query := `SELECT ` + campaignColumns + ` FROM campaigns ORDER BY id`
	var campaigns []model.Campaign
	err := GetReadonly(ctx).SelectContext(ctx, &campaigns, query)
	return campaigns, err
}

// CountCampaigns ...
func (c *campaignImpl) CountCampaigns(ctx context.Context) (int64, error) {
	query := `SELECT COUNT(*) FROM campaigns`
	var count int64
	err := GetReadonly(ctx).GetContext(ctx, &count, query)
	return count, err
}
