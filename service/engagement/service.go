package engagement

import (
	"context"
	"database/sql"
	"time"

	"github.com/clientdesk/crm-core/model"
	"github.com/clientdesk/crm-core/pkg/errcode"
	"github.com/clientdesk/crm-core/repository"
)

// Service owns marketing campaigns, their recipient response records and the
// engagement statistics derived from them.
type Service struct {
	provider      repository.Provider
	campaigns     repository.Campaign
	responses     repository.CampaignResponse
	contacts      repository.Contact
	relationships repository.Relationship

	now func() time.Time
}

// NewService ...
func NewService(
	provider repository.Provider,
	campaigns repository.Campaign,
	responses repository.CampaignResponse,
	contacts repository.Contact,
	relationships repository.Relationship,
	now func() time.Time,
) *Service {
	return &Service{
		provider:      provider,
		campaigns:     campaigns,
		responses:     responses,
		contacts:      contacts,
		relationships: relationships,
		now:           now,
	}
}

// CreateCampaignInput ...
type CreateCampaignInput struct {
	Name        string
	Description sql.NullString
	Channel     model.CampaignChannel
	SendDate    time.Time
	Status      model.CampaignStatus
}

// CreateCampaign ...
func (s *Service) CreateCampaign(ctx context.Context, input CreateCampaignInput) (model.Campaign, error) {
	if input.Name == "" {
		return model.Campaign{}, errcode.InvalidArgumentf("name is required")
	}
	if _, ok := model.ParseCampaignChannel(string(input.Channel)); !ok {
		return model.Campaign{}, errcode.InvalidArgumentf("unknown campaign channel %q", input.Channel)
	}
	if input.Status == "" {
		input.Status = model.CampaignStatusDraft
	}
	if _, ok := model.ParseCampaignStatus(string(input.Status)); !ok {
		return model.Campaign{}, errcode.InvalidArgumentf("unknown campaign status %q", input.Status)
	}

	campaign := model.Campaign{
		Name:        input.Name,
		Description: input.Description,
		Channel:     input.Channel,
		SendDate:    input.SendDate,
		Status:      input.Status,
		CreatedAt:   s.now(),
	}

	err := s.provider.Transact(ctx, func(ctx context.Context) error {
		var err error
		campaign, err = s.campaigns.InsertCampaign(ctx, campaign)
		return err
	})
	return campaign, err
}

// GetCampaign ...
func (s *Service) GetCampaign(ctx context.Context, campaignID int64) (model.Campaign, error) {
	return s.campaigns.GetCampaign(s.provider.Readonly(ctx), campaignID)
}

// ListCampaigns ...
func (s *Service) ListCampaigns(ctx context.Context) ([]model.Campaign, error) {
	return s.campaigns.ListCampaigns(s.provider.Readonly(ctx))
}

// UpdateCampaign ...
func (s *Service) UpdateCampaign(ctx context.Context, campaignID int64, patch model.CampaignPatch) (model.Campaign, error) {
	if patch.Name != nil && *patch.Name == "" {
		return model.Campaign{}, errcode.InvalidArgumentf("name cannot be empty")
	}
	if patch.Channel != nil {
		if _, ok := model.ParseCampaignChannel(string(*patch.Channel)); !ok {
			return model.Campaign{}, errcode.InvalidArgumentf("unknown campaign channel %q", *patch.Channel)
		}
	}
	if patch.Status != nil {
		if _, ok := model.ParseCampaignStatus(string(*patch.Status)); !ok {
			return model.Campaign{}, errcode.InvalidArgumentf("unknown campaign status %q", *patch.Status)
		}
	}

	var updated model.Campaign
	err := s.provider.Transact(ctx, func(ctx context.Context) error {
		if err := s.campaigns.LockCampaign(ctx, campaignID); err != nil {
			return err
		}
		if err := s.campaigns.UpdateCampaign(ctx, campaignID, patch); err != nil {
			return err
		}
		var err error
		updated, err = s.campaigns.GetCampaign(ctx, campaignID)
		return err
	})
	return updated, err
}

// DeleteCampaign removes the campaign. Its response rows are left in place.
func (s *Service) DeleteCampaign(ctx context.Context, campaignID int64) error {
	return s.provider.Transact(ctx, func(ctx context.Context) error {
		return s.campaigns.DeleteCampaign(ctx, campaignID)
	})
}
