package engagement

import (
	"context"
	"database/sql"

	"github.com/clientdesk/crm-core/model"
	"github.com/clientdesk/crm-core/pkg/errcode"
)

// AddResponseInput ...
type AddResponseInput struct {
	CampaignID     int64
	ContactID      int64
	ResponseStatus model.ResponseStatus
	Notes          sql.NullString
}

// AddResponse records a contact as a recipient of a campaign. The response
// rows of a campaign are its recipient list. Status defaults to pending.
func (s *Service) AddResponse(ctx context.Context, input AddResponseInput) (model.CampaignResponse, error) {
	if input.ResponseStatus == "" {
		input.ResponseStatus = model.ResponseStatusPending
	}
	if _, ok := model.ParseResponseStatus(string(input.ResponseStatus)); !ok {
		return model.CampaignResponse{}, errcode.InvalidArgumentf("unknown response status %q", input.ResponseStatus)
	}

	response := model.CampaignResponse{
		CampaignID:     input.CampaignID,
		ContactID:      input.ContactID,
		ResponseStatus: input.ResponseStatus,
		Notes:          input.Notes,
		CreatedAt:      s.now(),
	}
	if input.ResponseStatus != model.ResponseStatusPending {
		response.ResponseDate = sql.NullTime{Valid: true, Time: s.now()}
	}

	err := s.provider.Transact(ctx, func(ctx context.Context) error {
		if err := s.campaigns.LockCampaign(ctx, input.CampaignID); err != nil {
			return err
		}
		if err := s.contacts.LockContact(ctx, input.ContactID); err != nil {
			return err
		}
		var err error
		response, err = s.responses.InsertResponse(ctx, response)
		return err
	})
	return response, err
}

// UpdateResponse patches status and notes. response_date is derived: set
// when the status leaves pending, cleared when it returns to pending.
func (s *Service) UpdateResponse(ctx context.Context, responseID int64, patch model.CampaignResponsePatch) (model.CampaignResponse, error) {
	if patch.ResponseDate != nil {
		return model.CampaignResponse{}, errcode.InvalidArgumentf("response_date cannot be set directly")
	}
	if patch.ResponseStatus != nil {
		if _, ok := model.ParseResponseStatus(string(*patch.ResponseStatus)); !ok {
			return model.CampaignResponse{}, errcode.InvalidArgumentf("unknown response status %q", *patch.ResponseStatus)
		}
	}

	var updated model.CampaignResponse
	err := s.provider.Transact(ctx, func(ctx context.Context) error {
		current, err := s.responses.LockResponse(ctx, responseID)
		if err != nil {
			return err
		}

		if patch.ResponseStatus != nil && *patch.ResponseStatus != current.ResponseStatus {
			switch {
			case current.ResponseStatus == model.ResponseStatusPending:
				patch.ResponseDate = &sql.NullTime{Valid: true, Time: s.now()}
			case *patch.ResponseStatus == model.ResponseStatusPending:
				patch.ResponseDate = &sql.NullTime{}
			}
		}

		if err := s.responses.UpdateResponse(ctx, responseID, patch); err != nil {
			return err
		}
		updated, err = s.responses.GetResponse(ctx, responseID)
		return err
	})
	return updated, err
}
