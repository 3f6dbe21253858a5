package engagement

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/clientdesk/crm-core/model"
	"github.com/clientdesk/crm-core/repository"
)

// Stats aggregates a set of campaign response rows.
type Stats struct {
	Total         int64
	Pending       int64
	Responded     int64
	Converted     int64
	NotInterested int64

	// ResponseRate is (responded+converted)/total*100 rounded to one
	// decimal place, 0 when total is 0.
	ResponseRate float64
}

var oneHundred = decimal.NewFromInt(100)

// ComputeStats reduces response rows to engagement statistics. It is
// stateless and shared by the single-campaign detail view and the
// cross-campaign overview. Rounding is half away from zero (half-up).
func ComputeStats(rows []model.CampaignResponse) Stats {
	var stats Stats
	stats.Total = int64(len(rows))

	for _, row := range rows {
		switch row.ResponseStatus {
		case model.ResponseStatusPending:
			stats.Pending++
		case model.ResponseStatusResponded:
			stats.Responded++
		case model.ResponseStatusConverted:
			stats.Converted++
		case model.ResponseStatusNotInterested:
			stats.NotInterested++
		}
	}

	if stats.Total > 0 {
		rate := decimal.NewFromInt(stats.Responded + stats.Converted).
			Mul(oneHundred).
			Div(decimal.NewFromInt(stats.Total)).
			Round(1)
		stats.ResponseRate, _ = rate.Float64()
	}
	return stats
}

// CampaignDetail ...
type CampaignDetail struct {
	Campaign model.Campaign
	Stats    Stats
}

// GetCampaignDetail returns a campaign with statistics computed over its own
// response rows.
func (s *Service) GetCampaignDetail(ctx context.Context, campaignID int64) (CampaignDetail, error) {
	ctx = s.provider.Readonly(ctx)

	campaign, err := s.campaigns.GetCampaign(ctx, campaignID)
	if err != nil {
		return CampaignDetail{}, err
	}

	rows, err := s.responses.ListResponses(ctx, repository.ResponseFilter{
		CampaignIDs: []int64{campaignID},
	})
	if err != nil {
		return CampaignDetail{}, err
	}

	return CampaignDetail{
		Campaign: campaign,
		Stats:    ComputeStats(rows),
	}, nil
}

// Overview computes statistics across the selected campaigns, or across all
// response rows when no campaign ids are given. The reduction is the same
// one used for single-campaign details.
func (s *Service) Overview(ctx context.Context, campaignIDs []int64) (Stats, error) {
	ctx = s.provider.Readonly(ctx)

	rows, err := s.responses.ListResponses(ctx, repository.ResponseFilter{
		CampaignIDs: campaignIDs,
	})
	if err != nil {
		return Stats{}, err
	}
	return ComputeStats(rows), nil
}

// CampaignContact is one recipient of a campaign selection: the response row
// joined to its contact and the contact's outbound relationship summaries.
type CampaignContact struct {
	Contact       model.Contact
	Response      model.CampaignResponse
	Relationships []model.RelationshipSummary
}

// ListCampaignContacts returns response rows restricted by campaign ids
// and/or response status, joined to their contacts. Rows whose contact no
// longer resolves are skipped, as are relationship targets that do not
// resolve.
func (s *Service) ListCampaignContacts(ctx context.Context, filter repository.ResponseFilter) ([]CampaignContact, error) {
	ctx = s.provider.Readonly(ctx)

	for _, campaignID := range filter.CampaignIDs {
		if _, err := s.campaigns.GetCampaign(ctx, campaignID); err != nil {
			return nil, err
		}
	}

	rows, err := s.responses.ListResponses(ctx, filter)
	if err != nil {
		return nil, err
	}

	contactIDs := make([]int64, 0, len(rows))
	for _, row := range rows {
		contactIDs = append(contactIDs, row.ContactID)
	}
	contacts, err := s.contacts.GetContactsByIDs(ctx, contactIDs)
	if err != nil {
		return nil, err
	}

	outgoing, err := s.relationships.ListOutgoingForContacts(ctx, contactIDs)
	if err != nil {
		return nil, err
	}

	var targetIDs []int64
	for _, rels := range outgoing {
		for _, rel := range rels {
			targetIDs = append(targetIDs, rel.ToContactID)
		}
	}
	targets, err := s.contacts.GetContactsByIDs(ctx, targetIDs)
	if err != nil {
		return nil, err
	}

	result := make([]CampaignContact, 0, len(rows))
	for _, row := range rows {
		contact, ok := contacts[row.ContactID]
		if !ok {
			continue
		}

		var summaries []model.RelationshipSummary
		for _, rel := range outgoing[row.ContactID] {
			target, ok := targets[rel.ToContactID]
			if !ok {
				continue
			}
			summaries = append(summaries, model.RelationshipSummary{
				RelationshipID:   rel.ID,
				RelationshipType: rel.RelationshipType,
				ContactID:        target.ID,
				FullName:         target.FullName,
			})
		}

		result = append(result, CampaignContact{
			Contact:       contact,
			Response:      row,
			Relationships: summaries,
		})
	}
	return result, nil
}
