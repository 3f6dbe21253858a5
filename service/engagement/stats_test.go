package engagement

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/clientdesk/crm-core/model"
)

func responsesWithStatuses(statuses ...model.ResponseStatus) []model.CampaignResponse {
	rows := make([]model.CampaignResponse, 0, len(statuses))
	for _, status := range statuses {
		rows = append(rows, model.CampaignResponse{ResponseStatus: status})
	}
	return rows
}

func TestComputeStats(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		assert.Equal(t, Stats{}, ComputeStats(nil))
	})

	t.Run("only pending", func(t *testing.T) {
		stats := ComputeStats(responsesWithStatuses(
			model.ResponseStatusPending,
			model.ResponseStatusPending,
		))
		assert.Equal(t, Stats{
			Total:   2,
			Pending: 2,
		}, stats)
	})

	t.Run("mixed statuses", func(t *testing.T) {
		statuses := make([]model.ResponseStatus, 0, 20)
		for i := 0; i < 13; i++ {
			statuses = append(statuses, model.ResponseStatusPending)
		}
		for i := 0; i < 3; i++ {
			statuses = append(statuses, model.ResponseStatusResponded)
		}
		statuses = append(statuses,
			model.ResponseStatusConverted,
			model.ResponseStatusConverted,
			model.ResponseStatusNotInterested,
			model.ResponseStatusNotInterested,
		)

		stats := ComputeStats(responsesWithStatuses(statuses...))
		assert.Equal(t, Stats{
			Total:         20,
			Pending:       13,
			Responded:     3,
			Converted:     2,
			NotInterested: 2,
			ResponseRate:  25.0,
		}, stats)
	})

	t.Run("rate rounds half up", func(t *testing.T) {
		// 1 of 16 => 6.25 => 6.3
		statuses := make([]model.ResponseStatus, 0, 16)
		statuses = append(statuses, model.ResponseStatusResponded)
		for i := 0; i < 15; i++ {
			statuses = append(statuses, model.ResponseStatusPending)
		}

		stats := ComputeStats(responsesWithStatuses(statuses...))
		assert.Equal(t, 6.3, stats.ResponseRate)
	})

	t.Run("rate repeating decimal", func(t *testing.T) {
		// 1 of 3 => 33.333... => 33.3
		stats := ComputeStats(responsesWithStatuses(
			model.ResponseStatusConverted,
			model.ResponseStatusPending,
			model.ResponseStatusPending,
		))
		assert.Equal(t, 33.3, stats.ResponseRate)
	})

	t.Run("all converted", func(t *testing.T) {
		stats := ComputeStats(responsesWithStatuses(
			model.ResponseStatusConverted,
			model.ResponseStatusConverted,
		))
		assert.Equal(t, 100.0, stats.ResponseRate)
	})
}
