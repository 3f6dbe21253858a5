package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseContactType(t *testing.T) {
	parsed, ok := ParseContactType("individual")
	assert.Equal(t, true, ok)
	assert.Equal(t, ContactTypeIndividual, parsed)

	_, ok = ParseContactType("household")
	assert.Equal(t, false, ok)

	_, ok = ParseContactType("")
	assert.Equal(t, false, ok)
}

func TestContactType_IsOrganisation(t *testing.T) {
	assert.Equal(t, false, ContactTypeIndividual.IsOrganisation())
	assert.Equal(t, true, ContactTypeBusiness.IsOrganisation())
	assert.Equal(t, true, ContactTypeEstate.IsOrganisation())
}

func TestParseEnums(t *testing.T) {
	_, ok := ParseCampaignChannel("email")
	assert.Equal(t, true, ok)
	_, ok = ParseCampaignChannel("fax")
	assert.Equal(t, false, ok)

	_, ok = ParseCampaignStatus("draft")
	assert.Equal(t, true, ok)
	_, ok = ParseCampaignStatus("archived")
	assert.Equal(t, false, ok)

	_, ok = ParseResponseStatus("not_interested")
	assert.Equal(t, true, ok)
	_, ok = ParseResponseStatus("ignored")
	assert.Equal(t, false, ok)

	_, ok = ParseProductStatus("inactive")
	assert.Equal(t, true, ok)
	_, ok = ParseProductStatus("retired")
	assert.Equal(t, false, ok)

	_, ok = ParseSubscriptionStatus("suspended")
	assert.Equal(t, true, ok)
	_, ok = ParseSubscriptionStatus("paused")
	assert.Equal(t, false, ok)
}
