package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalogOrderAndPrices(t *testing.T) {
	c := DefaultCatalog()

	tiers := c.Tiers()
	require.Len(t, tiers, 3)
	assert.Equal(t, TierStarter, tiers[0].ID)
	assert.Equal(t, TierGrowth, tiers[1].ID)
	assert.Equal(t, TierPro, tiers[2].ID)

	starter, ok := c.Tier(TierStarter)
	require.True(t, ok)
	assert.True(t, starter.MonthlyPrice.Equal(decimal.RequireFromString("49.99")))

	pro, ok := c.Tier(TierPro)
	require.True(t, ok)
	assert.True(t, pro.MonthlyPrice.Equal(decimal.RequireFromString("179.99")))
}

func TestDefaultCatalogLimitsMonotone(t *testing.T) {
	tiers := DefaultCatalog().Tiers()
	for i := 1; i < len(tiers); i++ {
		lo, hi := tiers[i-1], tiers[i]
		assert.GreaterOrEqual(t, hi.Limits.Pitches, lo.Limits.Pitches, "%s vs %s pitches", hi.ID, lo.ID)
		assert.GreaterOrEqual(t, hi.Limits.Referees, lo.Limits.Referees, "%s vs %s referees", hi.ID, lo.ID)
		assert.GreaterOrEqual(t, hi.Limits.Divisions, lo.Limits.Divisions, "%s vs %s divisions", hi.ID, lo.ID)
		assert.GreaterOrEqual(t, hi.Limits.LeaguesPerDivision, lo.Limits.LeaguesPerDivision, "%s vs %s lpd", hi.ID, lo.ID)
		assert.GreaterOrEqual(t, hi.Limits.Teams, lo.Limits.Teams, "%s vs %s teams", hi.ID, lo.ID)
	}
}

func TestNewCatalogRejectsNonMonotoneLimits(t *testing.T) {
	_, err := NewCatalog([]Tier{
		{ID: "small", MonthlyPrice: decimal.NewFromInt(10), Limits: Limits{Pitches: 5, Referees: 10, Divisions: 1, LeaguesPerDivision: 1, Teams: 10}},
		{ID: "big", MonthlyPrice: decimal.NewFromInt(20), Limits: Limits{Pitches: 3, Referees: 20, Divisions: 2, LeaguesPerDivision: 2, Teams: 20}},
	})
	assert.Error(t, err)
}

func TestNewCatalogRejectsDuplicatesAndEmpty(t *testing.T) {
	_, err := NewCatalog(nil)
	assert.Error(t, err)

	_, err = NewCatalog([]Tier{
		{ID: "same"},
		{ID: "same"},
	})
	assert.Error(t, err)
}

func TestNextTier(t *testing.T) {
	c := DefaultCatalog()

	next, ok := c.NextTier(TierStarter)
	require.True(t, ok)
	assert.Equal(t, TierGrowth, next.ID)

	next, ok = c.NextTier(TierGrowth)
	require.True(t, ok)
	assert.Equal(t, TierPro, next.ID)

	_, ok = c.NextTier(TierPro)
	assert.False(t, ok)

	_, ok = c.NextTier("enterprise")
	assert.False(t, ok)
}

func TestDefaultAddonPricingProHasNoSelfServePrices(t *testing.T) {
	table := DefaultAddonPricing()
	for _, addon := range []AddonType{AddonExtraPitch, AddonExtraReferee, AddonExtraDivision, AddonExtraLPD} {
		_, ok := table.UnitPrice(addon, TierPro)
		assert.False(t, ok, "pro must not have a self-serve price for %s", addon)

		_, ok = table.UnitPrice(addon, TierStarter)
		assert.True(t, ok, "starter must price %s", addon)
		_, ok = table.UnitPrice(addon, TierGrowth)
		assert.True(t, ok, "growth must price %s", addon)
	}
}
