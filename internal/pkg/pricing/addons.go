package pricing

import "github.com/shopspring/decimal"

// AddonType identifies an incremental capacity purchase. Teams have no
// add-on; their capacity only changes with a tier change.
type AddonType string

const (
	AddonExtraPitch    AddonType = "extra_pitch"
	AddonExtraReferee  AddonType = "extra_referee"
	AddonExtraDivision AddonType = "extra_division"
	AddonExtraLPD      AddonType = "extra_lpd"
)

// AddonPriceTable maps (addon type, tier) to a monthly unit price. A missing
// tier entry means the combination has no self-serve price and the request
// must route to sales.
type AddonPriceTable map[AddonType]map[TierID]decimal.Decimal

// KnownType reports whether the addon type exists in the table at all.
func (t AddonPriceTable) KnownType(a AddonType) bool {
	_, ok := t[a]
	return ok
}

// UnitPrice returns the per-unit monthly price for an addon on a tier.
// ok is false when the tier has no self-serve price for that addon.
func (t AddonPriceTable) UnitPrice(a AddonType, tier TierID) (decimal.Decimal, bool) {
	prices, ok := t[a]
	if !ok {
		return decimal.Zero, false
	}
	p, ok := prices[tier]
	return p, ok
}

// DefaultAddonPricing returns the production add-on price matrix (GBP per
// month). Pro intentionally has no self-serve add-on prices.
func DefaultAddonPricing() AddonPriceTable {
	return AddonPriceTable{
		AddonExtraPitch: {
			TierStarter: decimal.NewFromInt(20),
			TierGrowth:  decimal.NewFromInt(25),
		},
		AddonExtraReferee: {
			TierStarter: decimal.NewFromInt(2),
			TierGrowth:  decimal.NewFromInt(3),
		},
		AddonExtraDivision: {
			TierStarter: decimal.NewFromInt(12),
			TierGrowth:  decimal.NewFromInt(15),
		},
		AddonExtraLPD: {
			TierStarter: decimal.NewFromInt(8),
			TierGrowth:  decimal.NewFromInt(8),
		},
	}
}
