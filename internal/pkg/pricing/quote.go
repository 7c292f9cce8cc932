package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Mode controls whether hitting next-tier capacity alone forces an upgrade
// recommendation.
type Mode string

const (
	ModeStrict  Mode = "strict"
	ModeLenient Mode = "lenient"
)

// Recommendation is the outcome class of a quote.
type Recommendation string

const (
	RecommendUpgrade Recommendation = "upgrade"
	RecommendStay    Recommendation = "stay"
	RecommendSales   Recommendation = "sales"
)

// Comparison accompanies an upgrade recommendation. Savings may be negative,
// meaning the add-on bundle is cheaper than the next tier; strict mode still
// recommends the upgrade to avoid capacity-ceiling lock-in.
type Comparison struct {
	CurrentPlusAddons decimal.Decimal `json:"current_plus_addons"`
	NextTierPrice     decimal.Decimal `json:"next_tier_price"`
	Savings           decimal.Decimal `json:"savings"`
}

// Breakdown accompanies a stay recommendation.
type Breakdown struct {
	BasePrice         decimal.Decimal `json:"base_price"`
	AddonCost         decimal.Decimal `json:"addon_cost"`
	NextTierThreshold decimal.Decimal `json:"next_tier_threshold"`
}

// Quote is the engine result. Exactly one of Compare (upgrade), Breakdown
// (stay) or Reason (sales) is populated alongside the recommendation.
type Quote struct {
	TotalMonthly decimal.Decimal `json:"total_monthly"`
	Recommend    Recommendation  `json:"recommend"`
	UpgradeTo    TierID          `json:"upgrade_to,omitempty"`
	Compare      *Comparison     `json:"compare,omitempty"`
	Breakdown    *Breakdown      `json:"breakdown,omitempty"`
	Reason       string          `json:"reason,omitempty"`
	Notes        string          `json:"notes,omitempty"`
	Actions      []string        `json:"actions"`
}

// upgradeThreshold is the anti-gaming policy constant: a tenant paying at
// least 80% of the next tier's price is nudged to upgrade instead of
// stacking add-ons.
var upgradeThreshold = decimal.RequireFromString("0.80")

// Engine computes add-on quotes and upgrade recommendations against an
// immutable catalog and price table. Quote has no side effects.
type Engine struct {
	catalog *Catalog
	addons  AddonPriceTable
}

// NewEngine builds a quote engine.
func NewEngine(catalog *Catalog, addons AddonPriceTable) *Engine {
	return &Engine{catalog: catalog, addons: addons}
}

// NewDefaultEngine builds an engine on the production catalog and prices.
func NewDefaultEngine() *Engine {
	return &Engine{catalog: DefaultCatalog(), addons: DefaultAddonPricing()}
}

// Catalog exposes the engine's tier catalog for read-only use.
func (e *Engine) Catalog() *Catalog {
	return e.catalog
}

// Quote prices a bundle of add-ons on the given tier and recommends one of
// upgrade, stay or sales. Absent addon types count as zero.
func (e *Engine) Quote(tierID TierID, addons map[AddonType]int, mode Mode) (*Quote, error) {
	tier, ok := e.catalog.Tier(tierID)
	if !ok {
		return nil, fmt.Errorf("%w: unknown tier %q", ErrInvalidInput, tierID)
	}

	addonCost := decimal.Zero
	routeToSales := false
	for addon, qty := range addons {
		if !e.addons.KnownType(addon) {
			return nil, fmt.Errorf("%w: unknown addon type %q", ErrInvalidInput, addon)
		}
		if qty < 0 {
			return nil, fmt.Errorf("%w: negative quantity %d for %q", ErrInvalidInput, qty, addon)
		}
		if qty == 0 {
			continue
		}
		unit, priced := e.addons.UnitPrice(addon, tierID)
		if !priced {
			// No self-serve price on this tier: the whole request routes to
			// sales even when the rest of the bundle would be computable.
			routeToSales = true
			continue
		}
		addonCost = addonCost.Add(unit.Mul(decimal.NewFromInt(int64(qty))))
	}

	if routeToSales {
		return &Quote{
			TotalMonthly: tier.MonthlyPrice,
			Recommend:    RecommendSales,
			Reason:       "Custom enterprise pricing required",
			Actions:      []string{"contact_sales"},
		}, nil
	}

	totalMonthly := tier.MonthlyPrice.Add(addonCost)

	nextTier, hasNext := e.catalog.NextTier(tierID)
	if !hasNext {
		return &Quote{
			TotalMonthly: totalMonthly,
			Recommend:    RecommendSales,
			Reason:       "Top tier - custom enterprise available",
			Actions:      []string{"contact_sales"},
		}, nil
	}

	threshold := nextTier.MonthlyPrice.Mul(upgradeThreshold)
	hitsCapacity := meetsOrExceedsNextTierCapacity(tier.Limits, addons, nextTier.Limits)

	if totalMonthly.GreaterThanOrEqual(threshold) || (mode == ModeStrict && hitsCapacity) {
		return &Quote{
			TotalMonthly: totalMonthly,
			Recommend:    RecommendUpgrade,
			UpgradeTo:    nextTier.ID,
			Compare: &Comparison{
				CurrentPlusAddons: totalMonthly,
				NextTierPrice:     nextTier.MonthlyPrice,
				Savings:           totalMonthly.Sub(nextTier.MonthlyPrice),
			},
			Actions: []string{"one_click_upgrade"},
		}, nil
	}

	return &Quote{
		TotalMonthly: totalMonthly,
		Recommend:    RecommendStay,
		Notes:        "Add-ons approved under threshold",
		Breakdown: &Breakdown{
			BasePrice:         tier.MonthlyPrice,
			AddonCost:         addonCost,
			NextTierThreshold: threshold,
		},
		Actions: []string{"confirm_add_ons"},
	}, nil
}

// meetsOrExceedsNextTierCapacity reports whether the requested add-ons push
// at least one capacity dimension to or past the next tier's limit. Teams
// are excluded: no add-on affects team capacity.
func meetsOrExceedsNextTierCapacity(current Limits, addons map[AddonType]int, next Limits) bool {
	return current.Pitches+addons[AddonExtraPitch] >= next.Pitches ||
		current.Referees+addons[AddonExtraReferee] >= next.Referees ||
		current.Divisions+addons[AddonExtraDivision] >= next.Divisions ||
		current.LeaguesPerDivision+addons[AddonExtraLPD] >= next.LeaguesPerDivision
}
