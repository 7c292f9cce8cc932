package pricing

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrInvalidInput marks quote requests with unknown identifiers or
// out-of-range quantities. Callers should surface it, never retry it.
var ErrInvalidInput = errors.New("invalid input")

// TierID identifies a subscription tier. Tiers are totally ordered,
// starter < growth < pro.
type TierID string

const (
	TierStarter TierID = "starter"
	TierGrowth  TierID = "growth"
	TierPro     TierID = "pro"
)

// Limits are the capacity ceilings a tier grants per venue slot.
type Limits struct {
	Pitches            int `json:"pitches"`
	Referees           int `json:"referees"`
	Divisions          int `json:"divisions"`
	LeaguesPerDivision int `json:"leagues_per_division"`
	Teams              int `json:"teams"`
}

// Tier is one immutable catalog entry.
type Tier struct {
	ID           TierID          `json:"id"`
	Name         string          `json:"name"`
	MonthlyPrice decimal.Decimal `json:"monthly_price"`
	Limits       Limits          `json:"limits"`
}

// Catalog is the ordered, immutable set of tiers. It is built once at
// startup and passed explicitly into the quote engine; there is no ambient
// global pricing state.
type Catalog struct {
	order []TierID
	tiers map[TierID]Tier
}

// NewCatalog builds a catalog from tiers in ascending order. Every capacity
// limit must be monotonically non-decreasing across that order.
func NewCatalog(tiers []Tier) (*Catalog, error) {
	if len(tiers) == 0 {
		return nil, errors.New("pricing: catalog requires at least one tier")
	}

	c := &Catalog{
		order: make([]TierID, 0, len(tiers)),
		tiers: make(map[TierID]Tier, len(tiers)),
	}
	for _, t := range tiers {
		if _, dup := c.tiers[t.ID]; dup {
			return nil, fmt.Errorf("pricing: duplicate tier %q", t.ID)
		}
		c.order = append(c.order, t.ID)
		c.tiers[t.ID] = t
	}

	for i := 1; i < len(tiers); i++ {
		lo, hi := tiers[i-1], tiers[i]
		if hi.Limits.Pitches < lo.Limits.Pitches ||
			hi.Limits.Referees < lo.Limits.Referees ||
			hi.Limits.Divisions < lo.Limits.Divisions ||
			hi.Limits.LeaguesPerDivision < lo.Limits.LeaguesPerDivision ||
			hi.Limits.Teams < lo.Limits.Teams {
			return nil, fmt.Errorf("pricing: limits of %q must not fall below %q", hi.ID, lo.ID)
		}
	}

	return c, nil
}

// Tier returns the catalog entry for id.
func (c *Catalog) Tier(id TierID) (Tier, bool) {
	t, ok := c.tiers[id]
	return t, ok
}

// NextTier returns the tier directly above id, or false when id is the top
// tier or unknown.
func (c *Catalog) NextTier(id TierID) (Tier, bool) {
	for i, tid := range c.order {
		if tid == id && i+1 < len(c.order) {
			return c.tiers[c.order[i+1]], true
		}
	}
	return Tier{}, false
}

// Tiers returns all tiers in ascending order.
func (c *Catalog) Tiers() []Tier {
	out := make([]Tier, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.tiers[id])
	}
	return out
}

// DefaultCatalog returns the production tier catalog.
func DefaultCatalog() *Catalog {
	c, err := NewCatalog([]Tier{
		{
			ID:           TierStarter,
			Name:         "Starter",
			MonthlyPrice: decimal.RequireFromString("49.99"),
			Limits:       Limits{Pitches: 1, Referees: 10, Divisions: 1, LeaguesPerDivision: 1, Teams: 15},
		},
		{
			ID:           TierGrowth,
			Name:         "Growth",
			MonthlyPrice: decimal.RequireFromString("99.99"),
			Limits:       Limits{Pitches: 3, Referees: 25, Divisions: 5, LeaguesPerDivision: 3, Teams: 150},
		},
		{
			ID:           TierPro,
			Name:         "Pro",
			MonthlyPrice: decimal.RequireFromString("179.99"),
			Limits:       Limits{Pitches: 8, Referees: 50, Divisions: 10, LeaguesPerDivision: 5, Teams: 500},
		},
	})
	if err != nil {
		panic(err)
	}
	return c
}
