package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	SubscriptionStatusActive    = "active"
	SubscriptionStatusSuspended = "suspended"
	SubscriptionStatusCancelled = "cancelled"
)

const (
	BillingCycleMonthly = "monthly"
	BillingCycleYearly  = "yearly"
)

// Subscription is the aggregate billing record for a tenant. Limits are the
// summed capacities of all purchased packages; the individual packages live
// in subscription_packages.
type Subscription struct {
	ID                       uint                  `gorm:"primaryKey;column:subscription_id" json:"subscription_id"`
	TenantID                 uint                  `gorm:"not null;index" json:"tenant_id"`
	TierID                   string                `gorm:"type:varchar(50);not null" json:"tier_id"`
	PlanName                 string                `gorm:"type:varchar(150);not null" json:"plan_name"`
	BasePrice                decimal.Decimal       `gorm:"type:decimal(10,2);not null" json:"base_price"`
	PitchesLimit             int                   `gorm:"not null;default:0" json:"pitches_limit"`
	RefereesLimit            int                   `gorm:"not null;default:0" json:"referees_limit"`
	DivisionsLimit           int                   `gorm:"not null;default:0" json:"divisions_limit"`
	LeaguesPerDivisionLimit  int                   `gorm:"not null;default:0" json:"leagues_per_division_limit"`
	TeamsLimit               int                   `gorm:"not null;default:0" json:"teams_limit"`
	VenueLimit               int                   `gorm:"not null;default:1" json:"venue_limit"`
	PitchPerVenueLimit       int                   `gorm:"not null;default:1" json:"pitch_per_venue_limit"`
	StorageLimitGB           int                   `gorm:"column:storage_limit_gb;not null;default:10" json:"storage_limit_gb"`
	Status                   string                `gorm:"type:varchar(32);not null;default:'active';index" json:"status"`
	BillingCycle             string                `gorm:"type:varchar(16);not null;default:'monthly'" json:"billing_cycle"`
	NextBillingDate          *time.Time            `gorm:"type:timestamp;default:null" json:"next_billing_date,omitempty"`
	Packages                 []SubscriptionPackage `gorm:"foreignKey:SubscriptionID" json:"packages,omitempty"`
	CreatedAt                time.Time             `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt                time.Time             `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt                gorm.DeletedAt        `gorm:"index" json:"-"`
}

// IsActive reports whether the subscription currently entitles the tenant.
func (s *Subscription) IsActive() bool {
	return s.Status == SubscriptionStatusActive
}

// AdvanceBillingDate moves the next billing date forward by one cycle.
func (s *Subscription) AdvanceBillingDate(now time.Time) {
	var next time.Time
	switch s.BillingCycle {
	case BillingCycleYearly:
		next = now.AddDate(1, 0, 0)
	default:
		next = now.AddDate(0, 0, 30)
	}
	s.NextBillingDate = &next
}
