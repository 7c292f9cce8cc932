package subscription

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/leaguehq/LeagueHQ/app/models"
)

// PackageInput is one purchased package in a provisioning request. Tier is a
// tier id; unresolvable tiers fall back to starter capacity defaults.
type PackageInput struct {
	Tier        string          `json:"tier"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description"`
}

// ProvisionInput describes the subscription a tenant purchases at signup or
// admin tenant creation. Each package corresponds to one venue slot.
type ProvisionInput struct {
	TenantID       uint           `json:"tenant_id"`
	Packages       []PackageInput `json:"packages"`
	PrimaryTier    string         `json:"primary_tier,omitempty"`
	StorageLimitGB int            `json:"storage_limit_gb,omitempty"`
}

// TenantInput describes an admin tenant-provisioning request: a league
// manager account, an optional assistant manager, and the packages the
// tenant purchased. Everything is written in one transaction.
type TenantInput struct {
	Manager     *models.User
	Assistant   *models.User
	PrimaryTier string
	Packages    []PackageInput
}

// VenueInput describes a venue creation request, optionally claiming a
// recycled package from the pool via PackageID.
type VenueInput struct {
	TenantID         uint   `json:"tenant_id"`
	VenueName        string `json:"venue_name"`
	Address          string `json:"address"`
	PackageID        string `json:"package_id,omitempty"`
	SubscriptionPlan string `json:"subscription_plan,omitempty"`
	SubscriptionTier string `json:"subscription_tier,omitempty"`
}

// RecycleResult reports what a delete-with-recycle operation did.
type RecycleResult struct {
	VenueName        string     `json:"venue_name"`
	PackageRecycled  bool       `json:"package_recycled"`
	PackageID        string     `json:"package_id,omitempty"`
	SubscriptionPlan string     `json:"subscription_plan,omitempty"`
	ExpiresAt        *time.Time `json:"expires_at,omitempty"`
}
