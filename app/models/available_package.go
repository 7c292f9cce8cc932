package models

import "time"

// AvailablePackage is a recycled subscription package: its venue was deleted
// and the package sits in a tenant-scoped pool until it is reassigned to a
// new venue or its 30-day window runs out. Expiry is enforced purely by
// read-time filtering; no background cleanup touches these rows.
type AvailablePackage struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	TenantID         uint      `gorm:"not null;index:idx_available_packages_tenant_expiry,priority:1" json:"tenant_id"`
	PackageID        string    `gorm:"type:varchar(36);not null;index" json:"package_id"`
	SubscriptionPlan string    `gorm:"type:varchar(100);not null" json:"subscription_plan"`
	SubscriptionTier string    `gorm:"type:varchar(50);not null" json:"subscription_tier"`
	ExpiresAt        time.Time `gorm:"not null;index:idx_available_packages_tenant_expiry,priority:2" json:"expires_at"`
	IsRecycled       bool      `gorm:"default:true" json:"is_recycled"`
	SourceVenueName  string    `gorm:"type:varchar(150)" json:"source_venue_name"`
	CreatedAt        time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// RecycleWindow is how long a recycled package stays claimable. The window
// always restarts from the moment of recycling regardless of any remaining
// billing-cycle time.
const RecycleWindow = 30 * 24 * time.Hour

// IsExpired reports whether the entry is no longer claimable. An entry whose
// expiry equals now is already expired.
func (a *AvailablePackage) IsExpired(now time.Time) bool {
	return !a.ExpiresAt.After(now)
}
