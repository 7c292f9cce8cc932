package models

import (
	"time"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

// Venue is a physical site owned by a tenant. PackageID is a weak
// back-reference to the subscription package funding this venue slot;
// SubscriptionPlan/SubscriptionTier are denormalized from the package so
// limit checks and listings need no join.
type Venue struct {
	ID               uint           `gorm:"primaryKey;column:venue_id" json:"venue_id"`
	TenantID         uint           `gorm:"not null;index" json:"tenant_id"`
	VenueName        string         `gorm:"type:varchar(150);not null" json:"venue_name" validate:"required,min=1,max=150"`
	Address          string         `gorm:"type:varchar(255)" json:"address" validate:"max=255"`
	MaxPitches       int            `gorm:"not null;default:1" json:"max_pitches"`
	PitchCount       int            `gorm:"not null;default:0" json:"pitch_count"`
	IsActive         bool           `gorm:"default:true" json:"is_active"`
	PackageID        string         `gorm:"type:varchar(36);index;default:null" json:"package_id,omitempty"`
	SubscriptionPlan string         `gorm:"type:varchar(100)" json:"subscription_plan"`
	SubscriptionTier string         `gorm:"type:varchar(50)" json:"subscription_tier"`
	CreatedAt        time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`
}

func (v *Venue) Validate() error {
	return validator.New().Struct(v)
}

// HasPackage reports whether a subscription package is attached, which is
// the precondition for recycling on deletion.
func (v *Venue) HasPackage() bool {
	return v.PackageID != "" && v.SubscriptionPlan != ""
}
