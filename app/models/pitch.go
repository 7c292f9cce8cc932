package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	PitchStatusAvailable   = "available"
	PitchStatusMaintenance = "maintenance"
	PitchStatusClosed      = "closed"
)

// Pitch is a playing surface inside a venue.
type Pitch struct {
	ID        uint           `gorm:"primaryKey;column:pitch_id" json:"pitch_id"`
	TenantID  uint           `gorm:"not null;index" json:"tenant_id"`
	VenueID   uint           `gorm:"not null;index" json:"venue_id"`
	PitchName string         `gorm:"type:varchar(100);not null" json:"pitch_name"`
	PitchSize string         `gorm:"type:varchar(20);default:'11-a-side'" json:"pitch_size"`
	Status    string         `gorm:"type:varchar(32);not null;default:'available'" json:"status"`
	IsActive  bool           `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
