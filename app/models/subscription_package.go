package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SubscriptionPackage is one purchased unit of subscription capacity,
// corresponding to exactly one venue slot. Purchased is always true once the
// row exists; Assigned tracks whether a live venue is currently bound to it.
type SubscriptionPackage struct {
	ID             uint            `gorm:"primaryKey" json:"id"`
	PublicID       string          `gorm:"type:varchar(36);uniqueIndex;not null" json:"public_id"`
	SubscriptionID uint            `gorm:"not null;index" json:"subscription_id"`
	TenantID       uint            `gorm:"not null;index" json:"tenant_id"`
	Tier           string          `gorm:"column:package_tier;type:varchar(50);not null" json:"tier"`
	Name           string          `gorm:"column:package_name;type:varchar(100);not null" json:"name"`
	Price          decimal.Decimal `gorm:"column:package_price;type:decimal(10,2);not null" json:"price"`
	Description    string          `gorm:"column:package_description;type:text" json:"description"`
	Purchased      bool            `gorm:"default:true" json:"purchased"`
	Assigned       bool            `gorm:"default:false;index" json:"assigned"`
	CreatedAt      time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt      gorm.DeletedAt  `gorm:"index" json:"-"`
}

// BeforeCreate assigns a public id when none was provided.
func (p *SubscriptionPackage) BeforeCreate(tx *gorm.DB) error {
	if p.PublicID == "" {
		p.PublicID = uuid.New().String()
	}
	return nil
}
