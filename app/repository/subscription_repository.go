package repository

import (
	"github.com/leaguehq/LeagueHQ/app/models"
	"gorm.io/gorm"
)

// subscriptionRepository implements the SubscriptionRepository interface
type subscriptionRepository struct {
	db *gorm.DB
}

// NewSubscriptionRepository creates a new subscription repository instance
func NewSubscriptionRepository(db *gorm.DB) SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

func (r *subscriptionRepository) GetByTenant(tenantID uint) (*models.Subscription, error) {
	var sub models.Subscription
	err := r.db.Preload("Packages").Where("tenant_id = ?", tenantID).First(&sub).Error
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *subscriptionRepository) GetPackagesByTenant(tenantID uint) ([]models.SubscriptionPackage, error) {
	var packages []models.SubscriptionPackage
	err := r.db.Where("tenant_id = ?", tenantID).Order("created_at ASC").Find(&packages).Error
	return packages, err
}

func (r *subscriptionRepository) GetUnassignedPackagesByTenant(tenantID uint) ([]models.SubscriptionPackage, error) {
	var packages []models.SubscriptionPackage
	err := r.db.
		Where("tenant_id = ? AND assigned = ? AND purchased = ?", tenantID, false, true).
		Order("created_at ASC").
		Find(&packages).Error
	return packages, err
}
