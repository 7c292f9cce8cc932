package subscription

import (
	"time"

	"github.com/leaguehq/LeagueHQ/app/models"
	"gorm.io/gorm"
)

// Repository provides the DB operations used by the subscription service.
// WithTx runs fn against a repository bound to a single transaction; every
// multi-step lifecycle transition goes through it so partial application is
// never observable.
type Repository interface {
	WithTx(fn func(Repository) error) error

	CreateSubscription(sub *models.Subscription) error
	SaveSubscription(sub *models.Subscription) error
	GetSubscriptionByTenant(tenantID uint) (*models.Subscription, error)
	DeleteSubscriptionByTenant(tenantID uint) error

	CreatePackage(pkg *models.SubscriptionPackage) error
	GetPackageByPublicID(tenantID uint, publicID string) (*models.SubscriptionPackage, error)
	SetPackageAssigned(tenantID uint, publicID string, assigned bool) error
	DeletePackagesByTenant(tenantID uint) error

	CreateVenue(v *models.Venue) error
	GetVenue(tenantID, venueID uint) (*models.Venue, error)
	DeleteVenue(tenantID, venueID uint) error
	DeleteVenuesByTenant(tenantID uint) error

	DeletePitchesByVenue(tenantID, venueID uint) error
	DeletePitchesByTenant(tenantID uint) error

	InsertAvailablePackage(entry *models.AvailablePackage) error
	FindAvailablePackage(tenantID uint, packageID string, now time.Time) (*models.AvailablePackage, error)
	ClaimAvailablePackage(tenantID uint, packageID string, now time.Time) (int64, error)
	ListAvailablePackages(tenantID uint, now time.Time) ([]models.AvailablePackage, error)
	DeleteAvailablePackagesByTenant(tenantID uint) error

	CreateUser(u *models.User) error
	DeleteChildUsers(tenantID uint) error
	DeleteTenantUser(tenantID uint) error
}

type gormRepository struct {
	db *gorm.DB
}

// NewRepository creates a subscription repository backed by GORM.
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) WithTx(fn func(Repository) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return fn(&gormRepository{db: tx})
	})
}

func (r *gormRepository) CreateSubscription(sub *models.Subscription) error {
	return r.db.Create(sub).Error
}

func (r *gormRepository) SaveSubscription(sub *models.Subscription) error {
	return r.db.Save(sub).Error
}

func (r *gormRepository) GetSubscriptionByTenant(tenantID uint) (*models.Subscription, error) {
	var sub models.Subscription
	err := r.db.Where("tenant_id = ?", tenantID).First(&sub).Error
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *gormRepository) DeleteSubscriptionByTenant(tenantID uint) error {
	return r.db.Unscoped().Where("tenant_id = ?", tenantID).Delete(&models.Subscription{}).Error
}

func (r *gormRepository) CreatePackage(pkg *models.SubscriptionPackage) error {
	return r.db.Create(pkg).Error
}

func (r *gormRepository) GetPackageByPublicID(tenantID uint, publicID string) (*models.SubscriptionPackage, error) {
	var pkg models.SubscriptionPackage
	err := r.db.Where("tenant_id = ? AND public_id = ?", tenantID, publicID).First(&pkg).Error
	if err != nil {
		return nil, err
	}
	return &pkg, nil
}

func (r *gormRepository) SetPackageAssigned(tenantID uint, publicID string, assigned bool) error {
	return r.db.Model(&models.SubscriptionPackage{}).
		Where("tenant_id = ? AND public_id = ?", tenantID, publicID).
		Update("assigned", assigned).Error
}

func (r *gormRepository) DeletePackagesByTenant(tenantID uint) error {
	return r.db.Unscoped().Where("tenant_id = ?", tenantID).Delete(&models.SubscriptionPackage{}).Error
}

func (r *gormRepository) CreateVenue(v *models.Venue) error {
	return r.db.Create(v).Error
}

func (r *gormRepository) GetVenue(tenantID, venueID uint) (*models.Venue, error) {
	var venue models.Venue
	err := r.db.Where("venue_id = ? AND tenant_id = ?", venueID, tenantID).First(&venue).Error
	if err != nil {
		return nil, err
	}
	return &venue, nil
}

func (r *gormRepository) DeleteVenue(tenantID, venueID uint) error {
	return r.db.Unscoped().Where("venue_id = ? AND tenant_id = ?", venueID, tenantID).Delete(&models.Venue{}).Error
}

func (r *gormRepository) DeleteVenuesByTenant(tenantID uint) error {
	return r.db.Unscoped().Where("tenant_id = ?", tenantID).Delete(&models.Venue{}).Error
}

func (r *gormRepository) DeletePitchesByVenue(tenantID, venueID uint) error {
	return r.db.Unscoped().Where("venue_id = ? AND tenant_id = ?", venueID, tenantID).Delete(&models.Pitch{}).Error
}

func (r *gormRepository) DeletePitchesByTenant(tenantID uint) error {
	return r.db.Unscoped().Where("tenant_id = ?", tenantID).Delete(&models.Pitch{}).Error
}

func (r *gormRepository) InsertAvailablePackage(entry *models.AvailablePackage) error {
	return r.db.Create(entry).Error
}

// FindAvailablePackage returns an unexpired pool entry. The predicate is
// strict: an entry whose expiry equals now is already expired.
func (r *gormRepository) FindAvailablePackage(tenantID uint, packageID string, now time.Time) (*models.AvailablePackage, error) {
	var entry models.AvailablePackage
	err := r.db.
		Where("tenant_id = ? AND package_id = ? AND expires_at > ?", tenantID, packageID, now).
		First(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// ClaimAvailablePackage deletes the pool entry and reports how many rows
// went away. Zero rows means a concurrent claimer won the race.
func (r *gormRepository) ClaimAvailablePackage(tenantID uint, packageID string, now time.Time) (int64, error) {
	tx := r.db.
		Where("tenant_id = ? AND package_id = ? AND expires_at > ?", tenantID, packageID, now).
		Delete(&models.AvailablePackage{})
	return tx.RowsAffected, tx.Error
}

func (r *gormRepository) ListAvailablePackages(tenantID uint, now time.Time) ([]models.AvailablePackage, error) {
	var entries []models.AvailablePackage
	err := r.db.
		Where("tenant_id = ? AND expires_at > ?", tenantID, now).
		Order("expires_at DESC, created_at DESC").
		Find(&entries).Error
	return entries, err
}

func (r *gormRepository) DeleteAvailablePackagesByTenant(tenantID uint) error {
	return r.db.Where("tenant_id = ?", tenantID).Delete(&models.AvailablePackage{}).Error
}

func (r *gormRepository) CreateUser(u *models.User) error {
	return r.db.Create(u).Error
}

func (r *gormRepository) DeleteChildUsers(tenantID uint) error {
	return r.db.Unscoped().Where("parent_league_manager_id = ?", tenantID).Delete(&models.User{}).Error
}

func (r *gormRepository) DeleteTenantUser(tenantID uint) error {
	return r.db.Unscoped().
		Where("id = ? AND role = ?", tenantID, models.ROLE_LEAGUE_MANAGER).
		Delete(&models.User{}).Error
}
