package repository

import (
	"github.com/leaguehq/LeagueHQ/app/models"
	"gorm.io/gorm"
)

// UserRepository defines the interface for user-related database operations
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id uint) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	GetByAPIKeyHash(hash string) (*models.User, error)
	Update(user *models.User) error
	Delete(id uint) error
	List(offset, limit int) ([]models.User, error)
	ListByRole(role string, offset, limit int) ([]models.User, error)
	ListAssistants(parentID uint) ([]models.User, error)
	Count() (int64, error)
	CountByRole(role string) (int64, error)
	Search(query string) ([]models.User, error)
}

// VenueRepository defines the interface for venue and pitch database operations
type VenueRepository interface {
	Create(venue *models.Venue) error
	GetByID(tenantID, id uint) (*models.Venue, error)
	GetByTenant(tenantID uint) ([]models.Venue, error)
	Update(venue *models.Venue) error
	CountByTenant(tenantID uint) (int64, error)

	CreatePitch(pitch *models.Pitch) error
	GetPitch(tenantID, pitchID uint) (*models.Pitch, error)
	GetPitchesByVenue(tenantID, venueID uint) ([]models.Pitch, error)
	UpdatePitch(pitch *models.Pitch) error
	DeletePitch(tenantID, venueID, pitchID uint) error
	CountPitchesByVenue(tenantID, venueID uint) (int64, error)
}

// SubscriptionRepository defines the interface for read access to tenant
// subscriptions and their packages. Lifecycle transitions go through the
// subscription service, not this repository.
type SubscriptionRepository interface {
	GetByTenant(tenantID uint) (*models.Subscription, error)
	GetPackagesByTenant(tenantID uint) ([]models.SubscriptionPackage, error)
	GetUnassignedPackagesByTenant(tenantID uint) ([]models.SubscriptionPackage, error)
}

// Repositories struct holds all repository instances
type Repositories struct {
	User         UserRepository
	Venue        VenueRepository
	Subscription SubscriptionRepository
}

// NewRepositories creates a new instance of all repositories
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		User:         NewUserRepository(db),
		Venue:        NewVenueRepository(db),
		Subscription: NewSubscriptionRepository(db),
	}
}
