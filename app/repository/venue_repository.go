package repository

import (
	"github.com/leaguehq/LeagueHQ/app/models"
	"gorm.io/gorm"
)

// venueRepository implements the VenueRepository interface
type venueRepository struct {
	db *gorm.DB
}

// NewVenueRepository creates a new venue repository instance
func NewVenueRepository(db *gorm.DB) VenueRepository {
	return &venueRepository{db: db}
}

func (r *venueRepository) Create(venue *models.Venue) error {
	return r.db.Create(venue).Error
}

func (r *venueRepository) GetByID(tenantID, id uint) (*models.Venue, error) {
	var venue models.Venue
	err := r.db.Where("venue_id = ? AND tenant_id = ?", id, tenantID).First(&venue).Error
	if err != nil {
		return nil, err
	}
	return &venue, nil
}

func (r *venueRepository) GetByTenant(tenantID uint) ([]models.Venue, error) {
	var venues []models.Venue
	err := r.db.Where("tenant_id = ?", tenantID).Order("created_at ASC").Find(&venues).Error
	return venues, err
}

func (r *venueRepository) Update(venue *models.Venue) error {
	return r.db.Save(venue).Error
}

func (r *venueRepository) CountByTenant(tenantID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Venue{}).Where("tenant_id = ?", tenantID).Count(&count).Error
	return count, err
}

// CreatePitch inserts a pitch and refreshes the venue's denormalized
// pitch_count in the same transaction, so the counter never drifts from the
// real number of rows.
func (r *venueRepository) CreatePitch(pitch *models.Pitch) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(pitch).Error; err != nil {
			return err
		}
		return syncPitchCount(tx, pitch.TenantID, pitch.VenueID)
	})
}

func (r *venueRepository) GetPitch(tenantID, pitchID uint) (*models.Pitch, error) {
	var pitch models.Pitch
	err := r.db.Where("pitch_id = ? AND tenant_id = ?", pitchID, tenantID).First(&pitch).Error
	if err != nil {
		return nil, err
	}
	return &pitch, nil
}

func (r *venueRepository) GetPitchesByVenue(tenantID, venueID uint) ([]models.Pitch, error) {
	var pitches []models.Pitch
	err := r.db.
		Where("venue_id = ? AND tenant_id = ?", venueID, tenantID).
		Order("created_at ASC").
		Find(&pitches).Error
	return pitches, err
}

func (r *venueRepository) UpdatePitch(pitch *models.Pitch) error {
	return r.db.Save(pitch).Error
}

func (r *venueRepository) DeletePitch(tenantID, venueID, pitchID uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("pitch_id = ? AND tenant_id = ?", pitchID, tenantID).Delete(&models.Pitch{}).Error; err != nil {
			return err
		}
		return syncPitchCount(tx, tenantID, venueID)
	})
}

func syncPitchCount(tx *gorm.DB, tenantID, venueID uint) error {
	return tx.Model(&models.Venue{}).
		Where("venue_id = ? AND tenant_id = ?", venueID, tenantID).
		Update("pitch_count", gorm.Expr(
			"(SELECT COUNT(*) FROM pitches WHERE venue_id = ? AND tenant_id = ? AND deleted_at IS NULL)",
			venueID, tenantID,
		)).Error
}

func (r *venueRepository) CountPitchesByVenue(tenantID, venueID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Pitch{}).
		Where("venue_id = ? AND tenant_id = ?", venueID, tenantID).
		Count(&count).Error
	return count, err
}
