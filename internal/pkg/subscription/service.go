package subscription

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/leaguehq/LeagueHQ/app/models"
	"github.com/leaguehq/LeagueHQ/internal/pkg/pricing"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Service owns the package lifecycle (purchase, assignment, recycling,
// expiry) and tenant subscription aggregation. All multi-step transitions
// run inside one database transaction.
type Service struct {
	repo    Repository
	catalog *pricing.Catalog
	now     func() time.Time
}

// NewService creates a subscription service from an injected repository and
// tier catalog.
func NewService(repo Repository, catalog *pricing.Catalog) *Service {
	return &Service{repo: repo, catalog: catalog, now: time.Now}
}

// NewServiceFromDB creates a subscription service from a GORM DB handle
// using the production catalog.
func NewServiceFromDB(db *gorm.DB) *Service {
	return NewService(NewRepository(db), pricing.DefaultCatalog())
}

// tierFor resolves a tier id against the catalog, falling back to starter
// defaults for unresolvable tiers rather than failing.
func (s *Service) tierFor(id string) pricing.Tier {
	if t, ok := s.catalog.Tier(pricing.TierID(strings.ToLower(strings.TrimSpace(id)))); ok {
		return t
	}
	t, _ := s.catalog.Tier(pricing.TierStarter)
	return t
}

// CreateSubscriptionFromPackages aggregates the purchased packages into one
// subscription record and persists the per-package rows, all in a single
// transaction. Every package starts purchased and unassigned.
func (s *Service) CreateSubscriptionFromPackages(ctx context.Context, in ProvisionInput) (*models.Subscription, error) {
	_ = ctx
	if in.TenantID == 0 {
		return nil, fmt.Errorf("%w: tenant_id is required", ErrInvalidInput)
	}
	if len(in.Packages) == 0 {
		return nil, fmt.Errorf("%w: at least one subscription package is required", ErrInvalidInput)
	}

	var sub *models.Subscription
	err := s.repo.WithTx(func(tx Repository) error {
		var err error
		sub, err = s.createSubscriptionTx(tx, in)
		return err
	})
	if err != nil {
		return nil, wrapTxErr(err)
	}
	return sub, nil
}

// ProvisionTenant creates a league manager account, an optional assistant
// manager linked to it, and the aggregated subscription with its packages,
// all in one transaction. A failure at any step leaves no user rows behind.
func (s *Service) ProvisionTenant(ctx context.Context, in TenantInput) (*models.Subscription, error) {
	_ = ctx
	if in.Manager == nil {
		return nil, fmt.Errorf("%w: a league manager account is required", ErrInvalidInput)
	}
	if len(in.Packages) == 0 {
		return nil, fmt.Errorf("%w: at least one subscription package is required", ErrInvalidInput)
	}

	var sub *models.Subscription
	err := s.repo.WithTx(func(tx Repository) error {
		if err := tx.CreateUser(in.Manager); err != nil {
			return err
		}
		if in.Assistant != nil {
			parentID := in.Manager.ID
			in.Assistant.Role = models.ROLE_ASSISTANT_MANAGER
			in.Assistant.ParentLeagueManagerID = &parentID
			if err := tx.CreateUser(in.Assistant); err != nil {
				return err
			}
		}
		var err error
		sub, err = s.createSubscriptionTx(tx, ProvisionInput{
			TenantID:    in.Manager.ID,
			Packages:    in.Packages,
			PrimaryTier: in.PrimaryTier,
		})
		return err
	})
	if err != nil {
		return nil, wrapTxErr(err)
	}
	return sub, nil
}

// createSubscriptionTx runs the aggregation inside an already open
// transaction.
func (s *Service) createSubscriptionTx(tx Repository, in ProvisionInput) (*models.Subscription, error) {
	primaryTierID := in.PrimaryTier
	if primaryTierID == "" {
		primaryTierID = in.Packages[0].Tier
	}
	primaryTier := s.tierFor(primaryTierID)

	var totalPitches, totalReferees, totalDivisions, totalTeams int
	totalPrice := decimal.Zero
	for _, pkg := range in.Packages {
		tier := s.tierFor(pkg.Tier)
		totalPitches += tier.Limits.Pitches
		totalReferees += tier.Limits.Referees
		totalDivisions += tier.Limits.Divisions
		totalTeams += tier.Limits.Teams
		totalPrice = totalPrice.Add(pkg.Price)
	}

	venueLimit := len(in.Packages)
	pitchPerVenue := totalPitches
	if venueLimit > 0 {
		pitchPerVenue = totalPitches / venueLimit
	}
	if pitchPerVenue < 1 {
		pitchPerVenue = 1
	}

	storage := in.StorageLimitGB
	if storage <= 0 {
		storage = 10 * venueLimit // storage scales per package
	}

	nextBilling := s.now().AddDate(0, 0, 30)
	sub := &models.Subscription{
		TenantID:                in.TenantID,
		TierID:                  string(primaryTier.ID),
		PlanName:                fmt.Sprintf("Multi-Package Plan (%d packages)", venueLimit),
		BasePrice:               totalPrice,
		PitchesLimit:            totalPitches,
		RefereesLimit:           totalReferees,
		DivisionsLimit:          totalDivisions,
		LeaguesPerDivisionLimit: primaryTier.Limits.LeaguesPerDivision,
		TeamsLimit:              totalTeams,
		VenueLimit:              venueLimit,
		PitchPerVenueLimit:      pitchPerVenue,
		StorageLimitGB:          storage,
		Status:                  models.SubscriptionStatusActive,
		BillingCycle:            models.BillingCycleMonthly,
		NextBillingDate:         &nextBilling,
	}

	if err := tx.CreateSubscription(sub); err != nil {
		return nil, err
	}
	for _, pkg := range in.Packages {
		row := &models.SubscriptionPackage{
			SubscriptionID: sub.ID,
			TenantID:       in.TenantID,
			Tier:           string(s.tierFor(pkg.Tier).ID),
			Name:           pkg.Name,
			Price:          pkg.Price,
			Description:    pkg.Description,
			Purchased:      true,
			Assigned:       false,
		}
		if err := tx.CreatePackage(row); err != nil {
			return nil, err
		}
		sub.Packages = append(sub.Packages, *row)
	}
	return sub, nil
}

// AssignPackageToVenue creates a venue bound to a subscription package. When
// the supplied package id matches an unexpired pool entry for the tenant,
// the recycled entry's plan and tier are authoritative and the entry is
// claimed in the same transaction as the venue insert. A package id that is
// not in the pool is accepted as a brand-new package; losing a concurrent
// claim race falls back to the same new-package path.
func (s *Service) AssignPackageToVenue(ctx context.Context, in VenueInput) (*models.Venue, bool, error) {
	_ = ctx
	if in.TenantID == 0 {
		return nil, false, fmt.Errorf("%w: tenant_id is required", ErrInvalidInput)
	}
	if strings.TrimSpace(in.VenueName) == "" {
		return nil, false, fmt.Errorf("%w: venue name is required", ErrInvalidInput)
	}

	plan := in.SubscriptionPlan
	if plan == "" {
		plan = "Starter"
	}
	tierID := in.SubscriptionTier
	if tierID == "" {
		tierID = string(pricing.TierStarter)
	}

	now := s.now()
	usedRecycled := false
	var venue *models.Venue

	err := s.repo.WithTx(func(tx Repository) error {
		if in.PackageID != "" {
			entry, err := tx.FindAvailablePackage(in.TenantID, in.PackageID, now)
			switch {
			case err == nil:
				claimed, err := tx.ClaimAvailablePackage(in.TenantID, in.PackageID, now)
				if err != nil {
					return err
				}
				if claimed > 0 {
					// Pool plan/tier win over whatever the caller sent.
					plan = entry.SubscriptionPlan
					tierID = entry.SubscriptionTier
					usedRecycled = true
				} else {
					log.Printf("package %s already claimed concurrently, treating as new package", in.PackageID)
				}
			case errors.Is(err, gorm.ErrRecordNotFound):
				log.Printf("package %s not found in available packages, treating as new package", in.PackageID)
			default:
				return err
			}
		}

		venue = &models.Venue{
			TenantID:         in.TenantID,
			VenueName:        strings.TrimSpace(in.VenueName),
			Address:          strings.TrimSpace(in.Address),
			MaxPitches:       s.tierFor(tierID).Limits.Pitches,
			PitchCount:       0,
			IsActive:         true,
			PackageID:        in.PackageID,
			SubscriptionPlan: plan,
			SubscriptionTier: strings.ToLower(tierID),
		}
		if err := tx.CreateVenue(venue); err != nil {
			return err
		}

		if in.PackageID != "" {
			// Best effort: flip the purchased package row when it exists.
			// Unmatched ids are tolerated, see above.
			if err := tx.SetPackageAssigned(in.TenantID, in.PackageID, true); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, false, wrapTxErr(err)
	}
	return venue, usedRecycled, nil
}

// RecyclePackageOnVenueDelete deletes a venue and its pitches and returns
// the attached package to the tenant's pool with a fresh 30-day expiry. The
// whole operation is one transaction: if the pool insert fails the venue and
// pitch deletions roll back too.
func (s *Service) RecyclePackageOnVenueDelete(ctx context.Context, tenantID, venueID uint) (*RecycleResult, error) {
	_ = ctx
	if tenantID == 0 || venueID == 0 {
		return nil, fmt.Errorf("%w: tenant_id and venue_id are required", ErrInvalidInput)
	}

	var result *RecycleResult
	err := s.repo.WithTx(func(tx Repository) error {
		venue, err := tx.GetVenue(tenantID, venueID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: venue %d", ErrNotFound, venueID)
			}
			return err
		}

		if err := tx.DeletePitchesByVenue(tenantID, venueID); err != nil {
			return err
		}
		if err := tx.DeleteVenue(tenantID, venueID); err != nil {
			return err
		}

		result = &RecycleResult{VenueName: venue.VenueName}
		if !venue.HasPackage() {
			// Nothing to recycle; plain deletion.
			return nil
		}

		tier := venue.SubscriptionTier
		if tier == "" {
			tier = strings.ToLower(venue.SubscriptionPlan)
		}
		expiresAt := s.now().Add(models.RecycleWindow)
		entry := &models.AvailablePackage{
			TenantID:         tenantID,
			PackageID:        venue.PackageID,
			SubscriptionPlan: venue.SubscriptionPlan,
			SubscriptionTier: tier,
			ExpiresAt:        expiresAt,
			IsRecycled:       true,
			SourceVenueName:  venue.VenueName,
		}
		if err := tx.InsertAvailablePackage(entry); err != nil {
			return err
		}
		if err := tx.SetPackageAssigned(tenantID, venue.PackageID, false); err != nil {
			return err
		}

		result.PackageRecycled = true
		result.PackageID = venue.PackageID
		result.SubscriptionPlan = venue.SubscriptionPlan
		result.ExpiresAt = &expiresAt
		return nil
	})
	if err != nil {
		return nil, wrapTxErr(err)
	}
	return result, nil
}

// ListAvailablePackages returns the tenant's claimable pool entries. Expiry
// is enforced purely by the read-time predicate; entries whose expiry equals
// now are excluded.
func (s *Service) ListAvailablePackages(ctx context.Context, tenantID uint) ([]models.AvailablePackage, error) {
	_ = ctx
	if tenantID == 0 {
		return nil, fmt.Errorf("%w: tenant_id is required", ErrInvalidInput)
	}
	return s.repo.ListAvailablePackages(tenantID, s.now())
}

// SetPackageAssignment flips a package's assigned flag after verifying
// tenant ownership. Assigning an already-assigned package is a conflict.
func (s *Service) SetPackageAssignment(ctx context.Context, tenantID uint, packageID string, assigned bool) error {
	_ = ctx
	if tenantID == 0 || strings.TrimSpace(packageID) == "" {
		return fmt.Errorf("%w: tenant_id and package_id are required", ErrInvalidInput)
	}

	pkg, err := s.repo.GetPackageByPublicID(tenantID, packageID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: package not found or not owned by tenant", ErrNotFound)
		}
		return err
	}
	if pkg.Assigned && assigned {
		return fmt.Errorf("%w: package is already assigned to a venue", ErrConflict)
	}
	return s.repo.SetPackageAssigned(tenantID, packageID, assigned)
}

// DeleteTenant removes everything a tenant owns in dependency order:
// pool entries, pitches, venues, packages, subscription, child users and
// finally the tenant user itself, all in one transaction.
func (s *Service) DeleteTenant(ctx context.Context, tenantID uint) error {
	_ = ctx
	if tenantID == 0 {
		return fmt.Errorf("%w: tenant_id is required", ErrInvalidInput)
	}

	err := s.repo.WithTx(func(tx Repository) error {
		if err := tx.DeleteAvailablePackagesByTenant(tenantID); err != nil {
			return err
		}
		if err := tx.DeletePitchesByTenant(tenantID); err != nil {
			return err
		}
		if err := tx.DeleteVenuesByTenant(tenantID); err != nil {
			return err
		}
		if err := tx.DeletePackagesByTenant(tenantID); err != nil {
			return err
		}
		if err := tx.DeleteSubscriptionByTenant(tenantID); err != nil {
			return err
		}
		if err := tx.DeleteChildUsers(tenantID); err != nil {
			return err
		}
		return tx.DeleteTenantUser(tenantID)
	})
	return wrapTxErr(err)
}

// wrapTxErr keeps the canonical taxonomy errors intact and folds everything
// else into ErrTransactionFailure, signalling a full rollback.
func wrapTxErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrInvalidInput) || errors.Is(err, ErrNotFound) || errors.Is(err, ErrConflict) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrTransactionFailure, err)
}
