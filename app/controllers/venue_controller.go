package controllers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/leaguehq/LeagueHQ/app/models"
	"github.com/leaguehq/LeagueHQ/app/repository"
	"github.com/leaguehq/LeagueHQ/internal/pkg/database"
	"github.com/leaguehq/LeagueHQ/internal/pkg/subscription"
	"github.com/leaguehq/LeagueHQ/internal/pkg/usercontext"
)

type createVenueRequest struct {
	VenueName        string `json:"venue_name" validate:"required,min=1,max=150"`
	Address          string `json:"address" validate:"max=255"`
	PackageID        string `json:"package_id" validate:"max=36"`
	SubscriptionPlan string `json:"subscription_plan" validate:"max=100"`
	SubscriptionTier string `json:"subscription_tier" validate:"max=50"`
}

type createPitchRequest struct {
	PitchName string `json:"pitch_name" validate:"required,min=1,max=100"`
	PitchSize string `json:"pitch_size" validate:"max=20"`
}

type assignPackageRequest struct {
	PackageID string `json:"package_id" validate:"required,max=36"`
	Assigned  bool   `json:"assigned"`
}

// HandleCreateVenue creates a venue for the tenant. A supplied package id is
// first matched against the recycled-package pool; on a hit the recycled plan
// wins and the pool entry is consumed.
func HandleCreateVenue(c *fiber.Ctx) error {
	tenantID := usercontext.GetTenantID(c)

	var req createVenueRequest
	if err := parseBody(c, &req); err != nil {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return jsonError(c, fe.Code, "bad_request", fe.Message)
		}
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "invalid request")
	}

	// Venue limit comes from the aggregated subscription.
	subRepo := repository.GetGlobalFactory().GetSubscriptionRepository()
	if sub, err := subRepo.GetByTenant(tenantID); err == nil {
		count, err := repository.GetGlobalFactory().GetVenueRepository().CountByTenant(tenantID)
		if err != nil {
			return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "failed to check venue limit")
		}
		if int(count) >= sub.VenueLimit {
			return jsonError(c, fiber.StatusForbidden, "limit_exceeded", "venue limit reached for current subscription")
		}
	}

	svc := subscription.NewServiceFromDB(database.GetDB())
	venue, usedRecycled, err := svc.AssignPackageToVenue(c.Context(), subscription.VenueInput{
		TenantID:         tenantID,
		VenueName:        req.VenueName,
		Address:          req.Address,
		PackageID:        req.PackageID,
		SubscriptionPlan: req.SubscriptionPlan,
		SubscriptionTier: req.SubscriptionTier,
	})
	if err != nil {
		if errors.Is(err, subscription.ErrInvalidInput) {
			return jsonError(c, fiber.StatusBadRequest, "bad_request", err.Error())
		}
		log.Printf("venue creation for tenant %d failed: %v", tenantID, err)
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "venue creation failed")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"venue":         venueResponse(venue),
		"used_recycled": usedRecycled,
	})
}

// HandleListVenues lists the tenant's venues.
func HandleListVenues(c *fiber.Ctx) error {
	tenantID := usercontext.GetTenantID(c)
	repo := repository.GetGlobalFactory().GetVenueRepository()

	venues, err := repo.GetByTenant(tenantID)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "failed to load venues")
	}

	out := make([]fiber.Map, 0, len(venues))
	for i := range venues {
		out = append(out, venueResponse(&venues[i]))
	}
	return c.JSON(fiber.Map{"venues": out})
}

// HandleGetVenue returns one venue with its pitches.
func HandleGetVenue(c *fiber.Ctx) error {
	tenantID := usercontext.GetTenantID(c)
	venueID := paramUint(c, "id")
	repo := repository.GetGlobalFactory().GetVenueRepository()

	venue, err := repo.GetByID(tenantID, venueID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "venue not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "failed to load venue")
	}

	pitches, err := repo.GetPitchesByVenue(tenantID, venueID)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "failed to load pitches")
	}

	resp := venueResponse(venue)
	pitchList := make([]fiber.Map, 0, len(pitches))
	for _, p := range pitches {
		pitchList = append(pitchList, pitchResponse(&p))
	}
	resp["pitches"] = pitchList
	return c.JSON(resp)
}

// HandleDeleteVenue deletes a venue. When a package is attached it returns to
// the tenant's pool with a fresh 30-day expiry; deletion and recycling commit
// together or not at all.
func HandleDeleteVenue(c *fiber.Ctx) error {
	tenantID := usercontext.GetTenantID(c)
	venueID := paramUint(c, "id")
	if venueID == 0 {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "invalid venue id")
	}

	svc := subscription.NewServiceFromDB(database.GetDB())
	result, err := svc.RecyclePackageOnVenueDelete(c.Context(), tenantID, venueID)
	if err != nil {
		switch {
		case errors.Is(err, subscription.ErrNotFound):
			return jsonError(c, fiber.StatusNotFound, "not_found", "venue not found")
		case errors.Is(err, subscription.ErrInvalidInput):
			return jsonError(c, fiber.StatusBadRequest, "bad_request", err.Error())
		default:
			log.Printf("venue %d deletion for tenant %d failed: %v", venueID, tenantID, err)
			return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "venue deletion failed")
		}
	}

	resp := fiber.Map{
		"venue_name":       result.VenueName,
		"package_recycled": result.PackageRecycled,
	}
	if result.PackageRecycled {
		resp["package_id"] = result.PackageID
		resp["subscription_plan"] = result.SubscriptionPlan
		resp["expires_at"] = result.ExpiresAt
	}
	return c.JSON(resp)
}

// HandleListAvailablePackages returns the tenant's claimable recycled
// packages. Expired entries never appear.
func HandleListAvailablePackages(c *fiber.Ctx) error {
	tenantID := usercontext.GetTenantID(c)

	svc := subscription.NewServiceFromDB(database.GetDB())
	entries, err := svc.ListAvailablePackages(c.Context(), tenantID)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "failed to load available packages")
	}

	out := make([]fiber.Map, 0, len(entries))
	for _, e := range entries {
		out = append(out, fiber.Map{
			"package_id":        e.PackageID,
			"subscription_plan": e.SubscriptionPlan,
			"subscription_tier": e.SubscriptionTier,
			"expires_at":        e.ExpiresAt,
			"source_venue_name": e.SourceVenueName,
		})
	}
	return c.JSON(fiber.Map{"available_packages": out})
}

// HandleAssignPackage flips a package's assignment flag directly, without
// touching venues. Assigning an already-assigned package is rejected.
func HandleAssignPackage(c *fiber.Ctx) error {
	tenantID := usercontext.GetTenantID(c)

	var req assignPackageRequest
	if err := parseBody(c, &req); err != nil {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return jsonError(c, fe.Code, "bad_request", fe.Message)
		}
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "invalid request")
	}

	svc := subscription.NewServiceFromDB(database.GetDB())
	if err := svc.SetPackageAssignment(c.Context(), tenantID, req.PackageID, req.Assigned); err != nil {
		switch {
		case errors.Is(err, subscription.ErrNotFound):
			return jsonError(c, fiber.StatusNotFound, "not_found", "package not found")
		case errors.Is(err, subscription.ErrConflict):
			return jsonError(c, fiber.StatusConflict, "conflict", "package is already assigned")
		case errors.Is(err, subscription.ErrInvalidInput):
			return jsonError(c, fiber.StatusBadRequest, "bad_request", err.Error())
		default:
			return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "assignment failed")
		}
	}
	return c.JSON(fiber.Map{"ok": true, "package_id": req.PackageID, "assigned": req.Assigned})
}

// HandleCreatePitch adds a pitch to a venue, enforcing the venue's pitch cap.
func HandleCreatePitch(c *fiber.Ctx) error {
	tenantID := usercontext.GetTenantID(c)
	venueID := paramUint(c, "id")
	repo := repository.GetGlobalFactory().GetVenueRepository()

	venue, err := repo.GetByID(tenantID, venueID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "venue not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "failed to load venue")
	}

	var req createPitchRequest
	if err := parseBody(c, &req); err != nil {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return jsonError(c, fe.Code, "bad_request", fe.Message)
		}
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "invalid request")
	}

	count, err := repo.CountPitchesByVenue(tenantID, venueID)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "failed to check pitch limit")
	}
	if int(count) >= venue.MaxPitches {
		return jsonError(c, fiber.StatusForbidden, "limit_exceeded", "pitch limit reached for this venue")
	}

	pitch := &models.Pitch{
		TenantID:  tenantID,
		VenueID:   venueID,
		PitchName: req.PitchName,
		PitchSize: req.PitchSize,
		Status:    models.PitchStatusAvailable,
		IsActive:  true,
	}
	if pitch.PitchSize == "" {
		pitch.PitchSize = "11-a-side"
	}
	// Insert and pitch_count refresh run in one transaction inside the
	// repository.
	if err := repo.CreatePitch(pitch); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "pitch creation failed")
	}

	return c.Status(fiber.StatusCreated).JSON(pitchResponse(pitch))
}

// HandleDeletePitch removes a pitch from a venue.
func HandleDeletePitch(c *fiber.Ctx) error {
	tenantID := usercontext.GetTenantID(c)
	venueID := paramUint(c, "id")
	pitchID := paramUint(c, "pitchId")
	repo := repository.GetGlobalFactory().GetVenueRepository()

	pitch, err := repo.GetPitch(tenantID, pitchID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "pitch not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "failed to load pitch")
	}
	if pitch.VenueID != venueID {
		return jsonError(c, fiber.StatusNotFound, "not_found", "pitch not found")
	}

	if err := repo.DeletePitch(tenantID, venueID, pitchID); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "pitch deletion failed")
	}

	return c.JSON(fiber.Map{"ok": true})
}

func venueResponse(v *models.Venue) fiber.Map {
	return fiber.Map{
		"venue_id":          v.ID,
		"venue_name":        v.VenueName,
		"address":           v.Address,
		"max_pitches":       v.MaxPitches,
		"pitch_count":       v.PitchCount,
		"is_active":         v.IsActive,
		"package_id":        v.PackageID,
		"subscription_plan": v.SubscriptionPlan,
		"subscription_tier": v.SubscriptionTier,
	}
}

func pitchResponse(p *models.Pitch) fiber.Map {
	return fiber.Map{
		"pitch_id":   p.ID,
		"venue_id":   p.VenueID,
		"pitch_name": p.PitchName,
		"pitch_size": p.PitchSize,
		"status":     p.Status,
	}
}
