package controllers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/leaguehq/LeagueHQ/app/models"
	"github.com/leaguehq/LeagueHQ/app/repository"
	"github.com/leaguehq/LeagueHQ/internal/pkg/database"
	"github.com/leaguehq/LeagueHQ/internal/pkg/mail"
	"github.com/leaguehq/LeagueHQ/internal/pkg/subscription"
	"github.com/leaguehq/LeagueHQ/internal/pkg/usercontext"
)

type provisionPackageRequest struct {
	Tier        string `json:"tier" validate:"required"`
	Name        string `json:"name" validate:"required,max=100"`
	Price       string `json:"price" validate:"required"`
	Description string `json:"description"`
}

type provisionAssistantRequest struct {
	Name     string `json:"name" validate:"required,min=3,max=150"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type provisionTenantRequest struct {
	Name      string                     `json:"name" validate:"required,min=3,max=150"`
	Email     string                     `json:"email" validate:"required,email"`
	Password  string                     `json:"password" validate:"required,min=6"`
	Assistant *provisionAssistantRequest `json:"assistant_manager" validate:"omitempty"`
	Packages  []provisionPackageRequest  `json:"packages" validate:"required,min=1,dive"`
}

// HandleAdminCreateTenant provisions a league manager account, an optional
// assistant manager, and the aggregated subscription in one transaction.
// Used by sales-led onboarding where checkout happens out of band.
func HandleAdminCreateTenant(c *fiber.Ctx) error {
	var req provisionTenantRequest
	if err := parseBody(c, &req); err != nil {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return jsonError(c, fe.Code, "bad_request", fe.Message)
		}
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "invalid request")
	}

	userRepo := repository.GetGlobalFactory().GetUserRepository()
	emails := []string{req.Email}
	if req.Assistant != nil {
		emails = append(emails, req.Assistant.Email)
	}
	for _, email := range emails {
		if _, err := userRepo.GetByEmail(email); err == nil {
			return jsonError(c, fiber.StatusConflict, "conflict", "email already registered")
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "tenant creation failed")
		}
	}

	manager, err := models.CreateUser(req.Name, req.Email, req.Password, models.ROLE_LEAGUE_MANAGER)
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", err.Error())
	}
	var assistant *models.User
	if req.Assistant != nil {
		assistant, err = models.CreateUser(req.Assistant.Name, req.Assistant.Email, req.Assistant.Password, models.ROLE_ASSISTANT_MANAGER)
		if err != nil {
			return jsonError(c, fiber.StatusBadRequest, "bad_request", err.Error())
		}
	}

	in := subscription.TenantInput{Manager: manager, Assistant: assistant}
	for _, pkg := range req.Packages {
		price, err := decimal.NewFromString(pkg.Price)
		if err != nil {
			return jsonError(c, fiber.StatusBadRequest, "bad_request", "invalid package price: "+pkg.Price)
		}
		in.Packages = append(in.Packages, subscription.PackageInput{
			Tier:        pkg.Tier,
			Name:        pkg.Name,
			Price:       price,
			Description: pkg.Description,
		})
	}

	svc := subscription.NewServiceFromDB(database.GetDB())
	sub, err := svc.ProvisionTenant(c.Context(), in)
	if err != nil {
		if errors.Is(err, subscription.ErrInvalidInput) {
			return jsonError(c, fiber.StatusBadRequest, "bad_request", err.Error())
		}
		log.Printf("tenant provisioning for %s failed: %v", req.Email, err)
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "tenant provisioning failed")
	}

	go func() {
		if err := mail.SendWelcomeMail(manager.Email, manager.Name); err != nil {
			log.Printf("welcome mail to %s failed: %v", manager.Email, err)
		}
	}()

	resp := fiber.Map{
		"tenant": fiber.Map{
			"id":    manager.ID,
			"name":  manager.Name,
			"email": manager.Email,
		},
		"subscription": subscriptionResponse(sub),
	}
	if assistant != nil {
		resp["assistant_manager"] = fiber.Map{
			"id":    assistant.ID,
			"name":  assistant.Name,
			"email": assistant.Email,
		}
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// HandleAdminListTenants lists league manager accounts with pagination and
// a subscription summary per tenant.
func HandleAdminListTenants(c *fiber.Ctx) error {
	offset := c.QueryInt("offset", 0)
	limit := c.QueryInt("limit", 50)
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	repo := repository.GetGlobalFactory().GetUserRepository()
	tenants, err := repo.ListByRole(models.ROLE_LEAGUE_MANAGER, offset, limit)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "failed to load tenants")
	}
	total, err := repo.CountByRole(models.ROLE_LEAGUE_MANAGER)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "failed to count tenants")
	}

	subRepo := repository.GetGlobalFactory().GetSubscriptionRepository()
	out := make([]fiber.Map, 0, len(tenants))
	for _, t := range tenants {
		sub, err := subRepo.GetByTenant(t.ID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "failed to load tenants")
		}
		out = append(out, tenantListEntry(t, sub))
	}
	return c.JSON(fiber.Map{"tenants": out, "total": total, "offset": offset, "limit": limit})
}

// tenantListEntry flattens a league manager and its subscription (nil when
// none has been provisioned yet) into one listing row.
func tenantListEntry(t models.User, sub *models.Subscription) fiber.Map {
	entry := fiber.Map{
		"id":           t.ID,
		"name":         t.Name,
		"email":        t.Email,
		"status":       t.Status,
		"subscription": nil,
	}
	if sub != nil {
		entry["subscription"] = fiber.Map{
			"plan_name":     sub.PlanName,
			"status":        sub.Status,
			"base_price":    sub.BasePrice,
			"venue_limit":   sub.VenueLimit,
			"package_count": len(sub.Packages),
		}
	}
	return entry
}

// HandleAdminDeleteTenant removes a tenant and everything it owns.
func HandleAdminDeleteTenant(c *fiber.Ctx) error {
	tenantID := paramUint(c, "id")
	if tenantID == 0 {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "invalid tenant id")
	}

	svc := subscription.NewServiceFromDB(database.GetDB())
	if err := svc.DeleteTenant(c.Context(), tenantID); err != nil {
		if errors.Is(err, subscription.ErrInvalidInput) {
			return jsonError(c, fiber.StatusBadRequest, "bad_request", err.Error())
		}
		log.Printf("tenant %d deletion failed: %v", tenantID, err)
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "tenant deletion failed")
	}
	return c.JSON(fiber.Map{"ok": true})
}

// HandleGetSubscription returns the current tenant's aggregated subscription
// with its packages.
func HandleGetSubscription(c *fiber.Ctx) error {
	tenantID := usercontext.GetTenantID(c)

	repo := repository.GetGlobalFactory().GetSubscriptionRepository()
	sub, err := repo.GetByTenant(tenantID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "no subscription for tenant")
		}
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "failed to load subscription")
	}

	return c.JSON(subscriptionResponse(sub))
}

// HandleListPackages returns the tenant's purchased packages. With
// ?unassigned=true only packages without a live venue are returned.
func HandleListPackages(c *fiber.Ctx) error {
	tenantID := usercontext.GetTenantID(c)
	repo := repository.GetGlobalFactory().GetSubscriptionRepository()

	var (
		packages []models.SubscriptionPackage
		err      error
	)
	if c.QueryBool("unassigned", false) {
		packages, err = repo.GetUnassignedPackagesByTenant(tenantID)
	} else {
		packages, err = repo.GetPackagesByTenant(tenantID)
	}
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "failed to load packages")
	}

	out := make([]fiber.Map, 0, len(packages))
	for _, p := range packages {
		out = append(out, fiber.Map{
			"package_id": p.PublicID,
			"tier":       p.Tier,
			"name":       p.Name,
			"price":      p.Price,
			"purchased":  p.Purchased,
			"assigned":   p.Assigned,
		})
	}
	return c.JSON(fiber.Map{"packages": out})
}

func subscriptionResponse(sub *models.Subscription) fiber.Map {
	packages := make([]fiber.Map, 0, len(sub.Packages))
	for _, p := range sub.Packages {
		packages = append(packages, fiber.Map{
			"package_id": p.PublicID,
			"tier":       p.Tier,
			"name":       p.Name,
			"price":      p.Price,
			"assigned":   p.Assigned,
		})
	}
	return fiber.Map{
		"subscription_id":    sub.ID,
		"tenant_id":          sub.TenantID,
		"tier_id":            sub.TierID,
		"plan_name":          sub.PlanName,
		"base_price":         sub.BasePrice,
		"status":             sub.Status,
		"billing_cycle":      sub.BillingCycle,
		"next_billing_date":  sub.NextBillingDate,
		"venue_limit":        sub.VenueLimit,
		"pitch_per_venue":    sub.PitchPerVenueLimit,
		"storage_limit_gb":   sub.StorageLimitGB,
		"limits": fiber.Map{
			"pitches":              sub.PitchesLimit,
			"referees":             sub.RefereesLimit,
			"divisions":            sub.DivisionsLimit,
			"leagues_per_division": sub.LeaguesPerDivisionLimit,
			"teams":                sub.TeamsLimit,
		},
		"packages": packages,
	}
}
