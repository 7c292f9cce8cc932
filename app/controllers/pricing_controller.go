package controllers

import (
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/leaguehq/LeagueHQ/internal/pkg/cache"
	"github.com/leaguehq/LeagueHQ/internal/pkg/pricing"
)

const (
	pricingCatalogCacheKey = "pricing:catalog"
	pricingCatalogCacheTTL = 10 * time.Minute
)

type quoteRequest struct {
	Tier   string         `json:"tier" validate:"required"`
	Addons map[string]int `json:"addons"`
	Mode   string         `json:"mode" validate:"omitempty,oneof=strict lenient"`
}

// HandleGetPricingCatalog returns the public tier catalog with add-on prices.
// The rendered catalog is cached in Redis; it only changes on deploy.
func HandleGetPricingCatalog(c *fiber.Ctx) error {
	if cached, err := cache.Get(pricingCatalogCacheKey); err == nil && cached != "" {
		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		return c.SendString(cached)
	}

	engine := pricing.NewDefaultEngine()
	addons := pricing.DefaultAddonPricing()

	tiers := make([]fiber.Map, 0, 3)
	for _, tier := range engine.Catalog().Tiers() {
		addonPrices := fiber.Map{}
		for _, addonType := range []pricing.AddonType{
			pricing.AddonExtraPitch,
			pricing.AddonExtraReferee,
			pricing.AddonExtraDivision,
			pricing.AddonExtraLPD,
		} {
			if unit, ok := addons.UnitPrice(addonType, tier.ID); ok {
				addonPrices[string(addonType)] = unit
			}
		}
		tiers = append(tiers, fiber.Map{
			"id":            tier.ID,
			"name":          tier.Name,
			"monthly_price": tier.MonthlyPrice,
			"limits": fiber.Map{
				"pitches":              tier.Limits.Pitches,
				"referees":             tier.Limits.Referees,
				"divisions":            tier.Limits.Divisions,
				"leagues_per_division": tier.Limits.LeaguesPerDivision,
				"teams":                tier.Limits.Teams,
			},
			"addon_prices": addonPrices,
		})
	}

	body := fiber.Map{"tiers": tiers}
	if raw, err := json.Marshal(body); err == nil {
		if err := cache.Set(pricingCatalogCacheKey, string(raw), pricingCatalogCacheTTL); err != nil {
			log.Printf("pricing catalog cache write failed: %v", err)
		}
	}
	return c.JSON(body)
}

// HandleQuote prices an add-on bundle and returns the recommendation.
func HandleQuote(c *fiber.Ctx) error {
	var req quoteRequest
	if err := parseBody(c, &req); err != nil {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return jsonError(c, fe.Code, "bad_request", fe.Message)
		}
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "invalid request")
	}

	mode := pricing.ModeLenient
	if req.Mode == string(pricing.ModeStrict) {
		mode = pricing.ModeStrict
	}

	addons := make(map[pricing.AddonType]int, len(req.Addons))
	for name, qty := range req.Addons {
		addons[pricing.AddonType(name)] = qty
	}

	engine := pricing.NewDefaultEngine()
	quote, err := engine.Quote(pricing.TierID(req.Tier), addons, mode)
	if err != nil {
		if errors.Is(err, pricing.ErrInvalidInput) {
			return jsonError(c, fiber.StatusBadRequest, "bad_request", err.Error())
		}
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "quote computation failed")
	}

	return c.JSON(quote)
}
