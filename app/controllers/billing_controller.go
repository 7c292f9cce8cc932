package controllers

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/leaguehq/LeagueHQ/internal/pkg/billing"
	"github.com/leaguehq/LeagueHQ/internal/pkg/database"
	"github.com/leaguehq/LeagueHQ/internal/pkg/env"
)

// HandleBillingWebhook ingests payment provider webhooks. Every delivery is
// persisted before processing; duplicate event ids are acknowledged without
// reprocessing. Signature verification covers the raw body.
func HandleBillingWebhook(c *fiber.Ctx) error {
	rawBody := append([]byte(nil), c.BodyRaw()...)
	eventType := strings.TrimSpace(c.Get("X-Billing-Event"))
	eventID := firstHeaderValue(c, "X-Billing-Delivery", "X-Billing-Event-ID")
	signature := strings.TrimSpace(c.Get("X-Billing-Signature"))
	secret := env.GetEnv("BILLING_WEBHOOK_SECRET", "")
	provider := env.GetEnv("BILLING_PROVIDER", "paystream")

	svc := billing.NewServiceFromDB(database.GetDB())
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	signatureValid := billing.VerifyWebhookSignature(rawBody, signature, secret)
	created, stored, err := svc.RecordWebhookEvent(ctx, billing.WebhookEventInput{
		Provider:        provider,
		ProviderEventID: eventID,
		EventType:       eventType,
		PayloadJSON:     string(rawBody),
		SignatureValid:  signatureValid,
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "webhook_persist_failed"})
	}
	if !created {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"ok": true, "duplicate": true})
	}
	if !signatureValid {
		_ = svc.MarkWebhookProcessed(ctx, stored.ID, errors.New("invalid webhook signature"))
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid_signature"})
	}

	if err := svc.ProcessEvent(ctx, stored); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "event_processing_failed"})
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"ok": true})
}

func firstHeaderValue(c *fiber.Ctx, keys ...string) string {
	for _, k := range keys {
		v := strings.TrimSpace(c.Get(k))
		if v != "" {
			return v
		}
	}
	return ""
}
