package billing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/leaguehq/LeagueHQ/app/models"
	"github.com/leaguehq/LeagueHQ/internal/pkg/subscription"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Provisioner is the slice of the subscription service the billing service
// needs when a checkout completes.
type Provisioner interface {
	CreateSubscriptionFromPackages(ctx context.Context, in subscription.ProvisionInput) (*models.Subscription, error)
}

// Service ingests payment provider webhooks and applies their effects to the
// tenant's subscription. Events are persisted before processing so retried
// deliveries are no-ops.
type Service struct {
	repo        Repository
	provisioner Provisioner
	now         func() time.Time
}

// NewService creates a billing service from an injected repository and
// subscription provisioner.
func NewService(repo Repository, provisioner Provisioner) *Service {
	return &Service{repo: repo, provisioner: provisioner, now: time.Now}
}

// NewServiceFromDB creates a billing service from a GORM DB handle.
func NewServiceFromDB(db *gorm.DB) *Service {
	return NewService(NewRepository(db), subscription.NewServiceFromDB(db))
}

// RecordWebhookEvent persists an incoming webhook delivery. The bool reports
// whether the event is new; a redelivery of an already-seen provider event id
// returns the stored row with created=false.
func (s *Service) RecordWebhookEvent(ctx context.Context, in WebhookEventInput) (bool, *models.BillingWebhookEvent, error) {
	_ = ctx
	provider := strings.ToLower(strings.TrimSpace(in.Provider))
	eventID := strings.TrimSpace(in.ProviderEventID)
	if provider == "" || eventID == "" {
		return false, nil, errors.New("provider and provider_event_id are required")
	}

	event := &models.BillingWebhookEvent{
		Provider:        provider,
		ProviderEventID: eventID,
		EventType:       strings.TrimSpace(in.EventType),
		PayloadJSON:     in.PayloadJSON,
		SignatureValid:  in.SignatureValid,
	}
	return s.repo.CreateWebhookEventIfNotExists(event)
}

// MarkWebhookProcessed stamps a stored event as handled, recording the
// processing error when one occurred.
func (s *Service) MarkWebhookProcessed(ctx context.Context, id uint, perr error) error {
	_ = ctx
	processingError := ""
	if perr != nil {
		processingError = perr.Error()
	}
	return s.repo.MarkWebhookProcessed(id, processingError)
}

// ProcessEvent applies a stored webhook event and marks it processed. The
// processing error, if any, is recorded on the event row and returned.
func (s *Service) ProcessEvent(ctx context.Context, event *models.BillingWebhookEvent) error {
	err := s.applyEvent(ctx, event)

	processingError := ""
	if err != nil {
		processingError = err.Error()
	}
	if markErr := s.repo.MarkWebhookProcessed(event.ID, processingError); markErr != nil {
		return markErr
	}
	return err
}

func (s *Service) applyEvent(ctx context.Context, event *models.BillingWebhookEvent) error {
	switch event.EventType {
	case EventCheckoutCompleted:
		return s.handleCheckoutCompleted(ctx, event)
	case EventSubscriptionCanceled:
		return s.setSubscriptionStatus(event, models.SubscriptionStatusCancelled)
	case EventSubscriptionSuspended:
		return s.setSubscriptionStatus(event, models.SubscriptionStatusSuspended)
	case EventPaymentSucceeded:
		return s.handlePaymentSucceeded(event)
	default:
		// Unknown event types are stored but have no effect.
		return nil
	}
}

// handleCheckoutCompleted provisions the tenant's aggregated subscription
// from the purchased packages in the checkout payload.
func (s *Service) handleCheckoutCompleted(ctx context.Context, event *models.BillingWebhookEvent) error {
	var payload checkoutPayload
	if err := json.Unmarshal([]byte(event.PayloadJSON), &payload); err != nil {
		return fmt.Errorf("invalid checkout payload: %w", err)
	}
	if payload.TenantID == 0 || len(payload.Packages) == 0 {
		return errors.New("checkout payload requires tenant_id and packages")
	}

	in := subscription.ProvisionInput{TenantID: payload.TenantID}
	for _, pkg := range payload.Packages {
		price, err := decimal.NewFromString(pkg.Price)
		if err != nil {
			return fmt.Errorf("invalid package price %q: %w", pkg.Price, err)
		}
		in.Packages = append(in.Packages, subscription.PackageInput{
			Tier:        pkg.Tier,
			Name:        pkg.Name,
			Price:       price,
			Description: pkg.Description,
		})
	}

	_, err := s.provisioner.CreateSubscriptionFromPackages(ctx, in)
	return err
}

// handlePaymentSucceeded advances the subscription's next billing date by
// one cycle and reactivates a suspended subscription.
func (s *Service) handlePaymentSucceeded(event *models.BillingWebhookEvent) error {
	sub, err := s.subscriptionFor(event)
	if err != nil {
		return err
	}
	sub.AdvanceBillingDate(s.now())
	if sub.Status == models.SubscriptionStatusSuspended {
		sub.Status = models.SubscriptionStatusActive
	}
	return s.repo.SaveSubscription(sub)
}

func (s *Service) setSubscriptionStatus(event *models.BillingWebhookEvent, status string) error {
	sub, err := s.subscriptionFor(event)
	if err != nil {
		return err
	}
	sub.Status = status
	return s.repo.SaveSubscription(sub)
}

func (s *Service) subscriptionFor(event *models.BillingWebhookEvent) (*models.Subscription, error) {
	var payload tenantPayload
	if err := json.Unmarshal([]byte(event.PayloadJSON), &payload); err != nil {
		return nil, fmt.Errorf("invalid event payload: %w", err)
	}
	if payload.TenantID == 0 {
		return nil, errors.New("event payload requires tenant_id")
	}

	sub, err := s.repo.GetSubscriptionByTenant(payload.TenantID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("no subscription for tenant %d", payload.TenantID)
		}
		return nil, err
	}
	return sub, nil
}
