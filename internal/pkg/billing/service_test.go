package billing

import (
	"context"
	"testing"
	"time"

	"github.com/leaguehq/LeagueHQ/app/models"
	"github.com/leaguehq/LeagueHQ/internal/pkg/subscription"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeBillingRepo struct {
	events       []models.BillingWebhookEvent
	subs         map[uint]*models.Subscription
	processed    map[uint]string
	savedSubList []models.Subscription
}

func newFakeBillingRepo() *fakeBillingRepo {
	return &fakeBillingRepo{
		subs:      make(map[uint]*models.Subscription),
		processed: make(map[uint]string),
	}
}

func (f *fakeBillingRepo) CreateWebhookEventIfNotExists(event *models.BillingWebhookEvent) (bool, *models.BillingWebhookEvent, error) {
	for i := range f.events {
		if f.events[i].Provider == event.Provider && f.events[i].ProviderEventID == event.ProviderEventID {
			stored := f.events[i]
			return false, &stored, nil
		}
	}
	event.ID = uint(len(f.events) + 1)
	f.events = append(f.events, *event)
	stored := *event
	return true, &stored, nil
}

func (f *fakeBillingRepo) MarkWebhookProcessed(id uint, processingError string) error {
	f.processed[id] = processingError
	return nil
}

func (f *fakeBillingRepo) GetSubscriptionByTenant(tenantID uint) (*models.Subscription, error) {
	sub, ok := f.subs[tenantID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *sub
	return &copied, nil
}

func (f *fakeBillingRepo) SaveSubscription(sub *models.Subscription) error {
	copied := *sub
	f.subs[sub.TenantID] = &copied
	f.savedSubList = append(f.savedSubList, copied)
	return nil
}

type fakeProvisioner struct {
	inputs []subscription.ProvisionInput
	err    error
}

func (f *fakeProvisioner) CreateSubscriptionFromPackages(ctx context.Context, in subscription.ProvisionInput) (*models.Subscription, error) {
	f.inputs = append(f.inputs, in)
	if f.err != nil {
		return nil, f.err
	}
	return &models.Subscription{TenantID: in.TenantID}, nil
}

func TestRecordWebhookEventDeduplicates(t *testing.T) {
	repo := newFakeBillingRepo()
	svc := NewService(repo, &fakeProvisioner{})

	in := WebhookEventInput{
		Provider:        "Paystream",
		ProviderEventID: "evt-1",
		EventType:       EventPaymentSucceeded,
		PayloadJSON:     `{"tenant_id":1}`,
		SignatureValid:  true,
	}

	created, event, err := svc.RecordWebhookEvent(context.Background(), in)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "paystream", event.Provider)

	created, _, err = svc.RecordWebhookEvent(context.Background(), in)
	require.NoError(t, err)
	assert.False(t, created, "redelivery must not create a second row")
	assert.Len(t, repo.events, 1)
}

func TestRecordWebhookEventRequiresIdentity(t *testing.T) {
	svc := NewService(newFakeBillingRepo(), &fakeProvisioner{})

	_, _, err := svc.RecordWebhookEvent(context.Background(), WebhookEventInput{Provider: "paystream"})
	assert.Error(t, err)
}

func TestProcessCheckoutCompletedProvisionsSubscription(t *testing.T) {
	repo := newFakeBillingRepo()
	prov := &fakeProvisioner{}
	svc := NewService(repo, prov)

	event := &models.BillingWebhookEvent{
		ID:        1,
		EventType: EventCheckoutCompleted,
		PayloadJSON: `{"tenant_id":7,"packages":[` +
			`{"tier":"starter","name":"Starter Package","price":"49.99"},` +
			`{"tier":"growth","name":"Growth Package","price":"99.99"}]}`,
	}

	require.NoError(t, svc.ProcessEvent(context.Background(), event))

	require.Len(t, prov.inputs, 1)
	assert.Equal(t, uint(7), prov.inputs[0].TenantID)
	require.Len(t, prov.inputs[0].Packages, 2)
	assert.Equal(t, "starter", prov.inputs[0].Packages[0].Tier)
	assert.True(t, prov.inputs[0].Packages[1].Price.Equal(decimal.RequireFromString("99.99")))
	assert.Equal(t, "", repo.processed[1])
}

func TestProcessCheckoutCompletedRejectsBadPayload(t *testing.T) {
	repo := newFakeBillingRepo()
	svc := NewService(repo, &fakeProvisioner{})

	event := &models.BillingWebhookEvent{ID: 2, EventType: EventCheckoutCompleted, PayloadJSON: `{"tenant_id":0}`}
	err := svc.ProcessEvent(context.Background(), event)
	assert.Error(t, err)
	assert.NotEmpty(t, repo.processed[2], "failure must be recorded on the event")
}

func TestProcessSubscriptionCanceled(t *testing.T) {
	repo := newFakeBillingRepo()
	repo.subs[3] = &models.Subscription{ID: 1, TenantID: 3, Status: models.SubscriptionStatusActive}
	svc := NewService(repo, &fakeProvisioner{})

	event := &models.BillingWebhookEvent{ID: 3, EventType: EventSubscriptionCanceled, PayloadJSON: `{"tenant_id":3}`}
	require.NoError(t, svc.ProcessEvent(context.Background(), event))

	assert.Equal(t, models.SubscriptionStatusCancelled, repo.subs[3].Status)
}

func TestProcessSubscriptionSuspended(t *testing.T) {
	repo := newFakeBillingRepo()
	repo.subs[3] = &models.Subscription{ID: 1, TenantID: 3, Status: models.SubscriptionStatusActive}
	svc := NewService(repo, &fakeProvisioner{})

	event := &models.BillingWebhookEvent{ID: 4, EventType: EventSubscriptionSuspended, PayloadJSON: `{"tenant_id":3}`}
	require.NoError(t, svc.ProcessEvent(context.Background(), event))

	assert.Equal(t, models.SubscriptionStatusSuspended, repo.subs[3].Status)
}

func TestProcessPaymentSucceededAdvancesBillingAndReactivates(t *testing.T) {
	repo := newFakeBillingRepo()
	repo.subs[3] = &models.Subscription{
		ID: 1, TenantID: 3,
		Status:       models.SubscriptionStatusSuspended,
		BillingCycle: models.BillingCycleMonthly,
	}
	svc := NewService(repo, &fakeProvisioner{})
	now := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	event := &models.BillingWebhookEvent{ID: 5, EventType: EventPaymentSucceeded, PayloadJSON: `{"tenant_id":3}`}
	require.NoError(t, svc.ProcessEvent(context.Background(), event))

	sub := repo.subs[3]
	assert.Equal(t, models.SubscriptionStatusActive, sub.Status)
	require.NotNil(t, sub.NextBillingDate)
	assert.Equal(t, now.AddDate(0, 0, 30), *sub.NextBillingDate)
}

func TestProcessPaymentSucceededUnknownTenant(t *testing.T) {
	repo := newFakeBillingRepo()
	svc := NewService(repo, &fakeProvisioner{})

	event := &models.BillingWebhookEvent{ID: 6, EventType: EventPaymentSucceeded, PayloadJSON: `{"tenant_id":99}`}
	err := svc.ProcessEvent(context.Background(), event)
	assert.Error(t, err)
	assert.NotEmpty(t, repo.processed[6])
}

func TestProcessUnknownEventTypeIsNoop(t *testing.T) {
	repo := newFakeBillingRepo()
	svc := NewService(repo, &fakeProvisioner{})

	event := &models.BillingWebhookEvent{ID: 7, EventType: "invoice.created", PayloadJSON: `{}`}
	require.NoError(t, svc.ProcessEvent(context.Background(), event))
	assert.Equal(t, "", repo.processed[7])
	assert.Empty(t, repo.savedSubList)
}
