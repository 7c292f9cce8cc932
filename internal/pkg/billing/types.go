package billing

// Webhook event types emitted by the payment provider.
const (
	EventCheckoutCompleted     = "checkout.completed"
	EventSubscriptionCanceled  = "subscription.canceled"
	EventPaymentSucceeded      = "payment.succeeded"
	EventSubscriptionSuspended = "subscription.suspended"
)

// WebhookEventInput is the normalized input for webhook event persistence.
type WebhookEventInput struct {
	Provider        string
	ProviderEventID string
	EventType       string
	PayloadJSON     string
	SignatureValid  bool
}

// checkoutPayload is the parsed shape of a checkout.completed event body.
type checkoutPayload struct {
	TenantID uint `json:"tenant_id"`
	Packages []struct {
		Tier        string `json:"tier"`
		Name        string `json:"name"`
		Price       string `json:"price"`
		Description string `json:"description"`
	} `json:"packages"`
}

// tenantPayload is the minimal shape shared by the lifecycle events that
// only carry a tenant reference.
type tenantPayload struct {
	TenantID uint `json:"tenant_id"`
}
