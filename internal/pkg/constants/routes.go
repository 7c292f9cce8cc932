package constants

// Static route constants
const (
	APIRoute     = "/api/v1"
	MetricsRoute = "/metrics"
	WebhookRoute = "/webhooks/billing"
)
