package constants

// Static route constants
const (
	WebhookRoute     = "/webhook"
	WebhookJSONRoute = "/webhook_DRF"
	HealthRoute      = "/healthz"
	MetricsRoute     = "/metrics"
)
