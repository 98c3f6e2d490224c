// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// WAFFLE's CoreConfig handles framework-level settings (HTTP ports, TLS,
// logging level, request limits). AppConfig is everything specific to
// this service: database connections, provider credentials, and the
// sweep schedules.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string
	MongoDatabase    string
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Valkey, used for the TTL-bounded verification-code store
	ValkeyAddr    string
	VerifyCodeTTL time.Duration

	// Wave payment provider
	WaveAPIKey        string
	WaveWebhookSecret string
	WaveBaseURL       string

	// Messaging providers for verification codes and notifications.
	// WhatsApp is tried first; SMS is the fallback channel.
	WhatsAppToken   string
	WhatsAppPhoneID string
	WhatsAppBaseURL string
	SMSAPIKey       string
	SMSSender       string
	SMSAPIURL       string

	// PublicBaseURL is this service's externally reachable address,
	// used to build checkout redirect URLs.
	PublicBaseURL string

	// Cron expressions for the maintenance sweeps.
	SweepCycleSpec   string
	SweepPaymentSpec string
}
