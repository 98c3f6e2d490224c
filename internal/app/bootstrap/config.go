// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"time"

	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// appConfigKeys defines the configuration keys for GIEHub.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, wave_api_key, etc.
//   - Environment variables: GIEHUB_MONGO_URI, GIEHUB_WAVE_API_KEY, etc.
//   - Command-line flags: --mongo_uri, --wave_api_key, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "giehub", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size"},

	// Valkey (verification-code store)
	{Name: "valkey_addr", Default: "localhost:6379", Desc: "Valkey address for the verification-code store"},
	{Name: "verify_code_ttl", Default: "10m", Desc: "How long a verification code stays confirmable"},

	// Wave payment provider
	{Name: "wave_api_key", Default: "", Desc: "Wave API key"},
	{Name: "wave_webhook_secret", Default: "", Desc: "Wave webhook signing secret"},
	{Name: "wave_base_url", Default: "https://api.wave.com", Desc: "Wave API base URL"},

	// Messaging providers
	{Name: "whatsapp_token", Default: "", Desc: "WhatsApp Cloud API access token"},
	{Name: "whatsapp_phone_id", Default: "", Desc: "WhatsApp Cloud API phone number id"},
	{Name: "whatsapp_base_url", Default: "https://graph.facebook.com/v19.0", Desc: "WhatsApp Cloud API base URL"},
	{Name: "sms_api_key", Default: "", Desc: "SMS relay API key"},
	{Name: "sms_sender", Default: "GIEHUB", Desc: "SMS sender name"},
	{Name: "sms_api_url", Default: "", Desc: "SMS relay endpoint URL"},

	// Redirect target for hosted checkouts
	{Name: "public_base_url", Default: "http://localhost:3000", Desc: "Externally reachable base URL of this service"},

	// Maintenance sweeps
	{Name: "sweep_cycle_spec", Default: "30 0 * * *", Desc: "Cron schedule for the cycle-completion sweep"},
	{Name: "sweep_payment_spec", Default: "*/10 * * * *", Desc: "Cron schedule for the payment-expiry sweep"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig handles loading from .env files,
// config.yaml/json/toml files, environment variables (WAFFLE_* for
// core, GIEHUB_* for app), and command-line flags, merging with
// precedence flags > env > files > defaults.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "GIEHUB", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		ValkeyAddr:    appValues.String("valkey_addr"),
		VerifyCodeTTL: appValues.Duration("verify_code_ttl", 10*time.Minute),

		WaveAPIKey:        appValues.String("wave_api_key"),
		WaveWebhookSecret: appValues.String("wave_webhook_secret"),
		WaveBaseURL:       appValues.String("wave_base_url"),

		WhatsAppToken:   appValues.String("whatsapp_token"),
		WhatsAppPhoneID: appValues.String("whatsapp_phone_id"),
		WhatsAppBaseURL: appValues.String("whatsapp_base_url"),
		SMSAPIKey:       appValues.String("sms_api_key"),
		SMSSender:       appValues.String("sms_sender"),
		SMSAPIURL:       appValues.String("sms_api_url"),

		PublicBaseURL: appValues.String("public_base_url"),

		SweepCycleSpec:   appValues.String("sweep_cycle_spec"),
		SweepPaymentSpec: appValues.String("sweep_payment_spec"),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// GIEHub validates the MongoDB URI format to catch configuration errors
// early, before attempting to connect, and requires the Wave webhook
// secret whenever an API key is configured: accepting unsigned webhooks
// would let anyone settle a payment.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}

	if appCfg.WaveAPIKey != "" && appCfg.WaveWebhookSecret == "" {
		return fmt.Errorf("wave_api_key is set but wave_webhook_secret is empty")
	}
	if appCfg.VerifyCodeTTL <= 0 {
		return fmt.Errorf("verify_code_ttl must be positive")
	}

	return nil
}
