// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	"github.com/dalemusser/waffle/config"
	groupsfeature "github.com/mbayedione/giehub/internal/app/features/groups"
	healthfeature "github.com/mbayedione/giehub/internal/app/features/health"
	investmentsfeature "github.com/mbayedione/giehub/internal/app/features/investments"
	paymentsfeature "github.com/mbayedione/giehub/internal/app/features/payments"
	verificationsfeature "github.com/mbayedione/giehub/internal/app/features/verifications"
	"github.com/mbayedione/giehub/internal/app/gateway/notify"
	"github.com/mbayedione/giehub/internal/app/gateway/wave"
	"github.com/mbayedione/giehub/internal/app/system/verify"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE
// app. WAFFLE calls this after configuration, DB connections, schema
// setup, and the Startup hook have completed.
//
// GIEHub builds the provider gateways here and mounts the feature
// routers: health, groups, investments, payments, and verifications.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Messaging gateway: WhatsApp first, SMS as the fallback channel.
	// Channels with no credentials configured are simply not wired.
	var channels []notify.Channel
	if appCfg.WhatsAppToken != "" && appCfg.WhatsAppPhoneID != "" {
		channels = append(channels, notify.NewWhatsApp(appCfg.WhatsAppToken, appCfg.WhatsAppPhoneID, appCfg.WhatsAppBaseURL))
	}
	if appCfg.SMSAPIKey != "" && appCfg.SMSAPIURL != "" {
		channels = append(channels, notify.NewSMS(appCfg.SMSAPIKey, appCfg.SMSSender, appCfg.SMSAPIURL))
	}
	notifier := notify.New(logger, channels...)

	waveClient := wave.New(appCfg.WaveAPIKey, appCfg.WaveWebhookSecret, appCfg.WaveBaseURL, logger)
	codes := verify.New(deps.Valkey, appCfg.VerifyCodeTTL)

	r := chi.NewRouter()

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Group registration and the admin validation workflow
	groupsHandler := groupsfeature.NewHandler(deps.MongoDatabase, notifier, logger)
	r.Mount("/groups", groupsfeature.Routes(groupsHandler))

	// Investment cycles: calendar, stats, wallet, contributions
	investmentsHandler := investmentsfeature.NewHandler(deps.MongoDatabase, logger)
	r.Mount("/investments", investmentsfeature.Routes(investmentsHandler))

	// Payment checkout, status poll, and the provider webhook
	paymentsHandler := paymentsfeature.NewHandler(deps.MongoDatabase, waveClient, appCfg.PublicBaseURL, logger)
	r.Mount("/payments", paymentsfeature.Routes(paymentsHandler))

	// Verification codes for the public self-service flow
	verificationsHandler := verificationsfeature.NewHandler(deps.MongoDatabase, codes, notifier, logger)
	r.Mount("/verifications", verificationsfeature.Routes(verificationsHandler))

	return r, nil
}
