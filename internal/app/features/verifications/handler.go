// internal/app/features/verifications/handler.go
package verifications

import (
	"github.com/mbayedione/giehub/internal/app/gateway/notify"
	groupstore "github.com/mbayedione/giehub/internal/app/store/groups"
	"github.com/mbayedione/giehub/internal/app/system/verify"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves verification-code delivery and confirmation for the
// public self-service flow.
type Handler struct {
	Groups   *groupstore.Store
	Codes    *verify.Store
	Notifier *notify.Gateway
	Log      *zap.Logger
}

// NewHandler constructs a verifications Handler.
func NewHandler(db *mongo.Database, codes *verify.Store, notifier *notify.Gateway, logger *zap.Logger) *Handler {
	return &Handler{
		Groups:   groupstore.New(db),
		Codes:    codes,
		Notifier: notifier,
		Log:      logger,
	}
}
