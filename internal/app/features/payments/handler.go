// internal/app/features/payments/handler.go
package payments

import (
	"github.com/mbayedione/giehub/internal/app/gateway/wave"
	groupstore "github.com/mbayedione/giehub/internal/app/store/groups"
	membershipstore "github.com/mbayedione/giehub/internal/app/store/memberships"
	paymentstore "github.com/mbayedione/giehub/internal/app/store/payments"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves payment initiation, the client status poll, and the
// inbound provider webhook. PublicBaseURL is this service's externally
// reachable address, used to build the redirect URLs a hosted checkout
// sends the payer back to.
type Handler struct {
	DB            *mongo.Database
	Payments      *paymentstore.Store
	Groups        *groupstore.Store
	Memberships   *membershipstore.Store
	Wave          *wave.Client
	PublicBaseURL string
	Log           *zap.Logger
}

// NewHandler constructs a payments Handler with its stores.
func NewHandler(db *mongo.Database, waveClient *wave.Client, publicBaseURL string, logger *zap.Logger) *Handler {
	return &Handler{
		DB:            db,
		Payments:      paymentstore.New(db),
		Groups:        groupstore.New(db),
		Memberships:   membershipstore.New(db),
		Wave:          waveClient,
		PublicBaseURL: publicBaseURL,
		Log:           logger,
	}
}
