// internal/app/features/groups/handler.go
package groups

import (
	"github.com/mbayedione/giehub/internal/app/gateway/notify"
	cyclestore "github.com/mbayedione/giehub/internal/app/store/cycles"
	groupstore "github.com/mbayedione/giehub/internal/app/store/groups"
	membershipstore "github.com/mbayedione/giehub/internal/app/store/memberships"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves group registration, lookup, and the admin
// validation workflow.
type Handler struct {
	DB          *mongo.Database
	Groups      *groupstore.Store
	Memberships *membershipstore.Store
	Cycles      *cyclestore.Store
	Notifier    *notify.Gateway
	Log         *zap.Logger
}

// NewHandler constructs a groups Handler with its stores.
func NewHandler(db *mongo.Database, notifier *notify.Gateway, logger *zap.Logger) *Handler {
	return &Handler{
		DB:          db,
		Groups:      groupstore.New(db),
		Memberships: membershipstore.New(db),
		Cycles:      cyclestore.New(db),
		Notifier:    notifier,
		Log:         logger,
	}
}
