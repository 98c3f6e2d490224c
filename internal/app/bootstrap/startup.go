// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"fmt"

	"github.com/dalemusser/waffle/config"
	cyclestore "github.com/mbayedione/giehub/internal/app/store/cycles"
	paymentstore "github.com/mbayedione/giehub/internal/app/store/payments"
	"github.com/mbayedione/giehub/internal/app/system/tasks"
	"github.com/mbayedione/giehub/internal/app/system/workers"
	"go.uber.org/zap"
)

// sweeper is started here and stopped in Shutdown.
var sweeper *workers.Sweeper

// Startup runs one-time application initialization after DB connections
// and schema setup are complete, but before the HTTP handler is built.
// GIEHub uses it to start the maintenance sweeps: completing fully
// contributed cycles and expiring abandoned checkouts.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	sweeper = workers.NewSweeper(logger)

	jobs := []tasks.Job{
		tasks.CycleCompletionJob(cyclestore.New(deps.MongoDatabase), logger, appCfg.SweepCycleSpec),
		tasks.PaymentExpiryJob(paymentstore.New(deps.MongoDatabase), logger, appCfg.SweepPaymentSpec),
	}
	for _, job := range jobs {
		if err := sweeper.Add(job); err != nil {
			return fmt.Errorf("register %s sweep: %w", job.Name, err)
		}
	}
	sweeper.Start()
	return nil
}
