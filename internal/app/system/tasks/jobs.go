// internal/app/system/tasks/jobs.go
package tasks

import (
	"context"
	"time"

	cyclestore "github.com/mbayedione/giehub/internal/app/store/cycles"
	paymentstore "github.com/mbayedione/giehub/internal/app/store/payments"
	"go.uber.org/zap"
)

// Job is one scheduled maintenance task. Spec is a cron expression.
type Job struct {
	Name string
	Spec string
	Run  func(ctx context.Context) error
}

// CycleCompletionJob marks active cycles complete once every day has
// been contributed. The write path already does this lazily; the sweep
// covers documents touched outside it.
func CycleCompletionJob(cycles *cyclestore.Store, logger *zap.Logger, spec string) Job {
	return Job{
		Name: "cycle-completion",
		Spec: spec,
		Run: func(ctx context.Context) error {
			count, err := cycles.CompleteFullyContributed(ctx)
			if err != nil {
				return err
			}
			if count > 0 {
				logger.Info("marked fully contributed cycles complete", zap.Int64("count", count))
			}
			return nil
		},
	}
}

// PaymentExpiryJob cancels payable transactions past their expiration
// timestamp, so abandoned checkouts do not linger as pending forever.
func PaymentExpiryJob(payments *paymentstore.Store, logger *zap.Logger, spec string) Job {
	return Job{
		Name: "payment-expiry",
		Spec: spec,
		Run: func(ctx context.Context) error {
			count, err := payments.ExpireStale(ctx, time.Now())
			if err != nil {
				return err
			}
			if count > 0 {
				logger.Info("expired stale payment transactions", zap.Int64("count", count))
			}
			return nil
		},
	}
}
