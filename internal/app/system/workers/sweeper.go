// internal/app/system/workers/sweeper.go
package workers

import (
	"context"
	"time"

	"github.com/mbayedione/giehub/internal/app/system/tasks"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// jobTimeout bounds one sweep run.
const jobTimeout = 60 * time.Second

// Sweeper runs the maintenance jobs on their cron schedules.
type Sweeper struct {
	cron *cron.Cron
	log  *zap.Logger
}

func NewSweeper(logger *zap.Logger) *Sweeper {
	return &Sweeper{
		cron: cron.New(),
		log:  logger,
	}
}

// Add registers a job. Each run gets its own timeout context; a failing
// run is logged and the schedule keeps going.
func (s *Sweeper) Add(job tasks.Job) error {
	_, err := s.cron.AddFunc(job.Spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()
		if err := job.Run(ctx); err != nil {
			s.log.Error("sweep job failed", zap.String("job", job.Name), zap.Error(err))
		}
	})
	if err != nil {
		return err
	}
	s.log.Info("sweep job registered", zap.String("job", job.Name), zap.String("spec", job.Spec))
	return nil
}

// Start begins the cron engine in its own goroutine.
func (s *Sweeper) Start() {
	s.cron.Start()
	s.log.Info("sweeper started")
}

// Stop halts the schedule and waits for any in-flight run to finish.
func (s *Sweeper) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.log.Info("sweeper stopped")
}
