package dashboard

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/Joaomdsc1/sistema-restaurantes/internal/logger"
	"github.com/Joaomdsc1/sistema-restaurantes/internal/services/orders"
)

// CleanupJob runs the nightly retention sweep that deletes orders older
// than the configured retention window.
type CleanupJob struct {
	store         orders.Store
	retentionDays int
	cron          *cron.Cron
	logger        *logger.Logger
}

// NewCleanupJob creates the scheduled cleanup job.
func NewCleanupJob(store orders.Store, retentionDays int, log *logger.Logger) *CleanupJob {
	return &CleanupJob{
		store:         store,
		retentionDays: retentionDays,
		cron:          cron.New(),
		logger:        log,
	}
}

// Start schedules the sweep to run every night at 03:00.
func (j *CleanupJob) Start() error {
	_, err := j.cron.AddFunc("0 3 * * *", func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		removed, err := j.store.Cleanup(ctx, time.Duration(j.retentionDays)*24*time.Hour)
		if err != nil {
			j.logger.Error("cleanup_job_failed", "Scheduled cleanup failed", "", err, nil)
			return
		}

		j.logger.Info("cleanup_job_completed", "Scheduled cleanup finished", "", map[string]interface{}{
			"removed":        removed,
			"retention_days": j.retentionDays,
		})
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.Info("cleanup_job_started", "Retention cleanup scheduled", "", map[string]interface{}{
		"retention_days": j.retentionDays,
	})
	return nil
}

// Stop stops the scheduled sweep.
func (j *CleanupJob) Stop() {
	j.cron.Stop()
	j.logger.Info("cleanup_job_stopped", "Retention cleanup stopped", "", nil)
}
