// File: internal/jobs/cache_sweep.go
package jobs

import (
	"context"
	"fmt"
	"time"

	"puck_buddy_auth/internal/cache"
	"puck_buddy_auth/internal/config"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// CacheSweepJob holds dependencies for the stale-cache sweep job.
type CacheSweepJob struct {
	profileCache  cache.Cache
	logger        *zap.Logger
	cfg           *config.Config
	cronScheduler *cron.Cron
}

// NewCacheSweepJob creates a new CacheSweepJob.
func NewCacheSweepJob(
	profileCache cache.Cache,
	logger *zap.Logger,
	cfg *config.Config,
) *CacheSweepJob {
	scheduler := cron.New(cron.WithLogger(NewCronLogger(logger.Named("cron"))))

	return &CacheSweepJob{
		profileCache:  profileCache,
		logger:        logger.Named("CacheSweepJob"),
		cfg:           cfg,
		cronScheduler: scheduler,
	}
}

// SetupAndStart schedules and starts the cron job.
func (j *CacheSweepJob) SetupAndStart() error {
	jobSpec := j.cfg.CacheSweepSchedule // e.g., "@hourly"
	if jobSpec == "" {
		j.logger.Warn("Cache sweep schedule not defined (CACHE_SWEEP_SCHEDULE). Job will not run.")
		return nil // Not a fatal error, just won't run
	}

	jobID, err := j.cronScheduler.AddFunc(jobSpec, j.runJob)
	if err != nil {
		j.logger.Error("Failed to schedule cache sweep job", zap.String("spec", jobSpec), zap.Error(err))
		return err
	}

	j.logger.Info("Cache sweep job scheduled", zap.String("spec", jobSpec), zap.Any("jobID", jobID))
	j.cronScheduler.Start()
	return nil
}

// runJob is the actual work performed by the cron job.
func (j *CacheSweepJob) runJob() {
	j.logger.Info("Starting cache sweep run...")
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	purged, err := j.profileCache.PurgeExpired(ctx)
	if err != nil {
		j.logger.Error("Cache sweep run failed", zap.Error(err))
	} else {
		j.logger.Info("Cache sweep run completed", zap.Int64("entries_purged", purged))
	}
}

// Stop gracefully stops the cron scheduler.
func (j *CacheSweepJob) Stop() {
	if j.cronScheduler != nil {
		j.logger.Info("Stopping cache sweep scheduler...")
		stopCtx := j.cronScheduler.Stop()
		select {
		case <-stopCtx.Done():
			j.logger.Info("Cache sweep scheduler stopped gracefully.")
		case <-time.After(10 * time.Second):
			j.logger.Warn("Cache sweep scheduler stop timed out.")
		}
	}
}

// --- Cron Logger Adapter ---

// cronLogger adapts zap.Logger to cron.Logger interface.
type cronLogger struct {
	zl *zap.Logger
}

// NewCronLogger creates a new cronLogger.
func NewCronLogger(zl *zap.Logger) cron.Logger {
	return &cronLogger{zl: zl}
}

// Info logs routine messages from cron.
func (cl *cronLogger) Info(msg string, keysAndValues ...interface{}) {
	fields := cl.parseKeysAndValues(keysAndValues...)
	cl.zl.Info(msg, fields...)
}

// Error logs error messages from cron.
func (cl *cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	fields := cl.parseKeysAndValues(keysAndValues...)
	fields = append(fields, zap.Error(err))
	cl.zl.Error(msg, fields...)
}

func (cl *cronLogger) parseKeysAndValues(keysAndValues ...interface{}) []zap.Field {
	var fields []zap.Field
	for i := 0; i < len(keysAndValues); i += 2 {
		if i+1 < len(keysAndValues) {
			fields = append(fields, zap.Any(fmt.Sprintf("%v", keysAndValues[i]), keysAndValues[i+1]))
		} else {
			fields = append(fields, zap.Any(fmt.Sprintf("%v", keysAndValues[i]), "MISSING_VALUE"))
		}
	}
	return fields
}
