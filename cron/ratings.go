package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Reconciler recomputes every service's rating from its reviews.
type Reconciler interface {
	Reconcile(ctx context.Context) (int, error)
}

const reconcileTimeout = 5 * time.Minute

// StartRatingReconciler schedules the rating reconciliation on spec (standard
// five-field cron syntax). The returned scheduler is already running.
func StartRatingReconciler(spec string, rec Reconciler, logger *zap.Logger) (*cron.Cron, error) {
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	if _, err := c.AddFunc(spec, reconcileJob(rec, logger)); err != nil {
		return nil, fmt.Errorf("invalid rating reconcile schedule %q: %w", spec, err)
	}
	c.Start()
	return c, nil
}

func reconcileJob(rec Reconciler, logger *zap.Logger) func() {
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), reconcileTimeout)
		defer cancel()
		start := time.Now()
		n, err := rec.Reconcile(ctx)
		if err != nil {
			logger.Error("Rating reconciliation failed", zap.Error(err))
			return
		}
		logger.Info("Rating reconciliation finished", zap.Int("services", n), zap.Duration("took", time.Since(start)))
	}
}
