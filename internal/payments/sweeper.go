package payments

import (
	"context"
	"time"

	"github.com/relieffund/relieffund-backend/pkg/logger"
	"github.com/relieffund/relieffund-backend/pkg/metrics"
)

// Sweeper periodically evicts stale pending payments from a sweepable store.
// Redis-backed stores expire records on their own and do not need one.
type Sweeper struct {
	store    Sweepable
	ttl      time.Duration
	interval time.Duration
	metrics  *metrics.PaymentMetrics
	logg     *logger.Logger
}

func NewSweeper(store Sweepable, ttl, interval time.Duration, m *metrics.PaymentMetrics, logg *logger.Logger) *Sweeper {
	return &Sweeper{
		store:    store,
		ttl:      ttl,
		interval: interval,
		metrics:  m,
		logg:     logg,
	}
}

// Run blocks until the context is cancelled, sweeping once per interval. A
// non-positive interval disables sweeping; time.NewTicker panics on it.
func (s *Sweeper) Run(ctx context.Context) {
	if s == nil || s.store == nil {
		return
	}
	if s.interval <= 0 {
		if s.logg != nil {
			s.logg.Warn(ctx, "sweep interval is not positive, reference sweeping disabled")
		}
		return
	}
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweepOnce(ctx)
		}
	}
}

func (s *Sweeper) sweepOnce(ctx context.Context) {
	started := time.Now()
	evicted, err := s.store.Sweep(ctx, s.ttl)
	s.metrics.ObserveSweepDuration(time.Since(started))
	if err != nil {
		if s.logg != nil {
			s.logg.Error(ctx, "payment reference sweep failed", err)
		}
		return
	}
	s.metrics.AddEvicted(evicted)
	if evicted > 0 && s.logg != nil {
		ctx = s.logg.WithFields(ctx, map[string]any{"evicted": evicted})
		s.logg.Info(ctx, "payment reference sweep completed")
	}
}
