// Package scheduler runs the recurring maintenance loops, currently just
// the overdue invoice sweep.
package scheduler

import (
	"context"
	"time"

	"github.com/lancekit/lancekit/internal/clock"
	"github.com/lancekit/lancekit/internal/config"
	invoicedomain "github.com/lancekit/lancekit/internal/invoice/domain"
	"github.com/lancekit/lancekit/internal/observability/metrics"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Sweeper periodically flips pending invoices past their due date to
// overdue, so status stays correct without waiting for a read.
type Sweeper struct {
	invoices invoicedomain.Service
	log      *zap.Logger
	clock    clock.Clock
	metrics  *metrics.Metrics
	interval time.Duration

	cancel context.CancelFunc
	done   chan struct{}
}

type Params struct {
	fx.In

	Lifecycle fx.Lifecycle
	Config    config.Config
	Invoices  invoicedomain.Service
	Log       *zap.Logger
	Clock     clock.Clock
	Metrics   *metrics.Metrics `optional:"true"`
}

func New(p Params) *Sweeper {
	s := &Sweeper{
		invoices: p.Invoices,
		log:      p.Log.Named("scheduler"),
		clock:    p.Clock,
		metrics:  p.Metrics,
		interval: time.Duration(p.Config.OverdueSweepInterval) * time.Second,
		done:     make(chan struct{}),
	}
	p.Lifecycle.Append(fx.Hook{
		OnStart: func(context.Context) error {
			ctx, cancel := context.WithCancel(context.Background())
			s.cancel = cancel
			go s.run(ctx)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			s.cancel()
			select {
			case <-s.done:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		},
	})
	return s
}

func (s *Sweeper) run(ctx context.Context) {
	defer close(s.done)

	// Sweep once at startup so a restart catches up immediately.
	s.Sweep(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep(ctx)
		}
	}
}

// Sweep runs one overdue pass and reports how many invoices changed.
func (s *Sweeper) Sweep(ctx context.Context) int64 {
	now := s.clock.Now()
	changed, err := s.invoices.MarkOverdue(ctx, now)
	if err != nil {
		s.log.Error("overdue sweep failed", zap.Error(err))
		return 0
	}
	if changed > 0 {
		s.metrics.RecordOverdueMarked(ctx, changed)
		s.log.Info("invoices marked overdue", zap.Int64("count", changed))
	}
	return changed
}

var Module = fx.Module("scheduler",
	fx.Invoke(New),
)
