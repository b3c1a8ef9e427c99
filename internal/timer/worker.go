// Package timer wires the stopwatch service and its tick loop.
package timer

import (
	"context"
	"time"

	"github.com/lancekit/lancekit/internal/clock"
	"github.com/lancekit/lancekit/internal/timer/domain"
	"github.com/lancekit/lancekit/internal/timer/service"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const tickInterval = time.Second

// Worker refreshes the stored elapsed counter of every running timer once
// per second, so clients polling the timer endpoint see a live count even
// between state changes.
type Worker struct {
	db    *gorm.DB
	log   *zap.Logger
	clock clock.Clock

	cancel context.CancelFunc
	done   chan struct{}
}

type WorkerParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	DB        *gorm.DB
	Log       *zap.Logger
	Clock     clock.Clock
}

func NewWorker(p WorkerParams) *Worker {
	w := &Worker{
		db:    p.DB,
		log:   p.Log.Named("timer.worker"),
		clock: p.Clock,
		done:  make(chan struct{}),
	}
	p.Lifecycle.Append(fx.Hook{
		OnStart: func(context.Context) error {
			ctx, cancel := context.WithCancel(context.Background())
			w.cancel = cancel
			go w.run(ctx)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			w.cancel()
			select {
			case <-w.done:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		},
	})
	return w
}

func (w *Worker) run(ctx context.Context) {
	defer close(w.done)

	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.tick(ctx)
		}
	}
}

func (w *Worker) tick(ctx context.Context) {
	now := w.clock.Now()

	var running []domain.ActiveTimer
	if err := w.db.WithContext(ctx).Where("paused_at IS NULL").Find(&running).Error; err != nil {
		w.log.Warn("tick load failed", zap.Error(err))
		return
	}
	for _, timer := range running {
		err := w.db.WithContext(ctx).
			Model(&domain.ActiveTimer{}).
			Where("id = ?", timer.ID).
			Update("elapsed_seconds", int64(timer.Elapsed(now).Seconds())).Error
		if err != nil {
			w.log.Warn("tick update failed", zap.Error(err))
		}
	}
}

var Module = fx.Module("timer",
	fx.Provide(service.New),
	fx.Invoke(NewWorker),
)
