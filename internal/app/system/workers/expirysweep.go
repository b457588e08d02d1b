// internal/app/system/workers/expirysweep.go
package workers

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Expirer cancels active group orders whose deadline has passed.
// *orderflow.Engine satisfies it.
type Expirer interface {
	ExpireStale(ctx context.Context, limit int64) (int, error)
}

// ExpirySweep is a background worker that cancels stale group orders.
type ExpirySweep struct {
	engine   Expirer
	log      *zap.Logger
	interval time.Duration
	batch    int64
	timeout  time.Duration
	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewExpirySweep creates the worker. Each tick cancels at most batch orders.
func NewExpirySweep(engine Expirer, logger *zap.Logger, interval time.Duration, batch int64) *ExpirySweep {
	if batch <= 0 {
		batch = 100
	}
	return &ExpirySweep{
		engine:   engine,
		log:      logger,
		interval: interval,
		batch:    batch,
		timeout:  30 * time.Second,
		stopCh:   make(chan struct{}),
	}
}

// Start begins the background sweep loop.
func (w *ExpirySweep) Start() {
	w.wg.Add(1)
	go w.run()
	w.log.Info("expiry sweep worker started",
		zap.Duration("interval", w.interval),
		zap.Int64("batch", w.batch))
}

// Stop signals the worker to stop and waits for it to finish. Safe to call
// more than once.
func (w *ExpirySweep) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopCh)
		w.wg.Wait()
		w.log.Info("expiry sweep worker stopped")
	})
}

func (w *ExpirySweep) run() {
	defer w.wg.Done()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopCh:
			return
		case <-ticker.C:
			w.Sweep()
		}
	}
}

// Sweep runs one pass and returns how many orders were cancelled.
func (w *ExpirySweep) Sweep() int {
	ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
	defer cancel()

	count, err := w.engine.ExpireStale(ctx, w.batch)
	if err != nil {
		w.log.Error("expiry sweep failed", zap.Error(err), zap.Int("cancelled", count))
		return count
	}

	if count > 0 {
		w.log.Info("cancelled expired group orders", zap.Int("count", count))
	}
	return count
}
