package worker

import (
	"context"
	"log"
	"sync"
	"time"
)

// DefaultInterval is the pause between sync cycles when none is configured.
const DefaultInterval = 30 * time.Minute

// Scheduler runs sync cycles on a fixed interval until stopped. One cycle
// runs at a time; the first fires immediately on Start.
type Scheduler struct {
	interval time.Duration
	run      func(ctx context.Context)
	logger   *log.Logger

	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc
}

func NewScheduler(interval time.Duration, run func(ctx context.Context), logger *log.Logger) *Scheduler {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Scheduler{
		interval: interval,
		run:      run,
		logger:   logger,
	}
}

// Start begins the cycle loop. Call Stop() to gracefully shut down.
func (s *Scheduler) Start(ctx context.Context) {
	s.ctx, s.cancel = context.WithCancel(ctx)

	s.logger.Printf("[Scheduler] Starting, interval %s", s.interval)

	s.wg.Add(1)
	go s.loop()
}

// Stop gracefully shuts the scheduler down. Blocks until an in-flight cycle
// finishes, so the current DB transaction is never cut off mid-write.
func (s *Scheduler) Stop() {
	s.logger.Printf("[Scheduler] Stopping...")
	s.cancel()
	s.wg.Wait()
	s.logger.Printf("[Scheduler] Stopped")
}

func (s *Scheduler) loop() {
	defer s.wg.Done()

	s.runOnce()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			s.runOnce()
		}
	}
}

func (s *Scheduler) runOnce() {
	if s.ctx.Err() != nil {
		return
	}
	started := time.Now()
	s.run(s.ctx)
	s.logger.Printf("[Scheduler] Cycle took %s", time.Since(started).Round(time.Millisecond))
}
