package queue

import (
	"context"
	"log"
	"time"
)

// Sweeper periodically expires overdue patients in the background.
//
// Every engine read already sweeps lazily before serving, which is what
// the consistency contract relies on; the background loop only keeps
// deadlines moving while nobody is polling.
type Sweeper struct {
	cfg    *SweeperConfig
	engine *Engine
}

// SweeperConfig holds the background sweep settings.
type SweeperConfig struct {
	Enabled  bool
	Interval time.Duration
}

// NewSweeper creates a background sweeper over the engine.
func NewSweeper(cfg SweeperConfig, engine *Engine) *Sweeper {
	return &Sweeper{cfg: &cfg, engine: engine}
}

// Run starts the sweep loop. It returns when ctx is cancelled.
func (s *Sweeper) Run(ctx context.Context) {
	if !s.cfg.Enabled {
		log.Println("Background sweeper is disabled. Not starting.")
		return
	}
	log.Println("Starting background sweeper...")

	s.sweepOnce(ctx)

	timer := time.NewTimer(s.cfg.Interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Background sweeper shutting down.")
			return
		case <-timer.C:
			s.sweepOnce(ctx)
			timer.Reset(s.cfg.Interval)
		}
	}
}

func (s *Sweeper) sweepOnce(ctx context.Context) {
	expired, err := s.engine.SweepAll(ctx, time.Now().UTC())
	if err != nil {
		log.Printf("Error sweeping overdue patients: %v", err)
		return
	}
	if expired > 0 {
		log.Printf("Swept %d overdue patients to timeout", expired)
	}
}
