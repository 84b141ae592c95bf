package cleanup

import (
	"context"
	"log"
	"time"
)

// SessionSweeper is implemented by game.Manager
type SessionSweeper interface {
	CleanupOldSessions(now time.Time) int
}

type Worker struct {
	Sweeper  SessionSweeper
	Interval time.Duration
}

func NewWorker(sweeper SessionSweeper, interval time.Duration) *Worker {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	return &Worker{Sweeper: sweeper, Interval: interval}
}

// Start runs one cleanup immediately, then one per interval until ctx is done
func (w *Worker) Start(ctx context.Context) {
	log.Println("[CLEANUP] Background worker started")
	w.runCleanup(time.Now())

	ticker := time.NewTicker(w.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("[CLEANUP] Background worker stopped")
			return
		case now := <-ticker.C:
			w.runCleanup(now)
		}
	}
}

func (w *Worker) runCleanup(now time.Time) {
	if removed := w.Sweeper.CleanupOldSessions(now); removed > 0 {
		log.Printf("[CLEANUP] Removed %d stale sessions", removed)
	}
}
