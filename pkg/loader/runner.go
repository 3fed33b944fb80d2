package loader

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"
)

// Runner re-triggers the loader on a fixed interval. No retry or backoff
// beyond the period itself.
type Runner struct {
	loader   *Loader
	interval time.Duration
}

func NewRunner(loader *Loader, interval time.Duration) *Runner {
	return &Runner{loader: loader, interval: interval}
}

// Run loads immediately, then on every tick until ctx is canceled.
func (r *Runner) Run(ctx context.Context) {
	r.loader.Reload(ctx)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Debug("schedule refresh runner stopped")
			return
		case <-ticker.C:
			r.loader.Reload(ctx)
		}
	}
}
