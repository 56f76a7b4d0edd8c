package daemon

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/salarkhan2003/OLTECH-AI/internal/config"
)

// sweep retries documents whose deletion was interrupted until ctx is done.
func (d *Daemon) sweep(ctx context.Context) {
	interval := d.cfg.Workspace.PurgeInterval
	if interval <= 0 {
		interval = config.DefaultPurgeInterval
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			d.purge(ctx)
		}
	}
}

func (d *Daemon) purge(ctx context.Context) {
	n, err := d.workspace.PurgePendingDocuments(ctx)
	if err != nil {
		log.Error().Err(err).Int("purged", n).Msg("document purge incomplete")
		return
	}

	if n > 0 {
		log.Info().Int("purged", n).Msg("purged documents pending deletion")
	}
}
