package worker

// sweep_cron.go
// Background goroutine that periodically enqueues audit jobs for every
// entity with recent ledger activity. Catches drift introduced outside
// the normal write path (manual SQL, partial restores) that the
// per-write audit never sees.

import (
	"context"
	"time"

	"github.com/breightend/Mykonos-os-sub001/internal/repository"

	"github.com/rs/zerolog/log"
)

const (
	sweepTickInterval = 15 * time.Minute
	sweepLookback     = 24 * time.Hour
	sweepBatchSize    = 100
)

// SweepConfig holds all dependencies for the sweep goroutine.
type SweepConfig struct {
	EntidadRepo repository.EntidadRepository
	Dispatcher  *Dispatcher
}

// StartSweepCron launches a background goroutine that ticks every 15m
// and enqueues one audit job per recently active entity. It respects
// the context for graceful shutdown.
func StartSweepCron(ctx context.Context, cfg SweepConfig) {
	go func() {
		ticker := time.NewTicker(sweepTickInterval)
		defer ticker.Stop()

		log.Info().Msg("sweep_cron: started")

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("sweep_cron: shutting down")
				return
			case <-ticker.C:
				processSweep(ctx, cfg)
			}
		}
	}()
}

func processSweep(ctx context.Context, cfg SweepConfig) {
	cutoff := time.Now().Add(-sweepLookback)
	ids, err := cfg.EntidadRepo.ListConMovimientosDesde(ctx, cutoff, sweepBatchSize)
	if err != nil {
		log.Error().Err(err).Msg("sweep_cron: failed to query active entities")
		return
	}
	if len(ids) == 0 {
		return
	}

	log.Info().Int("count", len(ids)).Msg("sweep_cron: enqueuing audit jobs")
	for _, id := range ids {
		payload := AuditoriaJobPayload{EntidadID: id.String()}
		if err := cfg.Dispatcher.EnqueueAuditoria(ctx, payload); err != nil {
			log.Warn().Err(err).Str("entidad_id", id.String()).Msg("sweep_cron: enqueue failed")
		}
	}
}
