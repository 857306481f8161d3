package worker

// vencimiento_cron.go
// Background goroutine that periodically looks for lots expiring soon that
// still have uses left and queues one alert per lot per day.

import (
	"context"
	"fmt"
	"time"

	"github.com/KenthE710/antonella-management-server/internal/repository"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const vencimientoDedupPrefix = "alerta:vencimiento:"

type VencimientoCronConfig struct {
	Lotes      repository.LoteRepository
	Dispatcher *Dispatcher
	RDB        *redis.Client
	// Dias is how far ahead of now a fe_exp counts as "about to expire".
	Dias      int
	Intervalo time.Duration
}

// StartVencimientoCron scans once right away and then on every tick until ctx is done.
func StartVencimientoCron(ctx context.Context, cfg VencimientoCronConfig) {
	go func() {
		ticker := time.NewTicker(cfg.Intervalo)
		defer ticker.Stop()

		log.Info().Dur("intervalo", cfg.Intervalo).Msg("vencimiento_cron: started")
		scanVencimientos(ctx, cfg, time.Now())

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("vencimiento_cron: shutting down")
				return
			case t := <-ticker.C:
				scanVencimientos(ctx, cfg, t)
			}
		}
	}()
}

// scanVencimientos returns how many alerts were queued.
func scanVencimientos(ctx context.Context, cfg VencimientoCronConfig, now time.Time) int {
	hasta := now.Add(time.Duration(cfg.Dias) * 24 * time.Hour)
	lotes, err := cfg.Lotes.ProximosAVencer(ctx, now, hasta)
	if err != nil {
		log.Error().Err(err).Msg("vencimiento_cron: failed to query lots")
		return 0
	}

	queued := 0
	dia := now.Format("2006-01-02")
	for _, l := range lotes {
		key := fmt.Sprintf("%s%s:%s", vencimientoDedupPrefix, l.ID, dia)
		first, err := cfg.RDB.SetNX(ctx, key, 1, 25*time.Hour).Result()
		if err != nil {
			log.Error().Err(err).Str("lote_id", l.ID.String()).Msg("vencimiento_cron: dedup failed")
			continue
		}
		if !first {
			continue
		}

		saldo := l.Saldo()
		payload := VencimientoPayload{
			LoteID:     l.ID.String(),
			ProductoID: l.ProductoID.String(),
			Producto:   l.ProductoNombre,
			FeExp:      l.FeExp,
			Restantes:  saldo.Restantes(),
		}
		if err := cfg.Dispatcher.EnqueueVencimiento(ctx, payload); err != nil {
			// release the key so the next tick tries again
			cfg.RDB.Del(ctx, key)
			log.Error().Err(err).Str("lote_id", l.ID.String()).Msg("vencimiento_cron: enqueue failed")
			continue
		}
		queued++
	}
	if queued > 0 {
		log.Info().Int("count", queued).Msg("vencimiento_cron: alerts queued")
	}
	return queued
}
