package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/KenthE710/antonella-management-server/internal/config"
	"github.com/KenthE710/antonella-management-server/internal/infra"
	"github.com/KenthE710/antonella-management-server/internal/repository"
	"github.com/KenthE710/antonella-management-server/internal/router"
	"github.com/KenthE710/antonella-management-server/internal/service"
	"github.com/KenthE710/antonella-management-server/internal/worker"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	// Structured logger: pretty console in development, JSON in production
	zerolog.TimeFieldFormat = time.RFC3339
	if cfg.IsProduction() {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	} else {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL, !cfg.IsProduction())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rdb, err := infra.NewRedis(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}

	// Alert emails: low stock after allocations and lots close to expiry.
	// Without SMTP or recipients nothing is enqueued and no worker runs.
	var (
		alertas service.AlertaNotifier
		pool    *worker.Pool
	)
	if cfg.AlertasHabilitadas() {
		dispatcher := worker.NewDispatcher(rdb)
		alertas = dispatcher

		smtpCB := infra.NewCircuitBreaker("smtp", infra.DefaultCBConfig())
		pool = worker.NewPool(rdb, cfg.WorkerPoolSize)
		worker.NewEmailWorker(infra.NewMailer(cfg), smtpCB, cfg.AlertasEmail).Register(pool)
		pool.Start(ctx)

		worker.StartVencimientoCron(ctx, worker.VencimientoCronConfig{
			Lotes:      repository.NewLoteRepository(db),
			Dispatcher: dispatcher,
			RDB:        rdb,
			Dias:       cfg.AlertaVencimientoDias,
			Intervalo:  time.Duration(cfg.CronVencimientoMinutos) * time.Minute,
		})
	} else {
		log.Warn().Msg("alertas por email deshabilitadas: faltan SMTP_HOST o ALERTAS_EMAIL")
	}

	r := router.New(cfg, db, rdb, alertas)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Int("port", cfg.Port).Str("env", cfg.Env).Msg("antonella server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server…")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}

	cancel()
	if pool != nil {
		pool.Wait()
	}
	if err := rdb.Close(); err != nil {
		log.Warn().Err(err).Msg("closing redis")
	}
	log.Info().Msg("server exited")
}
