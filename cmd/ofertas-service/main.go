package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Cheertaboi/ofertas-service/internal/api"
	"github.com/Cheertaboi/ofertas-service/internal/repository"
	"github.com/Cheertaboi/ofertas-service/internal/service"
	"github.com/Cheertaboi/ofertas-service/pkg/clock"
	"github.com/Cheertaboi/ofertas-service/pkg/db"
)

var version = "dev"

func main() {
	cfg, err := db.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	setupLogger(cfg)

	ctx := context.Background()
	conn, dialect, err := db.Open(ctx, cfg.DatabaseURL, cfg.MaxOpenConns)
	if err != nil {
		log.Fatal().Err(err).Msg("db connect")
	}
	defer conn.Close()

	svc := service.NewOfferService(repository.NewOfferRepo(conn, dialect), clock.Real{})
	handler := api.NewRouter(svc, api.Options{
		Production: cfg.IsProduction(),
		CORSOrigin: cfg.CORSOrigin,
		Version:    version,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// graceful shutdown
	idleConnsClosed := make(chan struct{})
	go func() {
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.Error().Err(err).Msg("http server shutdown")
		}
		close(idleConnsClosed)
	}()

	log.Info().
		Str("addr", srv.Addr).
		Str("dialect", string(dialect)).
		Str("env", cfg.AppEnv).
		Str("version", version).
		Msg("starting ofertas-service")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("listen")
	}

	<-idleConnsClosed
	log.Info().Msg("server stopped")
}

func setupLogger(cfg db.Config) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339

	if !cfg.IsProduction() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
}
