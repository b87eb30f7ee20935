package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"winedash/internal/cfg"
	"winedash/internal/controller"
	"winedash/internal/metrics"
	"winedash/internal/predict"
	"winedash/internal/web"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	c, err := cfg.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}
	setupLogging(c.LogLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	m := metrics.New()
	mw := metrics.NewWrapper(m)

	endpoint, err := c.ResolveEndpoint()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid prediction endpoint")
	}
	client := predict.New(endpoint, c.RequestTimeout)
	ctrl := controller.New(client, mw)

	startMetricsServer(ctx, c)

	server, err := web.NewServer(ctrl, mw, c)
	if err != nil {
		log.Fatal().Err(err).Msg("dashboard server setup failed")
	}
	if err := server.Start(); err != nil {
		log.Fatal().Err(err).Msg("dashboard server start failed")
	}

	log.Info().
		Str("endpoint", endpoint).
		Int("port", c.ListenPort).
		Msg("wine quality dashboard ready")

	waitForShutdown(ctx, cancel, server)
}

func setupLogging(level string) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
}

// startMetricsServer starts the Prometheus metrics HTTP server.
func startMetricsServer(ctx context.Context, c cfg.Settings) {
	go func() {
		mux := http.NewServeMux()

		mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("OK"))
		})
		mux.Handle("/metrics", promhttp.Handler())

		server := &http.Server{
			Addr:              fmt.Sprintf(":%d", c.MetricsPort),
			Handler:           mux,
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       30 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       60 * time.Second,
		}

		go func() {
			<-ctx.Done()
			if err := server.Shutdown(context.Background()); err != nil {
				log.Error().Err(err).Msg("failed to shutdown metrics server")
			}
		}()

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("metrics server failed")
		}
	}()
}

// waitForShutdown waits for a shutdown signal and stops the dashboard server.
func waitForShutdown(ctx context.Context, cancel context.CancelFunc, server *web.Server) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case <-sigChan:
		log.Info().Msg("shutdown signal received")
	case <-ctx.Done():
		log.Info().Msg("context canceled")
	}

	cancel()
	if err := server.Stop(); err != nil {
		log.Warn().Err(err).Msg("dashboard server shutdown failed")
	}
	log.Info().Msg("shutdown complete")
}
