// main package for the tts-api service.
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

	"github.com/book-expert/logger"
	"github.com/joho/godotenv"
	natsserver "github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"

	"github.com/book-expert/tts-api/internal/artifact"
	"github.com/book-expert/tts-api/internal/config"
	"github.com/book-expert/tts-api/internal/engine"
	"github.com/book-expert/tts-api/internal/metrics"
	"github.com/book-expert/tts-api/internal/server"
	"github.com/book-expert/tts-api/internal/synth"
	"github.com/book-expert/tts-api/internal/voices"
	"github.com/book-expert/tts-api/internal/worker"
)

const (
	logFileName       = "tts-api.log"
	natsReadyTimeout  = 10 * time.Second
	shutdownTimeout   = 15 * time.Second
	readHeaderTimeout = 10 * time.Second
)

func setupLogger(logPath string) (*logger.Logger, error) {
	log, err := logger.New(logPath, logFileName)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	return log, nil
}

// connectNATS connects to the configured NATS URL, or starts an embedded
// in-process server when none is configured, keeping the service a single
// process.
func connectNATS(cfg *config.Config, log *logger.Logger) (*nats.Conn, func(), error) {
	url := cfg.NATS.URL
	shutdown := func() {}

	if url == "" {
		embedded, err := natsserver.NewServer(&natsserver.Options{
			Host:   "127.0.0.1",
			Port:   natsserver.RANDOM_PORT,
			NoLog:  true,
			NoSigs: true,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create embedded NATS server: %w", err)
		}

		go embedded.Start()

		if !embedded.ReadyForConnections(natsReadyTimeout) {
			embedded.Shutdown()

			return nil, nil, errors.New("embedded NATS server did not become ready")
		}

		url = embedded.ClientURL()
		shutdown = embedded.Shutdown

		log.Info("Embedded NATS server listening on %s", url)
	}

	conn, err := nats.Connect(url)
	if err != nil {
		shutdown()

		return nil, nil, fmt.Errorf("failed to connect to NATS at %s: %w", url, err)
	}

	return conn, shutdown, nil
}

func run() error {
	// Bootstrap logger for the startup phase; the final logger location is
	// only known after configuration is loaded.
	bootstrapLog, err := setupLogger(os.TempDir())
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: Failed to create bootstrap logger: %v\n", err)

		return err
	}

	// Best-effort .env loading; real environments set variables directly.
	_ = godotenv.Load()

	cfg, err := config.Load(bootstrapLog)
	if err != nil {
		bootstrapLog.Error("Failed to load configuration: %v", err)

		return fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := setupLogger(cfg.Paths.BaseLogsDir)
	if err != nil {
		bootstrapLog.Error("Failed to create final logger: %v", err)

		return fmt.Errorf("failed to create final logger: %w", err)
	}

	defer func() {
		closeErr := log.Close()
		if closeErr != nil {
			fmt.Fprintf(os.Stderr, "error closing logger: %v\n", closeErr)
		}
	}()

	return serve(cfg, log)
}

func serve(cfg *config.Config, log *logger.Logger) error {
	store, err := artifact.New(cfg.Paths.OutputDir, log)
	if err != nil {
		return fmt.Errorf("failed to initialize artifact store: %w", err)
	}

	natsConnection, natsShutdown, err := connectNATS(cfg, log)
	if err != nil {
		return err
	}

	defer natsShutdown()
	defer natsConnection.Close()

	registry := voices.New()
	serviceMetrics := metrics.New()
	cleanupInterval := time.Duration(cfg.TTS.CleanupIntervalSeconds) * time.Second

	scheduler := worker.NewScheduler(
		natsConnection,
		cfg.NATS.SweepSubject,
		cleanupInterval,
		log,
	)

	sweepWorker, err := worker.NewSweepWorker(
		natsConnection,
		cfg.NATS.SweepSubject,
		store,
		serviceMetrics,
		log,
	)
	if err != nil {
		return fmt.Errorf("failed to create sweep worker: %w", err)
	}

	engineClient := engine.New(
		cfg.Engine.URL,
		time.Duration(cfg.Engine.TimeoutSeconds)*time.Second,
	)

	orchestrator := synth.New(
		registry,
		store,
		engineClient,
		scheduler,
		serviceMetrics,
		cfg.TTS.MaxTextLength,
		cfg.TTS.BatchWorkers,
		log,
	)

	apiServer := server.New(
		orchestrator,
		store,
		registry,
		serviceMetrics,
		cleanupInterval,
		log,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	workerErrChan := make(chan error, 1)

	go func() {
		workerErrChan <- sweepWorker.Run(ctx)
	}()

	httpServer := &http.Server{
		Addr:              cfg.ListenAddr(),
		Handler:           apiServer.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	serveErrChan := make(chan error, 1)

	go func() {
		serveErrChan <- httpServer.ListenAndServe()
	}()

	log.System(
		"TTS API listening on %s (output: %s, engine: %s)",
		cfg.ListenAddr(),
		cfg.Paths.OutputDir,
		cfg.Engine.URL,
	)

	select {
	case serveErr := <-serveErrChan:
		return fmt.Errorf("HTTP server failed: %w", serveErr)
	case <-ctx.Done():
	}

	log.System("Shutdown signal received, draining...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	shutdownErr := httpServer.Shutdown(shutdownCtx)
	if shutdownErr != nil {
		return fmt.Errorf("failed to shut down HTTP server: %w", shutdownErr)
	}

	workerErr := <-workerErrChan
	if workerErr != nil {
		log.Error("Sweep worker exited with error: %v", workerErr)
	}

	return nil
}

func main() {
	err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Service exited with error: %v\n", err)
		os.Exit(1)
	}
}
