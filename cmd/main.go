package main

//
//  @title           neopulse API
//  @version         1.0
//  @description     Near-earth object ingestion pipeline and daily aggregate read API.
//  @termsOfService  https://github.com/guttosm/neopulse
//  @contact.name    API Support
//  @contact.url     https://github.com/guttosm/neopulse
//  @license.name    MIT
//  @license.url     https://opensource.org/licenses/MIT
//  @host            localhost:8080
//  @BasePath        /
//  @schemes         http
//
//  @tag.name        neos
//  @tag.description Daily near-earth object aggregates
//
//  @tag.name        health
//  @tag.description Liveness and readiness probes

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-lambda-go/lambda"

	"github.com/guttosm/neopulse/config"
	_ "github.com/guttosm/neopulse/docs" // swagger docs
	"github.com/guttosm/neopulse/internal/app"
	"github.com/guttosm/neopulse/internal/archive"
	"github.com/guttosm/neopulse/internal/logger"
	"github.com/guttosm/neopulse/internal/storage"
)

// Execution modes.
const (
	modeRun          = "run"
	modeLambda       = "lambda"
	modeAPI          = "api"
	modeClearArchive = "clear-archive"
	modePurgeExpired = "purge-expired"
)

// startServer initializes and starts the HTTP server in a separate goroutine.
//
// Parameters:
//   - router (http.Handler): The HTTP router (Gin Engine) configured with all routes.
//   - port (string): The port where the server will listen for incoming requests.
//
// Returns:
//   - *http.Server: The initialized HTTP server instance.
func startServer(router http.Handler, port string) *http.Server {
	server := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.L().Info().Str("port", port).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.L().Fatal().Err(err).Msg("server failed to start")
		}
	}()

	return server
}

// gracefulShutdown gracefully terminates the HTTP server and cleans up resources
// when an OS interrupt signal (SIGINT, SIGTERM) is received.
//
// Parameters:
//   - ctx (context.Context): A context with timeout for graceful shutdown.
//   - server (*http.Server): The HTTP server instance to shut down.
//   - cleanup (func()): Cleanup callback to release resources (e.g., DB connections).
func gracefulShutdown(ctx context.Context, server *http.Server, cleanup func()) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	<-quit
	logger.L().Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.L().Fatal().Err(err).Msg("server forced to shutdown")
	}

	cleanup()
	logger.L().Info().Msg("server exited gracefully")
}

// defaultMode picks lambda inside the Lambda runtime and run everywhere else.
func defaultMode() string {
	if os.Getenv("AWS_LAMBDA_RUNTIME_API") != "" {
		return modeLambda
	}
	return modeRun
}

// main is the entry point of the neopulse application.
//
// Modes (selected via --mode flag):
//   - run:           One pipeline invocation; exit code 0 on success, 1 on failure.
//   - lambda:        Serves the pipeline as an AWS Lambda handler (default inside the Lambda runtime).
//   - api:           Starts the REST API exposing stored daily aggregates.
//   - clear-archive: Deletes every object in the archive bucket.
//   - purge-expired: Deletes expired records from stores without native TTL.
//
// Flags:
//   - --mode: Execution mode. Default: "run" (or "lambda" when AWS_LAMBDA_RUNTIME_API is set).
//   - --port: Port for the API server. Defaults to value from config (SERVER_PORT).
func main() {
	mode := flag.String("mode", defaultMode(), "Mode: run, lambda, api, clear-archive or purge-expired")
	port := flag.String("port", "", "Port for API mode (defaults to SERVER_PORT)")
	flag.Parse()

	// Load configuration from environment or .env file
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.L().Fatal().Err(err).Msg("invalid configuration")
	}

	// Initialize JSON logger
	logger.Init(cfg.Log.Level, cfg.Log.Pretty)

	if *port != "" {
		cfg.Server.Port = *port
	}

	os.Exit(execute(context.Background(), *mode, cfg))
}

// execute dispatches one mode and returns the process exit code.
func execute(ctx context.Context, mode string, cfg config.Config) int {
	log := logger.L().With().Str("mode", mode).Logger()

	switch mode {
	case modeRun:
		p, cleanup, err := app.NewPipeline(ctx, cfg)
		if err != nil {
			log.Error().Err(err).Msg("pipeline init error")
			return 1
		}
		defer cleanup()

		res := p.Invoke(ctx)
		log.Info().Int("status_code", res.StatusCode).Str("body", res.Body).Msg("run finished")
		if res.StatusCode != http.StatusOK {
			return 1
		}
		return 0

	case modeLambda:
		p, cleanup, err := app.NewPipeline(ctx, cfg)
		if err != nil {
			log.Error().Err(err).Msg("pipeline init error")
			return 1
		}
		defer cleanup()

		lambda.Start(p.HandleEvent)
		return 0

	case modeAPI:
		log.Info().Msg("starting API server")

		router, cleanup, err := app.InitializeApp(cfg)
		if err != nil {
			log.Error().Err(err).Msg("app init error")
			return 1
		}

		server := startServer(router, cfg.Server.Port)
		gracefulShutdown(ctx, server, cleanup)
		return 0

	case modeClearArchive:
		store, err := app.NewArchiveStore(ctx, cfg)
		if err != nil {
			log.Error().Err(err).Msg("archive init error")
			return 1
		}
		defer func() { _ = store.Close() }()

		if _, err := archive.Clear(ctx, store, cfg.Archive.Bucket); err != nil {
			log.Error().Err(err).Msg("clear archive failed")
			return 1
		}
		return 0

	case modePurgeExpired:
		repo, cleanup, err := app.NewRecordsRepository(ctx, cfg)
		if err != nil {
			log.Error().Err(err).Msg("records init error")
			return 1
		}
		defer cleanup()

		expirer, ok := repo.(storage.Expirer)
		if !ok {
			log.Info().Str("backend", cfg.Records.Backend).Msg("backend expires records natively; nothing to purge")
			return 0
		}
		n, err := expirer.DeleteExpired(ctx, time.Now())
		if err != nil {
			log.Error().Err(err).Msg("purge failed")
			return 1
		}
		log.Info().Int64("deleted", n).Msg("expired records purged")
		return 0

	default:
		log.Error().Msg("unknown mode")
		return 2
	}
}
