// Command main is the entry point for the ProjectHub backend server.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"projecthub/internal/config"
	"projecthub/internal/observability"
	"projecthub/internal/server"
)

// @title ProjectHub API
// @version 1.0
// @description Social stream API: accounts, follows, posts, projects and ideas.
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.email support@projecthub.dev

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8375
// @BasePath /api
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		observability.Logger.Fatal().Err(err).Msg("Failed to load configuration")
	}

	observability.InitLogger(cfg.LogLevel, cfg.Env)

	shutdownTracing, err := observability.InitTracing(observability.TracingConfig{
		ServiceName:    "projecthub-api",
		ServiceVersion: "1.0",
		Environment:    cfg.Env,
		Enabled:        cfg.TracingEnabled,
		Exporter:       cfg.TracingExporter,
		OTLPEndpoint:   cfg.OTLPEndpoint,
		SamplerRatio:   cfg.TracingSampleRatio,
	})
	if err != nil {
		observability.Logger.Fatal().Err(err).Msg("Failed to initialize tracing")
	}

	srv, err := server.NewServer(context.Background(), cfg)
	if err != nil {
		observability.Logger.Fatal().Err(err).Msg("Failed to create server")
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		observability.Logger.Info().Msg("Shutting down server...")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			observability.Logger.Error().Err(err).Msg("Server shutdown error")
		}
		if err := shutdownTracing(ctx); err != nil {
			observability.Logger.Error().Err(err).Msg("Tracer shutdown error")
		}
	}()

	if err := srv.Start(); err != nil {
		observability.Logger.Fatal().Err(err).Msg("Server stopped")
	}
}
