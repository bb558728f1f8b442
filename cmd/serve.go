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

	"github.com/sdi-labs/tubewise/internal/auth"
	"github.com/sdi-labs/tubewise/internal/repositories"
	"github.com/sdi-labs/tubewise/internal/server"
	"github.com/sdi-labs/tubewise/internal/services"
	"github.com/sdi-labs/tubewise/internal/shared"
	"github.com/urfave/cli/v3"
)

func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the backend HTTP server",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
			&cli.IntFlag{
				Name:  "port",
				Usage: "Override the configured listen port",
			},
		},
		Action: r.Serve,
	}
}

// Serve wires the credential store, the OAuth flow, and the API handlers,
// then runs the HTTP server until interrupted.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	config := r.config
	configPath := cmd.String("config")
	if _, err := os.Stat(configPath); err == nil {
		if loaded, err := shared.LoadConfig(configPath); err == nil {
			config = loaded
		} else {
			r.logger.Warn("failed to load config, using defaults", "error", err)
		}
	}
	if port := cmd.Int("port"); port != 0 {
		config.Server.Port = port
	}

	db, err := shared.NewDatabase(config.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	shared.ConfigureDatabase(db, config.Database.MaxOpenConns, config.Database.MaxIdleConns)

	if err := shared.RunMigrations(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	creds := repositories.NewCredentialRepository(db)
	youtube := services.NewYouTubeService("", r.httpClient)
	gemini := services.NewGeminiService("", r.httpClient, creds, config.Defaults.GeminiAPIKey)

	factory := auth.NewClientFactory(creds, config.Server.BaseURL)
	states := auth.NewStateSigner(config.Auth.StateSecret, time.Duration(config.Auth.StateTTLMinutes)*time.Minute)
	sessions := auth.NewMemorySessionStore()
	flow := auth.NewFlow(factory, states, sessions, youtube, shared.WithLogger(r.logger, "component", "auth"))

	router := server.NewBasicRouter()
	router.Use(
		server.Recover(r.logger),
		server.Logging(r.logger),
		server.CORS(config.Server.CORSOrigin),
		server.RateLimit(config.Limits.RequestsPerSecond, config.Limits.Burst),
	)

	for _, handler := range []server.Handler{
		server.NewAuthHandler(flow, config.Server.FrontendURL, shared.WithLogger(r.logger, "handler", "auth")),
		server.NewKeysHandler(creds, config.Defaults, gemini, youtube, shared.WithLogger(r.logger, "handler", "keys")),
		server.NewOptimizeHandler(gemini, shared.WithLogger(r.logger, "handler", "optimize")),
		server.NewAnalyticsHandler(server.NewTracker()),
		server.NewHealthHandler(),
	} {
		router.Handler(handler)
	}

	if config.Server.StaticDir != "" {
		router.Handle("GET /", http.FileServer(http.Dir(config.Server.StaticDir)))
	}

	srv := &http.Server{
		Addr:              config.Server.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		r.logger.Info("server listening", "addr", srv.Addr, "base_url", config.Server.BaseURL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	r.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}

	return nil
}
