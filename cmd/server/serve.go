package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"connectrpc.com/connect"
	"github.com/spf13/cobra"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mmynk/familysafe/internal/auth"
	"github.com/mmynk/familysafe/internal/config"
	"github.com/mmynk/familysafe/internal/metrics"
	"github.com/mmynk/familysafe/internal/middleware"
	"github.com/mmynk/familysafe/internal/payout"
	"github.com/mmynk/familysafe/internal/safe"
	"github.com/mmynk/familysafe/internal/service"
	"github.com/mmynk/familysafe/internal/storage/sqlite"
	"github.com/mmynk/familysafe/pkg/api/apiconnect"
	"github.com/mmynk/familysafe/pkg/logging"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd() *cobra.Command {
	var port int
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the Connect API server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("port") {
				cfg.Port = port
				if err := cfg.Validate(); err != nil {
					return err
				}
			}
			logging.Setup(cfg.LogLevel)

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg)
		},
	}
	cmd.Flags().IntVar(&port, "port", 0, "listen port (overrides FAMILYSAFE_PORT)")
	return cmd
}

func serve(ctx context.Context, cfg config.Config) error {
	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", cfg.DBPath)

	var transferer safe.Transferer = payout.Log{}
	if cfg.PayoutURL != "" {
		transferer = payout.NewWebhook(cfg.PayoutURL, http.DefaultClient, cfg.PayoutTimeout)
		slog.Info("Payouts go to webhook", "url", cfg.PayoutURL)
	}

	m := metrics.New()
	s, err := safe.New(ctx, cfg.Founders(),
		safe.WithLedger(store),
		safe.WithTransferer(transferer),
		safe.WithObserver(m.Observe),
	)
	if err != nil {
		return fmt.Errorf("failed to open safe: %w", err)
	}
	m.Set(s.Snapshot())

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)
	authenticator := auth.NewPasswordAuthenticator(store)

	mux := http.NewServeMux()

	// Auth runs first so the logging interceptor sees the caller
	safePath, safeHandler := apiconnect.NewSafeServiceHandler(
		service.NewSafeService(s, store, m),
		connect.WithInterceptors(
			middleware.OptionalAuth(jwtManager),
			middleware.LoggingInterceptor(),
		),
	)
	mux.Handle(safePath, safeHandler)

	// Registration needs an operator-issued token for the address
	authPath, authHandler := apiconnect.NewAuthServiceHandler(
		service.NewAuthService(authenticator, jwtManager, store, slog.Default()),
		connect.WithInterceptors(
			middleware.RequireAuth(jwtManager,
				apiconnect.AuthServiceRegisterProcedure,
				apiconnect.AuthServiceGetCurrentAccountProcedure,
			),
			middleware.LoggingInterceptor(),
		),
	)
	mux.Handle(authPath, authHandler)

	mux.Handle("/metrics", m.Handler())

	// Wrap with h2c for HTTP/2 without TLS (required for Connect)
	handler := h2c.NewHandler(loggingMiddleware(corsMiddleware(mux)), &http2.Server{})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Connect server starting", "address", srv.Addr, "url", fmt.Sprintf("http://localhost%s", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	slog.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// loggingMiddleware logs all incoming requests
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		slog.Debug("Request received",
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
			"user_agent", r.UserAgent(),
		)

		next.ServeHTTP(w, r)

		slog.Debug("Request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

// corsMiddleware adds CORS headers for browser access
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type, Connect-Protocol-Version, Connect-Timeout-Ms")
		w.Header().Set("Access-Control-Expose-Headers", "Connect-Protocol-Version, Connect-Timeout-Ms")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
