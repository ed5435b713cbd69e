package cli

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Lixing-Zhang/restaurant-pos/internal/handlers"
	"github.com/Lixing-Zhang/restaurant-pos/internal/service"
	"github.com/Lixing-Zhang/restaurant-pos/internal/web"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// sessionPurgeInterval is how often expired sessions are deleted
const sessionPurgeInterval = 10 * time.Minute

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := newApp(ctx, rootOpts, cmd.OutOrStdout(), false)
			if err != nil {
				return err
			}
			defer a.Close()

			slog.SetDefault(a.log)
			return runServe(ctx, a)
		},
	}
}

// runServe serves HTTP until ctx is cancelled, then shuts down gracefully
func runServe(ctx context.Context, a *app) error {
	cfg := a.cfg
	log := a.log

	pages, err := web.NewRenderer()
	if err != nil {
		return err
	}

	auth := service.NewAuthService(a.store, cfg.Session.TTL, log)
	router := handlers.NewRouter(handlers.RouterConfig{
		Orders:    service.NewOrderService(a.store, log),
		Products:  service.NewProductService(a.store, log),
		Dashboard: service.NewDashboardService(a.store),
		Auth:      auth,
		Pages:     pages,
		DB:        a.store,
		Cookie: handlers.CookieOptions{
			Name:   cfg.Session.CookieName,
			Secure: cfg.Session.CookieSecure,
		},
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		RequestTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		Logger:         log,
	})

	addr := net.JoinHostPort(cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}

	log.Info("starting pos server",
		"address", ln.Addr().String(),
		"driver", a.store.Driver(),
		"log_level", cfg.LogLevel,
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("server forced to shutdown", "error", err)
			return err
		}
		return nil
	})

	g.Go(func() error {
		purgeSessions(gctx, auth, sessionPurgeInterval, log)
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}

	log.Info("server stopped gracefully")
	return nil
}

// purgeSessions deletes expired sessions every interval until ctx is done
func purgeSessions(ctx context.Context, auth *service.AuthService, interval time.Duration, log *slog.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := auth.PurgeExpired(ctx); err != nil && ctx.Err() == nil {
				log.Warn("failed to purge expired sessions", "error", err)
			}
		}
	}
}
