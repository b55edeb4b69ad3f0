package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/sethvargo/go-envconfig"
	"github.com/spf13/cobra"

	"github.com/medicare/portal/internal/api"
	"github.com/medicare/portal/internal/api/middleware"
	"github.com/medicare/portal/internal/core/ports"
	"github.com/medicare/portal/internal/core/service"
	"github.com/medicare/portal/internal/infrastructure/db/memory"
	mongodb "github.com/medicare/portal/internal/infrastructure/db/mongo"
	redisdb "github.com/medicare/portal/internal/infrastructure/db/redis"
	"github.com/medicare/portal/internal/infrastructure/gateway"
	"github.com/medicare/portal/internal/infrastructure/http/handlers"
	"github.com/medicare/portal/internal/infrastructure/queue"
	"github.com/medicare/portal/internal/pkg/config"
	"github.com/medicare/portal/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

// @title                       MediCare Portal API
// @version                     1.0
// @description                 Backend-for-frontend of the MediCare portal: sessions, role routing and dashboard actions.
// @securityDefinitions.apikey  SessionCookie
// @in                          cookie
// @name                        medicare_session
func main() {
	rootCmd := &cobra.Command{
		Use:   "portal",
		Short: "MediCare portal backend-for-frontend",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(routesCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the portal server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func routesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "routes",
		Short: "Print the registered routes",
		RunE: func(cmd *cobra.Command, args []string) error {
			return printRoutes(cmd.OutOrStdout())
		},
	}
}

// printRoutes lists method and path of every route. No backend is contacted.
func printRoutes(w io.Writer) error {
	e := api.NewRouter(api.Deps{Log: zerolog.Nop()})
	routes := e.Routes()
	sort.Slice(routes, func(i, j int) bool {
		if routes[i].Path == routes[j].Path {
			return routes[i].Method < routes[j].Method
		}
		return routes[i].Path < routes[j].Path
	})
	for _, r := range routes {
		if r.Method == echo.RouteNotFound {
			continue
		}
		if _, err := fmt.Fprintf(w, "%-7s %s\n", r.Method, r.Path); err != nil {
			return err
		}
	}
	return nil
}

// backend bundles the persistence chosen by SESSION_BACKEND.
type backend struct {
	sessions ports.SessionRepository
	drafts   ports.DraftRepository
	close    func(ctx context.Context)
}

func openBackend(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*backend, error) {
	switch cfg.Session.Backend {
	case config.BackendRedis:
		rdb, err := redisdb.Connect(ctx, redisdb.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return nil, err
		}
		log.Info().Str("addr", cfg.Redis.Addr).Msg("connected to redis")
		return &backend{
			sessions: redisdb.NewSessionRepository(rdb),
			drafts:   redisdb.NewDraftRepository(rdb, cfg.Session.DraftTTL),
			close:    func(context.Context) { _ = rdb.Close() },
		}, nil

	case config.BackendMongo:
		client, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return nil, err
		}
		sessions := mongodb.NewSessionRepository(db)
		drafts := mongodb.NewDraftRepository(db, cfg.Session.DraftTTL)
		if err := errors.Join(sessions.EnsureIndexes(ctx), drafts.EnsureIndexes(ctx)); err != nil {
			_ = client.Disconnect(ctx)
			return nil, err
		}
		log.Info().Str("database", cfg.Mongo.Database).Msg("connected to mongodb")
		return &backend{
			sessions: sessions,
			drafts:   drafts,
			close:    func(ctx context.Context) { _ = client.Disconnect(ctx) },
		}, nil

	default:
		log.Warn().Msg("using in-memory sessions; sessions are lost on restart and not shared between replicas")
		return &backend{
			sessions: memory.NewSessionRepository(),
			drafts:   memory.NewDraftRepository(cfg.Session.DraftTTL),
			close:    func(context.Context) {},
		}, nil
	}
}

func runServer() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Config
	cfg, err := config.LoadWith(ctx, envconfig.OsLookuper())
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	// Logger
	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: cfg.IsDev(), Service: "medicare-portal"})

	// Session persistence
	be, err := openBackend(ctx, cfg, log)
	if err != nil {
		log.Error().Err(err).Str("backend", cfg.Session.Backend).Msg("failed to open session backend")
		return err
	}
	defer func() {
		closeCtx, closeCancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer closeCancel()
		be.close(closeCtx)
	}()

	// Session store and its listeners
	dispatcher := queue.NewDispatcher(cfg.Session.EventWorkers, log)
	dispatcher.Start(ctx)

	store := service.NewSessionStore(be.sessions, dispatcher, cfg.Session.TTL, log)
	store.Subscribe(service.DraftCleanup(be.drafts, logger.Component("drafts")))
	store.Subscribe(service.AuditLog(logger.Component("audit")))
	tokens := service.NewSessionTokens(cfg.Session.Secret, cfg.Session.TTL)

	// Backend services
	registry, err := gateway.NewRegistry(cfg.Services.ByBackend(), cfg.Gateway.Timeout, store, logger.Component("gateway"))
	if err != nil {
		return err
	}

	router := service.NewRoleRouter(nil)
	e := api.NewRouter(api.Deps{
		Log: log,
		Cookie: middleware.Cookie{
			Name:   cfg.Session.CookieName,
			Secure: cfg.Session.CookieSecure,
			TTL:    cfg.Session.TTL,
		},
		Tokens:     tokens,
		Store:      store,
		Router:     router,
		Auth:       service.NewAuthService(registry, store, log),
		Dashboards: service.NewDashboardService(registry),
		Clinical:   service.NewClinicalService(registry),
		Booking:    service.NewBookingService(registry, be.drafts, loc, log),
		Admin:      service.NewAdminService(registry, be.drafts, log),
		Chat:       service.NewChatService(registry, store, log),
		Readiness: map[string]handlers.Pinger{
			"sessions": be.sessions,
		},
	})

	go func() {
		log.Info().Str("port", cfg.Port).Str("session_backend", cfg.Session.Backend).Msg("starting portal")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
		return err
	}
	log.Info().Msg("server stopped")
	return nil
}
