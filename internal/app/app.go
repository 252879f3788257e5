package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/medovate/clinic-backend/internal/adapter/geoip"
	"github.com/medovate/clinic-backend/internal/adapter/postgres"
	auditrepo "github.com/medovate/clinic-backend/internal/adapter/postgres/audit"
	sessionrepo "github.com/medovate/clinic-backend/internal/adapter/postgres/session"
	staffrepo "github.com/medovate/clinic-backend/internal/adapter/postgres/staff"
	"github.com/medovate/clinic-backend/internal/adapter/rediscache"
	"github.com/medovate/clinic-backend/internal/alert"
	"github.com/medovate/clinic-backend/internal/auth"
	"github.com/medovate/clinic-backend/internal/config"
	"github.com/medovate/clinic-backend/internal/crypto"
	"github.com/medovate/clinic-backend/internal/domain"
	auditsvc "github.com/medovate/clinic-backend/internal/service/audit"
	identitysvc "github.com/medovate/clinic-backend/internal/service/identity"
	sessionsvc "github.com/medovate/clinic-backend/internal/service/session"
	threatsvc "github.com/medovate/clinic-backend/internal/service/threat"
	"github.com/medovate/clinic-backend/internal/transport/middleware"
	"github.com/medovate/clinic-backend/internal/transport/rest"
)

// sessionCache and geoResolver mirror the session service's optional
// collaborators. Declaring them here keeps the wiring nil-safe: a disabled
// adapter is passed as a true nil interface, never a typed nil pointer.
type sessionCache interface {
	Get(ctx context.Context, token string) (*domain.Session, error)
	Set(ctx context.Context, session *domain.Session) error
	Delete(ctx context.Context, token string) error
}

type geoResolver interface {
	Lookup(ctx context.Context, ip string) (*domain.GeoInfo, error)
}

// Run is the application entry point. It loads configuration, wires the
// storage adapters and services, and serves HTTP until ctx is cancelled,
// then shuts down gracefully.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)

	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
	)

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	cipher, err := crypto.NewFieldCipher(cfg.Encryption.MasterSecret)
	if err != nil {
		return fmt.Errorf("init field cipher: %w", err)
	}

	var cache sessionCache
	if cfg.Redis.Addr != "" {
		client, err := rediscache.NewClient(ctx, cfg.Redis)
		if err != nil {
			return fmt.Errorf("connect to redis: %w", err)
		}
		defer client.Close()
		cache = rediscache.NewSessionCache(client, cfg.Redis.TTL)
	} else {
		logger.Info("session cache disabled, validation uses the store")
	}

	var geo geoResolver
	if cfg.GeoIP.BaseURL != "" {
		geo = geoip.NewResolver(cfg.GeoIP.BaseURL, cfg.GeoIP.Timeout, logger)
	}

	// Services. The audit trail has no upstream dependencies; sessions and
	// the threat monitor both record into it.
	auditService := auditsvc.NewService(logger, auditrepo.New(pool), cfg.Audit)
	sessionService := sessionsvc.NewService(logger, sessionrepo.New(pool), cache, geo, auditService,
		postgres.NewTxManager(pool), cfg.Session)
	identityService := identitysvc.NewService(logger, staffrepo.New(pool, cipher), auditService, cfg.Auth)

	threatMetrics := threatsvc.NewMetrics(prometheus.DefaultRegisterer)
	monitor := threatsvc.NewMonitor(logger, cfg.Threat,
		sessionService, alert.NewSlogNotifier(logger), auditService, threatMetrics)

	jwtManager := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.AccessTokenTTL)

	// HTTP transport.
	authHandler := rest.NewAuthHandler(identityService, sessionService, jwtManager, monitor, logger)
	adminHandler := rest.NewAdminHandler(auditService, monitor, sessionService, logger)
	healthHandler := rest.NewHealthHandler(pool, BuildVersion())

	router := rest.NewRouter(rest.RouterDeps{
		Auth:        authHandler,
		Admin:       adminHandler,
		Health:      healthHandler,
		Metrics:     promhttp.Handler(),
		RequireAuth: middleware.RequireAuth,
	})

	rateLimiter := middleware.NewRateLimiter(time.Minute)
	defer rateLimiter.Stop()

	// Order matters: request id and logging wrap everything, auth resolves
	// the identity, and the threat screen runs last so it sees the session.
	handler := middleware.Chain(
		middleware.RequestID,
		middleware.Logger(logger),
		middleware.Recovery(logger),
		middleware.CORS(cfg.CORS),
		rateLimiter.Limit(cfg.Server.RateLimitPerIP),
		middleware.Auth(jwtManager, sessionService),
		middleware.Security(monitor),
	)(router)

	server := &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down", slog.Duration("timeout", cfg.Server.ShutdownTimeout))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}

	logger.Info("shutdown complete")
	return nil
}
