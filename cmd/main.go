package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc/health"

	grpchealth "github.com/dtroode/bookshop-server/internal/api/grpc/health"
	grpcrouter "github.com/dtroode/bookshop-server/internal/api/grpc/router"
	grpcserver "github.com/dtroode/bookshop-server/internal/api/grpc/server"
	httpctx "github.com/dtroode/bookshop-server/internal/api/http/context"
	httprouter "github.com/dtroode/bookshop-server/internal/api/http/router"
	httpserver "github.com/dtroode/bookshop-server/internal/api/http/server"
	"github.com/dtroode/bookshop-server/internal/config"
	"github.com/dtroode/bookshop-server/internal/logger"
	"github.com/dtroode/bookshop-server/internal/metrics"
	"github.com/dtroode/bookshop-server/internal/model"
	"github.com/dtroode/bookshop-server/internal/password"
	"github.com/dtroode/bookshop-server/internal/repository/memory"
	"github.com/dtroode/bookshop-server/internal/repository/postgres"
	"github.com/dtroode/bookshop-server/internal/server"
	"github.com/dtroode/bookshop-server/internal/service"
	"github.com/dtroode/bookshop-server/internal/token"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

const healthCheckInterval = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
	defer stop()

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Fatalf("failed to load .env: %v", err)
	}

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	logger := logger.NewWithWriter(os.Stdout, cfg.LogLevel, cfg.LogFormat)
	logger.Info("configuration loaded", "config", cfg.String())

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("server stopped with error", "error", err)
	}
	logger.Info("shutdown complete")
}

// run builds the application and serves until ctx ends. Resources it opens
// are released before it returns, on every path.
func run(ctx context.Context, cfg *config.Config, logger *logger.Logger) error {
	tokenManager, err := token.NewJWT(cfg.JWT.Secret)
	if err != nil {
		return fmt.Errorf("failed to initialize token manager: %w", err)
	}
	hasher := password.NewHasher(cfg.Hash.Cost, cfg.Hash.Concurrency, logger)

	userStore, closeStore, err := initUserStore(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer closeStore()

	authService := service.NewAuth(userStore, hasher, tokenManager, logger)
	tokenService := service.NewTokenService(tokenManager, userStore, logger)
	userService := service.NewUser(userStore, logger)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics.RegisterMetrics(registry)

	httpRouter := httprouter.New(
		authService,
		userService,
		tokenService,
		userService,
		httpctx.NewManager(),
		promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		cfg.HTTP.CORSAllowedOrigins,
		logger,
	)
	httpSrv := httpserver.NewHTTPServer(httpRouter.Register(), fmt.Sprintf(":%s", cfg.HTTP.Port), cfg.HTTP.ReadHeaderTimeout)

	healthServer := health.NewServer()
	checker := grpchealth.NewChecker(healthServer, userService, healthCheckInterval, logger)
	grpcSrv := grpcserver.NewGRPCServer(grpcrouter.New(healthServer, logger).Register(), fmt.Sprintf(":%s", cfg.GRPC.Port))

	sl := server.NewSecurityLayer(cfg.HTTP.EnableHTTPS, cfg.HTTP.CertFileName, cfg.HTTP.PrivateKeyFileName)

	logAppVersion()

	g, gctx := errgroup.WithContext(ctx)
	for _, s := range []model.Server{httpSrv, grpcSrv} {
		g.Go(func() error {
			logger.Info("Starting server on", "address", s.Address())
			if err := s.Start(sl); err != nil {
				return fmt.Errorf("server %s: %w", s.Address(), err)
			}
			return nil
		})
	}
	g.Go(func() error {
		checker.Run(gctx)
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("received interruption signal, shutting down")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer shutdownCancel()

		for _, s := range []model.Server{httpSrv, grpcSrv} {
			if err := s.Stop(shutdownCtx); err != nil {
				logger.Error("error during server shutdown", "error", err, "address", s.Address())
			}
		}
		return nil
	})

	return g.Wait()
}

// initUserStore opens the configured user store. The returned func releases it
// and must run only after the servers have stopped.
func initUserStore(ctx context.Context, cfg *config.Config, logger *logger.Logger) (model.UserStore, func(), error) {
	if cfg.Database.InMemory {
		logger.Warn("using in-memory user store, accounts are lost on restart")
		return memory.NewUserRepository(), func() {}, nil
	}

	db, err := postgres.NewConnection(ctx, cfg.Database.DSN)
	if err != nil {
		return nil, nil, err
	}
	return postgres.NewUserRepository(db), func() { _ = db.Close() }, nil
}

func logAppVersion() {
	tmpl := `
Build version: %s
Build date: %s
Build commit: %s
`

	fmt.Printf(tmpl, buildVersion, buildDate, buildCommit)
}
