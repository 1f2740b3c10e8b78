package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"

	"github.com/pokehub/pokedex-backend/api/routes"
	"github.com/pokehub/pokedex-backend/internal/auth"
	"github.com/pokehub/pokedex-backend/internal/bootstrap"
	"github.com/pokehub/pokedex-backend/internal/collections"
	"github.com/pokehub/pokedex-backend/internal/pokeapi"
	"github.com/pokehub/pokedex-backend/internal/pokedex"
	"github.com/pokehub/pokedex-backend/internal/users"
	"github.com/pokehub/pokedex-backend/pkg/auth/session"
	"github.com/pokehub/pokedex-backend/pkg/config"
	"github.com/pokehub/pokedex-backend/pkg/db"
	"github.com/pokehub/pokedex-backend/pkg/logger"
	"github.com/pokehub/pokedex-backend/pkg/metrics"
	redisclient "github.com/pokehub/pokedex-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		Format:      cfg.App.LogFormat,
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, cfg.FeatureFlags.UseSQLite, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}

	redisClient, err := redisclient.New(context.Background(), cfg.Redis)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		if cerr := dbClient.Close(); cerr != nil {
			logg.Error(context.Background(), "error closing database", cerr)
		}
		os.Exit(1)
	}

	defer func() {
		if err := multierr.Combine(dbClient.Close(), redisClient.Close()); err != nil {
			logg.Error(context.Background(), "error closing clients", err)
		}
	}()

	if err := bootstrap.Run(context.Background(), dbClient, cfg, logg); err != nil {
		logg.Error(context.Background(), "failed to bootstrap schema", err)
		os.Exit(1)
	}

	sessions, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	upstreamMetrics := metrics.NewUpstreamMetrics(registry)

	pokeClient, err := pokeapi.NewClient(cfg.PokeAPI, logg, upstreamMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create pokeapi client", err)
		os.Exit(1)
	}

	pokedexService, err := pokedex.NewService(pokedex.ServiceParams{
		Fetcher:     pokeClient,
		Logger:      logg,
		Concurrency: cfg.PokeAPI.FetchConcurrency,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create pokedex service", err)
		os.Exit(1)
	}

	userRepo := users.NewRepository(dbClient.DB())

	usersService, err := users.NewService(users.ServiceParams{
		Repo:           userRepo,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create users service", err)
		os.Exit(1)
	}

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       userRepo,
		SessionManager: sessions,
		JWTConfig:      cfg.JWT,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	registerService, err := auth.NewRegisterService(auth.RegisterServiceParams{
		DB:             dbClient,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create register service", err)
		os.Exit(1)
	}

	collectionsService, err := collections.NewService(collections.ServiceParams{
		Repo:     collections.NewRepository(dbClient.DB()),
		UserRepo: userRepo,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create collections service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			dbClient,
			redisClient,
			sessions,
			authService,
			registerService,
			usersService,
			pokedexService,
			collectionsService,
			registry,
		),
		ReadHeaderTimeout: 10 * time.Second,
	}

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-runCtx.Done():
		logg.Info(ctx, "shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
		}
	}
}
