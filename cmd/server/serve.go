package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/sipe/inventory-api/internal/api"
	"github.com/sipe/inventory-api/internal/core/ports"
	"github.com/sipe/inventory-api/internal/core/service"
	"github.com/sipe/inventory-api/internal/infrastructure/db/mongo"
	"github.com/sipe/inventory-api/internal/infrastructure/db/redis"
	"github.com/sipe/inventory-api/internal/infrastructure/http/handlers"
	"github.com/sipe/inventory-api/internal/infrastructure/queue"
	"github.com/sipe/inventory-api/internal/infrastructure/telemetry"
	"github.com/sipe/inventory-api/pkg/logger"
	"github.com/sipe/inventory-api/pkg/token"
)

const shutdownTimeout = 10 * time.Second

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runServer(ctx)
		},
	}
}

func runServer(ctx context.Context) error {
	started := time.Now()

	a, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer a.close(context.Background())
	log := a.log

	if a.cfg.UsesDevSecret() {
		log.Warn().Msg("JWT_SECRET not set, signing tokens with the development secret")
	}

	shutdownTracer := telemetry.ShutdownFunc(telemetry.Noop)
	if a.cfg.OTel.Enabled {
		shutdownTracer, err = telemetry.InitTracer(ctx, serviceName, Version, a.cfg.OTel.Endpoint)
		if err != nil {
			return err
		}
		log.Info().Str("endpoint", a.cfg.OTel.Endpoint).Msg("tracing enabled")
	}

	pingers := map[string]handlers.Pinger{"mongodb": mongo.Pinger{Client: a.client}}

	var guard ports.CheckoutGuard = redis.NoopGuard{}
	if a.cfg.Redis.Enabled {
		rdb, err := redis.Connect(ctx, redis.Config{Addr: a.cfg.Redis.Addr, DB: a.cfg.Redis.DB})
		if err != nil {
			return err
		}
		defer rdb.Close()
		guard = redis.NewCheckoutGuard(rdb)
		pingers["redis"] = redis.Pinger{Client: rdb}
		log.Info().Str("addr", a.cfg.Redis.Addr).Msg("connected to redis")
	} else {
		log.Warn().Msg("redis disabled, checkout idempotency keys are not enforced")
	}

	// --- Repositories ---
	userRepo := mongo.NewUserRepository(a.db)
	equipmentRepo := mongo.NewEquipmentRepository(a.db)
	movementRepo := mongo.NewMovementRepository(a.db)

	// --- Movement dispatcher ---
	recorder := service.NewMovementService(movementRepo, logger.Component("movements"))
	dispatcher := queue.NewDispatcher(a.cfg.MovementWorkers, recorder, logger.Component("dispatcher"))
	dispatcher.Start(context.WithoutCancel(ctx))

	// --- Services ---
	tokens := token.NewManager(a.cfg.JWTSecret, a.cfg.TokenTTL)
	authService := service.NewAuthService(userRepo, tokens, logger.Component("auth"))
	userService := service.NewUserService(userRepo, logger.Component("users"))
	equipmentService := service.NewEquipmentService(equipmentRepo, movementRepo, dispatcher, logger.Component("equipment"))
	checkoutService := service.NewCheckoutService(equipmentRepo, guard, dispatcher, logger.Component("checkout"))

	router := api.NewRouter(api.Dependencies{
		Auth:           authService,
		Users:          userService,
		Equipment:      equipmentService,
		Checkout:       checkoutService,
		Pingers:        pingers,
		Logger:         logger.Component("http"),
		Version:        Version,
		Started:        started,
		ExposeInternal: a.cfg.IsDevelopment(),
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", a.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info().Str("port", a.cfg.Port).Str("env", a.cfg.Env).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	case <-ctx.Done():
	}
	log.Info().Msg("server shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	// HTTP first so no request publishes into a closed dispatcher.
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
	if err := dispatcher.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("dispatcher did not drain")
	}
	if err := shutdownTracer(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("tracer shutdown failed")
	}

	log.Info().Msg("shutdown complete")
	return nil
}
