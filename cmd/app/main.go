package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"github.com/akarpov/go_gym_backend/internal/adapter/api"
	"github.com/akarpov/go_gym_backend/internal/adapter/storage"
	"github.com/akarpov/go_gym_backend/internal/adapter/storage/migrations"
	"github.com/akarpov/go_gym_backend/internal/app/authapp"
	"github.com/akarpov/go_gym_backend/internal/app/liftapp"
	"github.com/akarpov/go_gym_backend/internal/app/messagebus"
	"github.com/akarpov/go_gym_backend/internal/config"
	"github.com/akarpov/go_gym_backend/internal/domain"
	"github.com/akarpov/go_gym_backend/internal/domain/auth"
	"github.com/akarpov/go_gym_backend/internal/domain/lift"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/leporo/sqlf"
	"golang.org/x/crypto/bcrypt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "config/config.yaml", "path to config file")
	flag.Parse()

	cfg := config.MustLoad(configPath)
	logger := initLogger(cfg)

	bus := messagebus.New(logger)
	bus.Register(auth.EventCreated, func(event domain.Event) error {
		logger.Info("processed user created event")
		return nil
	})
	bus.Register(lift.EventCreated, func(event domain.Event) error {
		e := event.(lift.CreatedEvent)
		logger.Debug("lift created", "lift_id", e.LiftID, "exercise", e.Exercise, "date", e.Date)
		return nil
	})
	bus.Register(lift.EventDeleted, func(event domain.Event) error {
		e := event.(lift.DeletedEvent)
		logger.Debug("lift deleted", "lift_id", e.LiftID)
		return nil
	})

	sqlf.SetDialect(sqlf.PostgreSQL)

	db, err := sql.Open("pgx", cfg.DB.DSN)
	if err != nil {
		panic("failed to connect database: " + err.Error())
	}

	if cfg.DB.MigrateOnStart {
		if err := migrations.Up(context.Background(), db); err != nil {
			panic("failed to apply migrations: " + err.Error())
		}
	}

	authorizer := &authapp.Authorizer{
		Cost:             bcrypt.DefaultCost,
		Secret:           cfg.JWT.Secret,
		AccessTokenTTL:   cfg.JWT.AccessTokenTTL,
		AuthorizationTTL: cfg.JWT.RefreshTokenTTL,
	}

	authService := authapp.NewService(authorizer, logger)
	liftService := liftapp.New(logger)

	server := api.NewServer(
		api.Addr(cfg.Server.Host, cfg.Server.Port),
		api.Logger(logger),
		api.AuthService(authService),
		api.LiftService(liftService),
		api.DBContext(storage.DB{DB: db}),
		api.MessageBus(bus),
	)

	ctx := context.Background()

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error)

	go func() {
		defer close(errCh)
		errCh <- server.Start()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("server was not shutdown gracefully", "error", err)
		}
	case err := <-errCh:
		if err != nil {
			if !errors.Is(err, http.ErrServerClosed) {
				logger.Error("server closed with unexpected error", "error", err)
			}
		}
	}
	bus.Close()
	logger.Info("server shutdown")
}

func initLogger(cfg *config.Config) *slog.Logger {
	var handler slog.Handler
	switch cfg.App.Env {
	case config.Development:
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			AddSource: true,
			Level:     slog.LevelDebug,
		})
	case config.Production:
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			AddSource: false,
			Level:     slog.LevelInfo,
		})
	default:
		panic("invalid env")
	}

	return slog.New(handler)
}
