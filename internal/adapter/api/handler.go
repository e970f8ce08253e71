package api

import (
	"context"
	"errors"
	"fmt"
	"github.com/akarpov/go_gym_backend/internal/adapter/storage"
	"github.com/akarpov/go_gym_backend/internal/app/authapp"
	"github.com/akarpov/go_gym_backend/internal/app/liftapp"
	"github.com/akarpov/go_gym_backend/internal/app/unitofwork"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	slogecho "github.com/samber/slog-echo"
	"log/slog"
	"time"
)

type Server struct {
	handler     *echo.Echo
	logger      *slog.Logger
	addr        string
	db          storage.DB
	authService *authapp.Service
	liftService *liftapp.Service
	msgBus      unitofwork.MessageBus
	validator   *validator.Validate
}

func NewServer(opt ...Option) *Server {
	e := echo.New()

	e.Server.WriteTimeout = 10 * time.Second
	e.Server.ReadTimeout = 10 * time.Second
	e.Server.IdleTimeout = 10 * time.Second
	e.Server.ReadHeaderTimeout = 5 * time.Second
	e.Server.MaxHeaderBytes = 4096

	v := validator.New(validator.WithRequiredStructEnabled())

	s := &Server{
		handler:   e,
		validator: v,
	}

	for _, opt := range opt {
		opt(s)
	}

	e.Use(slogecho.NewWithConfig(s.logger, slogecho.Config{
		DefaultLevel:     slog.LevelInfo,
		ClientErrorLevel: slog.LevelInfo,
		ServerErrorLevel: slog.LevelError,
		WithRequestID:    true,
		WithSpanID:       true,
		WithTraceID:      true,
	}))
	s.Mount()
	return s
}

func (s *Server) Mount() {
	s.MountAuth()
	s.MountLifts()
	s.MountWorkouts()
	s.handler.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
}

func (s *Server) Start() error {
	return s.handler.Start(s.addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.handler.Shutdown(ctx)
}

func (s *Server) bind(ctx echo.Context, i interface{}) error {
	if err := ctx.Bind(i); err != nil {
		return fmt.Errorf("bad request")
	}
	if err := s.validator.Struct(i); err != nil {
		var errs validator.ValidationErrors
		if !errors.As(err, &errs) {
			return fmt.Errorf("bad request")
		}
		return fmt.Errorf("%s: %s", errs[0].Field(), errs[0].Error())
	}
	return nil
}
