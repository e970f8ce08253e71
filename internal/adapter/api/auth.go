package api

import (
	"errors"
	"github.com/akarpov/go_gym_backend/internal/app/authapp"
	"github.com/akarpov/go_gym_backend/internal/app/unitofwork"
	"github.com/akarpov/go_gym_backend/internal/domain/auth"
	"github.com/labstack/echo/v4"
	"github.com/mileusna/useragent"
	"net/http"
)

func (s *Server) MountAuth() {
	loginRequired := LoginRequired(s.authService.Authorizer)

	authRoutes := s.handler.Group("/auth")

	authRoutes.POST("/login", s.Login)
	authRoutes.POST("/sign-up", s.SignUp)
	authRoutes.POST("/refresh", s.Refresh)
	authRoutes.POST("/logout", s.Logout, loginRequired)
}

func (s *Server) getAuthUoW() *unitofwork.UnitOfWork[*authapp.AtomicContext] {
	return unitofwork.New[*authapp.AtomicContext](
		s.db,
		authapp.NewAtomicContext,
		s.msgBus,
		s.logger,
	)
}

type loginReq struct {
	Email    string `form:"username" validate:"required,email"`
	Password string `form:"password" validate:"required,min=8"`
}

type loginResp struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

func (s *Server) Login(c echo.Context) error {
	var b loginReq
	if err := s.bind(c, &b); err != nil {
		return JsonError(c, http.StatusBadRequest, err)
	}

	agent := useragent.Parse(c.Request().UserAgent())

	ipAddress := c.Request().RemoteAddr
	if c.Request().Header.Get("X-Forwarded-For") != "" {
		ipAddress = c.Request().Header.Get("X-Forwarded-For")
	}

	device := auth.Device{
		Browser:   agent.Name,
		OS:        agent.OS,
		IPAddress: ipAddress,
		Model:     agent.Device,
	}

	uow := s.getAuthUoW()

	tokens, err := s.authService.Login(c.Request().Context(), uow, device, b.Email, b.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) || errors.Is(err, auth.ErrUserNotFound) {
			return JsonError(c, http.StatusUnauthorized, "invalid email or password")
		}
		return JsonError(c, http.StatusInternalServerError, err)
	}
	return c.JSON(http.StatusOK, &loginResp{
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
	})
}

type signUpReq struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

type signUpResp struct {
	UserID string `json:"user_id"`
}

func (s *Server) SignUp(c echo.Context) error {
	var b signUpReq
	if err := s.bind(c, &b); err != nil {
		return JsonError(c, http.StatusBadRequest, err)
	}

	uow := s.getAuthUoW()

	ctx := c.Request().Context()
	u, err := s.authService.CreateUser(ctx, uow, b.Email, b.Password)
	if err != nil {
		if errors.Is(err, auth.ErrUserExists) {
			return JsonError(c, http.StatusBadRequest, "user already exists")
		}
		return JsonError(c, http.StatusInternalServerError, err)
	}

	return c.JSON(http.StatusCreated, &signUpResp{UserID: u.UserID})
}

func (s *Server) Logout(c echo.Context) error {
	u := c.Get(KeyCurrentUser).(*authapp.AccessTokenData)

	uow := s.getAuthUoW()
	if err := s.authService.Logout(c.Request().Context(), uow, u.UserID, u.Authorization); err != nil {
		if errors.Is(err, auth.ErrUnauthorized) {
			return JsonError(c, http.StatusUnauthorized, "unauthorized")
		}
		return JsonError(c, http.StatusInternalServerError, err)
	}
	return c.NoContent(http.StatusNoContent)
}

type refreshReq struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

func (s *Server) Refresh(c echo.Context) error {
	var b refreshReq
	if err := s.bind(c, &b); err != nil {
		return JsonError(c, http.StatusBadRequest, err)
	}

	uow := s.getAuthUoW()

	tokens, err := s.authService.Refresh(c.Request().Context(), uow, b.RefreshToken)
	if err != nil {
		if errors.Is(err, auth.ErrUserNotFound) || errors.Is(err, authapp.ErrInvalidAuthorization) {
			return JsonError(c, http.StatusUnauthorized, "invalid refresh token")
		}
		return JsonError(c, http.StatusInternalServerError, err)
	}
	return c.JSON(http.StatusOK, &loginResp{
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
	})
}
