package authapp

import (
	"context"
	"errors"
	"fmt"
	"github.com/akarpov/go_gym_backend/internal/app/unitofwork"
	"github.com/akarpov/go_gym_backend/internal/domain/auth"
	"github.com/google/uuid"
	"log/slog"
)

var (
	ErrInvalidAuthorization = errors.New("invalid authorization")
)

type Service struct {
	logger     *slog.Logger
	Authorizer *Authorizer
}

func NewService(auth *Authorizer, logger *slog.Logger) *Service {
	return &Service{
		logger:     logger,
		Authorizer: auth,
	}
}

func (s *Service) CreateUser(
	ctx context.Context,
	uow *unitofwork.UnitOfWork[*AtomicContext],
	email string,
	password string,
) (u *auth.User, err error) {
	err = uow.Atomic(ctx, func(ctx *AtomicContext) error {
		u = auth.NewUser(uuid.New().String(), email, password, s.Authorizer)
		if err := ctx.UserStorage.Add(ctx.Context(), u); err != nil {
			return err
		}

		return ctx.Commit()
	})
	return
}

func (s *Service) Login(
	ctx context.Context,
	uow *unitofwork.UnitOfWork[*AtomicContext],
	device auth.Device,
	email string,
	password string,
) (tokens Tokens, err error) {
	err = uow.Atomic(ctx, func(ctx *AtomicContext) error {
		u, err := ctx.UserStorage.GetByEmail(ctx.Context(), email)
		if err != nil {
			return err
		}

		a, err := u.Authorize(s.Authorizer, password, device)
		if err != nil {
			return err
		}

		accessToken, err := s.Authorizer.GenerateAccessToken(u, a)
		if err != nil {
			return err
		}

		if err := ctx.UserStorage.Persist(ctx.Context(), u); err != nil {
			return err
		}

		tokens = Tokens{
			AccessToken:  accessToken,
			RefreshToken: a.Secret,
		}
		return ctx.Commit()
	})
	return
}

func (s *Service) Logout(
	ctx context.Context,
	uow *unitofwork.UnitOfWork[*AtomicContext],
	userId string,
	authId string,
) error {
	return uow.Atomic(ctx, func(ctx *AtomicContext) error {
		u, err := ctx.UserStorage.GetByID(ctx.Context(), userId)
		if err != nil {
			return err
		}

		if err := u.Logout(authId); err != nil {
			return err
		}

		if err := ctx.UserStorage.Persist(ctx.Context(), u); err != nil {
			return err
		}

		return ctx.Commit()
	})
}

// Refresh issues a fresh access token for an active authorization,
// looked up by its refresh secret.
func (s *Service) Refresh(
	ctx context.Context,
	uow *unitofwork.UnitOfWork[*AtomicContext],
	refreshToken string,
) (tokens Tokens, err error) {
	err = uow.Atomic(ctx, func(ctx *AtomicContext) error {
		u, err := ctx.UserStorage.GetByAuthSecret(ctx.Context(), refreshToken)
		if err != nil {
			return err
		}

		a := u.GetAuthBySecret(refreshToken)
		if a == nil || !a.IsActive() {
			return fmt.Errorf("%w: authorization is not active", ErrInvalidAuthorization)
		}

		tokens.AccessToken, err = s.Authorizer.GenerateAccessToken(u, a)
		if err != nil {
			return err
		}
		tokens.RefreshToken = a.Secret

		return ctx.Commit()
	})
	return
}

type Tokens struct {
	AccessToken  string
	RefreshToken string
}
