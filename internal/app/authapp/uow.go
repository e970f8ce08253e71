package authapp

import (
	"context"
	"errors"
	"fmt"
	"github.com/akarpov/go_gym_backend/internal/adapter/storage"
	"github.com/akarpov/go_gym_backend/internal/adapter/storage/userstorage"
	"github.com/akarpov/go_gym_backend/internal/domain"
	"github.com/akarpov/go_gym_backend/internal/domain/auth"
)

type UserStorage interface {
	Add(ctx context.Context, u *auth.User) error
	GetByEmail(ctx context.Context, email string) (*auth.User, error)
	GetByID(ctx context.Context, userId string) (*auth.User, error)
	GetByAuthSecret(ctx context.Context, secret string) (*auth.User, error)
	Persist(ctx context.Context, u *auth.User) error
	CollectEvents() []domain.Event
	Close() error
}

type AtomicContext struct {
	ctx         context.Context
	db          storage.DBContext
	UserStorage UserStorage
}

func NewAtomicContext(ctx context.Context, dbContext storage.DBContext) (*AtomicContext, error) {
	return &AtomicContext{
		ctx:         ctx,
		db:          dbContext,
		UserStorage: userstorage.NewPostgresStorage(dbContext),
	}, nil
}

func (a *AtomicContext) Context() context.Context {
	return a.ctx
}

func (a *AtomicContext) Commit() error {
	return a.db.Commit()
}

func (a *AtomicContext) Close() (err error) {
	if closeErr := a.UserStorage.Close(); closeErr != nil {
		err = errors.Join(fmt.Errorf("failed to close storage"), closeErr)
	}

	return err
}

func (a *AtomicContext) CollectEvents() []domain.Event {
	return a.UserStorage.CollectEvents()
}
