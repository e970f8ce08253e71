package liftapp

import (
	"context"
	"errors"
	"fmt"
	"github.com/akarpov/go_gym_backend/internal/adapter/storage"
	"github.com/akarpov/go_gym_backend/internal/adapter/storage/liftstorage"
	"github.com/akarpov/go_gym_backend/internal/domain"
	"github.com/akarpov/go_gym_backend/internal/domain/lift"
)

type LiftStorage interface {
	Add(ctx context.Context, l *lift.Lift) error
	GetByID(ctx context.Context, liftID string) (*lift.Lift, error)
	ListByOwner(ctx context.Context, ownerID string, f lift.Filter) ([]*lift.Lift, error)
	Delete(ctx context.Context, l *lift.Lift) error
	CollectEvents() []domain.Event
	Close() error
}

type AtomicContext struct {
	ctx         context.Context
	db          storage.DBContext
	LiftStorage LiftStorage
}

func NewAtomicContext(ctx context.Context, dbContext storage.DBContext) (*AtomicContext, error) {
	return &AtomicContext{
		ctx:         ctx,
		db:          dbContext,
		LiftStorage: liftstorage.NewPostgresStorage(dbContext),
	}, nil
}

func (a *AtomicContext) Context() context.Context {
	return a.ctx
}

func (a *AtomicContext) Commit() error {
	return a.db.Commit()
}

func (a *AtomicContext) Close() (err error) {
	if closeErr := a.LiftStorage.Close(); closeErr != nil {
		err = errors.Join(fmt.Errorf("failed to close storage"), closeErr)
	}

	return err
}

func (a *AtomicContext) CollectEvents() []domain.Event {
	return a.LiftStorage.CollectEvents()
}
