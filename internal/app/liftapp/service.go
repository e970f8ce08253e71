package liftapp

import (
	"context"
	"github.com/akarpov/go_gym_backend/internal/app/unitofwork"
	"github.com/akarpov/go_gym_backend/internal/domain/lift"
	"github.com/google/uuid"
	"log/slog"
)

type Service struct {
	logger *slog.Logger
}

func New(logger *slog.Logger) *Service {
	return &Service{logger: logger}
}

// CreateLift validates and stores a new lift for ownerID and returns the
// assigned id. ownerID must come from a verified access token; it is
// never read from request payloads.
func (s *Service) CreateLift(
	ctx context.Context,
	uow *unitofwork.UnitOfWork[*AtomicContext],
	ownerID, exercise string,
	weight float64,
	reps, sets int,
	date, workoutType string,
) (liftID string, outErr error) {
	outErr = uow.Atomic(ctx, func(ctx *AtomicContext) error {
		l, err := lift.New(uuid.New().String(), ownerID, exercise, weight, reps, sets, date, workoutType)
		if err != nil {
			return err
		}

		if err := ctx.LiftStorage.Add(ctx.Context(), l); err != nil {
			return err
		}

		liftID = l.LiftID
		return ctx.Commit()
	})
	return
}

// ListLifts returns ownerID's lifts matching the filter, most recent
// date first.
func (s *Service) ListLifts(
	ctx context.Context,
	uow *unitofwork.UnitOfWork[*AtomicContext],
	ownerID string,
	f lift.Filter,
) (lifts []*lift.Lift, outErr error) {
	outErr = uow.Atomic(ctx, func(ctx *AtomicContext) error {
		var err error
		if lifts, err = ctx.LiftStorage.ListByOwner(ctx.Context(), ownerID, f); err != nil {
			return err
		}

		return ctx.Commit()
	})
	return
}

// ListSessions groups ownerID's lifts into sessions by workout type and
// date.
func (s *Service) ListSessions(
	ctx context.Context,
	uow *unitofwork.UnitOfWork[*AtomicContext],
	ownerID string,
	f lift.Filter,
) ([]*lift.Session, error) {
	lifts, err := s.ListLifts(ctx, uow, ownerID, f)
	if err != nil {
		return nil, err
	}
	return lift.GroupSessions(lifts), nil
}

// DeleteLift removes a lift after confirming it exists and belongs to
// ownerID. A missing id fails with lift.ErrLiftNotFound, a foreign one
// with lift.ErrNotOwner; an ownership failure is never reported as
// not-found and leaves the store untouched.
func (s *Service) DeleteLift(
	ctx context.Context,
	uow *unitofwork.UnitOfWork[*AtomicContext],
	ownerID, liftID string,
) error {
	return uow.Atomic(ctx, func(ctx *AtomicContext) error {
		l, err := ctx.LiftStorage.GetByID(ctx.Context(), liftID)
		if err != nil {
			return err
		}

		if l.UserID != ownerID {
			return lift.ErrNotOwner
		}

		if err := ctx.LiftStorage.Delete(ctx.Context(), l); err != nil {
			return err
		}

		return ctx.Commit()
	})
}
