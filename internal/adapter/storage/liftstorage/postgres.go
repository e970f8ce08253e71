package liftstorage

import (
	"context"
	"database/sql"
	"errors"
	"github.com/akarpov/go_gym_backend/internal/adapter/storage"
	"github.com/akarpov/go_gym_backend/internal/adapter/storage/pgutil"
	"github.com/akarpov/go_gym_backend/internal/domain"
	"github.com/akarpov/go_gym_backend/internal/domain/lift"
	"github.com/leporo/sqlf"
	"time"
)

type PostgresStorage struct {
	base *pgutil.BasePostgresStorage
}

func NewPostgresStorage(db storage.DBContext) *PostgresStorage {
	return &PostgresStorage{
		base: pgutil.NewBasePostgresStorage(db),
	}
}

func (s *PostgresStorage) Add(ctx context.Context, l *lift.Lift) error {
	q := sqlf.InsertInto("lifts").
		Set("lift_id", l.LiftID).
		Set("user_id", l.UserID).
		Set("exercise", l.Exercise).
		Set("weight", l.Weight).
		Set("reps", l.Reps).
		Set("sets", l.Sets).
		Set("date", l.Date).
		Set("workout_type", l.WorkoutType).
		Set("created_at", l.CreatedAt)

	if _, err := q.ExecAndClose(ctx, s.base.DB); err != nil {
		if pgutil.ViolatesConstraint(err, "lifts_pkey") {
			return lift.ErrInvalidLift
		}
		return storage.InternalError(err)
	}

	s.base.MarkSeen(l.LiftID, l)

	return nil
}

// get keeps selection in one place; modify narrows and orders the
// statement. Results preserve row order.
func (s *PostgresStorage) get(
	ctx context.Context,
	modify func(stmt *sqlf.Stmt),
) ([]*lift.Lift, error) {
	var tmp lift.Lift

	q := sqlf.From("lifts l").
		Select("l.lift_id").To(&tmp.LiftID).
		Select("l.user_id").To(&tmp.UserID).
		Select("l.exercise").To(&tmp.Exercise).
		Select("l.weight").To(&tmp.Weight).
		Select("l.reps").To(&tmp.Reps).
		Select("l.sets").To(&tmp.Sets).
		Select("l.date").To(&tmp.Date).
		Select("l.workout_type").To(&tmp.WorkoutType).
		Select("l.created_at").To(&tmp.CreatedAt)

	modify(q)

	var result []*lift.Lift

	err := q.QueryAndClose(ctx, s.base.DB, func(rows *sql.Rows) {
		result = append(result, &lift.Lift{
			LiftID:      tmp.LiftID,
			UserID:      tmp.UserID,
			Exercise:    tmp.Exercise,
			Weight:      tmp.Weight,
			Reps:        tmp.Reps,
			Sets:        tmp.Sets,
			Date:        tmp.Date,
			WorkoutType: tmp.WorkoutType,
			CreatedAt:   tmp.CreatedAt,
		})
	})

	if err == nil || errors.Is(err, sql.ErrNoRows) {
		return result, nil
	}

	return nil, storage.InternalError(err)
}

func (s *PostgresStorage) GetByID(ctx context.Context, liftID string) (*lift.Lift, error) {
	result, err := s.get(ctx, func(stmt *sqlf.Stmt) {
		stmt.Where("l.lift_id = ?", liftID)
	})
	if err != nil {
		return nil, err
	}
	if len(result) == 0 {
		return nil, lift.ErrLiftNotFound
	}
	return result[0], nil
}

// ListByOwner returns only rows whose user_id matches ownerID; the owner
// predicate is part of the query itself, so no other user's rows are ever
// fetched. Order is date descending, insertion order within a date.
func (s *PostgresStorage) ListByOwner(ctx context.Context, ownerID string, f lift.Filter) ([]*lift.Lift, error) {
	return s.get(ctx, func(stmt *sqlf.Stmt) {
		stmt.Where("l.user_id = ?", ownerID)
		if f.Exercise != "" {
			stmt.Where("l.exercise = ?", f.Exercise)
		}
		if f.WorkoutType != "" {
			stmt.Where("l.workout_type = ?", f.WorkoutType)
		}
		if f.StartDate != "" {
			stmt.Where("l.date >= ?", f.StartDate)
		}
		if f.EndDate != "" {
			stmt.Where("l.date <= ?", f.EndDate)
		}
		stmt.OrderBy("l.date DESC", "l.created_at ASC")
	})
}

func (s *PostgresStorage) Delete(ctx context.Context, l *lift.Lift) error {
	res, err := sqlf.DeleteFrom("lifts").
		Where("lift_id = ?", l.LiftID).
		ExecAndClose(ctx, s.base.DB)

	if err := pgutil.AssertUpdated(res, err, lift.ErrLiftNotFound); err != nil {
		return err
	}

	l.PushEvent(lift.DeletedEvent{
		At:     time.Now().UTC(),
		LiftID: l.LiftID,
		UserID: l.UserID,
	})
	s.base.MarkSeen(l.LiftID, l)

	return nil
}

func (s *PostgresStorage) CollectEvents() []domain.Event {
	return s.base.CollectEvents()
}

func (s *PostgresStorage) Close() error {
	s.base.Close()
	return nil
}
