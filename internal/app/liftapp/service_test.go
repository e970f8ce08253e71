package liftapp

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/akarpov/go_gym_backend/internal/adapter/storage"
	"github.com/akarpov/go_gym_backend/internal/app/unitofwork"
	"github.com/akarpov/go_gym_backend/internal/domain"
	"github.com/akarpov/go_gym_backend/internal/domain/lift"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLiftStorage struct {
	lifts  []*lift.Lift
	events []domain.Event
}

func (f *fakeLiftStorage) Add(_ context.Context, l *lift.Lift) error {
	f.lifts = append(f.lifts, l)
	f.events = append(f.events, l.PopEvents()...)
	return nil
}

func (f *fakeLiftStorage) GetByID(_ context.Context, liftID string) (*lift.Lift, error) {
	for _, l := range f.lifts {
		if l.LiftID == liftID {
			return l, nil
		}
	}
	return nil, lift.ErrLiftNotFound
}

func (f *fakeLiftStorage) ListByOwner(_ context.Context, ownerID string, fl lift.Filter) ([]*lift.Lift, error) {
	var result []*lift.Lift
	for _, l := range f.lifts {
		if l.UserID != ownerID {
			continue
		}
		if fl.Exercise != "" && l.Exercise != fl.Exercise {
			continue
		}
		if fl.WorkoutType != "" && l.WorkoutType != fl.WorkoutType {
			continue
		}
		if fl.StartDate != "" && l.Date < fl.StartDate {
			continue
		}
		if fl.EndDate != "" && l.Date > fl.EndDate {
			continue
		}
		result = append(result, l)
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Date > result[j].Date
	})
	return result, nil
}

func (f *fakeLiftStorage) Delete(_ context.Context, target *lift.Lift) error {
	for i, l := range f.lifts {
		if l.LiftID == target.LiftID {
			f.lifts = append(f.lifts[:i], f.lifts[i+1:]...)
			return nil
		}
	}
	return lift.ErrLiftNotFound
}

func (f *fakeLiftStorage) CollectEvents() []domain.Event {
	events := f.events
	f.events = nil
	return events
}

func (f *fakeLiftStorage) Close() error {
	return nil
}

type fakeBus struct {
	events []domain.Event
}

func (b *fakeBus) PublishEvents(events ...domain.Event) error {
	b.events = append(b.events, events...)
	return nil
}

func newTestUoW(t *testing.T, store *fakeLiftStorage, bus *fakeBus) (*unitofwork.UnitOfWork[*AtomicContext], sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	newCtx := func(ctx context.Context, dbCtx storage.DBContext) (*AtomicContext, error) {
		return &AtomicContext{ctx: ctx, db: dbCtx, LiftStorage: store}, nil
	}

	return unitofwork.New[*AtomicContext](storage.DB{DB: db}, newCtx, bus, logger), mock
}

func TestCreateLiftRoundTrip(t *testing.T) {
	store := &fakeLiftStorage{}
	bus := &fakeBus{}
	uow, mock := newTestUoW(t, store, bus)
	service := New(slog.New(slog.NewTextHandler(io.Discard, nil)))

	mock.ExpectBegin()
	mock.ExpectCommit()
	mock.ExpectBegin()
	mock.ExpectCommit()

	ctx := context.Background()

	liftID, err := service.CreateLift(ctx, uow, "user-1", "Bench Press", 90, 8, 3, "2024-01-02", "Chest & Shoulders")
	require.NoError(t, err)
	require.NotEmpty(t, liftID)

	lifts, err := service.ListLifts(ctx, uow, "user-1", lift.Filter{})
	require.NoError(t, err)
	require.Len(t, lifts, 1)

	got := lifts[0]
	assert.Equal(t, liftID, got.LiftID)
	assert.Equal(t, "user-1", got.UserID)
	assert.Equal(t, "Bench Press", got.Exercise)
	assert.Equal(t, 90.0, got.Weight)
	assert.Equal(t, 8, got.Reps)
	assert.Equal(t, 3, got.Sets)
	assert.Equal(t, "2024-01-02", got.Date)
	assert.Equal(t, "Chest & Shoulders", got.WorkoutType)

	require.Len(t, bus.events, 1)
	assert.Equal(t, lift.EventCreated, bus.events[0].Type())

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateLiftRejectsInvalidInput(t *testing.T) {
	store := &fakeLiftStorage{}
	uow, mock := newTestUoW(t, store, &fakeBus{})
	service := New(slog.New(slog.NewTextHandler(io.Discard, nil)))

	mock.ExpectBegin()
	mock.ExpectRollback()

	_, err := service.CreateLift(context.Background(), uow, "user-1", "Bench Press", 90, 0, 3, "2024-01-02", "")
	assert.ErrorIs(t, err, lift.ErrInvalidLift)
	assert.Empty(t, store.lifts)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteLiftForeignOwner(t *testing.T) {
	store := &fakeLiftStorage{}
	bus := &fakeBus{}
	uow, mock := newTestUoW(t, store, bus)
	service := New(slog.New(slog.NewTextHandler(io.Discard, nil)))

	mock.ExpectBegin()
	mock.ExpectCommit()
	mock.ExpectBegin()
	mock.ExpectRollback()
	mock.ExpectBegin()
	mock.ExpectCommit()

	ctx := context.Background()

	liftID, err := service.CreateLift(ctx, uow, "user-1", "Squats", 120, 5, 5, "2024-01-03", "Legs")
	require.NoError(t, err)

	err = service.DeleteLift(ctx, uow, "user-2", liftID)
	assert.ErrorIs(t, err, lift.ErrNotOwner)
	assert.NotErrorIs(t, err, lift.ErrLiftNotFound)

	// the true owner still sees the record unchanged
	lifts, err := service.ListLifts(ctx, uow, "user-1", lift.Filter{})
	require.NoError(t, err)
	require.Len(t, lifts, 1)
	assert.Equal(t, liftID, lifts[0].LiftID)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteLiftTwice(t *testing.T) {
	store := &fakeLiftStorage{}
	uow, mock := newTestUoW(t, store, &fakeBus{})
	service := New(slog.New(slog.NewTextHandler(io.Discard, nil)))

	mock.ExpectBegin()
	mock.ExpectCommit()
	mock.ExpectBegin()
	mock.ExpectCommit()
	mock.ExpectBegin()
	mock.ExpectRollback()

	ctx := context.Background()

	liftID, err := service.CreateLift(ctx, uow, "user-1", "Deadlifts", 140, 5, 3, "2024-01-04", "Legs")
	require.NoError(t, err)

	require.NoError(t, service.DeleteLift(ctx, uow, "user-1", liftID))

	err = service.DeleteLift(ctx, uow, "user-1", liftID)
	assert.ErrorIs(t, err, lift.ErrLiftNotFound)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListLiftsDateRangeInclusive(t *testing.T) {
	store := &fakeLiftStorage{}
	uow, mock := newTestUoW(t, store, &fakeBus{})
	service := New(slog.New(slog.NewTextHandler(io.Discard, nil)))

	dates := []string{"2023-12-31", "2024-01-01", "2024-01-15", "2024-01-31", "2024-02-01"}
	for range dates {
		mock.ExpectBegin()
		mock.ExpectCommit()
	}
	mock.ExpectBegin()
	mock.ExpectCommit()

	ctx := context.Background()
	for _, d := range dates {
		_, err := service.CreateLift(ctx, uow, "user-1", "Bench Press", 90, 8, 3, d, "X")
		require.NoError(t, err)
	}

	lifts, err := service.ListLifts(ctx, uow, "user-1", lift.Filter{
		StartDate: "2024-01-01",
		EndDate:   "2024-01-31",
	})
	require.NoError(t, err)

	require.Len(t, lifts, 3)
	assert.Equal(t, "2024-01-31", lifts[0].Date)
	assert.Equal(t, "2024-01-15", lifts[1].Date)
	assert.Equal(t, "2024-01-01", lifts[2].Date)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListSessions(t *testing.T) {
	store := &fakeLiftStorage{}
	uow, mock := newTestUoW(t, store, &fakeBus{})
	service := New(slog.New(slog.NewTextHandler(io.Discard, nil)))

	for i := 0; i < 3; i++ {
		mock.ExpectBegin()
		mock.ExpectCommit()
	}
	mock.ExpectBegin()
	mock.ExpectCommit()

	ctx := context.Background()

	_, err := service.CreateLift(ctx, uow, "user-1", "Bench Press", 90, 8, 3, "2024-01-02", "X")
	require.NoError(t, err)
	_, err = service.CreateLift(ctx, uow, "user-1", "Overhead Press", 50, 10, 3, "2024-01-02", "X")
	require.NoError(t, err)
	_, err = service.CreateLift(ctx, uow, "user-1", "Bench Press", 85, 8, 3, "2024-01-01", "X")
	require.NoError(t, err)

	sessions, err := service.ListSessions(ctx, uow, "user-1", lift.Filter{})
	require.NoError(t, err)

	require.Len(t, sessions, 2)
	assert.Equal(t, "2024-01-02", sessions[0].Date)
	assert.Len(t, sessions[0].Lifts, 2)
	assert.Equal(t, "2024-01-01", sessions[1].Date)
	assert.Len(t, sessions[1].Lifts, 1)

	require.NoError(t, mock.ExpectationsWereMet())
}
