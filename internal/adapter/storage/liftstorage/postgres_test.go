package liftstorage

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/akarpov/go_gym_backend/internal/adapter/storage"
	"github.com/akarpov/go_gym_backend/internal/domain/lift"
	"github.com/leporo/sqlf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	sqlf.SetDialect(sqlf.PostgreSQL)
	m.Run()
}

func newStorageWithMock(t *testing.T) (*PostgresStorage, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewPostgresStorage(&storage.DB{DB: db}), mock
}

func liftColumns() []string {
	return []string{
		"lift_id", "user_id", "exercise", "weight", "reps", "sets", "date", "workout_type", "created_at",
	}
}

func TestAdd(t *testing.T) {
	s, mock := newStorageWithMock(t)

	createdAt := time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC)
	l := &lift.Lift{
		LiftID:      "lift-1",
		UserID:      "user-1",
		Exercise:    "Bench Press",
		Weight:      90,
		Reps:        8,
		Sets:        3,
		Date:        "2024-01-02",
		WorkoutType: "Chest & Shoulders",
		CreatedAt:   createdAt,
	}

	mock.ExpectExec("INSERT INTO lifts").
		WithArgs("lift-1", "user-1", "Bench Press", 90.0, 8, 3, "2024-01-02", "Chest & Shoulders", createdAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, s.Add(context.Background(), l))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListByOwnerScopesAndFilters(t *testing.T) {
	s, mock := newStorageWithMock(t)

	createdAt := time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows(liftColumns()).
		AddRow("lift-2", "user-1", "Squats", 120.0, 5, 5, "2024-01-03", "Legs", createdAt).
		AddRow("lift-1", "user-1", "Bench Press", 90.0, 8, 3, "2024-01-02", "Chest & Shoulders", createdAt)

	mock.ExpectQuery("SELECT .+ FROM lifts l WHERE l.user_id = .+ ORDER BY l.date DESC, l.created_at ASC").
		WithArgs("user-1", "2024-01-01", "2024-01-31").
		WillReturnRows(rows)

	lifts, err := s.ListByOwner(context.Background(), "user-1", lift.Filter{
		StartDate: "2024-01-01",
		EndDate:   "2024-01-31",
	})
	require.NoError(t, err)

	require.Len(t, lifts, 2)
	assert.Equal(t, "lift-2", lifts[0].LiftID)
	assert.Equal(t, "2024-01-03", lifts[0].Date)
	assert.Equal(t, "lift-1", lifts[1].LiftID)
	assert.Equal(t, 90.0, lifts[1].Weight)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListByOwnerNoRows(t *testing.T) {
	s, mock := newStorageWithMock(t)

	mock.ExpectQuery("SELECT .+ FROM lifts l").
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows(liftColumns()))

	lifts, err := s.ListByOwner(context.Background(), "user-1", lift.Filter{})
	require.NoError(t, err)
	assert.Empty(t, lifts)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByIDNotFound(t *testing.T) {
	s, mock := newStorageWithMock(t)

	mock.ExpectQuery("SELECT .+ FROM lifts l WHERE l.lift_id = .+").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(liftColumns()))

	_, err := s.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, lift.ErrLiftNotFound)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDelete(t *testing.T) {
	s, mock := newStorageWithMock(t)

	mock.ExpectExec("DELETE FROM lifts WHERE lift_id = .+").
		WithArgs("lift-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	l := &lift.Lift{LiftID: "lift-1", UserID: "user-1"}
	require.NoError(t, s.Delete(context.Background(), l))

	events := s.CollectEvents()
	require.Len(t, events, 1)
	assert.Equal(t, lift.EventDeleted, events[0].Type())

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteMissingRow(t *testing.T) {
	s, mock := newStorageWithMock(t)

	mock.ExpectExec("DELETE FROM lifts WHERE lift_id = .+").
		WithArgs("lift-1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	l := &lift.Lift{LiftID: "lift-1", UserID: "user-1"}
	err := s.Delete(context.Background(), l)
	assert.ErrorIs(t, err, lift.ErrLiftNotFound)

	require.NoError(t, mock.ExpectationsWereMet())
}
