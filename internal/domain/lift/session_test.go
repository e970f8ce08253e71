package lift

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustLift(t *testing.T, id, exercise string, weight float64, reps, sets int, date, workoutType string) *Lift {
	t.Helper()
	l, err := New(id, "user-1", exercise, weight, reps, sets, date, workoutType)
	require.NoError(t, err)
	return l
}

func TestGroupSessionsByWorkoutAndDate(t *testing.T) {
	lifts := []*Lift{
		mustLift(t, "1", "Bench Press", 90, 8, 3, "2024-01-02", "X"),
		mustLift(t, "2", "Overhead Press", 50, 10, 3, "2024-01-02", "X"),
		mustLift(t, "3", "Bench Press", 85, 8, 3, "2024-01-01", "X"),
	}

	sessions := GroupSessions(lifts)

	require.Len(t, sessions, 2)

	assert.Equal(t, "2024-01-02", sessions[0].Date)
	require.Len(t, sessions[0].Lifts, 2)
	assert.Equal(t, "Bench Press", sessions[0].Lifts[0].Exercise)
	assert.Equal(t, "Overhead Press", sessions[0].Lifts[1].Exercise)

	assert.Equal(t, "2024-01-01", sessions[1].Date)
	require.Len(t, sessions[1].Lifts, 1)
	assert.Equal(t, "Bench Press", sessions[1].Lifts[0].Exercise)
}

func TestGroupSessionsSplitsByWorkoutType(t *testing.T) {
	lifts := []*Lift{
		mustLift(t, "1", "Bench Press", 90, 8, 3, "2024-01-02", "Chest & Shoulders"),
		mustLift(t, "2", "Squats", 120, 5, 5, "2024-01-02", "Legs"),
	}

	sessions := GroupSessions(lifts)

	require.Len(t, sessions, 2)
	// same date, first-occurrence order wins
	assert.Equal(t, "Chest & Shoulders", sessions[0].WorkoutType)
	assert.Equal(t, "Legs", sessions[1].WorkoutType)
}

func TestGroupSessionsAssignsOtherCategory(t *testing.T) {
	lifts := []*Lift{
		mustLift(t, "1", "Farmer Walk", 40, 10, 2, "2024-01-02", ""),
	}

	sessions := GroupSessions(lifts)

	require.Len(t, sessions, 1)
	assert.Equal(t, DefaultWorkoutType, sessions[0].WorkoutType)
	// the stored lift keeps its empty workout type
	assert.Equal(t, "", sessions[0].Lifts[0].WorkoutType)
}

func TestGroupSessionsEmptyInput(t *testing.T) {
	assert.Empty(t, GroupSessions(nil))
}

func TestSessionSummary(t *testing.T) {
	lifts := []*Lift{
		mustLift(t, "1", "Bench Press", 90, 8, 3, "2024-01-02", "X"),
		mustLift(t, "2", "Bench Press", 100, 3, 2, "2024-01-02", "X"),
		mustLift(t, "3", "Overhead Press", 50, 10, 3, "2024-01-02", "X"),
	}

	sessions := GroupSessions(lifts)
	require.Len(t, sessions, 1)

	summary := sessions[0].Summary()
	assert.Equal(t, 2, summary.ExerciseCount)
	assert.Equal(t, 8, summary.TotalSets)
	// 90x8 -> 114, 100x3 -> 110, 50x10 -> 67
	assert.Equal(t, 114, summary.BestOneRepMax)
}
