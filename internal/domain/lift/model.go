package lift

import (
	"errors"
	"fmt"
	"github.com/akarpov/go_gym_backend/internal/domain"
	"math"
	"time"
)

var (
	ErrInvalidLift  = errors.New("invalid lift")
	ErrLiftNotFound = errors.New("lift not found")
	ErrNotOwner     = errors.New("lift belongs to another user")
)

const (
	EventCreated = "lift.created"
	EventDeleted = "lift.deleted"
)

// DateLayout is the only accepted date format. ISO dates compare
// correctly as plain strings, which the listing order relies on.
const DateLayout = "2006-01-02"

// Lift is one logged set-group for a single exercise on a single date.
// UserID is fixed at creation and is never taken from client input.
type Lift struct {
	domain.Aggregate
	LiftID      string
	UserID      string
	Exercise    string
	Weight      float64
	Reps        int
	Sets        int
	Date        string
	WorkoutType string
	CreatedAt   time.Time
}

func New(
	liftID, userID, exercise string,
	weight float64,
	reps, sets int,
	date, workoutType string,
) (*Lift, error) {
	if err := Validate(exercise, weight, reps, sets, date); err != nil {
		return nil, err
	}

	l := &Lift{
		LiftID:      liftID,
		UserID:      userID,
		Exercise:    exercise,
		Weight:      weight,
		Reps:        reps,
		Sets:        sets,
		Date:        date,
		WorkoutType: workoutType,
		CreatedAt:   time.Now().UTC(),
	}
	l.PushEvent(CreatedEvent{
		At:       l.CreatedAt,
		LiftID:   l.LiftID,
		UserID:   l.UserID,
		Exercise: l.Exercise,
		Date:     l.Date,
	})
	return l, nil
}

// Validate checks the lift invariants: non-empty exercise, finite
// non-negative weight, positive reps and sets, valid calendar date.
func Validate(exercise string, weight float64, reps, sets int, date string) error {
	if exercise == "" {
		return invalidLiftErr("exercise must not be empty")
	}
	if math.IsNaN(weight) || math.IsInf(weight, 0) {
		return invalidLiftErr("weight must be a finite number")
	}
	if weight < 0 {
		return invalidLiftErr("weight must not be negative")
	}
	if reps <= 0 {
		return invalidLiftErr("reps must be positive, got %d", reps)
	}
	if sets <= 0 {
		return invalidLiftErr("sets must be positive, got %d", sets)
	}
	if _, err := time.Parse(DateLayout, date); err != nil {
		return invalidLiftErr("date must be a valid YYYY-MM-DD date, got %q", date)
	}
	return nil
}

// EstimateOneRepMax estimates the one-repetition max for a weight/reps
// pair with the Epley formula: weight * (1 + reps/30). The result is
// rounded half away from zero. For reps == 0 the weight comes back
// rounded but otherwise unchanged; reps > 0 is enforced upstream by
// Validate, not here.
func EstimateOneRepMax(weight float64, reps int) int {
	return int(math.Round(weight * (1 + float64(reps)/30)))
}

// Filter narrows a lift listing. Zero values mean no constraint.
// Date bounds are inclusive.
type Filter struct {
	Exercise    string
	WorkoutType string
	StartDate   string
	EndDate     string
}

func invalidLiftErr(format string, args ...any) error {
	return errors.Join(fmt.Errorf(format, args...), ErrInvalidLift)
}

type CreatedEvent struct {
	At       time.Time
	LiftID   string
	UserID   string
	Exercise string
	Date     string
}

func (e CreatedEvent) Type() string {
	return EventCreated
}

func (e CreatedEvent) PublishedAt() time.Time {
	return e.At
}

type DeletedEvent struct {
	At     time.Time
	LiftID string
	UserID string
}

func (e DeletedEvent) Type() string {
	return EventDeleted
}

func (e DeletedEvent) PublishedAt() time.Time {
	return e.At
}
