package lift

import (
	"github.com/samber/lo"
	"sort"
)

// DefaultWorkoutType is the category assigned to lifts logged without a
// workout type.
const DefaultWorkoutType = "Other"

// Session is a group of lifts sharing one workout category and one date.
type Session struct {
	WorkoutType string
	Date        string
	Lifts       []*Lift
}

type Summary struct {
	ExerciseCount int
	TotalSets     int
	BestOneRepMax int
}

// GroupSessions partitions lifts into sessions keyed by (workoutType, date).
// An empty workout type falls into the "Other" category. Lift order inside
// a session follows input order. Sessions come back sorted by date
// descending; sessions sharing a date keep first-occurrence order.
func GroupSessions(lifts []*Lift) []*Session {
	index := make(map[string]*Session, len(lifts))
	sessions := make([]*Session, 0, len(lifts))

	for _, l := range lifts {
		workoutType := l.WorkoutType
		if workoutType == "" {
			workoutType = DefaultWorkoutType
		}

		key := workoutType + "\x00" + l.Date
		s, ok := index[key]
		if !ok {
			s = &Session{WorkoutType: workoutType, Date: l.Date}
			index[key] = s
			sessions = append(sessions, s)
		}
		s.Lifts = append(s.Lifts, l)
	}

	sort.SliceStable(sessions, func(i, j int) bool {
		return sessions[i].Date > sessions[j].Date
	})

	return sessions
}

// Summary derives the per-session figures shown in history views.
func (s *Session) Summary() Summary {
	exercises := lo.Uniq(lo.Map(s.Lifts, func(l *Lift, _ int) string {
		return l.Exercise
	}))

	best := 0
	for _, l := range s.Lifts {
		if rm := EstimateOneRepMax(l.Weight, l.Reps); rm > best {
			best = rm
		}
	}

	return Summary{
		ExerciseCount: len(exercises),
		TotalSets: lo.SumBy(s.Lifts, func(l *Lift) int {
			return l.Sets
		}),
		BestOneRepMax: best,
	}
}
