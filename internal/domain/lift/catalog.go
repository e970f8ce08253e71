package lift

// Workout is a catalog entry: a workout category and the exercises
// suggested for it.
type Workout struct {
	Name        string
	Description string
	Exercises   []string
}

// Catalog returns the fixed workout categories offered at logging time.
// The catalog only drives suggestions; free-text workout types are still
// accepted on create.
func Catalog() []Workout {
	return []Workout{
		{
			Name:        "Chest & Shoulders",
			Description: "Upper body power workout focusing on chest and shoulders",
			Exercises: []string{
				"Bench Press",
				"Incline Bench Press",
				"Overhead Press",
				"Lateral Raise",
				"Chest Fly",
			},
		},
		{
			Name:        "Back & Arms",
			Description: "Pull-focused workout for back and arm development",
			Exercises: []string{
				"Bent Over Rows",
				"Lat Pulldown",
				"T-bar Row",
				"Bicep Curls",
				"Hammer Curls",
				"Barbell Curls",
				"Forearm Curls",
			},
		},
		{
			Name:        "Legs",
			Description: "Lower body strength and power training",
			Exercises: []string{
				"Squats",
				"Deadlifts",
				"Leg Press",
				"Leg Extension",
				"Leg Curl",
				"Calf Raises",
				"Glute Bridges",
			},
		},
	}
}
