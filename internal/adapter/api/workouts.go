package api

import (
	"github.com/akarpov/go_gym_backend/internal/domain/lift"
	"github.com/labstack/echo/v4"
	"github.com/samber/lo"
	"net/http"
)

func (s *Server) MountWorkouts() {
	s.handler.GET("/workouts/catalog", s.WorkoutCatalog)
}

type Workout struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Exercises   []string `json:"exercises"`
}

type workoutCatalogResp struct {
	Workouts []Workout `json:"workouts"`
}

func (s *Server) WorkoutCatalog(c echo.Context) error {
	return c.JSON(http.StatusOK, &workoutCatalogResp{
		Workouts: lo.Map(lift.Catalog(), func(w lift.Workout, _ int) Workout {
			return Workout{
				Name:        w.Name,
				Description: w.Description,
				Exercises:   w.Exercises,
			}
		}),
	})
}
