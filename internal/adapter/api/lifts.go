package api

import (
	"errors"
	"github.com/akarpov/go_gym_backend/internal/app/authapp"
	"github.com/akarpov/go_gym_backend/internal/app/liftapp"
	"github.com/akarpov/go_gym_backend/internal/app/unitofwork"
	"github.com/akarpov/go_gym_backend/internal/domain/lift"
	"github.com/akarpov/go_gym_backend/internal/observability"
	"github.com/labstack/echo/v4"
	"github.com/samber/lo"
	"net/http"
)

func (s *Server) MountLifts() {
	loginRequired := LoginRequired(s.authService.Authorizer)

	liftRoutes := s.handler.Group("/lifts", loginRequired)
	liftRoutes.POST("", s.CreateLift)
	liftRoutes.GET("", s.ListLifts)
	liftRoutes.GET("/sessions", s.ListSessions)
	liftRoutes.DELETE("/:lift_id", s.DeleteLift)
}

func (s *Server) getLiftsUoW() *unitofwork.UnitOfWork[*liftapp.AtomicContext] {
	return unitofwork.New[*liftapp.AtomicContext](
		s.db,
		liftapp.NewAtomicContext,
		s.msgBus,
		s.logger,
	)
}

// Lift is the wire form of a lift record. The owner id is implied by the
// access token and never serialized.
type Lift struct {
	LiftID      string  `json:"lift_id"`
	Exercise    string  `json:"exercise"`
	Weight      float64 `json:"weight"`
	Reps        int     `json:"reps"`
	Sets        int     `json:"sets"`
	Date        string  `json:"date"`
	WorkoutType string  `json:"workout_type"`
	OneRepMax   int     `json:"one_rep_max"`
}

func toLiftModel(l *lift.Lift) Lift {
	return Lift{
		LiftID:      l.LiftID,
		Exercise:    l.Exercise,
		Weight:      l.Weight,
		Reps:        l.Reps,
		Sets:        l.Sets,
		Date:        l.Date,
		WorkoutType: l.WorkoutType,
		OneRepMax:   lift.EstimateOneRepMax(l.Weight, l.Reps),
	}
}

func liftError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, lift.ErrInvalidLift):
		return JsonError(c, http.StatusBadRequest, err)
	case errors.Is(err, lift.ErrNotOwner):
		return JsonError(c, http.StatusForbidden, "lift belongs to another user")
	case errors.Is(err, lift.ErrLiftNotFound):
		return JsonError(c, http.StatusNotFound, "lift not found")
	default:
		return JsonError(c, http.StatusInternalServerError, err)
	}
}

type createLiftReq struct {
	Exercise    string  `json:"exercise" validate:"required"`
	Weight      float64 `json:"weight" validate:"gte=0"`
	Reps        int     `json:"reps" validate:"required,gt=0"`
	Sets        int     `json:"sets" validate:"required,gt=0"`
	Date        string  `json:"date" validate:"required,datetime=2006-01-02"`
	WorkoutType string  `json:"workout_type"`
}

type createLiftResp struct {
	LiftID string `json:"lift_id"`
}

func (s *Server) CreateLift(c echo.Context) error {
	var req createLiftReq
	if err := s.bind(c, &req); err != nil {
		return JsonError(c, http.StatusBadRequest, err)
	}
	uow := s.getLiftsUoW()
	ctx := c.Request().Context()
	user := c.Get(KeyCurrentUser).(*authapp.AccessTokenData)

	liftID, err := s.liftService.CreateLift(
		ctx, uow,
		user.UserID,
		req.Exercise, req.Weight, req.Reps, req.Sets, req.Date, req.WorkoutType,
	)
	if err != nil {
		return liftError(c, err)
	}

	observability.RecordLiftCreated()

	return c.JSON(http.StatusCreated, &createLiftResp{LiftID: liftID})
}

type listLiftsReq struct {
	Exercise    string `query:"exercise"`
	WorkoutType string `query:"workout_type"`
	StartDate   string `query:"start_date" validate:"omitempty,datetime=2006-01-02"`
	EndDate     string `query:"end_date" validate:"omitempty,datetime=2006-01-02"`
}

func (r *listLiftsReq) filter() lift.Filter {
	return lift.Filter{
		Exercise:    r.Exercise,
		WorkoutType: r.WorkoutType,
		StartDate:   r.StartDate,
		EndDate:     r.EndDate,
	}
}

type listLiftsResp struct {
	Lifts []Lift `json:"lifts"`
}

func (s *Server) ListLifts(c echo.Context) error {
	var req listLiftsReq
	if err := s.bind(c, &req); err != nil {
		return JsonError(c, http.StatusBadRequest, err)
	}
	uow := s.getLiftsUoW()
	ctx := c.Request().Context()
	user := c.Get(KeyCurrentUser).(*authapp.AccessTokenData)

	lifts, err := s.liftService.ListLifts(ctx, uow, user.UserID, req.filter())
	if err != nil {
		return liftError(c, err)
	}

	observability.RecordLiftListed()

	return c.JSON(http.StatusOK, &listLiftsResp{
		Lifts: lo.Map(lifts, func(l *lift.Lift, _ int) Lift {
			return toLiftModel(l)
		}),
	})
}

type Session struct {
	WorkoutType   string `json:"workout_type"`
	Date          string `json:"date"`
	Lifts         []Lift `json:"lifts"`
	ExerciseCount int    `json:"exercise_count"`
	TotalSets     int    `json:"total_sets"`
	BestOneRepMax int    `json:"best_one_rep_max"`
}

type listSessionsResp struct {
	Sessions []Session `json:"sessions"`
}

func (s *Server) ListSessions(c echo.Context) error {
	var req listLiftsReq
	if err := s.bind(c, &req); err != nil {
		return JsonError(c, http.StatusBadRequest, err)
	}
	uow := s.getLiftsUoW()
	ctx := c.Request().Context()
	user := c.Get(KeyCurrentUser).(*authapp.AccessTokenData)

	sessions, err := s.liftService.ListSessions(ctx, uow, user.UserID, req.filter())
	if err != nil {
		return liftError(c, err)
	}

	observability.RecordLiftListed()

	return c.JSON(http.StatusOK, &listSessionsResp{
		Sessions: lo.Map(sessions, func(sess *lift.Session, _ int) Session {
			summary := sess.Summary()
			return Session{
				WorkoutType: sess.WorkoutType,
				Date:        sess.Date,
				Lifts: lo.Map(sess.Lifts, func(l *lift.Lift, _ int) Lift {
					return toLiftModel(l)
				}),
				ExerciseCount: summary.ExerciseCount,
				TotalSets:     summary.TotalSets,
				BestOneRepMax: summary.BestOneRepMax,
			}
		}),
	})
}

type deleteLiftReq struct {
	LiftID string `param:"lift_id" validate:"required"`
}

func (s *Server) DeleteLift(c echo.Context) error {
	var req deleteLiftReq
	if err := s.bind(c, &req); err != nil {
		return JsonError(c, http.StatusBadRequest, err)
	}
	uow := s.getLiftsUoW()
	ctx := c.Request().Context()
	user := c.Get(KeyCurrentUser).(*authapp.AccessTokenData)

	if err := s.liftService.DeleteLift(ctx, uow, user.UserID, req.LiftID); err != nil {
		return liftError(c, err)
	}

	observability.RecordLiftDeleted()

	return c.NoContent(http.StatusNoContent)
}
