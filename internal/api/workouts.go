// ABOUTME: Workout, set and history handlers.
// ABOUTME: Finish honours an Idempotency-Key header so retries land on one workout.
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/harperreed/liftlog/internal/pipeline"
)

// HeaderIdempotencyKey pins a finish request to a stable workout id.
const HeaderIdempotencyKey = "Idempotency-Key"

// finishWorkout handles POST /api/v1/workouts/finish.
func (s *Server) finishWorkout(c *gin.Context) {
	var in pipeline.FinishInput
	if !bindJSON(c, &in) {
		return
	}
	in.IdempotencyKey = c.GetHeader(HeaderIdempotencyKey)

	w, err := s.writes.FinishWorkout(c.Request.Context(), caller(c), in)
	if err != nil {
		respondError(c, err, false)
		return
	}
	c.JSON(http.StatusCreated, w)
}

// createWorkout handles POST /api/v1/workouts/create.
func (s *Server) createWorkout(c *gin.Context) {
	var in pipeline.CreateWorkoutInput
	if !bindJSON(c, &in) {
		return
	}
	w, err := s.writes.CreateWorkout(c.Request.Context(), caller(c), in)
	if err != nil {
		respondError(c, err, false)
		return
	}
	c.JSON(http.StatusCreated, w)
}

func (s *Server) listWorkouts(c *gin.Context) {
	list, err := s.reads.ListWorkouts(c.Request.Context(), caller(c))
	if err != nil {
		respondError(c, err, false)
		return
	}
	c.JSON(http.StatusOK, list)
}

// getWorkout handles GET /api/v1/workouts/:id. Other users' workouts are
// reported as missing.
func (s *Server) getWorkout(c *gin.Context) {
	w, err := s.reads.Workout(c.Request.Context(), caller(c), c.Param("id"))
	if err != nil {
		respondError(c, err, true)
		return
	}
	c.JSON(http.StatusOK, w)
}

func (s *Server) deleteWorkout(c *gin.Context) {
	id := c.Param("id")
	if err := s.writes.DeleteWorkout(c.Request.Context(), caller(c), id); err != nil {
		respondError(c, err, false)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "workout deleted", ID: id})
}

// addSets handles POST /api/v1/sets.
func (s *Server) addSets(c *gin.Context) {
	var in pipeline.AddSetsInput
	if !bindJSON(c, &in) {
		return
	}
	sets, err := s.writes.AddSets(c.Request.Context(), caller(c), in)
	if err != nil {
		respondError(c, err, false)
		return
	}
	c.JSON(http.StatusCreated, sets)
}

// exerciseHistory handles GET /api/v1/exercises/:exercise_id/history.
func (s *Server) exerciseHistory(c *gin.Context) {
	history, err := s.reads.ExerciseHistory(c.Request.Context(), caller(c), c.Param("exercise_id"))
	if err != nil {
		respondError(c, err, false)
		return
	}
	c.JSON(http.StatusOK, history)
}
