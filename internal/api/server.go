// ABOUTME: HTTP server for the workout log: gin router, route table and graceful serve loop.
// ABOUTME: Handlers delegate writes to the pipeline and reads to the assembler.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/harperreed/liftlog/internal/assembler"
	"github.com/harperreed/liftlog/internal/identity"
	"github.com/harperreed/liftlog/internal/pipeline"
	"github.com/harperreed/liftlog/internal/store"
)

// Server holds the collaborators shared by every handler.
type Server struct {
	writes *pipeline.Pipeline
	reads  *assembler.Assembler
	guard  identity.Guard
	log    zerolog.Logger
}

// NewServer wires handlers over s.
func NewServer(s store.Store, guard identity.Guard, log zerolog.Logger, opts ...pipeline.Option) *Server {
	opts = append([]pipeline.Option{pipeline.WithLogger(log)}, opts...)
	return &Server{
		writes: pipeline.New(s, opts...),
		reads:  assembler.New(s),
		guard:  guard,
		log:    log,
	}
}

// Router builds the gin engine.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(RequestID(), AccessLog(s.log), Recovery())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := r.Group("/api/v1", Auth(s.guard))

	v1.POST("/workouts/finish", s.finishWorkout)
	v1.POST("/workouts/create", s.createWorkout)
	v1.GET("/workouts", s.listWorkouts)
	v1.GET("/workouts/:id", s.getWorkout)
	v1.DELETE("/workouts/:id", s.deleteWorkout)

	v1.POST("/sets", s.addSets)
	v1.GET("/exercises/:exercise_id/history", s.exerciseHistory)

	v1.POST("/templates/create", s.createTemplate)
	v1.GET("/templates", s.listTemplates)
	v1.GET("/templates/:templateId", s.getTemplate)
	v1.PUT("/templates/:templateId", s.updateTemplate)
	v1.DELETE("/templates/:templateId", s.deleteTemplate)

	return r
}

// Serve runs handler on addr until ctx is cancelled, then shuts down
// gracefully.
func Serve(ctx context.Context, addr string, handler http.Handler, log zerolog.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Msg("http server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		log.Info().Msg("http server shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}
