// ABOUTME: CLI command for starting the HTTP API.
// ABOUTME: Serves the workout and template routes until interrupted.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/harperreed/liftlog/internal/api"
	"github.com/harperreed/liftlog/internal/logger"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Start the HTTP API. Every route under /api/v1 needs a bearer token:
either a static token from the "tokens" config list or a JWT signed with
jwt_secret (see 'liftlog token').

ROUTES:

  POST   /api/v1/workouts/finish          Save a complete workout
  POST   /api/v1/workouts/create          Create an empty workout
  GET    /api/v1/workouts                 List workouts
  GET    /api/v1/workouts/:id             Workout with exercises and sets
  DELETE /api/v1/workouts/:id             Delete a workout
  POST   /api/v1/sets                     Append sets to an exercise
  GET    /api/v1/exercises/:id/history    Exercise history
  POST   /api/v1/templates/create         Create or replace a template
  GET    /api/v1/templates                List templates
  GET    /api/v1/templates/:templateId    Template with exercises
  PUT    /api/v1/templates/:templateId    Replace a template's exercises
  DELETE /api/v1/templates/:templateId    Delete a template`,
	RunE: func(cmd *cobra.Command, args []string) error {
		guard, err := cfg.IdentityGuard()
		if err != nil {
			return err
		}

		addr := cfg.GetServerAddr()
		if serveAddr != "" {
			addr = serveAddr
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		srv := api.NewServer(st, guard, logger.Logger)
		if err := api.Serve(ctx, addr, srv.Router(), logger.Logger); err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default :8080)")
	rootCmd.AddCommand(serveCmd)
}
