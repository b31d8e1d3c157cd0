// ABOUTME: MCP tool implementations for workouts, sets, history and templates.
// ABOUTME: Each tool calls the same pipeline or assembler operation as the HTTP API.
package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/liftlog/internal/models"
	"github.com/harperreed/liftlog/internal/pipeline"
)

func (s *Server) registerTools() {
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "finish_workout",
		Description: "Save a complete workout with exercises and sets. Re-sending the same workout_id replaces its exercises and sets.",
	}, s.handleFinishWorkout)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "create_workout",
		Description: "Create an empty workout to add sets to later",
	}, s.handleCreateWorkout)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "add_sets",
		Description: "Append sets to an exercise of an existing workout",
	}, s.handleAddSets)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_workout",
		Description: "Get a workout with its exercises and sets",
	}, s.handleGetWorkout)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_workouts",
		Description: "List workouts, most recent first",
	}, s.handleListWorkouts)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "delete_workout",
		Description: "Delete a workout with its exercises and sets",
	}, s.handleDeleteWorkout)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "exercise_history",
		Description: "Every logged appearance of an exercise with its sets, most recent first",
	}, s.handleExerciseHistory)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "save_template",
		Description: "Create a workout template, or replace one you own with the same template_id",
	}, s.handleSaveTemplate)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "update_template",
		Description: "Replace the exercises of a template; an empty list removes them all",
	}, s.handleUpdateTemplate)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_templates",
		Description: "List templates with their exercises",
	}, s.handleListTemplates)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "delete_template",
		Description: "Delete a template and its exercises",
	}, s.handleDeleteTemplate)
}

// Tool input/output types

type idInput struct {
	ID string `json:"id" jsonschema:"record id"`
}

type historyInput struct {
	ExerciseID string `json:"exercise_id" jsonschema:"exercise reference id"`
}

type listTemplatesInput struct {
	IncludePublic bool `json:"include_public,omitempty" jsonschema:"include other users' public templates"`
}

type updateTemplateInput struct {
	ID        string                          `json:"id" jsonschema:"template id"`
	Name      string                          `json:"name,omitempty" jsonschema:"new name; empty keeps the current one"`
	IsPublic  *bool                           `json:"is_public,omitempty" jsonschema:"new visibility; omitted keeps the current one"`
	Exercises []models.TemplateExerciseFields `json:"exercises" jsonschema:"full replacement exercise list"`
}

type simpleOutput struct {
	Message string `json:"message"`
}

// Tool handlers

func (s *Server) handleFinishWorkout(ctx context.Context, req *mcp.CallToolRequest, input pipeline.FinishInput) (*mcp.CallToolResult, any, error) {
	w, err := s.writes.FinishWorkout(ctx, s.owner, input)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to save workout: %w", err)
	}
	return nil, w, nil
}

func (s *Server) handleCreateWorkout(ctx context.Context, req *mcp.CallToolRequest, input pipeline.CreateWorkoutInput) (*mcp.CallToolResult, any, error) {
	w, err := s.writes.CreateWorkout(ctx, s.owner, input)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create workout: %w", err)
	}
	return nil, w, nil
}

func (s *Server) handleAddSets(ctx context.Context, req *mcp.CallToolRequest, input pipeline.AddSetsInput) (*mcp.CallToolResult, any, error) {
	sets, err := s.writes.AddSets(ctx, s.owner, input)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to add sets: %w", err)
	}
	return nil, map[string]any{"sets": sets}, nil
}

func (s *Server) handleGetWorkout(ctx context.Context, req *mcp.CallToolRequest, input idInput) (*mcp.CallToolResult, any, error) {
	w, err := s.reads.Workout(ctx, s.owner, input.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("workout not found: %w", err)
	}
	return nil, w, nil
}

func (s *Server) handleListWorkouts(ctx context.Context, req *mcp.CallToolRequest, input struct{}) (*mcp.CallToolResult, any, error) {
	workouts, err := s.reads.ListWorkouts(ctx, s.owner)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list workouts: %w", err)
	}
	if len(workouts) == 0 {
		return nil, simpleOutput{Message: "No workouts found."}, nil
	}
	return nil, map[string]any{"workouts": workouts}, nil
}

func (s *Server) handleDeleteWorkout(ctx context.Context, req *mcp.CallToolRequest, input idInput) (*mcp.CallToolResult, simpleOutput, error) {
	if err := s.writes.DeleteWorkout(ctx, s.owner, input.ID); err != nil {
		return nil, simpleOutput{}, fmt.Errorf("failed to delete workout: %w", err)
	}
	return nil, simpleOutput{Message: fmt.Sprintf("Deleted workout: %s", input.ID)}, nil
}

func (s *Server) handleExerciseHistory(ctx context.Context, req *mcp.CallToolRequest, input historyInput) (*mcp.CallToolResult, any, error) {
	history, err := s.reads.ExerciseHistory(ctx, s.owner, input.ExerciseID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load history: %w", err)
	}
	if len(history) == 0 {
		return nil, simpleOutput{Message: fmt.Sprintf("No history for %s.", input.ExerciseID)}, nil
	}
	return nil, map[string]any{"history": history}, nil
}

func (s *Server) handleSaveTemplate(ctx context.Context, req *mcp.CallToolRequest, input pipeline.TemplateInput) (*mcp.CallToolResult, any, error) {
	t, err := s.writes.SaveTemplate(ctx, s.owner, input)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to save template: %w", err)
	}
	return nil, t, nil
}

func (s *Server) handleUpdateTemplate(ctx context.Context, req *mcp.CallToolRequest, input updateTemplateInput) (*mcp.CallToolResult, any, error) {
	t, err := s.writes.UpdateTemplate(ctx, s.owner, input.ID, pipeline.TemplateInput{
		Name:      input.Name,
		IsPublic:  input.IsPublic,
		Exercises: input.Exercises,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to update template: %w", err)
	}
	return nil, t, nil
}

func (s *Server) handleListTemplates(ctx context.Context, req *mcp.CallToolRequest, input listTemplatesInput) (*mcp.CallToolResult, any, error) {
	templates, err := s.reads.Templates(ctx, s.owner, input.IncludePublic)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list templates: %w", err)
	}
	if len(templates) == 0 {
		return nil, simpleOutput{Message: "No templates found."}, nil
	}
	return nil, map[string]any{"templates": templates}, nil
}

func (s *Server) handleDeleteTemplate(ctx context.Context, req *mcp.CallToolRequest, input idInput) (*mcp.CallToolResult, simpleOutput, error) {
	if err := s.writes.DeleteTemplate(ctx, s.owner, input.ID); err != nil {
		return nil, simpleOutput{}, fmt.Errorf("failed to delete template: %w", err)
	}
	return nil, simpleOutput{Message: fmt.Sprintf("Deleted template: %s", input.ID)}, nil
}
