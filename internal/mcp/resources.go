// ABOUTME: MCP resource implementations for the workout log.
// ABOUTME: Provides liftlog://templates and liftlog://recent resources.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	templatesURI = "liftlog://templates"
	recentURI    = "liftlog://recent"
	recentLimit  = 10
)

func (s *Server) registerResources() {
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         templatesURI,
		Name:        "Workout Templates",
		Description: "Your templates plus public ones, with exercises in order",
		MIMEType:    "application/json",
	}, s.handleTemplatesResource)

	s.mcpServer.AddResource(&mcp.Resource{
		URI:         recentURI,
		Name:        "Recent Workouts",
		Description: "The last 10 workouts with exercises and sets",
		MIMEType:    "application/json",
	}, s.handleRecentResource)
}

// Resource handlers

func (s *Server) handleTemplatesResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	templates, err := s.reads.Templates(ctx, s.owner, true)
	if err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}
	return jsonResource(templatesURI, map[string]any{
		"templates": templates,
		"count":     len(templates),
	})
}

func (s *Server) handleRecentResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	summaries, err := s.reads.ListWorkouts(ctx, s.owner)
	if err != nil {
		return nil, fmt.Errorf("failed to list workouts: %w", err)
	}
	if len(summaries) > recentLimit {
		summaries = summaries[:recentLimit]
	}

	workouts := make([]any, 0, len(summaries))
	var sets int
	var volume float64
	for _, w := range summaries {
		full, err := s.reads.Workout(ctx, s.owner, w.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to load workout %s: %w", w.ID, err)
		}
		sets += full.SetCount()
		volume += full.Volume()
		workouts = append(workouts, full)
	}

	return jsonResource(recentURI, map[string]any{
		"generated_at": time.Now().Format(time.RFC3339),
		"workouts":     workouts,
		"summary": map[string]any{
			"workouts": len(workouts),
			"sets":     sets,
			"volume":   volume,
		},
	})
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
