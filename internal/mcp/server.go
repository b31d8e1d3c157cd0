// ABOUTME: MCP server setup for the workout log.
// ABOUTME: Exposes the write pipeline and read assembler to a single configured owner.
package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/liftlog/internal/assembler"
	"github.com/harperreed/liftlog/internal/pipeline"
	"github.com/harperreed/liftlog/internal/store"
)

// Server wraps the MCP server with pipeline and assembler access.
type Server struct {
	mcpServer *mcp.Server
	writes    *pipeline.Pipeline
	reads     *assembler.Assembler
	owner     string
}

// NewServer creates a new MCP server acting as owner.
func NewServer(s store.Store, owner string, opts ...pipeline.Option) (*Server, error) {
	if owner == "" {
		return nil, fmt.Errorf("mcp server needs an owner")
	}
	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    "liftlog",
			Version: "1.0.0",
		},
		nil,
	)

	srv := &Server{
		mcpServer: mcpServer,
		writes:    pipeline.New(s, opts...),
		reads:     assembler.New(s),
		owner:     owner,
	}

	srv.registerTools()
	srv.registerResources()

	return srv, nil
}

// Serve starts the MCP server using stdio transport.
func (s *Server) Serve(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcp.StdioTransport{})
}
