package mcp

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/louisbranch/almanac/internal/platform/id"
	"github.com/louisbranch/almanac/internal/storage"
)

const (
	serverName    = "almanac"
	serverVersion = "1.0.0"
)

// Server hosts the event tools over an MCP transport for one acting user.
type Server struct {
	mcpServer *mcp.Server
}

// New builds an MCP server whose tools operate on ownerID's events.
func New(events storage.EventStore, ownerID string) (*Server, error) {
	if events == nil {
		return nil, errors.New("event store is required")
	}
	if ownerID == "" {
		return nil, errors.New("acting user id is required")
	}

	mcpServer := mcp.NewServer(&mcp.Implementation{Name: serverName, Version: serverVersion}, nil)
	mcp.AddTool(mcpServer, EventCreateTool(), EventCreateHandler(events, ownerID, time.Now, id.NewID))
	mcp.AddTool(mcpServer, EventListTool(), EventListHandler(events, ownerID))
	mcp.AddTool(mcpServer, EventUpdateTool(), EventUpdateHandler(events, ownerID, time.Now))
	mcp.AddTool(mcpServer, EventDeleteTool(), EventDeleteHandler(events, ownerID))

	return &Server{mcpServer: mcpServer}, nil
}

// Serve runs the server on stdio and blocks until it stops or the context
// ends.
func (s *Server) Serve(ctx context.Context) error {
	return s.serveWithTransport(ctx, &mcp.StdioTransport{})
}

func (s *Server) serveWithTransport(ctx context.Context, transport mcp.Transport) error {
	if s == nil || s.mcpServer == nil {
		return fmt.Errorf("server is not configured")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	err := s.mcpServer.Run(ctx, transport)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	return err
}
