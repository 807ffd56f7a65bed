package mcp

import (
	"context"
	"io"
	"log/slog"

	"github.com/mark3labs/mcp-go/server"

	"polyprompt/config"
)

const (
	serverName    = "polyprompt-tools"
	serverVersion = "1.0.0"
)

// NewServer returns an MCP server with every simulated tool registered.
func NewServer() *server.MCPServer {
	s := server.NewMCPServer(serverName, serverVersion,
		server.WithToolCapabilities(false),
	)
	registerTools(s)
	return s
}

// ServeStdio exposes the simulated tools over in/out until ctx is done or in
// reaches EOF.
func ServeStdio(ctx context.Context, in io.Reader, out io.Writer, logger *slog.Logger) error {
	logger = config.OrDiscard(logger)

	stdio := server.NewStdioServer(NewServer())
	stdio.SetErrorLogger(slog.NewLogLogger(logger.Handler(), slog.LevelError))

	logger.Info("[MCP] serving tools over stdio", "tools", len(simulatedTools))
	return stdio.Listen(ctx, in, out)
}
