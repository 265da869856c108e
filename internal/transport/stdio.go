// Package transport delivers MCP messages between clients and the tool
// server, either over a process's standard streams or over HTTP.
package transport

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/mark3labs/mcp-go/server"
)

// ServeStdio runs the MCP session over in and out until the client closes
// in or ctx is cancelled. Cancellation is a normal shutdown and is not
// reported as an error.
func ServeStdio(ctx context.Context, s *server.MCPServer, in io.Reader, out io.Writer, logger *slog.Logger) error {
	stdio := server.NewStdioServer(s)
	stdio.SetErrorLogger(slog.NewLogLogger(logger.Handler(), slog.LevelError))

	logger.Info("serving MCP over stdio")

	err := stdio.Listen(ctx, in, out)
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, io.EOF) {
		logger.Info("stdio session ended")
		return nil
	}

	return err
}
