package mcp

import (
	"context"
	"log/slog"
	"time"
)

// auditTool records one tool invocation. Only the tool name, its scalar
// parameters, duration and outcome are logged.
func (s *Server) auditTool(ctx context.Context, tool string, start time.Time, err error, params ...any) {
	attrs := []any{
		"tool", tool,
		"duration_ms", time.Since(start).Milliseconds(),
	}
	attrs = append(attrs, params...)

	if err != nil {
		attrs = append(attrs, "status", "error", "err", err)
		s.logger.Log(ctx, slog.LevelWarn, "mcp tool call", attrs...)
		return
	}
	attrs = append(attrs, "status", "success")
	s.logger.Log(ctx, slog.LevelInfo, "mcp tool call", attrs...)
}
