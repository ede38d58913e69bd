package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/johnquangdev/voice-transcripts/internal/adapter/presenter"
	"github.com/johnquangdev/voice-transcripts/internal/domain/entities"
	ucerrors "github.com/johnquangdev/voice-transcripts/internal/usecase/errors"
	"github.com/johnquangdev/voice-transcripts/internal/usecase/summary"
)

// Tool names
const (
	ToolListSessions     = "list_sessions"
	ToolGetTranscripts   = "get_transcripts"
	ToolSummarizeSession = "summarize_session"
)

// SessionReader is the read side of the session service
type SessionReader interface {
	ListSessions(ctx context.Context) ([]*entities.SessionOverview, error)
	ListTranscripts(ctx context.Context, sessionID uuid.UUID) ([]*entities.Transcript, error)
}

// Server exposes recorded sessions to MCP clients
type Server struct {
	sessions  SessionReader
	summaries summary.Service
	logger    *zap.Logger
}

// NewServer creates the MCP tool handlers
func NewServer(sessions SessionReader, summaries summary.Service, logger *zap.Logger) *Server {
	return &Server{
		sessions:  sessions,
		summaries: summaries,
		logger:    logger,
	}
}

// MCPServer builds an MCP server with every tool registered
func (s *Server) MCPServer(name, version string) *server.MCPServer {
	srv := server.NewMCPServer(name, version,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)

	srv.AddTool(mcp.NewTool(ToolListSessions,
		mcp.WithDescription("List recorded voice sessions, newest first, with transcript counts"),
	), s.listSessions)

	srv.AddTool(mcp.NewTool(ToolGetTranscripts,
		mcp.WithDescription("Get the transcripts of a session in spoken order"),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session ID (UUID)")),
	), s.getTranscripts)

	srv.AddTool(mcp.NewTool(ToolSummarizeSession,
		mcp.WithDescription("Return the cached summary of a session, generating it on first request"),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session ID (UUID)")),
	), s.summarizeSession)

	return srv
}

func (s *Server) listSessions(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	overviews, err := s.sessions.ListSessions(ctx)
	if err != nil {
		return s.toolError(ToolListSessions, err), nil
	}
	return jsonResult(presenter.ToSessionListResponse(overviews))
}

func (s *Server) getTranscripts(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, errResult := sessionIDArg(req)
	if errResult != nil {
		return errResult, nil
	}

	transcripts, err := s.sessions.ListTranscripts(ctx, id)
	if err != nil {
		return s.toolError(ToolGetTranscripts, err), nil
	}
	return jsonResult(presenter.ToTranscriptResponses(transcripts))
}

func (s *Server) summarizeSession(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, errResult := sessionIDArg(req)
	if errResult != nil {
		return errResult, nil
	}

	analysis, err := s.summaries.GetOrCreateSummary(ctx, id)
	if err != nil {
		return s.toolError(ToolSummarizeSession, err), nil
	}
	return jsonResult(presenter.ToAnalysisResponse(analysis))
}

func sessionIDArg(req mcp.CallToolRequest) (uuid.UUID, *mcp.CallToolResult) {
	raw, err := req.RequireString("session_id")
	if err != nil {
		return uuid.Nil, mcp.NewToolResultError(err.Error())
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, mcp.NewToolResultError(fmt.Sprintf("invalid session_id %q", raw))
	}
	return id, nil
}

func (s *Server) toolError(tool string, err error) *mcp.CallToolResult {
	if errors.Is(err, ucerrors.ErrSessionNotFound) {
		return mcp.NewToolResultError("session not found")
	}
	if s.logger != nil {
		s.logger.Error("❌ MCP tool failed", zap.String("tool", tool), zap.Error(err))
	}
	return mcp.NewToolResultError(fmt.Sprintf("%s failed: %v", tool, err))
}

func jsonResult(v interface{}) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode tool result: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}
