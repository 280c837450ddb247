package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/silindokuhleL/document-search-portal/internal/core/domain"
)

// JSON-RPC error codes
const (
	ErrorCodeInvalidParams = -32602
	ErrorCodeEmptyQuery    = -32004
)

type MCPError struct {
	Code    int
	Message string
	Data    interface{}
}

func (e *MCPError) Error() string {
	return fmt.Sprintf("MCP error %d: %s", e.Code, e.Message)
}

func newMCPError(code int, message string, data interface{}) error {
	return &MCPError{Code: code, Message: message, Data: data}
}

// searchHit is the tool view of a result item; previews keep their <mark> tags.
type searchHit struct {
	ID        int64   `json:"id"`
	Filename  string  `json:"filename"`
	FileType  string  `json:"file_type"`
	CreatedAt string  `json:"created_at"`
	Score     float64 `json:"score"`
	Preview   string  `json:"preview"`
}

func (s *Server) handleSearchDocuments(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	query := strings.TrimSpace(getStringDefault(args, "query", ""))
	if query == "" {
		return nil, newMCPError(ErrorCodeEmptyQuery, "query parameter is required and cannot be empty", map[string]interface{}{
			"param":  "query",
			"reason": "missing or empty",
		})
	}

	page, err := s.search.Search(
		ctx,
		query,
		domain.ParseSortOrder(getStringDefault(args, "sort", "")),
		getIntDefault(args, "page", 1),
		getIntDefault(args, "limit", 10),
	)
	if err != nil {
		slog.Warn("mcp_search_failed", "query", query, "error", err)
		return mcp.NewToolResultError(toolErrorMessage(err)), nil
	}

	hits := make([]searchHit, 0, len(page.Items))
	for _, item := range page.Items {
		hits = append(hits, searchHit{
			ID:        item.DocumentID,
			Filename:  item.OriginalFilename,
			FileType:  item.FileType,
			CreatedAt: item.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
			Score:     item.Score,
			Preview:   item.Preview,
		})
	}

	return mcp.NewToolResultText(formatJSON(map[string]interface{}{
		"results":        hits,
		"total":          page.Total,
		"page":           page.Page,
		"limit":          page.PageSize,
		"total_pages":    page.TotalPages,
		"strategy":       page.Strategy,
		"search_time_ms": page.ElapsedMS,
		"from_cache":     page.FromCache,
	})), nil
}

func (s *Server) handleSuggestPhrases(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	query := getStringDefault(args, "query", "")
	suggestions, err := s.search.Suggestions(ctx, query, getIntDefault(args, "limit", 5))
	if err != nil {
		slog.Warn("mcp_suggest_failed", "query", query, "error", err)
		return mcp.NewToolResultError(toolErrorMessage(err)), nil
	}

	return mcp.NewToolResultText(formatJSON(map[string]interface{}{
		"suggestions": suggestions,
	})), nil
}

func toolErrorMessage(err error) string {
	switch {
	case domain.IsKind(err, domain.ErrSearchUnavailable), domain.IsKind(err, domain.ErrTemporary):
		return "search backend unavailable, retry later"
	case domain.IsKind(err, domain.ErrInvalidInput):
		return err.Error()
	default:
		return "search failed"
	}
}

func formatJSON(data map[string]interface{}) string {
	bytes, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", data)
	}
	return string(bytes)
}

func getIntDefault(args map[string]interface{}, key string, defaultValue int) int {
	if val, ok := args[key].(float64); ok {
		return int(val)
	}
	if val, ok := args[key].(int); ok {
		return val
	}
	return defaultValue
}

func getStringDefault(args map[string]interface{}, key string, defaultValue string) string {
	if val, ok := args[key].(string); ok {
		return val
	}
	return defaultValue
}
