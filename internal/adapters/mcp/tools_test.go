package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/silindokuhleL/document-search-portal/internal/core/domain"
)

type searcherFake struct {
	page        domain.ResultPage
	suggestions []string
	err         error

	gotQuery string
	gotSort  domain.SortOrder
	gotPage  int
	gotLimit int
}

func (f *searcherFake) Search(_ context.Context, query string, sortBy domain.SortOrder, page, pageSize int) (domain.ResultPage, error) {
	f.gotQuery, f.gotSort, f.gotPage, f.gotLimit = query, sortBy, page, pageSize
	return f.page, f.err
}

func (f *searcherFake) Suggestions(_ context.Context, query string, limit int) ([]string, error) {
	f.gotQuery, f.gotLimit = query, limit
	return f.suggestions, f.err
}

func callTool(name string, args map[string]interface{}) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, result)
	require.NotEmpty(t, result.Content)
	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content, got %T", result.Content[0])
	return text.Text
}

func TestSearchDocumentsTool(t *testing.T) {
	fake := &searcherFake{page: domain.ResultPage{
		Items: []domain.ResultItem{{
			DocumentID:       3,
			OriginalFilename: "q3.pdf",
			FileType:         "application/pdf",
			CreatedAt:        time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
			Score:            0.5,
			Preview:          "<mark>budget</mark> review",
		}},
		Total: 1, Page: 2, PageSize: 5, TotalPages: 1,
		Strategy: domain.StrategyRelevance,
	}}
	s := NewServer(fake)

	result, err := s.handleSearchDocuments(context.Background(), callTool("search_documents", map[string]interface{}{
		"query": "  budget review ",
		"sort":  "date",
		"page":  float64(2),
		"limit": float64(5),
	}))
	require.NoError(t, err)
	assert.False(t, result.IsError)

	assert.Equal(t, "budget review", fake.gotQuery)
	assert.Equal(t, domain.SortDate, fake.gotSort)
	assert.Equal(t, 2, fake.gotPage)
	assert.Equal(t, 5, fake.gotLimit)

	var body struct {
		Results  []searchHit `json:"results"`
		Total    int         `json:"total"`
		Strategy string      `json:"strategy"`
	}
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &body))
	require.Len(t, body.Results, 1)
	assert.Equal(t, "q3.pdf", body.Results[0].Filename)
	assert.Equal(t, "<mark>budget</mark> review", body.Results[0].Preview)
	assert.Equal(t, "relevance", body.Strategy)
}

func TestSearchDocumentsToolRequiresQuery(t *testing.T) {
	s := NewServer(&searcherFake{})

	_, err := s.handleSearchDocuments(context.Background(), callTool("search_documents", map[string]interface{}{"query": "   "}))
	var mcpErr *MCPError
	require.True(t, errors.As(err, &mcpErr))
	assert.Equal(t, ErrorCodeEmptyQuery, mcpErr.Code)

	bad := mcp.CallToolRequest{Params: mcp.CallToolParams{Name: "search_documents", Arguments: "budget"}}
	_, err = s.handleSearchDocuments(context.Background(), bad)
	require.True(t, errors.As(err, &mcpErr))
	assert.Equal(t, ErrorCodeInvalidParams, mcpErr.Code)
}

func TestSearchDocumentsToolReportsUnavailableStore(t *testing.T) {
	s := NewServer(&searcherFake{err: domain.WrapError(domain.ErrSearchUnavailable, "search documents", errors.New("dial tcp"))})

	result, err := s.handleSearchDocuments(context.Background(), callTool("search_documents", map[string]interface{}{"query": "budget"}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Equal(t, "search backend unavailable, retry later", resultText(t, result))
}

func TestSuggestPhrasesTool(t *testing.T) {
	fake := &searcherFake{suggestions: []string{"budget review is due"}}
	s := NewServer(fake)

	result, err := s.handleSuggestPhrases(context.Background(), callTool("suggest_phrases", map[string]interface{}{
		"query": "bud",
	}))
	require.NoError(t, err)
	assert.Equal(t, "bud", fake.gotQuery)
	assert.Equal(t, 5, fake.gotLimit)

	var body struct {
		Suggestions []string `json:"suggestions"`
	}
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &body))
	assert.Equal(t, []string{"budget review is due"}, body.Suggestions)
}
