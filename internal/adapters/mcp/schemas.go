package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

func searchDocumentsTool() mcp.Tool {
	return mcp.Tool{
		Name:        "search_documents",
		Description: "Keyword search over uploaded documents. Multi-word queries are ranked by full-text relevance; single words and short terms use substring matching.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "Search text",
				},
				"sort": map[string]interface{}{
					"type":        "string",
					"description": "relevance (default) or date (newest first)",
					"enum":        []string{"relevance", "date"},
					"default":     "relevance",
				},
				"page": map[string]interface{}{
					"type":        "integer",
					"description": "1-based page number",
					"default":     1,
					"minimum":     1,
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Results per page (1-100)",
					"default":     10,
					"minimum":     1,
					"maximum":     100,
				},
			},
			Required: []string{"query"},
		},
	}
}

func suggestPhrasesTool() mcp.Tool {
	return mcp.Tool{
		Name:        "suggest_phrases",
		Description: "Suggest short phrases from document text and filenames that start with the given prefix",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "Prefix of at least two characters",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum suggestions (1-20)",
					"default":     5,
					"minimum":     1,
					"maximum":     20,
				},
			},
			Required: []string{"query"},
		},
	}
}
