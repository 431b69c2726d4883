// Command summarizer-mcp exposes the summarization engine as an MCP tool
// over stdio, the way the teacher exposes its index both as a raw RPC
// server and as an MCP server from the same core.
//
// Grounded on internal/mcp/server.go/handlers.go (teacher), trimmed to a
// single domain tool and a single diagnostic tool instead of the dozens of
// code-search tools that package registers.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/standardbeagle/summarizerd/internal/diag"
	"github.com/standardbeagle/summarizerd/internal/engine"
	"github.com/standardbeagle/summarizerd/internal/langdoc"
	"github.com/standardbeagle/summarizerd/internal/stream"
	"github.com/standardbeagle/summarizerd/internal/version"
)

type summarizeParams struct {
	Text           string  `json:"text"`
	Path           string  `json:"path"`
	Ratio          float64 `json:"ratio"`
	DictionaryPath string  `json:"dictionary_path"`
}

type relatedStemsParams struct {
	Text string `json:"text"`
}

func main() {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "summarizerd-mcp",
		Version: version.Version,
	}, nil)

	server.AddTool(&mcp.Tool{
		Name:        "summarize",
		Description: "Extractively summarize text or a file to a target word-retention ratio.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"text":            {Type: "string", Description: "Article text, mutually exclusive with path"},
				"path":            {Type: "string", Description: "Path to an article file, mutually exclusive with text"},
				"ratio":           {Type: "number", Description: "Fraction of words to retain, in (0, 1]"},
				"dictionary_path": {Type: "string", Description: "Language document path; the call fails when it is empty"},
			},
			Required: []string{"ratio"},
		},
	}, handleSummarize)

	server.AddTool(&mcp.Tool{
		Name:        "related_stems",
		Description: "Diagnostic: cluster the words of a text by shared Porter2 stem, distinct from the grading engine's own core/stem reduction.",
		InputSchema: &jsonschema.Schema{
			Type:       "object",
			Properties: map[string]*jsonschema.Schema{"text": {Type: "string"}},
			Required:   []string{"text"},
		},
	}, handleRelatedStems)

	if err := server.Run(context.Background(), &mcp.StdioTransport{}); err != nil {
		fmt.Fprintln(os.Stderr, "summarizer-mcp:", err)
		os.Exit(1)
	}
}

func handleSummarize(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var p summarizeParams
	if err := json.Unmarshal(req.Params.Arguments, &p); err != nil {
		return errorResult(fmt.Errorf("invalid parameters: %w", err))
	}
	if p.Ratio <= 0 || p.Ratio > 1 {
		return errorResult(fmt.Errorf("ratio must be in (0, 1]"))
	}

	dictPath := p.DictionaryPath
	if dictPath == "" {
		return errorResult(fmt.Errorf("dictionary_path is required"))
	}
	df, err := os.Open(dictPath)
	if err != nil {
		return errorResult(fmt.Errorf("open dictionary: %w", err))
	}
	defer df.Close()
	lang, err := langdoc.Load(df)
	if err != nil {
		return errorResult(fmt.Errorf("load dictionary: %w", err))
	}

	src, err := articleSource(p)
	if err != nil {
		return errorResult(err)
	}

	article, err := engine.ParseArticle(src, lang)
	if err != nil {
		return errorResult(fmt.Errorf("parse article: %w", err))
	}
	if err := engine.Grade(article, lang, p.Ratio, engine.Options{}); err != nil {
		return errorResult(fmt.Errorf("grade article: %w", err))
	}

	return jsonResult(map[string]any{"summary": engine.Summary(article)})
}

func articleSource(p summarizeParams) ([]byte, error) {
	if p.Path != "" {
		s, err := stream.Open(p.Path)
		if err != nil {
			return nil, fmt.Errorf("open article: %w", err)
		}
		defer s.Close()
		return append([]byte(nil), s.Slice(0, s.Len())...), nil
	}
	if p.Text != "" {
		return []byte(p.Text), nil
	}
	return nil, fmt.Errorf("one of text or path is required")
}

func handleRelatedStems(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var p relatedStemsParams
	if err := json.Unmarshal(req.Params.Arguments, &p); err != nil {
		return errorResult(fmt.Errorf("invalid parameters: %w", err))
	}
	words := strings.Fields(p.Text)
	clusters := diag.BuildRelatedStems(words, 3).Clusters()
	return jsonResult(map[string]any{"clusters": clusters})
}

func jsonResult(data any) (*mcp.CallToolResult, error) {
	content, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("marshal response: %w", err)
	}
	return &mcp.CallToolResult{Content: []mcp.Content{&mcp.TextContent{Text: string(content)}}}, nil
}

func errorResult(err error) (*mcp.CallToolResult, error) {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: err.Error()}},
	}, nil
}
