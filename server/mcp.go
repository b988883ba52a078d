package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/hazyhaar/pagebridge/extract"
	"github.com/hazyhaar/pagebridge/transform"
	"github.com/hazyhaar/pagebridge/tree"
)

// RegisterMCP registers the page tools on an MCP server.
func (s *Server) RegisterMCP(srv *mcp.Server) {
	s.registerAnalyzeTool(srv)
	s.registerExtractTool(srv)
	s.registerConvertTool(srv)
	s.registerPairsTool(srv)
}

func inputSchema(properties map[string]any, required []string) map[string]any {
	schema := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

// addTool registers a handler returning a plain value, marshalled into a
// text content block. Handler errors become tool errors, not protocol
// errors.
func addTool[Req any](srv *mcp.Server, tool *mcp.Tool, fn func(context.Context, *Req) (any, error)) {
	srv.AddTool(tool, func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var r Req
		if len(req.Params.Arguments) > 0 {
			if err := json.Unmarshal(req.Params.Arguments, &r); err != nil {
				var res mcp.CallToolResult
				res.SetError(fmt.Errorf("invalid arguments: %w", err))
				return &res, nil
			}
		}
		resp, err := fn(ctx, &r)
		if err != nil {
			var res mcp.CallToolResult
			res.SetError(errors.New(err.Error()))
			return &res, nil
		}
		data, err := json.Marshal(resp)
		if err != nil {
			var res mcp.CallToolResult
			res.SetError(fmt.Errorf("marshal: %w", err))
			return &res, nil
		}
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: string(data)}},
		}, nil
	})
}

type contentReq struct {
	Content json.RawMessage `json:"content"`
}

func (r *contentReq) document() (*tree.Document, error) {
	if len(r.Content) == 0 {
		return nil, fmt.Errorf("missing content")
	}
	return tree.Parse(r.Content)
}

func (s *Server) registerAnalyzeTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "page_analyze",
		Description: "Analyze a page tree: element counts, zone partition, content inventory.",
		InputSchema: inputSchema(map[string]any{
			"content": map[string]any{"type": "object", "description": "Elementor page JSON (array or wrapped document)"},
		}, []string{"content"}),
	}

	addTool(srv, tool, func(_ context.Context, r *contentReq) (any, error) {
		doc, err := r.document()
		if err != nil {
			return nil, err
		}
		return transform.Analyze(doc), nil
	})
}

func (s *Server) registerExtractTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "page_extract",
		Description: "Extract user-visible content items from a page tree, with paths for write-back.",
		InputSchema: inputSchema(map[string]any{
			"content": map[string]any{"type": "object", "description": "Elementor page JSON"},
		}, []string{"content"}),
	}

	addTool(srv, tool, func(_ context.Context, r *contentReq) (any, error) {
		doc, err := r.document()
		if err != nil {
			return nil, err
		}
		return map[string]any{"items": extract.Content(doc)}, nil
	})
}

type convertReq struct {
	Content json.RawMessage `json:"content"`
	Source  string          `json:"source"`
	Target  string          `json:"target"`
}

func (s *Server) registerConvertTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "page_convert",
		Description: "Convert a page tree to another page builder dialect (html, gutenberg, divi, wpbakery, bricks, markdown).",
		InputSchema: inputSchema(map[string]any{
			"content": map[string]any{"type": "object", "description": "Elementor page JSON"},
			"source":  map[string]any{"type": "string", "description": "Source framework (default elementor)"},
			"target":  map[string]any{"type": "string", "description": "Target framework"},
		}, []string{"content", "target"}),
	}

	addTool(srv, tool, func(_ context.Context, r *convertReq) (any, error) {
		source := r.Source
		if source == "" {
			source = "elementor"
		}
		conv, err := s.registry.Get(source, r.Target)
		if err != nil {
			return nil, err
		}
		doc, err := tree.Parse(r.Content)
		if err != nil {
			return nil, err
		}
		out, err := conv.Convert(doc.Elements)
		if err != nil {
			return nil, err
		}
		return map[string]string{"output": out, "ext": conv.Ext()}, nil
	})
}

func (s *Server) registerPairsTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "page_pairs",
		Description: "List supported conversion pairs.",
		InputSchema: inputSchema(map[string]any{}, nil),
	}

	addTool(srv, tool, func(_ context.Context, _ *struct{}) (any, error) {
		return map[string]any{"pairs": s.registry.Pairs()}, nil
	})
}
