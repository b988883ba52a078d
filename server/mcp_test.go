package server

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

var testMCPImpl = &mcp.Implementation{Name: "pagebridge-test", Version: "0.1.0"}

func mcpSession(t *testing.T) *mcp.ClientSession {
	t.Helper()
	s := New(nil, nil)
	srv := mcp.NewServer(testMCPImpl, nil)
	s.RegisterMCP(srv)

	serverT, clientT := mcp.NewInMemoryTransports()
	ctx := context.Background()
	go func() { _ = srv.Run(ctx, serverT) }()

	client := mcp.NewClient(testMCPImpl, nil)
	session, err := client.Connect(ctx, clientT, nil)
	if err != nil {
		t.Fatalf("client connect: %v", err)
	}
	t.Cleanup(func() { session.Close() })
	return session
}

func mcpCallTool(t *testing.T, session *mcp.ClientSession, name string, args any) string {
	t.Helper()
	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      name,
		Arguments: args,
	})
	if err != nil {
		t.Fatalf("CallTool(%s): %v", name, err)
	}
	if err := result.GetError(); err != nil {
		t.Fatalf("CallTool(%s) tool error: %v", name, err)
	}
	tc, ok := result.Content[0].(*mcp.TextContent)
	if !ok {
		t.Fatalf("CallTool(%s): expected TextContent", name)
	}
	return tc.Text
}

func pageArg(t *testing.T) json.RawMessage {
	t.Helper()
	return json.RawMessage(samplePage)
}

func TestMCPPairs(t *testing.T) {
	session := mcpSession(t)

	text := mcpCallTool(t, session, "page_pairs", map[string]any{})

	var resp struct {
		Pairs []struct {
			Source string `json:"source"`
			Target string `json:"target"`
		} `json:"pairs"`
	}
	if err := json.Unmarshal([]byte(text), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(resp.Pairs) != 7 {
		t.Errorf("expected 7 pairs, got %d: %v", len(resp.Pairs), resp.Pairs)
	}
}

func TestMCPAnalyze(t *testing.T) {
	session := mcpSession(t)

	text := mcpCallTool(t, session, "page_analyze", map[string]any{
		"content": pageArg(t),
	})

	var resp struct {
		TotalElements int    `json:"total_elements"`
		Widgets       int    `json:"widgets"`
		Preservation  string `json:"metadata_preservation"`
	}
	if err := json.Unmarshal([]byte(text), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.TotalElements != 4 || resp.Widgets != 2 {
		t.Errorf("analysis = %+v", resp)
	}
	if resp.Preservation != "100%" {
		t.Errorf("preservation = %q", resp.Preservation)
	}
}

func TestMCPExtract(t *testing.T) {
	session := mcpSession(t)

	text := mcpCallTool(t, session, "page_extract", map[string]any{
		"content": pageArg(t),
	})

	var resp struct {
		Items []struct {
			Path  string `json:"path"`
			Key   string `json:"key"`
			Value string `json:"value"`
		} `json:"items"`
	}
	if err := json.Unmarshal([]byte(text), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(resp.Items) != 2 {
		t.Fatalf("expected 2 content items, got %d", len(resp.Items))
	}
	if resp.Items[0].Value != "Hello" {
		t.Errorf("first item = %+v", resp.Items[0])
	}
}

func TestMCPConvert(t *testing.T) {
	session := mcpSession(t)

	text := mcpCallTool(t, session, "page_convert", map[string]any{
		"content": pageArg(t),
		"target":  "html",
	})

	var resp struct {
		Output string `json:"output"`
		Ext    string `json:"ext"`
	}
	if err := json.Unmarshal([]byte(text), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Ext != "html" {
		t.Errorf("ext = %q", resp.Ext)
	}
	if resp.Output == "" {
		t.Error("empty output")
	}
}

func TestMCPConvertUnknownPair(t *testing.T) {
	session := mcpSession(t)

	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name: "page_convert",
		Arguments: map[string]any{
			"content": pageArg(t),
			"target":  "framer",
		},
	})
	if err != nil {
		t.Fatalf("CallTool: %v", err)
	}
	if !result.IsError {
		t.Fatal("expected tool error for unknown pair")
	}
}
