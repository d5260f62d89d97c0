package mcp

import (
	"encoding/json"
	"testing"

	"github.com/bobmcallan/restmcp/internal/common"
	mcpgo "github.com/mark3labs/mcp-go/mcp"
)

func TestVersionToolHandler_ReportsInventory(t *testing.T) {
	handler := VersionToolHandler(Inventory{Providers: []string{"shop", "weather"}, Tools: 7})

	result, err := handler(t.Context(), mcpgo.CallToolRequest{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected tool error: %v", result.Content)
	}

	var info versionInfo
	text := result.Content[0].(mcpgo.TextContent).Text
	if err := json.Unmarshal([]byte(text), &info); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}

	if info.Version != common.GetVersion() {
		t.Errorf("expected version %s, got %s", common.GetVersion(), info.Version)
	}
	if info.Tools != 7 {
		t.Errorf("expected 7 tools, got %d", info.Tools)
	}
	if len(info.Providers) != 2 || info.Providers[0] != "shop" {
		t.Errorf("unexpected providers %v", info.Providers)
	}
}

func TestVersionTool_RegisteredAlongsideGeneratedTools(t *testing.T) {
	s, _ := newTestServer(t, nil)
	s.AddTool(VersionTool(), VersionToolHandler(Inventory{Providers: []string{"shop"}, Tools: 4}))

	if findTool(listTools(t, s), VersionToolName) == nil {
		t.Fatal("get_version not listed")
	}

	result := callTool(t, s, VersionToolName, nil)
	if result.IsError {
		t.Fatal("unexpected error result")
	}
	var info versionInfo
	if err := json.Unmarshal([]byte(extractText(t, result.Content[0])), &info); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if info.Tools != 4 {
		t.Errorf("expected 4 tools, got %d", info.Tools)
	}
}
