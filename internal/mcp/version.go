package mcp

import (
	"context"
	"encoding/json"

	"github.com/bobmcallan/restmcp/internal/common"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// VersionToolName is reserved; no generated tool may take it.
const VersionToolName = "get_version"

// Inventory describes what the server is hosting.
type Inventory struct {
	Providers []string
	Tools     int
}

type versionInfo struct {
	Version   string   `json:"version"`
	Build     string   `json:"build"`
	Commit    string   `json:"commit"`
	Providers []string `json:"providers"`
	Tools     int      `json:"tools"`
}

// VersionTool returns the mcp.Tool definition for get_version.
func VersionTool() mcp.Tool {
	return mcp.NewTool(VersionToolName,
		mcp.WithDescription("Get the server version and the providers and tools it exposes. Use this to verify connectivity."),
	)
}

// VersionToolHandler reports build information and the hosted inventory.
func VersionToolHandler(inv Inventory) server.ToolHandlerFunc {
	providers := append([]string{}, inv.Providers...)
	return func(ctx context.Context, r mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		out, err := json.Marshal(versionInfo{
			Version:   common.GetVersion(),
			Build:     common.GetBuild(),
			Commit:    common.GetGitCommit(),
			Providers: providers,
			Tools:     inv.Tools,
		})
		if err != nil {
			return errorResult("failed to marshal version info"), nil
		}
		return &mcp.CallToolResult{
			Content: []mcp.Content{mcp.NewTextContent(string(out))},
		}, nil
	}
}
