// Package mcp hosts generated tools on an mcp-go server.
package mcp

import (
	"github.com/bobmcallan/restmcp/internal/adapter"
	"github.com/bobmcallan/restmcp/internal/common"
	"github.com/bobmcallan/restmcp/internal/metrics"
	"github.com/mark3labs/mcp-go/server"
)

// NewServer creates an MCP server advertising tool capabilities.
func NewServer(name string) *server.MCPServer {
	return server.NewMCPServer(
		name,
		common.GetVersion(),
		server.WithToolCapabilities(true),
		server.WithRecovery(),
	)
}

// RegisterTools registers every tool on s and returns the number registered.
func RegisterTools(s *server.MCPServer, tools []*adapter.Tool, logger *common.Logger, collector *metrics.Collector) int {
	for _, t := range tools {
		s.AddTool(BuildMCPTool(t), ToolHandler(t, logger, collector))
	}
	return len(tools)
}
