package mcp

import (
	"context"
	"fmt"
	"net/http"

	"github.com/bobmcallan/restmcp/internal/common"
	"github.com/bobmcallan/restmcp/internal/config"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

// Endpoint paths served by the HTTP transports. mcp-go matches them exactly,
// so none of them may carry a trailing slash.
const (
	SSEPath        = "/sse"
	MessagePath    = "/messages"
	StreamablePath = "/mcp"
)

type transportServer interface {
	http.Handler
	Shutdown(ctx context.Context) error
}

// Handler is the HTTP handler for the MCP endpoints.
// It wraps one of mcp-go's HTTP transports and delegates to it.
type Handler struct {
	transport string
	srv       transportServer
	paths     []string
	logger    *common.Logger
}

// NewHandler creates a handler serving s over the named HTTP transport.
func NewHandler(s *mcpserver.MCPServer, transport string, logger *common.Logger) (*Handler, error) {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	h := &Handler{transport: transport, logger: logger}

	switch transport {
	case config.TransportSSE:
		h.srv = mcpserver.NewSSEServer(s,
			mcpserver.WithSSEEndpoint(SSEPath),
			mcpserver.WithMessageEndpoint(MessagePath),
		)
		h.paths = []string{SSEPath, MessagePath}
	case config.TransportStreamable:
		h.srv = mcpserver.NewStreamableHTTPServer(s,
			mcpserver.WithEndpointPath(StreamablePath),
			mcpserver.WithStateLess(true),
		)
		h.paths = []string{StreamablePath}
	default:
		return nil, fmt.Errorf("unsupported HTTP transport %q", transport)
	}

	logger.Info().
		Str("transport", transport).
		Strs("paths", h.paths).
		Msg("MCP handler initialized")
	return h, nil
}

// Paths returns the URL paths the handler must be mounted on.
func (h *Handler) Paths() []string {
	return append([]string{}, h.paths...)
}

// Transport returns the transport name.
func (h *Handler) Transport() string {
	return h.transport
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.srv.ServeHTTP(w, r)
}

// Shutdown closes open sessions and streams.
func (h *Handler) Shutdown(ctx context.Context) error {
	return h.srv.Shutdown(ctx)
}
