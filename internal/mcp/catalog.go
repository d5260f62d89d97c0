package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/bobmcallan/restmcp/internal/adapter"
	"github.com/bobmcallan/restmcp/internal/common"
	"github.com/bobmcallan/restmcp/internal/metrics"
	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// BuildMCPTool converts an adapted tool into an mcp.Tool with one input
// property per parameter, typed from the declared schema.
func BuildMCPTool(t *adapter.Tool) mcp.Tool {
	opts := []mcp.ToolOption{mcp.WithDescription(t.Documentation)}
	for _, p := range t.Parameters() {
		opts = append(opts, buildParamOption(p))
	}
	return mcp.NewTool(t.Name, opts...)
}

// buildParamOption maps an adapted parameter to the matching mcp-go option.
func buildParamOption(p adapter.Parameter) mcp.ToolOption {
	opts := []mcp.PropertyOption{mcp.Description(p.Description)}
	if p.Required {
		opts = append(opts, mcp.Required())
	}

	switch p.Type {
	case "integer", "number":
		return mcp.WithNumber(p.Name, opts...)
	case "boolean":
		return mcp.WithBoolean(p.Name, opts...)
	case "array":
		return mcp.WithArray(p.Name, opts...)
	case "object":
		return mcp.WithObject(p.Name, opts...)
	default:
		return mcp.WithString(p.Name, opts...)
	}
}

// ToolHandler returns the handler that invokes t with the call arguments.
// Argument binding errors and undecodable provider responses become error
// results; a failed provider exchange is a normal text result starting with
// "Request failed: ".
func ToolHandler(t *adapter.Tool, logger *common.Logger, collector *metrics.Collector) server.ToolHandlerFunc {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	return func(ctx context.Context, r mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		log := logger.WithCorrelationId(uuid.New().String())
		start := time.Now()

		res, err := t.Invoke(ctx, r.GetArguments())
		if err != nil {
			collector.RecordToolCall(t.Provider, t.Name, metrics.OutcomeError, statusOf(err), time.Since(start))
			log.Warn().
				Str("tool", t.Name).
				Str("method", t.Method).
				Str("path", t.Path).
				Str("error", err.Error()).
				Msg("tool call rejected")
			return errorResult(fmt.Sprintf("Error: %v", err)), nil
		}

		outcome := metrics.OutcomeOK
		if res.Failed {
			outcome = metrics.OutcomeRequestFailed
		}
		collector.RecordToolCall(t.Provider, t.Name, outcome, res.StatusCode, time.Since(start))
		log.Info().
			Str("tool", t.Name).
			Str("method", t.Method).
			Str("path", t.Path).
			Int("status", res.StatusCode).
			Int64("duration_ms", res.Duration.Milliseconds()).
			Msg("tool call")

		text, err := renderValue(res.Value)
		if err != nil {
			return errorResult(fmt.Sprintf("Error: failed to encode result: %v", err)), nil
		}
		return &mcp.CallToolResult{Content: []mcp.Content{mcp.NewTextContent(text)}}, nil
	}
}

// renderValue writes strings verbatim and everything else as JSON.
func renderValue(v any) (string, error) {
	if s, ok := v.(string); ok {
		return s, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func statusOf(err error) int {
	var te *adapter.TransportError
	if errors.As(err, &te) {
		return te.StatusCode
	}
	return 0
}
