package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/bobmcallan/restmcp/internal/adapter"
	"github.com/bobmcallan/restmcp/internal/common"
	"github.com/bobmcallan/restmcp/internal/config"
	"github.com/bobmcallan/restmcp/internal/handlers"
	"github.com/bobmcallan/restmcp/internal/mcp"
	"github.com/bobmcallan/restmcp/internal/metrics"
	"github.com/bobmcallan/restmcp/internal/openapi"
	"github.com/bobmcallan/restmcp/internal/provider"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

const metricsNamespace = "restmcp"

// App holds all application components and dependencies.
type App struct {
	Config *config.Config
	Logger *common.Logger

	Registry *provider.Registry
	Tools    []*adapter.Tool
	Skipped  []error
	Metrics  *metrics.Collector

	MCPServer *mcpserver.MCPServer
	// MCPHandler is nil when serving over stdio.
	MCPHandler *mcp.Handler

	HealthHandler  *handlers.HealthHandler
	VersionHandler *handlers.VersionHandler
}

// New loads every provider under the configured specs directory, builds one
// tool per operation and registers them on an MCP server. It fails only when
// no provider can be loaded; individual providers and operations that cannot
// be adapted are logged and skipped.
func New(ctx context.Context, cfg *config.Config, logger *common.Logger) (*App, error) {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	a := &App{
		Config:  cfg,
		Logger:  logger,
		Metrics: metrics.NewCollector(metricsNamespace),
	}

	reg, err := provider.LoadRegistry(ctx, cfg.Specs.Dir, openapi.NewLoader(), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to load providers from %s: %w", cfg.Specs.Dir, err)
	}
	a.Registry = reg

	executor := adapter.NewExecutor(&http.Client{Timeout: cfg.HTTP.GetTimeout()}, logger)
	out := adapter.NewAssembler(executor, logger, mcp.VersionToolName).Assemble(reg)
	a.Tools = out.Tools
	a.Skipped = out.Skipped

	a.initMCP()
	if err := a.initTransport(); err != nil {
		return nil, err
	}
	a.initHandlers()

	perProvider := make(map[string]int, reg.Len())
	for _, t := range a.Tools {
		perProvider[t.Provider]++
	}
	a.Metrics.SetInventory(reg.Len(), perProvider, len(a.Skipped)+len(reg.Failures()))

	logger.Info().
		Int("providers", reg.Len()).
		Int("tools", len(a.Tools)).
		Int("skipped_operations", len(a.Skipped)).
		Int("skipped_providers", len(reg.Failures())).
		Msg(a.Summary())
	for i, t := range a.Tools {
		logger.Debug().Int("index", i+1).Str("tool", t.Name).Str("method", t.Method).Str("path", t.Path).Msg("tool registered")
	}

	return a, nil
}

func (a *App) initMCP() {
	a.MCPServer = mcp.NewServer(a.Config.Server.Name)
	mcp.RegisterTools(a.MCPServer, a.Tools, a.Logger, a.Metrics)
	a.MCPServer.AddTool(mcp.VersionTool(), mcp.VersionToolHandler(mcp.Inventory{
		Providers: a.ProviderNames(),
		Tools:     len(a.Tools),
	}))
}

func (a *App) initHandlers() {
	a.HealthHandler = handlers.NewHealthHandler(a.Logger, a.Registry.Len(), len(a.Tools))
	a.VersionHandler = handlers.NewVersionHandler()
	a.Logger.Debug().Msg("HTTP handlers initialized")
}

func (a *App) initTransport() error {
	if a.Config.Server.Transport == config.TransportStdio {
		return nil
	}
	h, err := mcp.NewHandler(a.MCPServer, a.Config.Server.Transport, a.Logger)
	if err != nil {
		return err
	}
	a.MCPHandler = h
	return nil
}

// Summary returns the one-line startup summary.
func (a *App) Summary() string {
	return fmt.Sprintf("Created %d tools from %d providers.", len(a.Tools), a.Registry.Len())
}

// ToolNames returns tool names in registration order.
func (a *App) ToolNames() []string {
	names := make([]string, len(a.Tools))
	for i, t := range a.Tools {
		names[i] = t.Name
	}
	return names
}

// ProviderNames returns loaded provider names in sorted order.
func (a *App) ProviderNames() []string {
	providers := a.Registry.Providers()
	names := make([]string, len(providers))
	for i, p := range providers {
		names[i] = p.Name
	}
	return names
}

// Close closes all application resources.
func (a *App) Close(ctx context.Context) error {
	if a.MCPHandler != nil {
		return a.MCPHandler.Shutdown(ctx)
	}
	return nil
}
