package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/bobmcallan/restmcp/internal/app"
	"github.com/bobmcallan/restmcp/internal/common"
	"github.com/bobmcallan/restmcp/internal/config"
	"github.com/bobmcallan/restmcp/internal/server"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
)

// options holds flags shared by serve and tools.
type options struct {
	configFiles []string
	flags       config.FlagOverrides
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "restmcp",
		Short:         "Expose REST API operations described by OpenAPI documents as MCP tools",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, opts)
		},
	}

	pf := root.PersistentFlags()
	pf.StringArrayVarP(&opts.configFiles, "config", "c", nil, "Configuration file path (can be specified multiple times)")
	pf.StringVar(&opts.flags.SpecsDir, "specs", "", "Directory holding one subdirectory per provider (overrides config)")

	serveFlags := func(cmd *cobra.Command) {
		f := cmd.Flags()
		f.BoolVar(&opts.flags.Stdio, "stdio", false, "Serve MCP over stdin/stdout")
		f.StringVar(&opts.flags.Host, "host", "", "Server host (overrides config)")
		f.IntVarP(&opts.flags.Port, "port", "p", 0, "Server port (overrides config)")
		f.StringVar(&opts.flags.Transport, "transport", "", "HTTP transport: sse or streamable (overrides config)")
	}
	serveFlags(root)

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Load providers and serve their operations as MCP tools",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, opts)
		},
	}
	serveFlags(serveCmd)

	toolsCmd := &cobra.Command{
		Use:   "tools",
		Short: "List the tools generated from the configured providers",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTools(cmd, opts)
		},
	}

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			common.LoadVersionFromFile()
			fmt.Fprintf(cmd.OutOrStdout(), "restmcp %s\n", common.GetFullVersion())
		},
	}

	root.AddCommand(serveCmd, toolsCmd, versionCmd)
	return root
}

// loadConfig resolves configuration: defaults -> files -> env -> flags.
func loadConfig(opts *options) (*config.Config, error) {
	files := opts.configFiles
	if len(files) == 0 {
		for _, path := range configSearchPaths() {
			if _, err := os.Stat(path); err == nil {
				files = append(files, path)
				break
			}
		}
	}

	cfg, err := config.LoadFromFiles(files...)
	if err != nil {
		return nil, err
	}
	config.ApplyFlagOverrides(cfg, opts.flags)

	if issues := cfg.Validate(); len(issues) > 0 {
		return nil, fmt.Errorf("invalid configuration:\n  - %s", strings.Join(issues, "\n  - "))
	}
	return cfg, nil
}

func runServe(cmd *cobra.Command, opts *options) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), err)
		return err
	}

	common.LoadVersionFromFile()
	logger := common.NewLoggerFromConfig(cfg.Logging)

	logger.Info().
		Str("version", common.GetFullVersion()).
		Str("transport", cfg.Server.Transport).
		Str("specs_dir", cfg.Specs.Dir).
		Msg("configuration loaded")

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Error().Str("error", err.Error()).Msg("failed to initialize application")
		return err
	}
	printSummary(cmd.ErrOrStderr(), application)

	if cfg.Server.Transport == config.TransportStdio {
		// stdout carries the protocol from here on
		if err := mcpserver.ServeStdio(application.MCPServer); err != nil {
			logger.Error().Str("error", err.Error()).Msg("stdio server error")
			return err
		}
		return nil
	}

	srv := server.New(application)
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error().Str("error", err.Error()).Msg("server failed")
		}
		return err
	case <-ctx.Done():
		logger.Info().Msg("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var errs []error
	if err := application.Close(shutdownCtx); err != nil {
		logger.Error().Str("error", err.Error()).Msg("MCP transport shutdown failed")
		errs = append(errs, err)
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Str("error", err.Error()).Msg("server shutdown failed")
		errs = append(errs, err)
	}

	logger.Info().Msg("server stopped")
	return errors.Join(errs...)
}

func runTools(cmd *cobra.Command, opts *options) error {
	// Listing never serves, so skip the HTTP transport.
	opts.flags.Stdio = true
	cfg, err := loadConfig(opts)
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), err)
		return err
	}

	logger := common.NewLoggerFromConfig(common.LoggingConfig{Level: "warn", Outputs: []string{"console"}})
	application, err := app.New(cmd.Context(), cfg, logger)
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), err)
		return err
	}
	printSummary(cmd.OutOrStdout(), application)
	return nil
}

// printSummary writes the summary line followed by one line per tool.
func printSummary(w io.Writer, a *app.App) {
	fmt.Fprintln(w, a.Summary())
	for i, name := range a.ToolNames() {
		fmt.Fprintf(w, "Tool %d: %s\n", i+1, name)
	}
}

// configSearchPaths returns TOML files to auto-discover (first match wins).
// Binary-relative paths are tried before the working directory.
func configSearchPaths() []string {
	candidates := []string{
		"restmcp.toml",
		filepath.Join("config", "restmcp.toml"),
	}

	exe, err := os.Executable()
	if err != nil {
		return candidates
	}
	binDir := filepath.Dir(exe)

	paths := []string{
		filepath.Join(binDir, "restmcp.toml"),
		filepath.Join(binDir, "config", "restmcp.toml"),
	}
	paths = append(paths, candidates...)

	seen := make(map[string]bool, len(paths))
	deduped := make([]string, 0, len(paths))
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			abs = p
		}
		if seen[abs] {
			continue
		}
		seen[abs] = true
		deduped = append(deduped, p)
	}
	return deduped
}
