package adapter

import (
	"fmt"

	"github.com/bobmcallan/restmcp/internal/common"
	"github.com/bobmcallan/restmcp/internal/provider"
)

// DuplicateToolError reports an operation whose tool name is already taken.
type DuplicateToolError struct {
	Name     string
	Provider string
	Method   string
	Path     string
}

func (e *DuplicateToolError) Error() string {
	return fmt.Sprintf("tool %q from %s %s %s duplicates an existing tool", e.Name, e.Provider, e.Method, e.Path)
}

// Assembly is the outcome of building tools for a whole registry.
type Assembly struct {
	Tools   []*Tool
	Skipped []error // one entry per operation that produced no tool
}

// Assembler builds one tool per operation across all providers.
type Assembler struct {
	executor *Executor
	logger   *common.Logger
	reserved map[string]bool
}

// NewAssembler creates an assembler. Reserved names are never assigned to
// generated tools.
func NewAssembler(executor *Executor, logger *common.Logger, reserved ...string) *Assembler {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	r := make(map[string]bool, len(reserved))
	for _, name := range reserved {
		r[name] = true
	}
	return &Assembler{executor: executor, logger: logger, reserved: r}
}

// Assemble walks providers in name order, paths in template order and
// operations in method order. A failing operation is logged and skipped; it
// never stops the rest of the catalog. When two operations produce the same
// tool name the first one wins.
func (a *Assembler) Assemble(reg *provider.Registry) Assembly {
	var out Assembly
	seen := make(map[string]bool)
	for name := range a.reserved {
		seen[name] = true
	}

	for _, p := range reg.Providers() {
		count := 0
		for _, entry := range p.Spec.Paths {
			for _, op := range entry.Operations {
				tool, err := Build(p.Name, p.Binding, entry.URL, op, a.executor)
				if err != nil {
					a.logger.Warn().
						Str("provider", p.Name).
						Str("operation", op.ID).
						Str("method", op.Method).
						Str("path", entry.URL).
						Str("error", err.Error()).
						Msg("skipping tool creation")
					out.Skipped = append(out.Skipped, err)
					continue
				}
				if seen[tool.Name] {
					dup := &DuplicateToolError{Name: tool.Name, Provider: p.Name, Method: tool.Method, Path: entry.URL}
					a.logger.Warn().Str("provider", p.Name).Str("tool", tool.Name).Msg("skipping duplicate tool")
					out.Skipped = append(out.Skipped, dup)
					continue
				}
				seen[tool.Name] = true
				out.Tools = append(out.Tools, tool)
				count++
				a.logger.Debug().Str("provider", p.Name).Str("tool", tool.Name).Msg("tool created")
			}
		}
		a.logger.Info().Str("provider", p.Name).Int("tools", count).Msg("provider tools assembled")
	}
	return out
}
