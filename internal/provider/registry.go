package provider

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/bobmcallan/restmcp/internal/common"
	"github.com/bobmcallan/restmcp/internal/openapi"
	"golang.org/x/sync/errgroup"
)

var (
	// ErrNoProviderDirs is returned when the specifications directory has no subdirectories.
	ErrNoProviderDirs = errors.New("no provider directories found")
	// ErrNoProviders is returned when every provider failed to load.
	ErrNoProviders = errors.New("no providers with proper configuration were found")
)

// loadConcurrency bounds how many providers are parsed at once.
const loadConcurrency = 8

// SpecLoader parses a specification file. *openapi.Loader satisfies it.
type SpecLoader interface {
	Load(ctx context.Context, path string) (*openapi.Specification, error)
}

// Provider is one configured API.
type Provider struct {
	Name     string
	Dir      string
	SpecPath string
	Spec     *openapi.Specification
	Binding  Binding
}

// Registry holds every provider that loaded successfully, sorted by name.
// It is not modified after LoadRegistry returns.
type Registry struct {
	providers []*Provider
	byName    map[string]*Provider
	failures  []error
}

// NewRegistry builds a registry from already-loaded providers.
func NewRegistry(providers ...*Provider) *Registry {
	r := &Registry{byName: make(map[string]*Provider, len(providers))}
	for _, p := range providers {
		if p == nil {
			continue
		}
		r.providers = append(r.providers, p)
		r.byName[p.Name] = p
	}
	sort.Slice(r.providers, func(i, j int) bool { return r.providers[i].Name < r.providers[j].Name })
	return r
}

// Providers returns the providers in name order.
func (r *Registry) Providers() []*Provider {
	out := make([]*Provider, len(r.providers))
	copy(out, r.providers)
	return out
}

// Get returns the provider with the given name.
func (r *Registry) Get(name string) (*Provider, bool) {
	p, ok := r.byName[name]
	return p, ok
}

// Len returns the number of loaded providers.
func (r *Registry) Len() int {
	return len(r.providers)
}

// Failures returns the errors of providers that were skipped.
func (r *Registry) Failures() []error {
	out := make([]error, len(r.failures))
	copy(out, r.failures)
	return out
}

// LoadRegistry scans dir for provider subdirectories and loads each one.
// A provider whose specification or configuration fails is logged and
// skipped; an error is returned only when no provider loads at all.
func LoadRegistry(ctx context.Context, dir string, loader SpecLoader, logger *common.Logger) (*Registry, error) {
	if logger == nil {
		logger = common.NewSilentLogger()
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read specifications directory %s: %w", dir, err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoProviderDirs, dir)
	}

	// Each goroutine owns one slot; nothing else is shared.
	loaded := make([]*Provider, len(names))
	errs := make([]error, len(names))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(loadConcurrency)
	for i, name := range names {
		g.Go(func() error {
			loaded[i], errs[i] = loadProvider(gctx, name, filepath.Join(dir, name), loader)
			return nil
		})
	}
	_ = g.Wait()

	var providers []*Provider
	var failures []error
	for i, name := range names {
		if errs[i] != nil {
			logger.Warn().Str("provider", name).Str("error", errs[i].Error()).Msg("skipping provider")
			failures = append(failures, errs[i])
			continue
		}
		p := loaded[i]
		logger.Info().
			Str("provider", name).
			Str("specification", filepath.Base(p.SpecPath)).
			Int("operations", p.Spec.OperationCount()).
			Msg("provider loaded")
		providers = append(providers, p)
	}

	if len(providers) == 0 {
		return nil, errors.Join(append([]error{ErrNoProviders}, failures...)...)
	}

	reg := NewRegistry(providers...)
	reg.failures = failures
	return reg, nil
}

func loadProvider(ctx context.Context, name, dir string, loader SpecLoader) (*Provider, error) {
	specPath, err := openapi.FindSpecification(dir)
	if err != nil {
		return nil, fmt.Errorf("provider %s: %w", name, err)
	}
	spec, err := loader.Load(ctx, specPath)
	if err != nil {
		return nil, fmt.Errorf("provider %s: %w", name, err)
	}

	binding, err := LoadBinding(name, dir)
	if err != nil {
		return nil, err
	}

	return &Provider{
		Name:     name,
		Dir:      dir,
		SpecPath: specPath,
		Spec:     spec,
		Binding:  binding,
	}, nil
}
