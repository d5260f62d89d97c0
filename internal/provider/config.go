// Package provider discovers API providers on disk and builds the immutable
// Provider Registry: one specification plus base URL and default headers per
// provider directory.
package provider

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ConfigFiles are probed in order; the first one present is used.
var ConfigFiles = []string{"config.json", "config.yaml", "config.yml"}

// ErrNoConfig is returned when a provider directory holds none of ConfigFiles.
var ErrNoConfig = errors.New("configuration file not found")

// ConfigurationError reports a missing or invalid provider configuration.
type ConfigurationError struct {
	Provider string
	Path     string
	Err      error
}

func (e *ConfigurationError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("provider %s: %v", e.Provider, e.Err)
	}
	return fmt.Sprintf("provider %s: %s: %v", e.Provider, e.Path, e.Err)
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

// Binding is the per-provider request configuration.
type Binding struct {
	BaseURL string
	Headers http.Header
}

// fileConfig mirrors config.json / config.yaml.
type fileConfig struct {
	BaseURL *string           `json:"base_url" yaml:"base_url"`
	Headers map[string]string `json:"headers" yaml:"headers"`
}

// LoadBinding reads the provider configuration in dir.
func LoadBinding(name, dir string) (Binding, error) {
	path, err := findConfig(dir)
	if err != nil {
		return Binding{}, &ConfigurationError{Provider: name, Err: err}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Binding{}, &ConfigurationError{Provider: name, Path: path, Err: err}
	}

	var fc fileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		err = json.Unmarshal(data, &fc)
	default:
		err = yaml.Unmarshal(data, &fc)
	}
	if err != nil {
		return Binding{}, &ConfigurationError{Provider: name, Path: path, Err: fmt.Errorf("failed to parse: %w", err)}
	}

	if fc.BaseURL == nil || strings.TrimSpace(*fc.BaseURL) == "" {
		return Binding{}, &ConfigurationError{Provider: name, Path: path, Err: errors.New("base_url not found")}
	}

	baseURL := strings.TrimSpace(*fc.BaseURL)
	if u, err := url.Parse(baseURL); err != nil {
		return Binding{}, &ConfigurationError{Provider: name, Path: path, Err: fmt.Errorf("invalid base_url: %w", err)}
	} else if u.Scheme == "" || u.Host == "" {
		return Binding{}, &ConfigurationError{Provider: name, Path: path, Err: fmt.Errorf("invalid base_url %q: scheme and host are required", baseURL)}
	}

	headers := make(http.Header, len(fc.Headers))
	for k, v := range fc.Headers {
		headers.Set(k, v)
	}
	return Binding{BaseURL: baseURL, Headers: headers}, nil
}

func findConfig(dir string) (string, error) {
	for _, name := range ConfigFiles {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, nil
		}
	}
	return "", ErrNoConfig
}
