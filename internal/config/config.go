package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/bobmcallan/restmcp/internal/common"
	"github.com/pelletier/go-toml/v2"
)

// Supported MCP transports.
const (
	TransportSSE        = "sse"
	TransportStreamable = "streamable"
	TransportStdio      = "stdio"
)

// Config represents the application configuration.
type Config struct {
	Server  ServerConfig         `toml:"server"`
	Specs   SpecsConfig          `toml:"specs"`
	HTTP    HTTPConfig           `toml:"http"`
	Logging common.LoggingConfig `toml:"logging"`
}

// ServerConfig contains MCP server settings.
type ServerConfig struct {
	Name      string `toml:"name"`
	Host      string `toml:"host"`
	Port      int    `toml:"port"`
	Transport string `toml:"transport"` // sse, streamable, stdio
}

// SpecsConfig points at the directory holding one subdirectory per provider.
type SpecsConfig struct {
	Dir string `toml:"dir"`
}

// HTTPConfig contains settings for requests sent to providers.
type HTTPConfig struct {
	Timeout string `toml:"timeout"` // Go duration; empty means no client timeout
}

// GetTimeout parses the configured timeout. Zero means no timeout.
func (c *HTTPConfig) GetTimeout() time.Duration {
	if c.Timeout == "" {
		return 0
	}
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 0
	}
	return d
}

// Address returns host:port for HTTP transports.
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// Validate returns a list of human-readable configuration problems.
func (c *Config) Validate() []string {
	var issues []string
	switch c.Server.Transport {
	case TransportSSE, TransportStreamable, TransportStdio:
	default:
		issues = append(issues, fmt.Sprintf("server.transport %q is not one of sse, streamable, stdio", c.Server.Transport))
	}
	if c.Server.Transport != TransportStdio && (c.Server.Port <= 0 || c.Server.Port > 65535) {
		issues = append(issues, fmt.Sprintf("server.port %d is out of range", c.Server.Port))
	}
	if strings.TrimSpace(c.Specs.Dir) == "" {
		issues = append(issues, "specs.dir is empty")
	}
	if c.HTTP.Timeout != "" {
		if d, err := time.ParseDuration(c.HTTP.Timeout); err != nil || d < 0 {
			issues = append(issues, fmt.Sprintf("http.timeout %q is not a valid duration", c.HTTP.Timeout))
		}
	}
	return issues
}

// LoadFromFile loads configuration with priority: defaults -> file -> env.
func LoadFromFile(path string) (*Config, error) {
	if path == "" {
		return LoadFromFiles()
	}
	return LoadFromFiles(path)
}

// LoadFromFiles loads configuration from multiple files with priority:
// defaults -> file1 -> file2 -> ... -> env.
// Later files override earlier files.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies RESTMCP_* environment variable overrides to config.
func applyEnvOverrides(config *Config) {
	if port := os.Getenv("RESTMCP_SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if host := os.Getenv("RESTMCP_SERVER_HOST"); host != "" {
		config.Server.Host = host
	}
	if transport := os.Getenv("RESTMCP_TRANSPORT"); transport != "" {
		config.Server.Transport = strings.ToLower(transport)
	}
	if dir := os.Getenv("RESTMCP_SPECS_DIR"); dir != "" {
		config.Specs.Dir = dir
	}
	if timeout := os.Getenv("RESTMCP_HTTP_TIMEOUT"); timeout != "" {
		config.HTTP.Timeout = timeout
	}
	if level := os.Getenv("RESTMCP_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if format := os.Getenv("RESTMCP_LOG_FORMAT"); format != "" {
		config.Logging.Format = format
	}
}

// FlagOverrides carries command-line values; zero values leave config untouched.
type FlagOverrides struct {
	Port      int
	Host      string
	SpecsDir  string
	Transport string
	Stdio     bool
}

// ApplyFlagOverrides applies command-line flag overrides to config.
func ApplyFlagOverrides(config *Config, f FlagOverrides) {
	if f.Port > 0 {
		config.Server.Port = f.Port
	}
	if f.Host != "" {
		config.Server.Host = f.Host
	}
	if f.SpecsDir != "" {
		config.Specs.Dir = f.SpecsDir
	}
	if f.Transport != "" {
		config.Server.Transport = strings.ToLower(f.Transport)
	}
	if f.Stdio {
		config.Server.Transport = TransportStdio
	}
}
