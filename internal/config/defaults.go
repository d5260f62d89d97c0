package config

import "github.com/bobmcallan/restmcp/internal/common"

// NewDefaultConfig creates a configuration with default values.
func NewDefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Name:      "Rest API Proxy Server",
			Host:      "0.0.0.0",
			Port:      8090,
			Transport: TransportSSE,
		},
		Specs: SpecsConfig{
			Dir: "specifications",
		},
		Logging: common.LoggingConfig{
			Level:   "info",
			Format:  "text",
			Outputs: []string{"console"},
		},
	}
}
