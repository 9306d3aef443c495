// Package config loads PDBe MCP server configuration from TOML files
// with environment variable overrides.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/PDBeurope/PDBe-MCP-Servers/internal/common"
)

// Config represents the application configuration.
type Config struct {
	Server  ServerConfig         `toml:"server"`
	API     APIConfig            `toml:"api"`
	Graph   GraphConfig          `toml:"graph"`
	Search  SearchConfig         `toml:"search"`
	Client  ClientConfig         `toml:"client"`
	Logging common.LoggingConfig `toml:"logging"`
}

// ServerConfig contains MCP server settings.
type ServerConfig struct {
	Name string `toml:"name"`
	Port string `toml:"port"`
}

// APIConfig contains the upstream REST API and OpenAPI document locations.
type APIConfig struct {
	BaseURL    string `toml:"base_url"`
	OpenAPIURL string `toml:"openapi_url"`
	// ForwardQueryParams attaches caller-supplied query arguments to
	// outgoing requests. Off by default: the historical behavior is to
	// drop query values at invocation time.
	ForwardQueryParams bool `toml:"forward_query_params"`
}

// GraphConfig contains the graph schema document location.
type GraphConfig struct {
	SchemaURL string `toml:"schema_url"`
}

// SearchConfig contains the Solr search schema and query endpoint locations.
type SearchConfig struct {
	SchemaURL string `toml:"schema_url"`
	SearchURL string `toml:"search_url"`
}

// ClientConfig contains HTTP transport settings.
type ClientConfig struct {
	Timeout    string `toml:"timeout"`
	MaxRetries int    `toml:"max_retries"`
}

// GetTimeout parses and returns the per-request timeout duration
func (c *ClientConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// LoadFromFile loads configuration with priority: defaults -> file -> env.
// A missing file is not an error; defaults and env overrides still apply.
func LoadFromFile(path string) (*Config, error) {
	config := NewDefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
			}
		} else {
			if err := toml.Unmarshal(data, config); err != nil {
				return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
			}
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies PDBE_* environment variable overrides to config.
func applyEnvOverrides(config *Config) {
	if url := os.Getenv("PDBE_API_BASE_URL"); url != "" {
		config.API.BaseURL = url
	}
	if url := os.Getenv("PDBE_OPENAPI_URL"); url != "" {
		config.API.OpenAPIURL = url
	}
	if fwd := os.Getenv("PDBE_FORWARD_QUERY_PARAMS"); fwd != "" {
		if b, err := strconv.ParseBool(fwd); err == nil {
			config.API.ForwardQueryParams = b
		}
	}
	if url := os.Getenv("PDBE_GRAPH_SCHEMA_URL"); url != "" {
		config.Graph.SchemaURL = url
	}
	if url := os.Getenv("PDBE_SEARCH_SCHEMA_URL"); url != "" {
		config.Search.SchemaURL = url
	}
	if url := os.Getenv("PDBE_SEARCH_URL"); url != "" {
		config.Search.SearchURL = url
	}
	if port := os.Getenv("PDBE_MCP_PORT"); port != "" {
		config.Server.Port = port
	}
	if level := os.Getenv("PDBE_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
}
