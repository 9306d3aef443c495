package config

import "github.com/PDBeurope/PDBe-MCP-Servers/internal/common"

// NewDefaultConfig creates a configuration with default values pointing at
// the public PDBe services.
func NewDefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Name: "PDBe-MCP",
			Port: "8000",
		},
		API: APIConfig{
			BaseURL:    "https://www.ebi.ac.uk/pdbe/api/v2/",
			OpenAPIURL: "https://www.ebi.ac.uk/pdbe/api/v2/openapi.json",
		},
		Graph: GraphConfig{
			SchemaURL: "https://www.ebi.ac.uk/pdbe/static/files/graph-schema.json",
		},
		Search: SearchConfig{
			SchemaURL: "https://www.ebi.ac.uk/pdbe/static/files/search-schema.json",
			SearchURL: "https://www.ebi.ac.uk/pdbe/search/pdb/select",
		},
		Client: ClientConfig{
			Timeout:    "30s",
			MaxRetries: 3,
		},
		Logging: common.LoggingConfig{
			Level:      "info",
			Outputs:    []string{"console", "file"},
			FilePath:   "logs/pdbe-mcp.log",
			MaxSizeMB:  100,
			MaxBackups: 3,
		},
	}
}
