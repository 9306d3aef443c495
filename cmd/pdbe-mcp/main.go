package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/mark3labs/mcp-go/server"

	"github.com/PDBeurope/PDBe-MCP-Servers/internal/common"
	"github.com/PDBeurope/PDBe-MCP-Servers/internal/config"
)

func main() {
	stdio := flag.Bool("stdio", false, "Use stdio transport (for MCP clients like Claude Desktop)")
	serverType := flag.String("server", "api", "Server type to run: api, graph, or search")
	configFile := flag.String("config", "pdbe-mcp.toml", "Path to config file")
	flag.Parse()

	cfg, err := config.LoadFromFile(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	common.LoadVersionFromFile()
	logger := common.NewLoggerFromConfig(cfg.Logging)

	builder, ok := builders[*serverType]
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown server type %q (available: %s)\n", *serverType, strings.Join(availableServers(), ", "))
		os.Exit(1)
	}

	mcpServer, err := builder(context.Background(), cfg, logger)
	if err != nil {
		// Listing failures abort startup: a partially advertised adapter
		// is worse than no adapter.
		logger.Error().Str("server", *serverType).Str("error", err.Error()).Msg("failed to build server")
		fmt.Fprintf(os.Stderr, "failed to start %s server: %v\n", *serverType, err)
		os.Exit(1)
	}

	if *stdio {
		// Stdio transport — reads stdin, writes stdout
		if err := server.ServeStdio(mcpServer); err != nil {
			fmt.Fprintf(os.Stderr, "stdio server error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	// Streamable HTTP transport — listens on configured port
	httpServer := server.NewStreamableHTTPServer(mcpServer,
		server.WithStateLess(true),
	)

	logger.Info().Str("server", *serverType).Str("port", cfg.Server.Port).Msg("starting MCP streamable HTTP server")
	fmt.Fprintf(os.Stderr, "Starting MCP Streamable HTTP on :%s\n", cfg.Server.Port)

	if err := httpServer.Start(":" + cfg.Server.Port); err != nil {
		fmt.Fprintf(os.Stderr, "http server error: %v\n", err)
		os.Exit(1)
	}
}
