package main

import (
	"context"
	"fmt"
	"sort"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/PDBeurope/PDBe-MCP-Servers/internal/common"
	"github.com/PDBeurope/PDBe-MCP-Servers/internal/config"
	"github.com/PDBeurope/PDBe-MCP-Servers/internal/graph"
	"github.com/PDBeurope/PDBe-MCP-Servers/internal/httpclient"
	"github.com/PDBeurope/PDBe-MCP-Servers/internal/openapi"
	"github.com/PDBeurope/PDBe-MCP-Servers/internal/search"
)

// builderFunc constructs one MCP server adapter.
type builderFunc func(ctx context.Context, cfg *config.Config, logger *common.Logger) (*server.MCPServer, error)

// builders maps the -server flag value to its adapter builder.
var builders = map[string]builderFunc{
	"api":    buildAPIServer,
	"graph":  buildGraphServer,
	"search": buildSearchServer,
}

func availableServers() []string {
	names := make([]string, 0, len(builders))
	for name := range builders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// buildAPIServer derives tools from the configured OpenAPI document and
// registers them all behind the generator's routing handler.
func buildAPIServer(ctx context.Context, cfg *config.Config, logger *common.Logger) (*server.MCPServer, error) {
	client := httpclient.New(cfg.Client, logger)

	var opts []openapi.Option
	if cfg.API.ForwardQueryParams {
		opts = append(opts, openapi.WithQueryForwarding())
	}
	gen := openapi.NewGenerator(cfg.API.OpenAPIURL, cfg.API.BaseURL, client, logger, opts...)

	tools, err := gen.ListTools(ctx)
	if err != nil {
		return nil, err
	}

	s := server.NewMCPServer("pdbe-api-server", common.GetVersion(),
		server.WithToolCapabilities(true),
	)
	handler := gen.ToolHandler()
	for _, tool := range tools {
		s.AddTool(tool, handler)
	}
	return s, nil
}

// buildGraphServer loads the graph schema once and registers the two static
// formatting tools.
func buildGraphServer(ctx context.Context, cfg *config.Config, logger *common.Logger) (*server.MCPServer, error) {
	client := httpclient.New(cfg.Client, logger)

	graphTools, err := graph.New(ctx, cfg.Graph.SchemaURL, client)
	if err != nil {
		return nil, err
	}

	s := server.NewMCPServer("pdbe-graph-server", common.GetVersion(),
		server.WithToolCapabilities(true),
	)
	s.AddTool(graph.NodesTool(), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return textResult(graphTools.FormatNodes()), nil
	})
	s.AddTool(graph.EdgesTool(), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return textResult(graphTools.FormatEdges()), nil
	})
	return s, nil
}

// buildSearchServer registers the search query and schema tools.
func buildSearchServer(ctx context.Context, cfg *config.Config, logger *common.Logger) (*server.MCPServer, error) {
	client := httpclient.New(cfg.Client, logger)
	searchTools := search.New(cfg.Search.SchemaURL, cfg.Search.SearchURL, client)

	s := server.NewMCPServer("pdbe-search-server", common.GetVersion(),
		server.WithToolCapabilities(true),
	)
	s.AddTool(search.RunQueryTool(), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		text, err := searchTools.RunQuery(ctx, request.GetArguments())
		if err != nil {
			return errorResult(fmt.Sprintf("Error: %v", err)), nil
		}
		return textResult(text), nil
	})
	s.AddTool(search.SchemaTool(), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		text, err := searchTools.SchemaTable(ctx)
		if err != nil {
			return errorResult(fmt.Sprintf("Error: %v", err)), nil
		}
		return textResult(text), nil
	})
	return s, nil
}

// --- Result helpers ---

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(text),
		},
	}
}

func errorResult(message string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(message),
		},
		IsError: true,
	}
}
