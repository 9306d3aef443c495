// Package openapi derives MCP tools from a remote OpenAPI document and
// routes tool invocations back to the described REST API.
package openapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/PDBeurope/PDBe-MCP-Servers/internal/common"
	"github.com/PDBeurope/PDBe-MCP-Servers/internal/httpclient"
)

// maxToolNameLength is the hard limit imposed by the MCP protocol consumers.
const maxToolNameLength = 60

// route maps a tool name to the HTTP request shape needed to invoke it.
type route struct {
	name        string
	method      string
	path        string
	pathParams  []string
	queryParams []string
}

// Generator derives MCP tools from an OpenAPI document. Only GET-like
// operations that opt in via the enableMCP extension are exposed; mutating
// operations are never auto-exposed.
type Generator struct {
	specURL      string
	baseURL      string
	client       *httpclient.Client
	logger       *common.Logger
	forwardQuery bool

	mu     sync.Mutex
	loaded bool
	tools  []mcp.Tool
	routes []route
}

// Option configures a Generator.
type Option func(*Generator)

// WithQueryForwarding attaches caller-supplied query arguments to outgoing
// requests. The historical behavior is to drop them, so this is opt-in.
func WithQueryForwarding() Option {
	return func(g *Generator) { g.forwardQuery = true }
}

// NewGenerator creates a generator for the OpenAPI document at specURL,
// issuing tool invocations against baseURL.
func NewGenerator(specURL, baseURL string, client *httpclient.Client, logger *common.Logger, opts ...Option) *Generator {
	g := &Generator{
		specURL: specURL,
		baseURL: baseURL,
		client:  client,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// ListTools returns the derived tool list, fetching and processing the
// OpenAPI document on first use. The load is guarded so concurrent callers
// see either a fully built routing table or an error, never a partial one.
func (g *Generator) ListTools(ctx context.Context) ([]mcp.Tool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.ensureLoadedLocked(ctx); err != nil {
		return nil, err
	}
	return g.tools, nil
}

// ensureLoadedLocked fetches the spec and derives tools exactly once.
// A failed load leaves the generator empty so a later call can retry.
func (g *Generator) ensureLoadedLocked(ctx context.Context) error {
	if g.loaded {
		return nil
	}

	raw, err := g.client.GetJSON(ctx, g.specURL, nil)
	if err != nil {
		return fmt.Errorf("failed to load OpenAPI spec from %s: %w", g.specURL, err)
	}
	spec, ok := raw.(map[string]any)
	if !ok {
		return fmt.Errorf("failed to load OpenAPI spec from %s: document is not a JSON object", g.specURL)
	}

	g.derive(spec)
	g.loaded = true
	g.logger.Info().Int("tools", len(g.tools)).Str("spec_url", g.specURL).Msg("derived tools from OpenAPI spec")
	return nil
}

// derive walks paths x methods and builds the tool list and routing table.
// Paths and methods are visited in sorted order so the advertised tool list
// is stable across runs.
func (g *Generator) derive(spec map[string]any) {
	paths, _ := spec["paths"].(map[string]any)

	pathKeys := make([]string, 0, len(paths))
	for p := range paths {
		pathKeys = append(pathKeys, p)
	}
	sort.Strings(pathKeys)

	seen := make(map[string]bool)

	for _, path := range pathKeys {
		pathItem, ok := paths[path].(map[string]any)
		if !ok {
			continue
		}

		methodKeys := make([]string, 0, len(pathItem))
		for m := range pathItem {
			methodKeys = append(methodKeys, m)
		}
		sort.Strings(methodKeys)

		for _, method := range methodKeys {
			// POST is never auto-exposed; x- keys are vendor extensions,
			// not HTTP methods.
			if strings.EqualFold(method, "post") || strings.HasPrefix(method, "x-") {
				continue
			}
			operation, ok := pathItem[method].(map[string]any)
			if !ok {
				continue
			}
			if !isTruthy(operation["enableMCP"]) {
				continue
			}

			name := toolName(operation, method, path)
			if seen[name] {
				g.logger.Warn().Str("name", name).Str("path", path).Msg("skipping duplicate tool name")
				continue
			}
			seen[name] = true

			description, _ := operation["description"].(string)
			if description == "" {
				description, _ = operation["summary"].(string)
			}

			pathParams, queryParams := splitParameters(operation["parameters"])
			properties, required := extractParameters(pathParams, queryParams)

			input := InputSchema{
				Type:       "object",
				Properties: properties,
				Required:   required,
			}
			schemaJSON, err := json.Marshal(input)
			if err != nil {
				g.logger.Warn().Str("name", name).Str("error", err.Error()).Msg("skipping tool with unmarshalable schema")
				continue
			}

			tool := mcp.NewToolWithRawSchema(name, description, schemaJSON)
			tool.Annotations = mcp.ToolAnnotation{
				Title:           description,
				ReadOnlyHint:    mcp.ToBoolPtr(true),
				DestructiveHint: mcp.ToBoolPtr(false),
				IdempotentHint:  mcp.ToBoolPtr(false),
			}
			g.tools = append(g.tools, tool)

			g.routes = append(g.routes, route{
				name:        name,
				method:      strings.ToUpper(method),
				path:        path,
				pathParams:  paramNames(pathParams),
				queryParams: paramNames(queryParams),
			})
		}
	}
}

// toolName derives the tool name: operationId verbatim when declared,
// otherwise synthesized from method and path, truncated to the protocol's
// 60-character limit.
func toolName(operation map[string]any, method, path string) string {
	name, _ := operation["operationId"].(string)
	if name == "" {
		cleanPath := strings.NewReplacer("/", "_", "{", "", "}", "").Replace(path)
		cleanPath = strings.Trim(cleanPath, "_")
		name = strings.ReplaceAll(method+"_"+cleanPath, "__", "_")
	}
	if len(name) > maxToolNameLength {
		name = name[:maxToolNameLength]
	}
	return name
}

// splitParameters partitions an operation's parameter declarations by
// location. Declarations without a recognized location are dropped.
func splitParameters(raw any) (pathParams, queryParams []map[string]any) {
	params, _ := raw.([]any)
	for _, p := range params {
		param, ok := p.(map[string]any)
		if !ok {
			continue
		}
		switch param["in"] {
		case "path":
			pathParams = append(pathParams, param)
		case "query":
			queryParams = append(queryParams, param)
		}
	}
	return pathParams, queryParams
}

// paramNames collects the declared names from a list of parameter
// declarations, skipping entries without a string name.
func paramNames(params []map[string]any) []string {
	var names []string
	for _, param := range params {
		if name, ok := param["name"].(string); ok {
			names = append(names, name)
		}
	}
	return names
}

// extractParameters converts parameter declarations into JSON-Schema
// properties plus the required-name list.
func extractParameters(pathParams, queryParams []map[string]any) (map[string]*ParamSchema, []string) {
	properties := make(map[string]*ParamSchema)
	var required []string

	for _, param := range pathParams {
		name, ok := param["name"].(string)
		if !ok {
			continue
		}
		schema, _ := param["schema"].(map[string]any)
		prop := convertSchema(schema)
		// Path parameters carry no top-level description, so rebuild one
		// from the schema itself.
		prop.Description = pathParamDescription(schema)
		properties[name] = prop
		if isTruthy(param["required"]) {
			required = append(required, name)
		}
	}

	for _, param := range queryParams {
		name, ok := param["name"].(string)
		if !ok {
			continue
		}
		schema, _ := param["schema"].(map[string]any)
		prop := convertSchema(schema)
		if d, ok := param["description"].(string); ok && d != "" {
			prop.Description = d
		}
		properties[name] = prop
		if isTruthy(param["required"]) {
			required = append(required, name)
		}
	}

	return properties, required
}

// CallTool resolves a tool invocation against the routing table and issues
// the corresponding HTTP request. Unknown tools and missing required path
// parameters are returned as errors for the host to surface; upstream
// failures are rendered into the result text so one failing call degrades
// gracefully.
func (g *Generator) CallTool(ctx context.Context, name string, args map[string]any) (*mcp.CallToolResult, error) {
	g.mu.Lock()
	if err := g.ensureLoadedLocked(ctx); err != nil {
		g.mu.Unlock()
		return nil, err
	}
	var rt *route
	for i := range g.routes {
		if g.routes[i].name == name {
			rt = &g.routes[i]
			break
		}
	}
	g.mu.Unlock()

	if rt == nil {
		return nil, fmt.Errorf("unknown tool: %s", name)
	}

	path := rt.path
	for _, param := range rt.pathParams {
		val, ok := args[param]
		if !ok {
			return nil, fmt.Errorf("missing required path parameter: %s", param)
		}
		path = strings.ReplaceAll(path, "{"+param+"}", url.PathEscape(fmt.Sprint(val)))
	}

	fullURL := strings.TrimSuffix(g.baseURL, "/") + "/" + strings.TrimPrefix(path, "/")

	var query url.Values
	if g.forwardQuery {
		query = url.Values{}
		for _, param := range rt.queryParams {
			if val, ok := args[param]; ok {
				if s := fmt.Sprint(val); s != "" {
					query.Set(param, s)
				}
			}
		}
	}

	var data any
	var err error
	switch rt.method {
	case "GET":
		data, err = g.client.GetJSON(ctx, fullURL, query)
	case "POST":
		data, err = g.client.PostJSON(ctx, fullURL)
	default:
		return nil, fmt.Errorf("unsupported method: %s", rt.method)
	}
	if err != nil {
		return errorResult(requestFailureText(err)), nil
	}

	text, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return errorResult(fmt.Sprintf("API request failed: %v", err)), nil
	}
	return textResult(string(text)), nil
}

// ToolHandler adapts CallTool to the mcp-go handler signature.
func (g *Generator) ToolHandler() server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return g.CallTool(ctx, request.Params.Name, request.GetArguments())
	}
}

// requestFailureText renders an upstream failure, appending status and body
// lines when an HTTP response was received.
func requestFailureText(err error) string {
	text := fmt.Sprintf("API request failed: %v", err)
	var serr *httpclient.StatusError
	if errors.As(err, &serr) {
		text += fmt.Sprintf("\nStatus Code: %d", serr.StatusCode)
		text += fmt.Sprintf("\nResponse: %s", serr.Body)
	}
	return text
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.NewTextContent(text)},
	}
}

func errorResult(message string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.NewTextContent(message)},
		IsError: true,
	}
}
