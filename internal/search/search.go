// Package search exposes the PDBe Solr search service as MCP tools.
package search

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/PDBeurope/PDBe-MCP-Servers/internal/httpclient"
)

// Tools runs search queries and renders the search schema.
type Tools struct {
	schemaURL string
	searchURL string
	client    *httpclient.Client
}

// New creates search tools targeting the given schema and query endpoints.
func New(schemaURL, searchURL string, client *httpclient.Client) *Tools {
	return &Tools{
		schemaURL: schemaURL,
		searchURL: searchURL,
		client:    client,
	}
}

// SchemaTable fetches the Solr schema and renders it as a delimited table,
// one row per field.
func (t *Tools) SchemaTable(ctx context.Context) (string, error) {
	raw, err := t.client.GetJSON(ctx, t.schemaURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to load search schema from %s: %w", t.schemaURL, err)
	}
	schema, _ := raw.(map[string]any)
	fields, _ := schema["fields"].(map[string]any)

	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	content := []string{"Field Name;Type;Stored;Indexed;Description"}
	for _, name := range names {
		values, _ := fields[name].(map[string]any)
		content = append(content, fmt.Sprintf("%s; %v; %v; %v; %v",
			name, values["type"], values["stored"], values["indexed"], values["description"]))
	}

	return strings.Join(content, "\n"), nil
}

// RunQuery executes a Solr query built from the tool arguments and renders
// the result envelope as readable text. A response without the expected
// top-level field is a contract violation and is raised, not recovered.
func (t *Tools) RunQuery(ctx context.Context, args map[string]any) (string, error) {
	query, _ := args["query"].(string)
	start := intArg(args, "start", 0)
	rows := intArg(args, "rows", 10)

	params := url.Values{}
	params.Set("q", query)
	params.Set("start", strconv.Itoa(start))
	params.Set("rows", strconv.Itoa(rows))
	if sortArg, ok := args["sort"].(string); ok && sortArg != "" {
		params.Set("sort", sortArg)
	}
	if filters := stringSliceArg(args, "filters"); len(filters) > 0 {
		params.Set("fl", strings.Join(filters, ","))
	}

	raw, err := t.client.GetJSON(ctx, t.searchURL, params)
	if err != nil {
		return "", fmt.Errorf("search request failed: %w", err)
	}

	data, _ := raw.(map[string]any)
	response, ok := data["response"].(map[string]any)
	if !ok {
		return "", fmt.Errorf("invalid response from search service")
	}

	docs, _ := response["docs"].([]any)
	results := []string{
		"Results metadata:",
		fmt.Sprintf("Number of documents found: %v", valueOrZero(response["numFound"])),
		fmt.Sprintf("Start index: %v", valueOrZero(response["start"])),
		"Documents:",
	}

	for i, d := range docs {
		doc, ok := d.(map[string]any)
		if !ok {
			continue
		}
		results = append(results, fmt.Sprintf("Document %d:", i+1))

		keys := make([]string, 0, len(doc))
		for key := range doc {
			keys = append(keys, key)
		}
		sort.Strings(keys)

		for _, key := range keys {
			results = append(results, fmt.Sprintf("  %s: %s", key, formatFieldValue(doc[key])))
		}
	}

	return strings.Join(results, "\n"), nil
}

// formatFieldValue renders a document field. List values are joined in input
// order with multiplicity preserved.
func formatFieldValue(v any) string {
	if list, ok := v.([]any); ok {
		parts := make([]string, 0, len(list))
		for _, item := range list {
			parts = append(parts, fmt.Sprint(item))
		}
		return strings.Join(parts, ", ")
	}
	return fmt.Sprint(v)
}

func valueOrZero(v any) any {
	if v == nil {
		return 0
	}
	return v
}

func intArg(args map[string]any, key string, def int) int {
	switch v := args[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	case string:
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func stringSliceArg(args map[string]any, key string) []string {
	list, ok := args[key].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(list))
	for _, item := range list {
		out = append(out, fmt.Sprint(item))
	}
	return out
}
