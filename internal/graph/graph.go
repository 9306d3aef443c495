// Package graph formats the PDBe knowledge-graph schema for MCP consumers.
package graph

import (
	"context"
	"fmt"
	"strings"

	"github.com/PDBeurope/PDBe-MCP-Servers/internal/htmltext"
	"github.com/PDBeurope/PDBe-MCP-Servers/internal/httpclient"
)

// Tools holds the graph schema, fetched once at construction. All reads
// after construction are lock-free because the schema is never mutated.
type Tools struct {
	nodes      []map[string]any
	edges      []map[string]any
	nodeLabels map[any]string
}

// New fetches the graph schema from schemaURL and normalizes its free-text
// fields. A fetch failure aborts adapter startup.
func New(ctx context.Context, schemaURL string, client *httpclient.Client) (*Tools, error) {
	raw, err := client.GetJSON(ctx, schemaURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load graph schema from %s: %w", schemaURL, err)
	}
	schema, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("failed to load graph schema from %s: document is not a JSON object", schemaURL)
	}

	t := &Tools{nodeLabels: make(map[any]string)}
	t.nodes = cleanEntries(schema["nodes"])
	t.edges = cleanEntries(schema["edges"])

	for _, node := range t.nodes {
		if label, ok := node["label"].(string); ok {
			t.nodeLabels[node["id"]] = label
		}
	}

	return t, nil
}

// cleanEntries strips HTML markup from the description, title, and property
// values of every node or edge entry.
func cleanEntries(raw any) []map[string]any {
	items, _ := raw.([]any)
	entries := make([]map[string]any, 0, len(items))
	for _, item := range items {
		entry, ok := item.(map[string]any)
		if !ok {
			continue
		}
		entry["description"] = htmltext.Strip(stringField(entry, "description"))
		entry["title"] = htmltext.Strip(stringField(entry, "title"))
		if props, ok := entry["properties"].([]any); ok {
			for _, p := range props {
				if prop, ok := p.(map[string]any); ok {
					prop["value"] = htmltext.Strip(stringField(prop, "value"))
				}
			}
		}
		entries = append(entries, entry)
	}
	return entries
}

func stringField(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}

// FormatNodes renders every node label with its description and properties
// as readable text blocks.
func (t *Tools) FormatNodes() string {
	blocks := make([]string, 0, len(t.nodes))
	for _, node := range t.nodes {
		var b strings.Builder
		fmt.Fprintf(&b, "Label: %s\n", stringField(node, "label"))
		fmt.Fprintf(&b, "Description: %s\n", stringField(node, "description"))
		b.WriteString(formatProperties(node))
		blocks = append(blocks, b.String())
	}
	return strings.Join(blocks, "\n\n")
}

// FormatEdges renders every relationship type with its endpoints resolved
// to node labels.
func (t *Tools) FormatEdges() string {
	blocks := make([]string, 0, len(t.edges))
	for _, edge := range t.edges {
		var b strings.Builder
		fmt.Fprintf(&b, "Label: %s\n", stringField(edge, "label"))
		fmt.Fprintf(&b, "Description: %s\n", stringField(edge, "description"))
		fmt.Fprintf(&b, "From: %s\n", t.endpointLabel(edge["from"]))
		fmt.Fprintf(&b, "To: %s\n", t.endpointLabel(edge["to"]))
		b.WriteString(formatProperties(edge))
		blocks = append(blocks, b.String())
	}
	return strings.Join(blocks, "\n\n")
}

// endpointLabel resolves a node id to its label, falling back to the raw id.
func (t *Tools) endpointLabel(id any) string {
	if label, ok := t.nodeLabels[id]; ok {
		return label
	}
	return fmt.Sprint(id)
}

func formatProperties(entry map[string]any) string {
	props, _ := entry["properties"].([]any)
	if len(props) == 0 {
		return "Properties: None"
	}
	lines := []string{"Properties:"}
	for _, p := range props {
		prop, ok := p.(map[string]any)
		if !ok {
			continue
		}
		lines = append(lines, fmt.Sprintf("  - %s: %s", stringField(prop, "name"), stringField(prop, "value")))
	}
	return strings.Join(lines, "\n")
}

// NodeByLabel returns a formatted summary for a single node label.
func (t *Tools) NodeByLabel(label string) (string, bool) {
	for _, node := range t.nodes {
		if stringField(node, "label") == label {
			return fmt.Sprintf("Label: %s\nDescription: %s", label, stringField(node, "description")), true
		}
	}
	return "", false
}

// EdgeByLabel returns the cleaned edge entry for a single relationship label.
func (t *Tools) EdgeByLabel(label string) (map[string]any, bool) {
	for _, edge := range t.edges {
		if stringField(edge, "label") == label {
			return edge, true
		}
	}
	return nil, false
}
