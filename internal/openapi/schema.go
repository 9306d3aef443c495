package openapi

import (
	"fmt"
	"sort"
	"strings"
)

// ParamSchema is the subset of JSON Schema carried through from an OpenAPI
// parameter declaration. Conversion is explicit: only these keys survive,
// unsupported shapes are dropped at load time rather than passed through.
type ParamSchema struct {
	Type        string       `json:"type,omitempty"`
	Description string       `json:"description,omitempty"`
	Enum        []any        `json:"enum,omitempty"`
	Default     any          `json:"default,omitempty"`
	Format      string       `json:"format,omitempty"`
	Items       *ParamSchema `json:"items,omitempty"`
}

// InputSchema is the input schema attached to every generated tool.
// additionalProperties is always false so callers cannot smuggle arguments
// past the declared parameter set.
type InputSchema struct {
	Type                 string                  `json:"type"`
	Properties           map[string]*ParamSchema `json:"properties"`
	Required             []string                `json:"required,omitempty"`
	AdditionalProperties bool                    `json:"additionalProperties"`
}

// convertSchema translates an OpenAPI parameter schema into a ParamSchema,
// recursing into array item schemas.
func convertSchema(raw map[string]any) *ParamSchema {
	out := &ParamSchema{}

	if t, ok := raw["type"].(string); ok {
		out.Type = t
	}
	if d, ok := raw["description"].(string); ok {
		out.Description = d
	}
	if e, ok := raw["enum"].([]any); ok {
		out.Enum = e
	}
	if d, ok := raw["default"]; ok {
		out.Default = d
	}
	if f, ok := raw["format"].(string); ok {
		out.Format = f
	}
	if out.Type == "array" {
		if items, ok := raw["items"].(map[string]any); ok {
			out.Items = convertSchema(items)
		}
	}

	return out
}

// pathParamDescription rebuilds a verbose description for a path parameter
// from its nested schema. Path parameters carry no sibling top-level
// description, so the schema keys are dumped as "key: value" lines after the
// schema's own description. Keys are sorted for stable output.
func pathParamDescription(raw map[string]any) string {
	description, _ := raw["description"].(string)

	keys := make([]string, 0, len(raw))
	for key := range raw {
		if key == "description" {
			continue
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(description)
	for _, key := range keys {
		b.WriteString(fmt.Sprintf("\n%s: %v", key, raw[key]))
	}
	return b.String()
}

// isTruthy mirrors loose boolean semantics for the enableMCP flag: absent,
// false, zero, and empty-string values all mean disabled.
func isTruthy(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case bool:
		return val
	case string:
		return val != ""
	case float64:
		return val != 0
	case int:
		return val != 0
	default:
		return true
	}
}
