package search

import (
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
)

const runQueryDescription = `
Executes a search query against the PDBe Solr search service.
    This tool allows users to perform search queries on the PDBe database using Solr's querying capabilities. Users can specify various parameters to refine their search and retrieve relevant results.
    Expected Input Parameters:
    - query (string): The search query string to be executed.
    - filters (list of strings, optional): A list of filter queries to narrow down the search results.
    - sort (string, optional): The sorting criteria for the search results.
    - start (integer, optional): The starting index for pagination of results.
    - rows (integer, optional): The number of results to return.

    Example Input:
    {
        "query": "pdb_id:1cbs",
        "filters": ["deposition_date"],
        "sort": "deposition_date desc",
        "start": 0,
        "rows": 10
    }

    Expected Output Format:
    A text representation of the search results, formatted in a readable manner. The output will include:
    - Metadata about the search results (e.g., number of documents found, start index).
    - A list of documents matching the search query, with each document's fields and values clearly presented.
`

const schemaDescription = `
Retrieves the Solr search schema for the PDBe search service. You can use this tool to understand the structure and fields available in the PDBe search index. Once you have the schema, you can use it to construct more effective search queries and run the query using the run_search_query tool.
    Expected Output Format:
    A text representation of the search schema, formatted as a table with the following columns:
    - Field Name: The name of the field in the Solr schema.
    - Type: The data type of the field (e.g., string, integer, date).
    - Stored: Indicates whether the field is stored in the index (true/false).
    - Indexed: Indicates whether the field is indexed for searching (true/false).
    - Description: A brief description of the field and its purpose.
`

var runQuerySchema = json.RawMessage(`{
  "type": "object",
  "properties": {
    "query": {"type": "string"},
    "filters": {"type": "array", "items": {"type": "string"}},
    "sort": {"type": "string"},
    "start": {"type": "integer"},
    "rows": {"type": "integer"}
  },
  "required": ["query"],
  "additionalProperties": false
}`)

var emptyObjectSchema = json.RawMessage(`{"type":"object","properties":{},"additionalProperties":false}`)

// RunQueryTool describes the run_search_query tool.
func RunQueryTool() mcp.Tool {
	tool := mcp.NewToolWithRawSchema("run_search_query", runQueryDescription, runQuerySchema)
	tool.Annotations = mcp.ToolAnnotation{
		Title:           "Run PDBe Search Query",
		ReadOnlyHint:    mcp.ToBoolPtr(false),
		DestructiveHint: mcp.ToBoolPtr(false),
		IdempotentHint:  mcp.ToBoolPtr(false),
	}
	return tool
}

// SchemaTool describes the get_search_schema tool.
func SchemaTool() mcp.Tool {
	tool := mcp.NewToolWithRawSchema("get_search_schema", schemaDescription, emptyObjectSchema)
	tool.Annotations = mcp.ToolAnnotation{
		Title:           "Get PDBe Search Schema",
		ReadOnlyHint:    mcp.ToBoolPtr(true),
		DestructiveHint: mcp.ToBoolPtr(false),
		IdempotentHint:  mcp.ToBoolPtr(true),
	}
	return tool
}
