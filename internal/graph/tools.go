package graph

import (
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
)

var emptyObjectSchema = json.RawMessage(`{"type":"object","properties":{},"additionalProperties":false}`)

const nodesDescription = `
Retrieves metadata about all node types (also known as "labels") defined in the PDBe (PDBe-KB) graph database schema.
This tool can be used to understand the different types of entities represented in the PDBe graph database, along with
their properties and descriptions and then can be used to explore the graph more effectively by writing Cypher queries.
This tool returns detailed information about each node label in the graph database. For every node label, it includes:
- The label name (e.g., 'ValAngleOutlier', 'Antibody', 'Atom')
- A human-readable description of the node type
- A list of properties/parameters associated with this node type
- For each property: the name and a brief description

Expected Output Format (text):
Label: ValAngleOutlier
Description: Bond angle outliers based on wwPDB validation data.
Properties:
  - ATOM0/1/2/3: Names of atoms involved in the angle which is an outlier.
  - MEAN: The ideal value of the bond angle.
  - OBS: The observed value of the bond angle.

(Additional node labels follow the same format...)
`

const edgesDescription = `
Retrieves metadata about all relationship types (edges) defined in the PDBe (PDBe-KB) graph database schema.
This tool can be used to understand the different types of relationships represented in the PDBe graph database, along with
their start and end nodes, properties and descriptions and then can be used to explore the graph more effectively by writing Cypher queries.
This tool returns detailed information about each relationship (edge) in the graph. For every relationship type, it includes:
- The relationship label (e.g., 'HAS_OUTLIER', 'CONNECTS_TO')
- A human-readable description of the relationship
- The 'from' node label and 'to' node label, defining the direction and connectivity
- A list of properties associated with the relationship
- For each property: the name and a brief description

Expected Output Format (text):
Label: HAS_OUTLIER
Description: Indicates a structure has validation outliers
From: Structure
To: ValAngleOutlier
Properties:
  - since: The date when the outlier was detected
  - severity: The severity level of the outlier

(Additional relationship types follow the same format...)
`

// NodesTool describes the pdbe_graph_nodes tool.
func NodesTool() mcp.Tool {
	tool := mcp.NewToolWithRawSchema("pdbe_graph_nodes", nodesDescription, emptyObjectSchema)
	tool.Annotations = mcp.ToolAnnotation{
		Title:           "Get PDBe Graph Nodes",
		ReadOnlyHint:    mcp.ToBoolPtr(true),
		DestructiveHint: mcp.ToBoolPtr(false),
		IdempotentHint:  mcp.ToBoolPtr(true),
	}
	return tool
}

// EdgesTool describes the pdbe_graph_edges tool.
func EdgesTool() mcp.Tool {
	tool := mcp.NewToolWithRawSchema("pdbe_graph_edges", edgesDescription, emptyObjectSchema)
	tool.Annotations = mcp.ToolAnnotation{
		Title:           "Get PDBe Graph Edges",
		ReadOnlyHint:    mcp.ToBoolPtr(true),
		DestructiveHint: mcp.ToBoolPtr(false),
		IdempotentHint:  mcp.ToBoolPtr(true),
	}
	return tool
}
