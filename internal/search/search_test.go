package search

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/PDBeurope/PDBe-MCP-Servers/internal/common"
	"github.com/PDBeurope/PDBe-MCP-Servers/internal/config"
	"github.com/PDBeurope/PDBe-MCP-Servers/internal/httpclient"
)

func testClient() *httpclient.Client {
	return httpclient.New(config.ClientConfig{Timeout: "5s", MaxRetries: 0}, common.NewSilentLogger())
}

func TestSchemaTable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
          "fields": {
            "pdb_id": {"type": "string", "stored": true, "indexed": true, "description": "PDB identifier"},
            "deposition_date": {"type": "date", "stored": true, "indexed": false, "description": "Deposition date"}
          }
        }`))
	}))
	defer srv.Close()

	tools := New(srv.URL, srv.URL, testClient())
	table, err := tools.SchemaTable(context.Background())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	lines := strings.Split(table, "\n")
	if lines[0] != "Field Name;Type;Stored;Indexed;Description" {
		t.Errorf("Unexpected header: %q", lines[0])
	}
	if len(lines) != 3 {
		t.Fatalf("Expected header + 2 rows, got %d lines", len(lines))
	}
	// Rows are sorted by field name.
	if lines[1] != "deposition_date; date; true; false; Deposition date" {
		t.Errorf("Unexpected row: %q", lines[1])
	}
	if lines[2] != "pdb_id; string; true; true; PDB identifier" {
		t.Errorf("Unexpected row: %q", lines[2])
	}
}

func TestRunQuery_BuildsQueryParameters(t *testing.T) {
	var gotParams atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotParams.Store(r.URL.Query())
		w.Write([]byte(`{"response": {"numFound": 0, "start": 0, "docs": []}}`))
	}))
	defer srv.Close()

	tools := New(srv.URL, srv.URL, testClient())
	_, err := tools.RunQuery(context.Background(), map[string]any{
		"query":   "pdb_id:1cbs",
		"filters": []any{"pdb_id", "title"},
		"sort":    "deposition_date desc",
		"start":   float64(5),
		"rows":    float64(20),
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	params := gotParams.Load().(url.Values)
	expected := map[string]string{
		"q":     "pdb_id:1cbs",
		"start": "5",
		"rows":  "20",
		"sort":  "deposition_date desc",
		"fl":    "pdb_id,title",
	}
	for key, want := range expected {
		if got := params.Get(key); got != want {
			t.Errorf("Expected %s=%q, got %q", key, want, got)
		}
	}
}

func TestRunQuery_Defaults(t *testing.T) {
	var gotParams atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotParams.Store(r.URL.Query())
		w.Write([]byte(`{"response": {"numFound": 0, "start": 0, "docs": []}}`))
	}))
	defer srv.Close()

	tools := New(srv.URL, srv.URL, testClient())
	if _, err := tools.RunQuery(context.Background(), map[string]any{"query": "solution"}); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	params := gotParams.Load().(url.Values)
	if params.Get("start") != "0" || params.Get("rows") != "10" {
		t.Errorf("Expected start=0 rows=10 defaults, got start=%q rows=%q", params.Get("start"), params.Get("rows"))
	}
	if params.Has("sort") || params.Has("fl") {
		t.Error("Expected sort and fl omitted when not provided")
	}
}

func TestRunQuery_RendersResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
          "response": {
            "numFound": 2,
            "start": 0,
            "docs": [
              {"pdb_id": "1cbs", "organisms": ["human", "mouse", "human"]},
              {"pdb_id": "2xyz"}
            ]
          }
        }`))
	}))
	defer srv.Close()

	tools := New(srv.URL, srv.URL, testClient())
	out, err := tools.RunQuery(context.Background(), map[string]any{"query": "anything"})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	for _, want := range []string{
		"Results metadata:",
		"Number of documents found: 2",
		"Start index: 0",
		"Documents:",
		"Document 1:",
		"  pdb_id: 1cbs",
		"Document 2:",
		"  pdb_id: 2xyz",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected %q in output:\n%s", want, out)
		}
	}

	// List fields keep input order and multiplicity.
	if !strings.Contains(out, "  organisms: human, mouse, human") {
		t.Errorf("Expected list field joined in order with duplicates, got:\n%s", out)
	}
}

func TestRunQuery_InvalidResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"unexpected": true}`))
	}))
	defer srv.Close()

	tools := New(srv.URL, srv.URL, testClient())
	_, err := tools.RunQuery(context.Background(), map[string]any{"query": "anything"})
	if err == nil {
		t.Fatal("Expected error for response without top-level response field")
	}
	if !strings.Contains(err.Error(), "invalid response from search service") {
		t.Errorf("Unexpected error: %v", err)
	}
}

func TestRunQuery_UpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error": "bad query"}`))
	}))
	defer srv.Close()

	tools := New(srv.URL, srv.URL, testClient())
	_, err := tools.RunQuery(context.Background(), map[string]any{"query": "anything"})
	if err == nil {
		t.Fatal("Expected error for upstream failure")
	}
	if !strings.Contains(err.Error(), "search request failed") {
		t.Errorf("Unexpected error: %v", err)
	}
}

func TestToolDescriptors(t *testing.T) {
	runQuery := RunQueryTool()
	if runQuery.Name != "run_search_query" {
		t.Errorf("Unexpected tool name %q", runQuery.Name)
	}
	schema := SchemaTool()
	if schema.Name != "get_search_schema" {
		t.Errorf("Unexpected tool name %q", schema.Name)
	}
	if schema.Annotations.IdempotentHint == nil || !*schema.Annotations.IdempotentHint {
		t.Error("Expected idempotent annotation on schema tool")
	}
}
