package httpclient

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"

	"github.com/PDBeurope/PDBe-MCP-Servers/internal/common"
	"github.com/PDBeurope/PDBe-MCP-Servers/internal/config"
)

func newClient(maxRetries int) *Client {
	return New(config.ClientConfig{Timeout: "5s", MaxRetries: maxRetries}, common.NewSilentLogger())
}

func TestGetJSON_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("Expected GET, got %s", r.Method)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status": "ok"}`))
	}))
	defer srv.Close()

	data, err := newClient(0).GetJSON(context.Background(), srv.URL, nil)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	result, ok := data.(map[string]any)
	if !ok {
		t.Fatalf("Expected JSON object, got %T", data)
	}
	if result["status"] != "ok" {
		t.Errorf("Expected status=ok, got %v", result["status"])
	}
}

func TestGetJSON_AppendsQueryParams(t *testing.T) {
	var gotQuery atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery.Store(r.URL.Query().Get("q"))
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	params := url.Values{}
	params.Set("q", "pdb_id:1cbs")
	if _, err := newClient(0).GetJSON(context.Background(), srv.URL, params); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if gotQuery.Load() != "pdb_id:1cbs" {
		t.Errorf("Expected q param forwarded, got %v", gotQuery.Load())
	}
}

func TestGetJSON_RetriesOnServiceUnavailable(t *testing.T) {
	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{"ok": true}`))
	}))
	defer srv.Close()

	data, err := newClient(2).GetJSON(context.Background(), srv.URL, nil)
	if err != nil {
		t.Fatalf("Expected retry to succeed, got %v", err)
	}
	if hits.Load() != 2 {
		t.Errorf("Expected 2 attempts, got %d", hits.Load())
	}
	if result, ok := data.(map[string]any); !ok || result["ok"] != true {
		t.Errorf("Unexpected result: %v", data)
	}
}

func TestGetJSON_NoRetryOnNotFound(t *testing.T) {
	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"detail": "no such entry"}`))
	}))
	defer srv.Close()

	_, err := newClient(3).GetJSON(context.Background(), srv.URL, nil)
	if err == nil {
		t.Fatal("Expected error for 404 response")
	}
	if hits.Load() != 1 {
		t.Errorf("Expected exactly 1 attempt for 404, got %d", hits.Load())
	}

	var serr *StatusError
	if !errors.As(err, &serr) {
		t.Fatalf("Expected StatusError, got %T", err)
	}
	if serr.StatusCode != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", serr.StatusCode)
	}
	if serr.Body != `{"detail": "no such entry"}` {
		t.Errorf("Expected body preserved, got %q", serr.Body)
	}
}

func TestGetJSON_ExhaustedRetriesReturnStatusError(t *testing.T) {
	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := newClient(1).GetJSON(context.Background(), srv.URL, nil)
	if err == nil {
		t.Fatal("Expected error after exhausting retries")
	}
	if hits.Load() != 2 {
		t.Errorf("Expected 2 attempts, got %d", hits.Load())
	}

	var serr *StatusError
	if !errors.As(err, &serr) {
		t.Fatalf("Expected StatusError, got %T", err)
	}
	if serr.StatusCode != http.StatusInternalServerError {
		t.Errorf("Expected status 500, got %d", serr.StatusCode)
	}
}

func TestPostJSON_SendsNoBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("Expected POST, got %s", r.Method)
		}
		if r.ContentLength > 0 {
			t.Errorf("Expected empty body, got %d bytes", r.ContentLength)
		}
		w.Write([]byte(`{"ok": true}`))
	}))
	defer srv.Close()

	if _, err := newClient(0).PostJSON(context.Background(), srv.URL); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
}

func TestGetJSON_InvalidJSON(t *testing.T) {
	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	_, err := newClient(3).GetJSON(context.Background(), srv.URL, nil)
	if err == nil {
		t.Fatal("Expected error for invalid JSON")
	}
	if hits.Load() != 1 {
		t.Errorf("Parse failures must not be retried, got %d attempts", hits.Load())
	}
}
