package ytmeta_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"searchtube/internal/services"
	"searchtube/internal/services/ytmeta"
)

func TestFetchDecodesMetadata(t *testing.T) {
	var requested string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requested = r.URL.Query().Get("url")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"title":"Go Concurrency Patterns","keywords":["go","concurrency"]}`))
	}))
	defer server.Close()

	client := ytmeta.NewClientWithDoer(server.URL, server.Client())
	meta, err := client.Fetch(context.Background(), "abc123")
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if meta.Title != "Go Concurrency Patterns" {
		t.Fatalf("unexpected title %q", meta.Title)
	}
	if len(meta.Keywords) != 2 || meta.Keywords[0] != "go" {
		t.Fatalf("unexpected keywords %v", meta.Keywords)
	}
	if requested != ytmeta.WatchURL("abc123") {
		t.Fatalf("unexpected url parameter %q", requested)
	}
}

func TestFetchWrapsHTTPErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	}))
	defer server.Close()

	client := ytmeta.NewClientWithDoer(server.URL, server.Client())
	_, err := client.Fetch(context.Background(), "missing")
	if !errors.Is(err, services.ErrFetch) {
		t.Fatalf("expected fetch error, got %v", err)
	}
}

func TestFetchWrapsDecodeErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>nope</html>"))
	}))
	defer server.Close()

	client := ytmeta.NewClientWithDoer(server.URL, server.Client())
	_, err := client.Fetch(context.Background(), "abc123")
	if !errors.Is(err, services.ErrFetch) {
		t.Fatalf("expected fetch error, got %v", err)
	}
}
