package asset

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func readAll(t *testing.T, res *Resource) string {
	data, err := io.ReadAll(res)
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

func TestLocalRelativeResources(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "inc"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "main.strands"), []byte("main"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "inc", "part.strands"), []byte("part"), 0644); err != nil {
		t.Fatal(err)
	}

	parent, err := NewResource(filepath.Join(dir, "main.strands"), nil)
	if err != nil {
		t.Fatal(err)
	}
	defer parent.Close()
	if parent.IsRemote() {
		t.Fatal("expected local resource")
	}

	child, err := NewResource("inc/part.strands", parent)
	if err != nil {
		t.Fatal(err)
	}
	defer child.Close()

	if got := readAll(t, child); got != "part" {
		t.Fatalf("expected to read 'part'; got %q", got)
	}
	if exp := filepath.Join(dir, "inc", "part.strands"); child.Path() != exp {
		t.Fatalf("expected child path %q; got %q", exp, child.Path())
	}
}

func TestHttpRelativeResources(t *testing.T) {
	serverHits := 0
	serverFn := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		serverHits++
		switch r.URL.Path {
		case "/foo/main.strands", "/foo/part.strands":
			w.Write([]byte("OK"))
		default:
			http.NotFound(w, r)
		}
	})
	server := httptest.NewServer(serverFn)
	defer server.Close()

	parent, err := NewResource(server.URL+"/foo/main.strands", nil)
	if err != nil {
		t.Fatal(err)
	}
	defer parent.Close()
	if !parent.IsRemote() {
		t.Fatal("expected remote resource")
	}

	child, err := NewResource("part.strands", parent)
	if err != nil {
		t.Fatal(err)
	}
	defer child.Close()

	if got := readAll(t, child); got != "OK" {
		t.Fatalf("expected to read 'OK'; got %q", got)
	}
	if serverHits != 2 {
		t.Fatalf("expected server to receive 2 requests; got %d", serverHits)
	}

	fetchURL := server.URL + "/file-not-found.strands"
	expError := fmt.Sprintf("resource: could not fetch '%s': status %d", fetchURL, 404)
	_, err = NewResource(fetchURL, nil)
	if err == nil || err.Error() != expError {
		t.Fatalf("expected to get: %s; got %v", expError, err)
	}
}

func TestUnsupportedResourceScheme(t *testing.T) {
	expError := "resource: unsupported scheme 'gopher'"
	_, err := NewResource("gopher://digging.strands", nil)
	if err == nil || err.Error() != expError {
		t.Fatalf("expected to get: %s; got %v", expError, err)
	}
}

func TestStreamResource(t *testing.T) {
	res := NewResourceFromStream("embedded", strings.NewReader("payload"))
	defer res.Close()

	if res.IsRemote() || res.Path() != "embedded" {
		t.Fatalf("unexpected resource path %q", res.Path())
	}
	if got := readAll(t, res); got != "payload" {
		t.Fatalf("expected to read 'payload'; got %q", got)
	}
}
