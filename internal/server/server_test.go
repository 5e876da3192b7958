package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ziadkadry99/folio/internal/config"
	"github.com/ziadkadry99/folio/internal/site"
)

const testCatalog = `[
  {"slug": "a", "title": "Alpha", "summary": "First", "overview": ["hello"]},
  {"slug": "b", "title": "Beta", "summary": "Second"}
]`

func newTestServer(t *testing.T, liveReload bool) *Server {
	t.Helper()
	dir := t.TempDir()
	catPath := filepath.Join(dir, "projects.json")
	if err := os.WriteFile(catPath, []byte(testCatalog), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := config.DefaultConfig()
	cfg.SourceDir = filepath.Join(dir, "site")
	cfg.OutputDir = filepath.Join(dir, "public")
	cfg.Catalog = catPath
	cfg.Embeds.Instagram = false

	gen := site.NewGenerator(cfg, nil, nil)
	build, err := gen.Generate(context.Background())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	return New(Config{OutputDir: cfg.OutputDir, LiveReload: liveReload}, gen, build, nil)
}

func get(t *testing.T, srv *Server, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest("GET", target, nil)
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)
	return w
}

func TestHealthCheck(t *testing.T) {
	srv := newTestServer(t, false)

	w := get(t, srv, "/healthz")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("expected status 'ok', got %q", body["status"])
	}
}

func TestCORSHeaders(t *testing.T) {
	dirSrv := newTestServer(t, false)
	srv := New(Config{OutputDir: dirSrv.cfg.OutputDir, AllowAll: true}, dirSrv.gen, dirSrv.Current(), nil)

	req := httptest.NewRequest("OPTIONS", "/healthz", nil)
	req.Header.Set("Origin", "http://example.com")
	req.Header.Set("Access-Control-Request-Method", "GET")
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	if w.Header().Get("Access-Control-Allow-Origin") == "" {
		t.Error("expected CORS Allow-Origin header")
	}
}

func TestLiveProjectPage(t *testing.T) {
	srv := newTestServer(t, false)

	tests := []struct {
		target string
		want   string
	}{
		{"/project.html?p=b", "<title>Beta</title>"},
		{"/project.html", "<title>Alpha</title>"},
		{"/project.html?p=nope", "<title>Alpha</title>"},
		{"/projects/b/", "<title>Beta</title>"},
	}
	for _, tt := range tests {
		w := get(t, srv, tt.target)
		if w.Code != http.StatusOK {
			t.Errorf("%s: expected 200, got %d", tt.target, w.Code)
			continue
		}
		if !strings.Contains(w.Body.String(), tt.want) {
			t.Errorf("%s: body missing %q", tt.target, tt.want)
		}
		if strings.Contains(w.Body.String(), "FOLIO_LIVERELOAD") {
			t.Errorf("%s: live reload hook injected while disabled", tt.target)
		}
	}
}

func TestPrettyProjectRedirect(t *testing.T) {
	srv := newTestServer(t, false)
	w := get(t, srv, "/projects/b")
	if w.Code != http.StatusMovedPermanently {
		t.Fatalf("expected 301, got %d", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != "/projects/b/" {
		t.Errorf("Location = %q", loc)
	}
}

func TestIndexAndStatic(t *testing.T) {
	srv := newTestServer(t, true)

	w := get(t, srv, "/")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	body := w.Body.String()
	if strings.Count(body, `class="card card-link"`) != 2 {
		t.Errorf("expected two cards in live index")
	}
	if !strings.Contains(body, "FOLIO_LIVERELOAD") {
		t.Error("expected live reload hook")
	}

	w = get(t, srv, "/style.css")
	if w.Code != http.StatusOK {
		t.Fatalf("style.css: expected 200, got %d", w.Code)
	}

	w = get(t, srv, "/missing.png")
	if w.Code != http.StatusNotFound {
		t.Errorf("missing.png: expected 404, got %d", w.Code)
	}
}

func TestAPIProjects(t *testing.T) {
	srv := newTestServer(t, false)

	w := get(t, srv, "/api/projects")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var projects []map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &projects); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(projects) != 2 || projects[1]["slug"] != "b" {
		t.Errorf("unexpected projects: %v", projects)
	}
}

func TestSwapBroadcastsReload(t *testing.T) {
	srv := newTestServer(t, true)
	ts := httptest.NewServer(srv.Router())
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/livereload"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for srv.hub.Len() == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}

	next := *srv.Current()
	next.ID = "next-build"
	srv.Swap(&next)

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var ev Event
	if err := conn.ReadJSON(&ev); err != nil {
		t.Fatalf("read: %v", err)
	}
	if ev.Type != EventReload || ev.Build != "next-build" {
		t.Errorf("unexpected event %+v", ev)
	}
	if srv.Current().ID != "next-build" {
		t.Error("Swap did not replace the build")
	}

	srv.hub.Close()
}
