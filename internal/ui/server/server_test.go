package server

import (
	"context"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Netflix/go-env"
	"golang.org/x/text/language"

	"github.com/netprobe/netprobe-ui/internal/apiclient"
	"github.com/netprobe/netprobe-ui/internal/config"
	"github.com/netprobe/netprobe-ui/internal/ui/navigation"
)

func newTestServer(t *testing.T, apiURL string) *Server {
	t.Helper()

	cfg, err := config.FromEnvSet(env.EnvSet{
		"ENVIRONMENT":     "test",
		"API_BASE_URL":    apiURL,
		"TOKEN_FILE":      filepath.Join(t.TempDir(), "credentials"),
		"ALLOWED_ORIGINS": "https://ui.example.com",
		"RATE_LIMIT_RPS":  "0",
	})
	if err != nil {
		t.Fatalf("config.FromEnvSet() error = %v", err)
	}

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	client, err := apiclient.New(apiclient.ClientConfig{BaseURL: cfg.APIBaseURL, Timeout: cfg.APITimeout}, nil,
		apiclient.WithLogger(log))
	if err != nil {
		t.Fatalf("apiclient.New() error = %v", err)
	}

	s, err := NewServer(cfg, log, client, navigation.Default(language.English))
	if err != nil {
		t.Fatalf("NewServer() error = %v", err)
	}
	return s
}

func TestRoutes(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "" {
			t.Errorf("unexpected Authorization header without a token")
		}
		_, _ = io.WriteString(w, `{"nodes":[]}`)
	}))
	defer upstream.Close()

	handler := newTestServer(t, upstream.URL+"/v1").Router()

	tests := []struct {
		name         string
		method       string
		path         string
		wantStatus   int
		wantContains string
		wantLocation string
	}{
		{"health", http.MethodGet, "/health/live", http.StatusOK, "OK", ""},
		{"root redirect", http.MethodGet, "/", http.StatusFound, "", "/router-tags"},
		{"view", http.MethodGet, "/topology-detection", http.StatusOK, "<title>Topology Detection</title>", ""},
		{"static asset", http.MethodGet, "/static/app.css", http.StatusOK, ".sidebar", ""},
		{"ui api", http.MethodGet, "/ui-api/knowledge-graph", http.StatusOK, `{"nodes":[]}`, ""},
		{"unknown", http.MethodGet, "/nope", http.StatusNotFound, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, httptest.NewRequest(tt.method, tt.path, nil))

			if rr.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rr.Code, tt.wantStatus)
			}
			if !strings.Contains(rr.Body.String(), tt.wantContains) {
				t.Errorf("body %q does not contain %q", rr.Body.String(), tt.wantContains)
			}
			if tt.wantLocation != "" && rr.Header().Get("Location") != tt.wantLocation {
				t.Errorf("Location = %q, want %q", rr.Header().Get("Location"), tt.wantLocation)
			}
			if rr.Header().Get("X-Content-Type-Options") != "nosniff" {
				t.Error("security headers not applied")
			}
		})
	}
}

func TestUIAPIPreflight(t *testing.T) {
	handler := newTestServer(t, "http://127.0.0.1:1/v1").Router()

	req := httptest.NewRequest(http.MethodOptions, "/ui-api/tags/router", nil)
	req.Header.Set("Origin", "https://ui.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "content-type")

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "https://ui.example.com" {
		t.Errorf("Access-Control-Allow-Origin = %q", got)
	}
	if rr.Code >= 300 {
		t.Errorf("preflight status = %d", rr.Code)
	}
}

func TestServeShutsDownOnCancel(t *testing.T) {
	s := newTestServer(t, "http://127.0.0.1:1/v1")

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/health/live")
	if err != nil {
		t.Fatalf("GET /health/live: %v", err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d", resp.StatusCode)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Serve() error = %v", err)
		}
	case <-time.After(ServerShutdownTimeout):
		t.Fatal("server did not shut down")
	}
}
