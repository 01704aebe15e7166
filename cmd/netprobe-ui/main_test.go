package main

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/text/language"

	"github.com/netprobe/netprobe-ui/internal/ui/navigation"
)

func TestBuildRequest(t *testing.T) {
	req, err := buildRequest("post", "/ipv6/detection", `{"a":1}`,
		[]string{"X-Trace: abc", "Accept:application/json"},
		[]string{"page=2", "tag=a", "tag=b", "empty="})
	if err != nil {
		t.Fatalf("buildRequest() error = %v", err)
	}

	if req.Method != "POST" || req.Path != "/ipv6/detection" {
		t.Errorf("method/path = %s %s", req.Method, req.Path)
	}
	if body, ok := req.Body.(json.RawMessage); !ok || string(body) != `{"a":1}` {
		t.Errorf("body = %#v", req.Body)
	}
	if req.Header.Get("X-Trace") != "abc" || req.Header.Get("Accept") != "application/json" {
		t.Errorf("header = %v", req.Header)
	}
	if got := req.Query.Encode(); got != "empty=&page=2&tag=a&tag=b" {
		t.Errorf("query = %s", got)
	}
}

func TestBuildRequestErrors(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		headers []string
		query   []string
	}{
		{"invalid json", "{", nil, nil},
		{"header without colon", "", []string{"X-Trace"}, nil},
		{"header without name", "", []string{": v"}, nil},
		{"query without equals", "", nil, []string{"page"}},
		{"query without key", "", nil, []string{"=2"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := buildRequest("GET", "/x", tt.data, tt.headers, tt.query); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestPrintPayload(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    string
	}{
		{"json", `{"a":[1,2]}`, "{\n  \"a\": [\n    1,\n    2\n  ]\n}\n"},
		{"not json", `plain text`, "plain text\n"},
		{"empty", ``, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := printPayload(&buf, json.RawMessage(tt.payload), false); err != nil {
				t.Fatalf("printPayload() error = %v", err)
			}
			if buf.String() != tt.want {
				t.Errorf("got %q, want %q", buf.String(), tt.want)
			}
		})
	}
}

func TestPrintPayloadHighlighted(t *testing.T) {
	var buf bytes.Buffer
	if err := printPayload(&buf, json.RawMessage(`{"a":1}`), true); err != nil {
		t.Fatalf("printPayload() error = %v", err)
	}
	if !strings.Contains(buf.String(), "\x1b[") {
		t.Errorf("expected ANSI escapes, got %q", buf.String())
	}
}

func TestDescribeToken(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	exp := now.Add(-time.Hour)
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(exp),
	}).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	tests := []struct {
		name  string
		token string
		want  string
	}{
		{"missing", "", "status: TokenMissing\n"},
		{"opaque", "abc", "status: TokenValid\n"},
		{"expired jwt", signed, "status: TokenExpired\nexpires: 2025-12-31T23:00:00Z\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := describeToken(tt.token, now); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestReadToken(t *testing.T) {
	got, err := readToken(strings.NewReader("  abc.def \nignored\n"))
	if err != nil || got != "abc.def" {
		t.Errorf("readToken() = %q, %v", got, err)
	}

	got, err = readToken(strings.NewReader("no-newline"))
	if err != nil || got != "no-newline" {
		t.Errorf("readToken() = %q, %v", got, err)
	}
}

func TestPrintRoutes(t *testing.T) {
	var buf bytes.Buffer
	if err := printRoutes(&buf, navigation.Default(language.English)); err != nil {
		t.Fatalf("printRoutes() error = %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 7 {
		t.Fatalf("got %d lines:\n%s", len(lines), buf.String())
	}
	if !strings.Contains(lines[1], "-> /router-tags") {
		t.Errorf("redirect line = %q", lines[1])
	}
	if !strings.HasPrefix(lines[4], "/router-tags") || !strings.Contains(lines[4], "Router Vendor Tags") {
		t.Errorf("router-tags line = %q", lines[4])
	}
}

func TestLoginLogoutCommands(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	tokenFile := filepath.Join(dir, "credentials")
	t.Setenv("TOKEN_FILE", tokenFile)
	t.Setenv("ENVIRONMENT", "test")
	t.Setenv("LOG_LEVEL", "error")

	run := func(stdin string, args ...string) string {
		t.Helper()
		cmd := newRootCmd()
		var out bytes.Buffer
		cmd.SetOut(&out)
		cmd.SetErr(&out)
		cmd.SetIn(strings.NewReader(stdin))
		cmd.SetArgs(args)
		if err := cmd.Execute(); err != nil {
			t.Fatalf("%v: %v", args, err)
		}
		return out.String()
	}

	if out := run("", "login", "--token", "abc"); !strings.Contains(out, tokenFile) {
		t.Errorf("login output = %q", out)
	}
	if out := run("", "token", "status"); out != "status: TokenValid\n" {
		t.Errorf("status output = %q", out)
	}

	run("def\n", "login")
	if out := run("", "token", "status"); out != "status: TokenValid\n" {
		t.Errorf("status output = %q", out)
	}

	run("", "logout")
	if out := run("", "token", "status"); out != "status: TokenMissing\n" {
		t.Errorf("status after logout = %q", out)
	}
}
