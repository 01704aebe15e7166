package credentials

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/netprobe/netprobe-ui/internal/apiclient"
)

var _ apiclient.CredentialProvider = (*TokenProvider)(nil)

func newStore(t *testing.T) *FileStore {
	t.Helper()
	return NewFileStore(filepath.Join(t.TempDir(), "netprobe-ui", "credentials"))
}

func TestDefaultPath(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	got, err := DefaultPath()
	if err != nil {
		t.Fatalf("DefaultPath() error = %v", err)
	}
	want := filepath.Join(dir, "netprobe-ui", "credentials")
	if got != want {
		t.Errorf("DefaultPath() = %q, want %q", got, want)
	}
}

func TestFileStoreMissingFile(t *testing.T) {
	s := newStore(t)

	v, ok, err := s.Get(TokenKey)
	if err != nil || ok || v != "" {
		t.Errorf("Get() = %q, %v, %v; want empty, false, nil", v, ok, err)
	}
	if err := s.Delete(TokenKey); err != nil {
		t.Errorf("Delete() on missing file error = %v", err)
	}
}

func TestFileStoreSetGetDelete(t *testing.T) {
	s := newStore(t)

	if err := s.Set(TokenKey, "abc123"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := s.Set("lang", "zh"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	v, ok, err := s.Get(TokenKey)
	if err != nil || !ok || v != "abc123" {
		t.Errorf("Get(token) = %q, %v, %v", v, ok, err)
	}

	if err := s.Set(TokenKey, "def456"); err != nil {
		t.Fatalf("Set() overwrite error = %v", err)
	}
	if v, _, _ := s.Get(TokenKey); v != "def456" {
		t.Errorf("Get(token) after overwrite = %q", v)
	}

	if err := s.Delete(TokenKey); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, ok, _ := s.Get(TokenKey); ok {
		t.Error("token still present after Delete()")
	}
	if v, _, _ := s.Get("lang"); v != "zh" {
		t.Errorf("Delete() removed other keys, lang = %q", v)
	}
}

func TestFileStorePermissions(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix permissions")
	}

	s := newStore(t)
	if err := s.Set(TokenKey, "abc123"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	info, err := os.Stat(s.Path())
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("permissions = %o, want 600", perm)
	}
}

func TestFileStoreParsing(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
		wantOK  bool
		wantErr bool
	}{
		{"comments and blank lines", "# written by login\n\ntoken=abc123\n", "abc123", true, false},
		{"whitespace trimmed", "  token =  abc123  \n", "abc123", true, false},
		{"value containing equals", "token=a=b==\n", "a=b==", true, false},
		{"key absent", "lang=zh\n", "", false, false},
		{"invalid line", "token\n", "", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newStore(t)
			if err := os.MkdirAll(filepath.Dir(s.Path()), 0700); err != nil {
				t.Fatal(err)
			}
			if err := os.WriteFile(s.Path(), []byte(tt.content), 0600); err != nil {
				t.Fatal(err)
			}

			got, ok, err := s.Get(TokenKey)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Get() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("Get() = %q, %v; want %q, %v", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestFileStoreRejectsInvalidInput(t *testing.T) {
	s := newStore(t)

	tests := []struct {
		name, key, value string
	}{
		{"empty key", "", "v"},
		{"key with equals", "a=b", "v"},
		{"key with newline", "a\nb", "v"},
		{"value with newline", TokenKey, "abc\ntoken=evil"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := s.Set(tt.key, tt.value); err == nil {
				t.Error("Set() error = nil, want error")
			}
		})
	}
}

func TestTokenProvider(t *testing.T) {
	s := newStore(t)
	p := Provider(s, slog.New(slog.NewTextHandler(io.Discard, nil)))

	if tok, ok := p.CurrentToken(); ok || tok != "" {
		t.Errorf("CurrentToken() before login = %q, %v", tok, ok)
	}

	if err := s.Set(TokenKey, "abc123"); err != nil {
		t.Fatal(err)
	}
	if tok, ok := p.CurrentToken(); !ok || tok != "abc123" {
		t.Errorf("CurrentToken() after login = %q, %v", tok, ok)
	}

	if err := s.Set(TokenKey, ""); err != nil {
		t.Fatal(err)
	}
	if _, ok := p.CurrentToken(); ok {
		t.Error("empty token reported as present")
	}

	if err := os.WriteFile(s.Path(), []byte("garbage\n"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, ok := p.CurrentToken(); ok {
		t.Error("unreadable store reported a token")
	}
}

func TestTokenProviderDoesNotWrite(t *testing.T) {
	s := newStore(t)
	p := Provider(s, nil)

	p.CurrentToken()

	if _, err := os.Stat(s.Path()); !os.IsNotExist(err) {
		t.Errorf("reading the token created the store file (err = %v)", err)
	}
}

func signedToken(t *testing.T, exp *time.Time) string {
	t.Helper()

	claims := jwt.RegisteredClaims{Subject: "account-1"}
	if exp != nil {
		claims.ExpiresAt = jwt.NewNumericDate(*exp)
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("signing token: %v", err)
	}
	return tok
}

func TestStatus(t *testing.T) {
	now := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	future := now.Add(time.Hour)
	past := now.Add(-time.Hour)

	tests := []struct {
		name  string
		token string
		want  TokenStatus
	}{
		{"missing", "", TokenMissing},
		{"opaque token", "abc123", TokenValid},
		{"valid jwt", signedToken(t, &future), TokenValid},
		{"jwt without exp", signedToken(t, nil), TokenValid},
		{"expired jwt", signedToken(t, &past), TokenExpired},
		{"malformed jwt", "not.a.jwt", TokenInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Status(tt.token, now); got != tt.want {
				t.Errorf("Status() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestExpiresAt(t *testing.T) {
	exp := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)

	got, ok := ExpiresAt(signedToken(t, &exp))
	if !ok || !got.Equal(exp) {
		t.Errorf("ExpiresAt() = %v, %v; want %v", got, ok, exp)
	}
	if _, ok := ExpiresAt("abc123"); ok {
		t.Error("ExpiresAt() reported an expiry for an opaque token")
	}
}

func TestTokenStatusString(t *testing.T) {
	if TokenExpired.String() != "TokenExpired" {
		t.Errorf("String() = %q", TokenExpired.String())
	}
	if TokenStatus(9).String() != "TokenStatus(9)" {
		t.Errorf("String() = %q", TokenStatus(9).String())
	}
}
