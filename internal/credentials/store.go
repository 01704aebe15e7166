// Package credentials holds the process-local persisted key/value store where the login flow keeps
// the bearer token, and the read-only provider the API client uses to fetch it.
//
// The store file holds one key=value pair per line. Blank lines and lines starting with # are ignored.
package credentials

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// TokenKey is the fixed key the bearer token is stored under.
const TokenKey = "token"

const (
	appDir   = "netprobe-ui"
	fileName = "credentials"
)

// DefaultPath returns $XDG_CONFIG_HOME/netprobe-ui/credentials, or ~/.config/netprobe-ui/credentials.
func DefaultPath() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, appDir, fileName), nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".config", appDir, fileName), nil
}

// FileStore is a key/value store persisted in a single file.
// Writes are serialised; reads always go to disk so values written by another process are seen.
type FileStore struct {
	path string
	mu   sync.Mutex
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Path() string {
	return s.path
}

// Get returns the value stored under key. A missing file or key is not an error.
func (s *FileStore) Get(key string) (string, bool, error) {
	data, err := s.read()
	if err != nil {
		return "", false, err
	}
	v, ok := data[key]
	return v, ok, nil
}

// Set stores value under key, creating the store file if needed.
func (s *FileStore) Set(key, value string) error {
	if err := validKey(key); err != nil {
		return err
	}
	if strings.ContainsAny(value, "\r\n") {
		return fmt.Errorf("value for %q must not contain line breaks", key)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.read()
	if err != nil {
		return err
	}
	data[key] = value

	return s.write(data)
}

// Delete removes key. Deleting a missing key is not an error.
func (s *FileStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.read()
	if err != nil {
		return err
	}
	if _, ok := data[key]; !ok {
		return nil
	}
	delete(data, key)

	return s.write(data)
}

func (s *FileStore) read() (map[string]string, error) {
	f, err := os.Open(s.path) // #nosec G304 -- path comes from config
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return make(map[string]string), nil
		}
		return nil, fmt.Errorf("cannot read credentials: %w", err)
	}
	defer func() { _ = f.Close() }()

	data := make(map[string]string)
	scanner := bufio.NewScanner(f)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return nil, fmt.Errorf("invalid syntax in %s at line %d", s.path, lineNum)
		}
		data[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("cannot read credentials: %w", err)
	}

	return data, nil
}

// write replaces the store file atomically with owner-only permissions.
func (s *FileStore) write(data map[string]string) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("cannot create credentials directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+fileName+"-*")
	if err != nil {
		return fmt.Errorf("cannot write credentials: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	w := bufio.NewWriter(tmp)
	for _, k := range keys {
		fmt.Fprintf(w, "%s=%s\n", k, data[k])
	}
	if err := w.Flush(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("cannot write credentials: %w", err)
	}
	if err := tmp.Chmod(0600); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("cannot write credentials: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("cannot write credentials: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("cannot write credentials: %w", err)
	}
	return nil
}

func validKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return fmt.Errorf("key cannot be empty")
	}
	if strings.ContainsAny(key, "=#\r\n") {
		return fmt.Errorf("invalid key %q", key)
	}
	return nil
}

// TokenProvider reads the bearer token from a FileStore. It never writes to the store.
type TokenProvider struct {
	store  *FileStore
	logger *slog.Logger
}

// Provider returns a TokenProvider for store. Read errors are logged at debug level with logger.
func Provider(store *FileStore, logger *slog.Logger) *TokenProvider {
	if logger == nil {
		logger = slog.Default()
	}
	return &TokenProvider{store: store, logger: logger}
}

// CurrentToken returns the stored token. An unreadable store counts as no token.
func (p *TokenProvider) CurrentToken() (string, bool) {
	token, ok, err := p.store.Get(TokenKey)
	if err != nil {
		p.logger.Debug("credential store unavailable", slog.String("error", err.Error()))
		return "", false
	}
	if !ok || token == "" {
		return "", false
	}
	return token, true
}
