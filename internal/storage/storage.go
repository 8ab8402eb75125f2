package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"wordsmith/internal/logging"
)

// Keys persisted by the client.
const (
	KeySessionID     = "sessionId"
	KeyShareCode     = "shareCode"
	KeyGuesses       = "guesses"
	KeyNavStack      = "navStack"
	KeyCurrentScreen = "currentScreen"
	KeyCookies       = "cookies"
)

// Store is a synchronous string key/value store.
type Store interface {
	Get(key string) (string, bool)
	Set(key, value string) error
	Remove(key string) error
}

// GetJSON decodes the value under key into out. It reports false when the key
// is missing or the value does not decode.
func GetJSON(s Store, key string, out any) bool {
	raw, ok := s.Get(key)
	if !ok || raw == "" {
		return false
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		logging.Warn("Ignoring undecodable value for %s: %v", key, err)
		return false
	}
	return true
}

// SetJSON encodes v and stores it under key.
func SetJSON(s Store, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.Set(key, string(data))
}

// MemoryStore keeps values in process memory only.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

func (m *MemoryStore) Get(key string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	return v, ok
}

func (m *MemoryStore) Set(key, value string) error {
	m.mu.Lock()
	m.values[key] = value
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Remove(key string) error {
	m.mu.Lock()
	delete(m.values, key)
	m.mu.Unlock()
	return nil
}

// FileStore is a MemoryStore written through to a single JSON file so state
// survives restarts.
type FileStore struct {
	mem  *MemoryStore
	path string
	mu   sync.Mutex // serialises file writes
}

// OpenFileStore loads dir/state.json, creating dir when needed. A corrupted
// file is removed and the store starts empty.
func OpenFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		logging.Error("Failed to create state directory: %v", err)
		return nil, err
	}
	fs := &FileStore{mem: NewMemoryStore(), path: filepath.Join(dir, "state.json")}

	data, err := os.ReadFile(fs.path)
	switch {
	case os.IsNotExist(err):
		logging.Info("No persisted client state at %s, starting fresh", fs.path)
		return fs, nil
	case err != nil:
		return nil, err
	}

	var values map[string]string
	if err := json.Unmarshal(data, &values); err != nil {
		logging.Warn("State file %s is corrupted, removing: %v", fs.path, err)
		_ = os.Remove(fs.path)
		return fs, nil
	}
	for k, v := range values {
		fs.mem.values[k] = v
	}
	logging.Info("Loaded %d persisted keys from %s", len(values), fs.path)
	return fs, nil
}

func (f *FileStore) Get(key string) (string, bool) {
	return f.mem.Get(key)
}

func (f *FileStore) Set(key, value string) error {
	_ = f.mem.Set(key, value)
	return f.flush()
}

func (f *FileStore) Remove(key string) error {
	_ = f.mem.Remove(key)
	return f.flush()
}

// Path returns the backing file.
func (f *FileStore) Path() string {
	return f.path
}

func (f *FileStore) flush() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.mem.mu.RLock()
	data, err := json.MarshalIndent(f.mem.values, "", "  ")
	f.mem.mu.RUnlock()
	if err != nil {
		return err
	}

	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		logging.Warn("Failed to write state file %s: %v", tmp, err)
		return err
	}
	if err := os.Rename(tmp, f.path); err != nil {
		logging.Warn("Failed to replace state file %s: %v", f.path, err)
		return err
	}
	return nil
}
