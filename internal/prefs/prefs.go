// Package prefs is an opaque key-value preference store persisted as a
// JSON document. Keys are dotted paths ("filters.hideDefaults").
package prefs

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"
)

// Well-known keys.
const (
	KeyJoystickMapping = "joystickMapping"
	KeyHideDefaults    = "filters.hideDefaults"
	KeyModifierFilter  = "filters.modifier"
	KeyCategoryFilter  = "filters.category"
	KeyUnsavedChanges  = "unsavedChanges"
	KeyLastFilePath    = "lastFilePath"
)

// ErrCorrupt is returned when the preference file is not a JSON object.
var ErrCorrupt = errors.New("preference file is not a JSON object")

// Store is the preference interface the rest of the program uses.
type Store interface {
	String(key string) string
	Bool(key string) bool
	StringMap(key string) map[string]string
	Set(key string, value any) error
	Delete(key string) error
}

// JSONStore keeps preferences in a JSON document. With a path, every
// change is written through to disk.
type JSONStore struct {
	mu   sync.RWMutex
	path string
	doc  string
}

var _ Store = (*JSONStore)(nil)

// NewMemory returns a store that is never persisted.
func NewMemory() *JSONStore {
	return &JSONStore{doc: "{}"}
}

// Open loads the store at path. A missing file yields an empty store
// that is created on first write.
func Open(path string) (*JSONStore, error) {
	s := &JSONStore{path: path, doc: "{}"}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Path returns the backing file, or "" for memory stores.
func (s *JSONStore) Path() string {
	return s.path
}

// Reload re-reads the backing file.
func (s *JSONStore) Reload() error {
	if s.path == "" {
		return nil
	}
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		s.mu.Lock()
		s.doc = "{}"
		s.mu.Unlock()
		return nil
	}
	if err != nil {
		return fmt.Errorf("read prefs: %w", err)
	}
	if len(data) == 0 {
		data = []byte("{}")
	}
	if !gjson.ValidBytes(data) || !gjson.ParseBytes(data).IsObject() {
		return fmt.Errorf("%s: %w", s.path, ErrCorrupt)
	}

	s.mu.Lock()
	s.doc = string(data)
	s.mu.Unlock()
	return nil
}

// String returns the value at key as a string, "" when missing.
func (s *JSONStore) String(key string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return gjson.Get(s.doc, key).String()
}

// Bool returns the value at key as a bool, false when missing.
func (s *JSONStore) Bool(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return gjson.Get(s.doc, key).Bool()
}

// StringMap returns the object at key with every value as a string.
// Missing keys and non-objects yield nil.
func (s *JSONStore) StringMap(key string) map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	res := gjson.Get(s.doc, key)
	if !res.IsObject() {
		return nil
	}
	out := make(map[string]string)
	res.ForEach(func(k, v gjson.Result) bool {
		out[k.String()] = v.String()
		return true
	})
	return out
}

// Exists reports whether key is set.
func (s *JSONStore) Exists(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return gjson.Get(s.doc, key).Exists()
}

// Set stores value at key.
func (s *JSONStore) Set(key string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := sjson.Set(s.doc, key, value)
	if err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	s.doc = doc
	return s.flushLocked()
}

// Delete removes key.
func (s *JSONStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := sjson.Delete(s.doc, key)
	if err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	s.doc = doc
	return s.flushLocked()
}

// JSON returns the document, indented.
func (s *JSONStore) JSON() []byte {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return pretty.Pretty([]byte(s.doc))
}

func (s *JSONStore) flushLocked() error {
	if s.path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("write prefs: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, pretty.Pretty([]byte(s.doc)), 0o644); err != nil {
		return fmt.Errorf("write prefs: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("write prefs: %w", err)
	}
	return nil
}
