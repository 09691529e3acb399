package seenset

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
)

// legacyFile is the wrapped shape some earlier state files used; a bare JSON
// array of IDs is the current form. Both load.
type legacyFile struct {
	SeenIDs []string `json:"seen_ids"`
}

// FileStore keeps the seen-set in a JSON file holding a sorted list of IDs.
type FileStore struct {
	path  string
	ids   map[string]struct{}
	dirty bool
}

// Open loads the seen-set from path. A missing, unreadable, or unparseable
// file yields an empty set — never an error — so a fresh or damaged state
// file can't stop a cycle.
func Open(path string) *FileStore {
	store := &FileStore{
		path: path,
		ids:  make(map[string]struct{}),
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return store
	}

	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		var legacy legacyFile
		if err := json.Unmarshal(data, &legacy); err != nil {
			return store
		}
		ids = legacy.SeenIDs
	}

	for _, id := range ids {
		store.ids[id] = struct{}{}
	}
	return store
}

// Contains reports whether id has been recorded.
func (s *FileStore) Contains(id string) bool {
	_, ok := s.ids[id]
	return ok
}

// Record adds id to the set and reports whether it was newly added.
func (s *FileStore) Record(id string) bool {
	if _, ok := s.ids[id]; ok {
		return false
	}
	s.ids[id] = struct{}{}
	s.dirty = true
	return true
}

// Len returns the current size of the set.
func (s *FileStore) Len() int { return len(s.ids) }

// Flush writes the set back as a sorted JSON list. A no-op when nothing was
// recorded since open, avoiding a write on every idle cycle.
func (s *FileStore) Flush() error {
	if !s.dirty {
		return nil
	}

	ids := make([]string, 0, len(s.ids))
	for id := range s.ids {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	data, err := json.MarshalIndent(ids, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal seen-set: %w", err)
	}

	// 0600: owner-only read/write
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write seen-set: %w", err)
	}

	s.dirty = false
	return nil
}
