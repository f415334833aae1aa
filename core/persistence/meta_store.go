package persistence

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// MetaSnapshot is the durable form of registry + allocator + learned
// equivalence state, written atomically by MetaStore.Save and restored by
// MetaStore.Load on engine open (§4.3, §4.12).
type MetaSnapshot struct {
	Version       string         `json:"version"`
	NextSymbolID  uint64         `json:"next_symbol_id"`
	Symbols       []SymbolRecord `json:"symbols"`
	Equivalences  []Equivalence  `json:"equivalences,omitempty"`
}

// SymbolRecord is the persisted shape of one symbol.Meta entry.
type SymbolRecord struct {
	ID        uint64 `json:"id"`
	Kind      int    `json:"kind"`
	Label     string `json:"label"`
	CreatedAt int64  `json:"created_at"`
}

// Equivalence records a learned symbol equivalence (e.g. from e-graph
// congruence closure) so it survives a restart.
type Equivalence struct {
	A uint64 `json:"a"`
	B uint64 `json:"b"`
}

// MetaStore persists a MetaSnapshot under dataDir/meta/registry.json using
// a write-temp-then-rename pattern, so a crash mid-write never corrupts the
// previous snapshot.
type MetaStore struct {
	mu   sync.RWMutex
	path string
}

// NewMetaStore creates a meta store rooted at dataDir.
func NewMetaStore(dataDir string) *MetaStore {
	return &MetaStore{path: filepath.Join(dataDir, "meta", "registry.json")}
}

// Save atomically writes snapshot to disk.
func (s *MetaStore) Save(snapshot MetaSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot.Version = "1.0"

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create meta directory: %w", err)
	}

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal meta snapshot: %w", err)
	}

	tempPath := s.path + ".tmp"
	if err := os.WriteFile(tempPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write meta snapshot: %w", err)
	}

	if err := os.Rename(tempPath, s.path); err != nil {
		return fmt.Errorf("failed to rename meta snapshot into place: %w", err)
	}

	return nil
}

// Load reads the most recently saved snapshot. It returns (zero value,
// false, nil) if no snapshot has ever been saved.
func (s *MetaStore) Load() (MetaSnapshot, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return MetaSnapshot{}, false, nil
		}
		return MetaSnapshot{}, false, fmt.Errorf("failed to read meta snapshot: %w", err)
	}

	var snapshot MetaSnapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return MetaSnapshot{}, false, fmt.Errorf("failed to unmarshal meta snapshot: %w", err)
	}

	return snapshot, true, nil
}
