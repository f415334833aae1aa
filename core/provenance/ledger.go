package provenance

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/cogpy/hypersynth/core/symbol"
)

// Ledger is the append-only provenance store. With a data directory it
// mirrors every Append to an ndjson file under <data_dir>/provenance so
// history survives a restart; without one, Append drops records and
// returns nil, and every read method reports ErrUnavailable rather than
// answering with an empty history.
type Ledger struct {
	mu sync.RWMutex

	available bool
	path      string
	file      *os.File
	writer    *bufio.Writer

	records  []Record
	byDerived map[symbol.Id][]int
	bySource  map[symbol.Id][]int
	byKind    map[Kind][]int
}

// Open creates a ledger rooted at dataDir. An empty dataDir produces an
// unavailable ledger per §7: Append drops records silently, and every read
// method returns ErrUnavailable.
func Open(dataDir string) (*Ledger, error) {
	if dataDir == "" {
		return &Ledger{available: false}, nil
	}

	path := filepath.Join(dataDir, "provenance", "ledger.ndjson")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("provenance: creating ledger directory: %w", err)
	}

	l := &Ledger{
		available: true,
		path:      path,
		byDerived: make(map[symbol.Id][]int),
		bySource:  make(map[symbol.Id][]int),
		byKind:    make(map[Kind][]int),
	}

	if err := l.loadExisting(); err != nil {
		return nil, err
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("provenance: opening ledger for append: %w", err)
	}
	l.file = f
	l.writer = bufio.NewWriter(f)

	return l, nil
}

func (l *Ledger) loadExisting() error {
	data, err := os.ReadFile(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("provenance: reading ledger: %w", err)
	}

	decoder := json.NewDecoder(bytes.NewReader(data))
	for {
		var rec Record
		if err := decoder.Decode(&rec); err != nil {
			break
		}
		l.index(rec)
	}
	return nil
}

func (l *Ledger) index(rec Record) {
	row := len(l.records)
	l.records = append(l.records, rec)
	l.byDerived[rec.Derived] = append(l.byDerived[rec.Derived], row)
	l.byKind[rec.Kind] = append(l.byKind[rec.Kind], row)
	for _, src := range rec.Sources {
		l.bySource[src] = append(l.bySource[src], row)
	}
}

// Append records a new derivation. It is a no-op, not an error, when the
// ledger has no backing data directory.
func (l *Ledger) Append(rec Record) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.available {
		return nil
	}

	l.index(rec)

	line, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("provenance: marshal record: %w", err)
	}
	if _, err := l.writer.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("provenance: append record: %w", err)
	}
	return l.writer.Flush()
}

// ByDerived returns every record where derived is the Derived symbol.
func (l *Ledger) ByDerived(derived symbol.Id) ([]Record, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if !l.available {
		return nil, ErrUnavailable
	}
	return l.rowsAt(l.byDerived[derived]), nil
}

// BySource returns every record whose Sources contains source.
func (l *Ledger) BySource(source symbol.Id) ([]Record, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if !l.available {
		return nil, ErrUnavailable
	}
	return l.rowsAt(l.bySource[source]), nil
}

// ByKind returns every record of the given derivation kind.
func (l *Ledger) ByKind(kind Kind) ([]Record, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if !l.available {
		return nil, ErrUnavailable
	}
	return l.rowsAt(l.byKind[kind]), nil
}

// Get returns the most recent record for derived, if any.
func (l *Ledger) Get(derived symbol.Id) (Record, bool, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if !l.available {
		return Record{}, false, ErrUnavailable
	}
	rows := l.byDerived[derived]
	if len(rows) == 0 {
		return Record{}, false, nil
	}
	return l.records[rows[len(rows)-1]], true, nil
}

func (l *Ledger) rowsAt(rows []int) []Record {
	out := make([]Record, 0, len(rows))
	for _, r := range rows {
		out = append(out, l.records[r])
	}
	return out
}

// Close flushes and closes the backing ndjson file, if any.
func (l *Ledger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.available || l.file == nil {
		return nil
	}
	if err := l.writer.Flush(); err != nil {
		return err
	}
	return l.file.Close()
}
