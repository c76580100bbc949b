package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/paperstreet/stocksim/internal/models"
)

// FileStore persists the snapshot document as a single JSON file. A
// mutex serializes every read-modify-write cycle, so concurrent callers
// cannot lose each other's appends. Writes go through a temp file and
// rename so a crash mid-write cannot corrupt the document.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore creates a file-backed store at the given path, creating
// the parent directory if needed.
func NewFileStore(path string) (*FileStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create store directory: %w", err)
		}
	}
	return &FileStore{path: path}, nil
}

// load reads the snapshot from disk. A missing, unreadable, or
// corrupt file is treated as an empty store.
func (s *FileStore) load() *models.Snapshot {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return models.NewSnapshot()
	}
	snap := models.NewSnapshot()
	if err := json.Unmarshal(data, snap); err != nil {
		return models.NewSnapshot()
	}
	if snap.Users == nil {
		snap.Users = make(map[string]*models.User)
	}
	if snap.PriceHistory == nil {
		snap.PriceHistory = make(map[string][]models.PricePoint)
	}
	return snap
}

func (s *FileStore) save(snap *models.Snapshot) error {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace snapshot: %w", err)
	}
	return nil
}

func appendPoint(snap *models.Snapshot, symbol string, point models.PricePoint) {
	history := append(snap.PriceHistory[symbol], point)
	if len(history) > models.MaxHistoryPoints {
		history = history[len(history)-models.MaxHistoryPoints:]
	}
	snap.PriceHistory[symbol] = history
}

// Append records one price point for a symbol.
func (s *FileStore) Append(symbol string, point models.PricePoint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.load()
	appendPoint(snap, symbol, point)
	return s.save(snap)
}

// AppendBatch records one point per symbol under a shared timestamp.
func (s *FileStore) AppendBatch(prices map[string]float64, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.load()
	for symbol, price := range prices {
		appendPoint(snap, symbol, models.PricePoint{Time: at, Price: price})
	}
	return s.save(snap)
}

// History returns the recorded points for a symbol, oldest first.
func (s *FileStore) History(symbol string) ([]models.PricePoint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	history := s.load().PriceHistory[symbol]
	out := make([]models.PricePoint, len(history))
	copy(out, history)
	return out, nil
}

// Symbols lists every symbol with recorded history, sorted.
func (s *FileStore) Symbols() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.load()
	symbols := make([]string, 0, len(snap.PriceHistory))
	for symbol := range snap.PriceHistory {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)
	return symbols, nil
}

// HoldingSymbols lists symbols held by any user, sorted.
func (s *FileStore) HoldingSymbols() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.load()
	seen := make(map[string]bool)
	for _, user := range snap.Users {
		for symbol := range user.Holdings {
			seen[symbol] = true
		}
	}
	symbols := make([]string, 0, len(seen))
	for symbol := range seen {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)
	return symbols, nil
}
