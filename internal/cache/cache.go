package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"glmocr/internal/ocr"
)

// Entry is one unit's persisted OCR result. The on-disk format is one JSON
// file per unit index.
type Entry struct {
	Text  string    `json:"md_text"`
	Usage ocr.Usage `json:"usage"`
}

// Store is a key-value view over persisted results, keyed by unit index.
// Lookup never fails: an unreadable or corrupt entry is a miss.
type Store interface {
	Lookup(index int) (*Entry, bool)
	Store(index int, entry *Entry) error
}

var _ Store = &DirStore{}

type DirStore struct {
	dir string
}

// Dir opens a directory-backed store, creating the directory up front so
// concurrent writers never race on its creation.
func Dir(path string) (*DirStore, error) {
	if err := os.MkdirAll(path, 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	return &DirStore{dir: path}, nil
}

func (s *DirStore) Lookup(index int) (*Entry, bool) {
	data, err := os.ReadFile(s.file(index))
	if err != nil {
		return nil, false
	}
	var e Entry
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, false
	}
	return &e, true
}

func (s *DirStore) Store(index int, entry *Entry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	return os.WriteFile(s.file(index), data, 0o644)
}

func (s *DirStore) file(index int) string {
	return filepath.Join(s.dir, fmt.Sprintf("page_%d.json", index+1))
}
