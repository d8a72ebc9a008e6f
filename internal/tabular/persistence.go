package tabular

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Persistence handles the disk I/O for the MemStore: one JSON file per
// partition under a data directory.
type Persistence struct {
	DataDir string
	mu      sync.Mutex // Protects concurrent writes to the filesystem
}

// NewPersistence initializes a persistence handler, creating the data
// directory if needed.
func NewPersistence(dir string) (*Persistence, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return &Persistence{DataDir: dir}, nil
}

// SavePartition writes a single partition's rows to a JSON file atomically:
// write to a temp file, then rename over the old one, so a crash leaves
// either the old snapshot or the new one, never a torn file.
func (p *Persistence) SavePartition(partition string, rows [][]string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	filePath := filepath.Join(p.DataDir, fmt.Sprintf("%s.json", partition))
	tempPath := filePath + ".tmp"

	data, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return err
	}

	if err := os.WriteFile(tempPath, data, 0644); err != nil {
		return err
	}
	return os.Rename(tempPath, filePath)
}

// LoadAll returns all partition data found in the data directory.
// Unreadable or malformed files are skipped with a warning.
func (p *Persistence) LoadAll() (map[string][][]string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	all := make(map[string][][]string)

	files, err := os.ReadDir(p.DataDir)
	if err != nil {
		return nil, err
	}

	for _, file := range files {
		if filepath.Ext(file.Name()) != ".json" {
			continue
		}
		partition := strings.TrimSuffix(file.Name(), ".json")

		content, err := os.ReadFile(filepath.Join(p.DataDir, file.Name()))
		if err != nil {
			log.Printf("Warning: could not read partition file %s: %v", file.Name(), err)
			continue
		}

		var rows [][]string
		if err := json.Unmarshal(content, &rows); err != nil {
			log.Printf("Warning: could not unmarshal partition data from %s: %v", file.Name(), err)
			continue
		}
		all[partition] = rows
	}
	return all, nil
}
