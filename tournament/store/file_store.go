/* file_store.go
 * Contains the JSON file implementation of the store. One file per tournament under
 * data/active, written via a temp file and rename so a crash mid-write cannot corrupt
 * the previous record. Archived tournaments move to data/archive
 * Authors: Zachary Bower
 */

package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

type FileStore struct {
	ActiveDir  string
	ArchiveDir string
}

// NewFileStore creates the active and archive directories under dataDir
// Preconditions: Receives the data directory path
// Postconditions: Returns a pointer to the FileStore, or an error if the
// directories cannot be created
func NewFileStore(dataDir string) (*FileStore, error) {
	if dataDir == "" {
		return nil, fmt.Errorf("dataDir is required but none was provided")
	}
	s := &FileStore{
		ActiveDir:  filepath.Join(dataDir, "active"),
		ArchiveDir: filepath.Join(dataDir, "archive"),
	}
	for _, dir := range []string{s.ActiveDir, s.ArchiveDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create store directory %s: %w", dir, err)
		}
	}
	return s, nil
}

// Save writes the record to active storage atomically
// Preconditions: Receives a record with a non-empty ID
// Postconditions: The record file is replaced in one rename, or an error is
// returned with the previous file untouched
func (s *FileStore) Save(record *EventRecord) error {
	if record.ID == "" {
		return fmt.Errorf("cannot save a record without an id")
	}
	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal record %s: %w", record.ID, err)
	}

	tmp, err := os.CreateTemp(s.ActiveDir, record.ID+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file for %s: %w", record.ID, err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write record %s: %w", record.ID, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to close temp file for %s: %w", record.ID, err)
	}
	if err := os.Rename(tmp.Name(), s.recordPath(record.ID)); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to commit record %s: %w", record.ID, err)
	}
	return nil
}

// LoadAll reads every record in active storage
// Preconditions: None
// Postconditions: Returns all decodable records; a single unreadable file fails
// the whole load so a corrupt store is noticed at startup, not mid-tournament
func (s *FileStore) LoadAll() ([]*EventRecord, error) {
	entries, err := os.ReadDir(s.ActiveDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read store directory: %w", err)
	}
	var records []*EventRecord
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.ActiveDir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", entry.Name(), err)
		}
		var record EventRecord
		if err := json.Unmarshal(data, &record); err != nil {
			return nil, fmt.Errorf("failed to decode %s: %w", entry.Name(), err)
		}
		records = append(records, &record)
	}
	return records, nil
}

// Archive moves a record from active to archive storage
// Preconditions: Receives the record id
// Postconditions: The file lives under the archive directory, or an error is returned
func (s *FileStore) Archive(id string) error {
	src := s.recordPath(id)
	if _, err := os.Stat(src); err != nil {
		return fmt.Errorf("no active record for %s: %w", id, err)
	}
	dst := filepath.Join(s.ArchiveDir, id+".json")
	if err := os.Rename(src, dst); err != nil {
		return fmt.Errorf("failed to archive record %s: %w", id, err)
	}
	return nil
}

func (s *FileStore) recordPath(id string) string {
	return filepath.Join(s.ActiveDir, id+".json")
}

// Ensure FileStore implements Interface
var _ Interface = (*FileStore)(nil)
