package store

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/atticdev/attic/models"
	"github.com/atticdev/attic/types"
	"github.com/gofrs/flock"
	"github.com/google/uuid"
)

const (
	dataFileKey       = "dataFile"
	dataFileFormatKey = "dataFileFormat"
	defaultDataFormat = "json"
	formatJSON        = "json"
	formatYAML        = "yaml"
	formatTOML        = "toml"
	checksumSuffix    = ".checksum"
)

// FileItemStore implements ItemStore for one live collection using a
// file backend. It supports JSON, YAML, and TOML formats and uses
// file-level locking so concurrent processes serialize on the data
// file.
type FileItemStore struct {
	kind     models.ItemType
	codec    listCodec
	filePath string
	items    map[string]models.Item
	flk      *flock.Flock
	format   string
}

// NewFileItemStore creates an uninitialized store for the given item
// type. Initialize must be called before any other operation.
func NewFileItemStore(kind models.ItemType) (*FileItemStore, error) {
	codec, ok := codecs[kind]
	if !ok {
		return nil, types.Errorf(types.CodeInvalidItemType, "no codec for item type %q", kind)
	}
	return &FileItemStore{
		kind:  kind,
		codec: codec,
		items: make(map[string]models.Item),
	}, nil
}

// Initialize configures the store. It expects a 'dataFile' key in the
// config map; 'dataFileFormat' selects json, yaml, or toml (default
// json). Existing data is loaded and a file lock established.
func (s *FileItemStore) Initialize(config map[string]string) error {
	if val, ok := config[dataFileKey]; ok && val != "" {
		s.filePath = val
	} else {
		s.filePath = fmt.Sprintf("%ss.json", s.kind)
	}

	if val, ok := config[dataFileFormatKey]; ok && val != "" {
		formatLower := strings.ToLower(val)
		switch formatLower {
		case formatJSON, formatYAML, formatTOML:
			s.format = formatLower
		default:
			return fmt.Errorf("unsupported dataFileFormat: %s. Supported formats are json, yaml, toml", val)
		}
	} else {
		s.format = defaultDataFormat
	}

	dir := filepath.Dir(s.filePath)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	// flock uses the data file path itself for locking.
	s.flk = flock.New(s.filePath)

	locked, err := s.flk.TryLock()
	if err != nil {
		return fmt.Errorf("failed to acquire initial lock for %s: %w", s.filePath, err)
	}
	if !locked {
		// Another process holds the lock; block until initialization
		// can complete.
		if err := s.flk.Lock(); err != nil {
			return fmt.Errorf("failed to acquire blocking initial lock for %s: %w", s.filePath, err)
		}
	}
	defer func() { _ = s.flk.Unlock() }()

	s.items = make(map[string]models.Item)
	return s.loadInternal()
}

// Kind returns the item type this store holds.
func (s *FileItemStore) Kind() models.ItemType { return s.kind }

// calculateChecksum computes the SHA256 checksum of the given data.
func calculateChecksum(data []byte) string {
	hasher := sha256.New()
	hasher.Write(data) // Write never returns an error
	return hex.EncodeToString(hasher.Sum(nil))
}

// loadInternal reads the collection file, verifies its checksum, and
// unmarshals through the kind's codec. Assumes the lock is held.
func (s *FileItemStore) loadInternal() error {
	checksumFilePath := s.filePath + checksumSuffix

	data, err := os.ReadFile(s.filePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.items = make(map[string]models.Item)
			_ = os.Remove(checksumFilePath)
			f, createErr := os.OpenFile(s.filePath, os.O_CREATE|os.O_RDWR, 0o644)
			if createErr != nil {
				return fmt.Errorf("failed to create data file %s: %w", s.filePath, createErr)
			}
			_ = f.Close()
			if err := os.WriteFile(checksumFilePath, []byte(calculateChecksum([]byte{})), 0o644); err != nil {
				// Non-critical; the next save will recreate it.
				fmt.Fprintf(os.Stderr, "Warning: could not write initial checksum file %s: %v\n", checksumFilePath, err)
			}
			return nil
		}
		return fmt.Errorf("failed to read data file %s: %w", s.filePath, err)
	}

	if _, err := os.Stat(checksumFilePath); err == nil {
		expectedChecksumBytes, readErr := os.ReadFile(checksumFilePath)
		if readErr != nil {
			return fmt.Errorf("failed to read checksum file %s: %w", checksumFilePath, readErr)
		}
		expectedChecksum := strings.TrimSpace(string(expectedChecksumBytes))
		actualChecksum := calculateChecksum(data)
		if actualChecksum != expectedChecksum {
			return fmt.Errorf("checksum mismatch for %s - expected %s, got %s - file is corrupt or tampered", s.filePath, expectedChecksum, actualChecksum)
		}
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("error checking checksum file %s: %w", checksumFilePath, err)
	}
	// Data from before checksums loads as-is; the next save creates
	// the sidecar.

	if len(data) == 0 {
		_ = os.WriteFile(checksumFilePath, []byte(calculateChecksum([]byte{})), 0o644) // best effort
		s.items = make(map[string]models.Item)
		return nil
	}

	items, err := s.codec.unmarshal(data, s.format)
	if err != nil {
		return fmt.Errorf("failed to decode %s from %s: %w", s.kind, s.filePath, err)
	}
	s.items = make(map[string]models.Item, len(items))
	for _, item := range items {
		s.items[item.ItemID()] = item
	}
	return nil
}

// saveInternal writes the collection to file, then its checksum. Both
// writes go through a temp file and an atomic rename.
func (s *FileItemStore) saveInternal() error {
	items := make([]models.Item, 0, len(s.items))
	for _, item := range s.items {
		items = append(items, item)
	}

	marshaledData, err := s.codec.marshal(items, s.format)
	if err != nil {
		return fmt.Errorf("failed to marshal %s collection to %s: %w", s.kind, s.format, err)
	}

	tempFilePath := s.filePath + ".tmp"
	checksumFilePath := s.filePath + checksumSuffix
	tempChecksumFilePath := checksumFilePath + ".tmp"

	defer func() { _ = os.Remove(tempFilePath) }()
	defer func() { _ = os.Remove(tempChecksumFilePath) }()

	if err := os.WriteFile(tempFilePath, marshaledData, 0o644); err != nil {
		return fmt.Errorf("failed to write to temporary data file %s: %w", tempFilePath, err)
	}

	actualChecksum := calculateChecksum(marshaledData)
	if err := os.WriteFile(tempChecksumFilePath, []byte(actualChecksum), 0o644); err != nil {
		return fmt.Errorf("failed to write to temporary checksum file %s: %w", tempChecksumFilePath, err)
	}

	if err := os.Rename(tempFilePath, s.filePath); err != nil {
		return fmt.Errorf("failed to rename temporary data file %s to %s: %w", tempFilePath, s.filePath, err)
	}
	if err := os.Rename(tempChecksumFilePath, checksumFilePath); err != nil {
		return fmt.Errorf("CRITICAL: data file %s updated, but failed to update checksum file %s: %w - store may be inconsistent", s.filePath, checksumFilePath, err)
	}

	return nil
}

// generateID creates a new universally unique identifier string.
func generateID() string {
	return uuid.NewString()
}

// Get retrieves an item by its unique identifier.
func (s *FileItemStore) Get(id string) (models.Item, error) {
	if err := s.flk.Lock(); err != nil {
		return nil, types.WrapError(types.CodeStoreFailure, fmt.Sprintf("failed to acquire lock for %s get", s.kind), err)
	}
	defer func() { _ = s.flk.Unlock() }()

	if err := s.loadInternal(); err != nil {
		return nil, types.WrapError(types.CodeStoreFailure, fmt.Sprintf("failed to load %s collection", s.kind), err)
	}

	item, ok := s.items[id]
	if !ok {
		return nil, types.Errorf(types.CodeNotFound, "%s with ID %s not found", s.kind, id)
	}
	return item, nil
}

// Create adds a new item to the collection. An empty ID is replaced
// with a generated one; a duplicate ID is rejected with CONFLICT,
// which doubles as the mutual-exclusion primitive the restorer's
// collision retry relies on.
func (s *FileItemStore) Create(item models.Item) (models.Item, error) {
	if item.Kind() != s.kind {
		return nil, types.Errorf(types.CodeInvalidItemType, "cannot store %s in the %s collection", item.Kind(), s.kind)
	}
	if err := s.flk.Lock(); err != nil {
		return nil, types.WrapError(types.CodeStoreFailure, fmt.Sprintf("could not lock %s file for create", s.kind), err)
	}
	defer func() { _ = s.flk.Unlock() }()

	// Reload from disk so we work against the latest version; the
	// lock serializes concurrent processes.
	if err := s.loadInternal(); err != nil {
		return nil, types.WrapError(types.CodeStoreFailure, fmt.Sprintf("failed to reload %s collection before create", s.kind), err)
	}

	if item.ItemID() == "" {
		item = item.WithID(generateID())
	} else if _, exists := s.items[item.ItemID()]; exists {
		return nil, types.Errorf(types.CodeConflict, "%s with ID '%s' already exists", s.kind, item.ItemID())
	}

	if err := models.ValidateStruct(item); err != nil {
		return nil, types.WrapError(types.CodeValidation, fmt.Sprintf("validation failed for new %s", s.kind), err)
	}

	s.items[item.ItemID()] = item

	if err := s.saveInternal(); err != nil {
		// Best-effort rollback: reload the unchanged file.
		_ = s.loadInternal()
		return nil, types.WrapError(types.CodeStoreFailure, fmt.Sprintf("failed to save new %s", s.kind), err)
	}

	return item, nil
}

// Delete removes an item from the collection by identifier.
func (s *FileItemStore) Delete(id string) error {
	if err := s.flk.Lock(); err != nil {
		return types.WrapError(types.CodeStoreFailure, fmt.Sprintf("could not lock %s file for delete", s.kind), err)
	}
	defer func() { _ = s.flk.Unlock() }()

	if err := s.loadInternal(); err != nil {
		return types.WrapError(types.CodeStoreFailure, fmt.Sprintf("failed to reload %s collection before delete", s.kind), err)
	}

	if _, exists := s.items[id]; !exists {
		return types.Errorf(types.CodeNotFound, "%s with ID '%s' not found", s.kind, id)
	}

	delete(s.items, id)

	if err := s.saveInternal(); err != nil {
		_ = s.loadInternal()
		return types.WrapError(types.CodeStoreFailure, fmt.Sprintf("failed to save after deleting %s", s.kind), err)
	}

	return nil
}

// List retrieves items, optionally filtered.
func (s *FileItemStore) List(filterFn func(models.Item) bool) ([]models.Item, error) {
	if err := s.flk.Lock(); err != nil {
		return nil, types.WrapError(types.CodeStoreFailure, fmt.Sprintf("failed to acquire lock for %s list", s.kind), err)
	}
	defer func() { _ = s.flk.Unlock() }()

	if err := s.loadInternal(); err != nil {
		return nil, types.WrapError(types.CodeStoreFailure, fmt.Sprintf("failed to load %s collection", s.kind), err)
	}

	items := make([]models.Item, 0, len(s.items))
	for _, item := range s.items {
		if filterFn == nil || filterFn(item) {
			items = append(items, item)
		}
	}
	return items, nil
}

// Close releases the file lock. flock.Unlock is idempotent and safe
// to call even when the lock is not held by this process.
func (s *FileItemStore) Close() error {
	if s.flk != nil {
		return s.flk.Unlock()
	}
	return nil
}
