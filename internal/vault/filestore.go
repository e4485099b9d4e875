package vault

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/timshannon/badgerhold/v4"
)

// secretEntry is the stored record for the file backend
type secretEntry struct {
	Key       string
	Value     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// fileStore implements SecretStore on a local Badger database. Used on
// headless hosts where no keychain daemon is available.
type fileStore struct {
	store  *badgerhold.Store
	logger arbor.ILogger
}

// NewFileStore opens (or creates) a Badger-backed secret store at path
func NewFileStore(path string, logger arbor.ILogger) (SecretStore, func() error, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, nil, fmt.Errorf("failed to create vault directory: %w", err)
	}

	options := badgerhold.DefaultOptions
	options.Dir = path
	options.ValueDir = path
	options.Logger = nil // Disable default badger logger to use arbor

	store, err := badgerhold.Open(options)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open vault database: %w", err)
	}

	logger.Debug().Str("path", path).Msg("File vault initialized")

	return &fileStore{store: store, logger: logger}, store.Close, nil
}

func (s *fileStore) Set(key, value string) error {
	now := time.Now()
	entry := secretEntry{
		Key:       key,
		Value:     value,
		CreatedAt: now,
		UpdatedAt: now,
	}

	// Preserve CreatedAt on overwrite
	var existing secretEntry
	if err := s.store.Get(key, &existing); err == nil {
		entry.CreatedAt = existing.CreatedAt
	}

	if err := s.store.Upsert(key, &entry); err != nil {
		return fmt.Errorf("failed to write vault entry %s: %w", key, err)
	}
	return nil
}

func (s *fileStore) Get(key string) (string, error) {
	var entry secretEntry
	err := s.store.Get(key, &entry)
	if err == badgerhold.ErrNotFound {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to read vault entry %s: %w", key, err)
	}
	return entry.Value, nil
}

func (s *fileStore) Delete(key string) error {
	err := s.store.Delete(key, secretEntry{})
	if err == badgerhold.ErrNotFound {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to delete vault entry %s: %w", key, err)
	}
	return nil
}
