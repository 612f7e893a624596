package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/cockroachdb/pebble"
	"github.com/segmentio/ksuid"
)

// EntryStore persists rendered log entries in a pebble database, keyed by
// ksuid so iteration order follows emission time.
type EntryStore struct {
	config EntryStoreConfig
	db     *pebble.DB
	mutex  sync.Mutex
	isOpen bool
}

// NewEntryStore creates a new entry store instance
func NewEntryStore(config EntryStoreConfig) (*EntryStore, error) {
	if err := os.MkdirAll(config.DataDir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create data dir: %w", err)
	}
	return &EntryStore{config: config}, nil
}

// Open opens the underlying database. Opening an already-open store is a
// no-op.
func (s *EntryStore) Open() error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.isOpen {
		return nil
	}

	db, err := pebble.Open(filepath.Join(s.config.DataDir, "entries"), &pebble.Options{})
	if err != nil {
		return fmt.Errorf("failed to open entry database: %w", err)
	}
	s.db = db
	s.isOpen = true
	return nil
}

// Append stores a rendered entry and returns its assigned id.
func (s *EntryStore) Append(e *Entry) (ksuid.KSUID, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if !s.isOpen {
		return ksuid.Nil, ErrNotOpen
	}

	id := ksuid.New()
	e.ID = id.String()
	if e.LoggedAt.IsZero() {
		e.LoggedAt = time.Now().UTC()
	}

	data, err := json.Marshal(e)
	if err != nil {
		return ksuid.Nil, fmt.Errorf("failed to marshal entry: %w", err)
	}

	if err := s.db.Set(id.Bytes(), data, pebble.NoSync); err != nil {
		return ksuid.Nil, fmt.Errorf("failed to store entry: %w", err)
	}
	return id, nil
}

// Get retrieves an entry by its id string.
func (s *EntryStore) Get(id string) (*Entry, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if !s.isOpen {
		return nil, ErrNotOpen
	}

	key, err := ksuid.Parse(id)
	if err != nil {
		return nil, ErrInvalidID
	}

	data, closer, err := s.db.Get(key.Bytes())
	if err != nil {
		if err == pebble.ErrNotFound {
			return nil, ErrEntryNotFound
		}
		return nil, fmt.Errorf("failed to read entry: %w", err)
	}
	defer closer.Close()

	var e Entry
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, fmt.Errorf("failed to unmarshal entry: %w", err)
	}
	return &e, nil
}

// List returns up to limit entries in emission order. A limit of zero or
// less means no limit.
func (s *EntryStore) List(limit int) ([]*Entry, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if !s.isOpen {
		return nil, ErrNotOpen
	}

	iter, err := s.db.NewIter(&pebble.IterOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to create iterator: %w", err)
	}
	defer iter.Close()

	var entries []*Entry
	for iter.First(); iter.Valid(); iter.Next() {
		if limit > 0 && len(entries) >= limit {
			break
		}
		var e Entry
		if err := json.Unmarshal(iter.Value(), &e); err != nil {
			return nil, fmt.Errorf("failed to unmarshal entry: %w", err)
		}
		entries = append(entries, &e)
	}
	return entries, nil
}

// Count returns the number of stored entries.
func (s *EntryStore) Count() (int, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if !s.isOpen {
		return 0, ErrNotOpen
	}

	iter, err := s.db.NewIter(&pebble.IterOptions{})
	if err != nil {
		return 0, fmt.Errorf("failed to create iterator: %w", err)
	}
	defer iter.Close()

	count := 0
	for iter.First(); iter.Valid(); iter.Next() {
		count++
	}
	return count, nil
}

// Close closes the store.
func (s *EntryStore) Close() error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if !s.isOpen {
		return nil
	}
	s.isOpen = false
	return s.db.Close()
}
