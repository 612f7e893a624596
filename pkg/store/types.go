package store

import "time"

// Entry is one fully rendered log entry: the argument buffer's wire form
// is an in-process detail and is never persisted, so the store works with
// the replayed results instead.
type Entry struct {
	ID              string    `json:"id"`
	Pattern         string    `json:"pattern"`
	Text            string    `json:"text"`
	Args            []string  `json:"args,omitempty"`
	DescriptorSizes []int     `json:"descriptor_sizes,omitempty"`
	Level           string    `json:"level,omitempty"`
	Truncated       bool      `json:"truncated,omitempty"`
	LoggedAt        time.Time `json:"logged_at"`
}

// EntryStoreConfig holds configuration for the entry store
type EntryStoreConfig struct {
	DataDir string // Directory for the entry database
}

// Errors
var (
	ErrEntryNotFound = &StoreError{"entry not found"}
	ErrInvalidID     = &StoreError{"invalid entry id"}
	ErrNotOpen       = &StoreError{"store is not open"}
)

// StoreError represents an entry store error
type StoreError struct {
	Message string
}

func (e *StoreError) Error() string {
	return e.Message
}
