package api

import (
	"github.com/segmentio/ksuid"

	"github.com/ssargent/skald/pkg/store"
)

// APIResponse represents a standard API response
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// IngestArg is one typed argument of an ingest request. Value's expected
// JSON shape depends on Kind: booleans for "bool", numbers for the
// integer and float kinds, strings for "string", "wstring", "char",
// "wchar", "guid" and "sid", and an unsigned number for "filetime".
type IngestArg struct {
	Kind  string      `json:"kind"`
	Value interface{} `json:"value"`
}

// IngestRequest represents a log entry to encode, render and store
type IngestRequest struct {
	Pattern string      `json:"pattern"`
	Level   string      `json:"level,omitempty"`
	Args    []IngestArg `json:"args,omitempty"`
}

// IngestResponse reports the stored entry's id and rendered text
type IngestResponse struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Truncated bool   `json:"truncated,omitempty"`
}

// ServerConfig holds configuration for the API server
type ServerConfig struct {
	Port    int
	Bind    string
	APIKey  string
	DataDir string
}

// EntryStore defines the store operations the API relies on
type EntryStore interface {
	Append(e *store.Entry) (ksuid.KSUID, error)
	Get(id string) (*store.Entry, error)
	List(limit int) ([]*store.Entry, error)
	Count() (int, error)
}
