package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *EntryStore {
	t.Helper()
	s, err := NewEntryStore(EntryStoreConfig{DataDir: t.TempDir()})
	require.NoError(t, err)
	require.NoError(t, s.Open())
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestAppendAndGet(t *testing.T) {
	s := openTestStore(t)

	e := &Entry{
		Pattern: "user {} logged in",
		Text:    "user alice logged in",
		Args:    []string{"alice"},
		Level:   "info",
	}
	id, err := s.Append(e)
	require.NoError(t, err)
	require.NotEmpty(t, id.String())
	assert.Equal(t, id.String(), e.ID)
	assert.False(t, e.LoggedAt.IsZero(), "Append assigns a timestamp")

	got, err := s.Get(id.String())
	require.NoError(t, err)
	assert.Equal(t, e.Pattern, got.Pattern)
	assert.Equal(t, e.Text, got.Text)
	assert.Equal(t, e.Args, got.Args)
	assert.Equal(t, e.Level, got.Level)
}

func TestGetErrors(t *testing.T) {
	s := openTestStore(t)

	_, err := s.Get("not-a-ksuid")
	assert.ErrorIs(t, err, ErrInvalidID)

	_, err = s.Get("2SnUAs1rIvZkGkDTMYnuPTHWKqv")
	assert.ErrorIs(t, err, ErrEntryNotFound)
}

func TestListPreservesEmissionOrder(t *testing.T) {
	s := openTestStore(t)

	for i, text := range []string{"first", "second", "third"} {
		_, err := s.Append(&Entry{
			Text:     text,
			LoggedAt: time.Now().UTC(),
		})
		require.NoError(t, err, "append %d", i)
	}

	entries, err := s.List(0)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "first", entries[0].Text)
	assert.Equal(t, "second", entries[1].Text)
	assert.Equal(t, "third", entries[2].Text)

	limited, err := s.List(2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestCount(t *testing.T) {
	s := openTestStore(t)

	n, err := s.Count()
	require.NoError(t, err)
	assert.Zero(t, n)

	for i := 0; i < 5; i++ {
		_, err := s.Append(&Entry{Text: "x"})
		require.NoError(t, err)
	}

	n, err = s.Count()
	require.NoError(t, err)
	assert.Equal(t, 5, n)
}

func TestOperationsRequireOpen(t *testing.T) {
	s, err := NewEntryStore(EntryStoreConfig{DataDir: t.TempDir()})
	require.NoError(t, err)

	_, err = s.Append(&Entry{Text: "x"})
	assert.ErrorIs(t, err, ErrNotOpen)
	_, err = s.Get("2SnUAs1rIvZkGkDTMYnuPTHWKqv")
	assert.ErrorIs(t, err, ErrNotOpen)
	_, err = s.List(0)
	assert.ErrorIs(t, err, ErrNotOpen)
	assert.NoError(t, s.Close(), "closing a never-opened store is a no-op")
}

func TestReopenSeesExistingEntries(t *testing.T) {
	dir := t.TempDir()

	s, err := NewEntryStore(EntryStoreConfig{DataDir: dir})
	require.NoError(t, err)
	require.NoError(t, s.Open())
	id, err := s.Append(&Entry{Text: "persisted"})
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s2, err := NewEntryStore(EntryStoreConfig{DataDir: dir})
	require.NoError(t, err)
	require.NoError(t, s2.Open())
	defer s2.Close()

	got, err := s2.Get(id.String())
	require.NoError(t, err)
	assert.Equal(t, "persisted", got.Text)
}
