package savestore

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"cbot/internal/robot"
	"cbot/internal/stdlib"
)

func openTemp(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "saves.db")
	s, err := Open(path)
	require.NoError(t, err)
	return s, path
}

func TestPutGetRoundTrip(t *testing.T) {
	s, path := openTemp(t)
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	rec := Record{
		Owner:       "bot-1",
		Name:        "mover.cbot",
		Entry:       "main",
		Fingerprint: "abc",
		SavedAt:     at,
		Source:      []byte(`move(1);`),
		Bot:         robot.State{Pos: stdlib.Point{X: 1, Y: 2}, Heading: 90, Energy: 0.5},
		Data:        []byte{1, 2, 3},
	}
	require.NoError(t, s.Put(rec))
	require.NoError(t, s.Close())

	s, err := Open(path)
	require.NoError(t, err)
	defer s.Close()
	got, err := s.Get("bot-1")
	require.NoError(t, err)
	require.True(t, at.Equal(got.SavedAt))
	got.SavedAt = at
	require.Equal(t, rec, got)
	require.Equal(t, 11, got.Size())
}

func TestMissingAndDelete(t *testing.T) {
	s, _ := openTemp(t)
	defer s.Close()
	_, err := s.Get("nobody")
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Put(Record{Owner: "a"}))
	require.NoError(t, s.Delete("a"))
	require.NoError(t, s.Delete("a"))
	_, err = s.Get("a")
	require.ErrorIs(t, err, ErrNotFound)
	require.Error(t, s.Put(Record{}))
}

func TestListOrderedAndLastWriteWins(t *testing.T) {
	s, _ := openTemp(t)
	defer s.Close()
	require.NoError(t, s.Put(Record{Owner: "b", Entry: "main"}))
	require.NoError(t, s.Put(Record{Owner: "a", Entry: "first"}))
	require.NoError(t, s.Put(Record{Owner: "a", Entry: "second"}))

	list, err := s.List()
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, "a", list[0].Owner)
	require.Equal(t, "second", list[0].Entry)
	require.Equal(t, "b", list[1].Owner)
	require.False(t, list[1].SavedAt.IsZero())
}
