package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/roach88/meetsched/internal/domain"
)

// createTestStore opens a fresh SQLite store in a temporary directory.
func createTestStore(t *testing.T) *SQLStore {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("OpenSQLite() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// backends returns a constructor per Store implementation so behavioral
// tests run against each of them.
func backends() map[string]func(t *testing.T) Store {
	return map[string]func(t *testing.T) Store{
		"sqlite": func(t *testing.T) Store { return createTestStore(t) },
		"memory": func(t *testing.T) Store { return NewMemory() },
	}
}

// at returns a naive time on a fixed test day.
func at(hour, minute int) time.Time {
	return time.Date(2030, time.March, 4, hour, minute, 0, 0, time.UTC)
}

// mustTx runs fn in a transaction and fails the test on error.
func mustTx(t *testing.T, s Store, fn func(tx Tx) error) {
	t.Helper()
	require.NoError(t, s.RunInTx(context.Background(), fn))
}

// seedPerson inserts a person and returns its id.
func seedPerson(t *testing.T, s Store, name, email string) int64 {
	t.Helper()
	var id int64
	mustTx(t, s, func(tx Tx) error {
		var err error
		id, err = tx.InsertPerson(context.Background(), domain.Person{Name: name, Email: email})
		return err
	})
	return id
}

// seedMeeting inserts a meeting with participants and returns its id.
func seedMeeting(t *testing.T, s Store, title string, start, end time.Time, personIDs ...int64) int64 {
	t.Helper()
	var id int64
	mustTx(t, s, func(tx Tx) error {
		var err error
		id, err = tx.InsertMeeting(context.Background(), domain.Meeting{Title: title, Start: start, End: end})
		if err != nil {
			return err
		}
		for _, pid := range personIDs {
			if err := tx.InsertParticipation(context.Background(), id, pid); err != nil {
				return err
			}
		}
		return nil
	})
	return id
}
