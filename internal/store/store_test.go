package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/meetsched/internal/domain"
)

func TestOpen_CreatesTables(t *testing.T) {
	s := createTestStore(t)

	tables, err := s.CheckTables(context.Background())
	require.NoError(t, err)
	for _, name := range Tables {
		assert.True(t, tables[name], "table %s should exist", name)
	}
	assert.Equal(t, DriverSQLite, s.Driver())
}

func TestOpen_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	s1, err := OpenSQLite(path)
	require.NoError(t, err)
	id := seedPerson(t, s1, "Ana", "ana@example.com")
	require.NoError(t, s1.Close())

	s2, err := OpenSQLite(path)
	require.NoError(t, err)
	defer s2.Close()

	mustTx(t, s2, func(tx Tx) error {
		p, err := tx.FindPersonByEmail(context.Background(), "ana@example.com")
		require.NoError(t, err)
		assert.Equal(t, id, p.ID)
		return nil
	})
}

func TestOpen_Pragmas(t *testing.T) {
	s := createTestStore(t)

	var fk int
	require.NoError(t, s.db.QueryRow("PRAGMA foreign_keys").Scan(&fk))
	assert.Equal(t, 1, fk)

	var mode string
	require.NoError(t, s.db.QueryRow("PRAGMA journal_mode").Scan(&mode))
	assert.Equal(t, "wal", mode)

	var version int
	require.NoError(t, s.db.QueryRow("PRAGMA user_version").Scan(&version))
	assert.Equal(t, currentSchemaVersion, version)
}

func TestOpen_RejectsUnknownDriver(t *testing.T) {
	_, err := Open("mysql", "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported driver")

	_, err = Open(DriverSQLite, "  ")
	require.Error(t, err)
}

func TestRebind(t *testing.T) {
	q := "SELECT * FROM t WHERE a IN (?, ?) AND ? < b"

	assert.Equal(t, q, dialects[DriverSQLite].rebind(q))
	assert.Equal(t, "SELECT * FROM t WHERE a IN ($1, $2) AND $3 < b", dialects[DriverPostgres].rebind(q))
}

func TestPlaceholders(t *testing.T) {
	assert.Equal(t, "?", placeholders(1))
	assert.Equal(t, "?, ?, ?", placeholders(3))
}

func TestPersons(t *testing.T) {
	for name, newStore := range backends() {
		t.Run(name, func(t *testing.T) {
			s := newStore(t)
			ctx := context.Background()
			phone := "0712345678"

			mustTx(t, s, func(tx Tx) error {
				id, err := tx.InsertPerson(ctx, domain.Person{Name: "Zoe", Email: "zoe@example.com", Phone: &phone})
				require.NoError(t, err)
				assert.Positive(t, id)

				_, err = tx.InsertPerson(ctx, domain.Person{Name: "Ana", Email: "ana@example.com"})
				require.NoError(t, err)
				return nil
			})

			mustTx(t, s, func(tx Tx) error {
				persons, err := tx.ListPersons(ctx)
				require.NoError(t, err)
				require.Len(t, persons, 2)
				assert.Equal(t, "Ana", persons[0].Name)
				assert.Nil(t, persons[0].Phone)
				assert.Equal(t, "Zoe", persons[1].Name)
				require.NotNil(t, persons[1].Phone)
				assert.Equal(t, phone, *persons[1].Phone)

				p, err := tx.FindPersonByName(ctx, "ZOE")
				require.NoError(t, err)
				assert.Equal(t, "zoe@example.com", p.Email)

				_, err = tx.FindPersonByEmail(ctx, "nobody@example.com")
				assert.ErrorIs(t, err, ErrNotFound)
				return nil
			})
		})
	}
}

func TestInsertPerson_Duplicates(t *testing.T) {
	for name, newStore := range backends() {
		t.Run(name, func(t *testing.T) {
			s := newStore(t)
			ctx := context.Background()
			seedPerson(t, s, "Ana", "ana@example.com")

			err := s.RunInTx(ctx, func(tx Tx) error {
				_, err := tx.InsertPerson(ctx, domain.Person{Name: "Other", Email: "ana@example.com"})
				return err
			})
			assert.ErrorIs(t, err, ErrDuplicate)

			err = s.RunInTx(ctx, func(tx Tx) error {
				_, err := tx.InsertPerson(ctx, domain.Person{Name: "ANA", Email: "other@example.com"})
				return err
			})
			assert.ErrorIs(t, err, ErrDuplicate)
		})
	}
}

func TestFindPersonsByName(t *testing.T) {
	for name, newStore := range backends() {
		t.Run(name, func(t *testing.T) {
			s := newStore(t)
			ana := seedPerson(t, s, "Ana", "ana@example.com")
			bob := seedPerson(t, s, "Bob Marley", "bob@example.com")

			mustTx(t, s, func(tx Tx) error {
				got, err := tx.FindPersonsByName(context.Background(), []string{"ana", " BOB MARLEY ", "Carol", "", "Ana"})
				require.NoError(t, err)
				assert.Equal(t, map[string]int64{
					domain.NameKey("Ana"):        ana,
					domain.NameKey("Bob Marley"): bob,
				}, got)

				empty, err := tx.FindPersonsByName(context.Background(), nil)
				require.NoError(t, err)
				assert.Empty(t, empty)
				return nil
			})
		})
	}
}

func TestFindOverlappingBookings_Boundaries(t *testing.T) {
	for name, newStore := range backends() {
		t.Run(name, func(t *testing.T) {
			s := newStore(t)
			ctx := context.Background()
			ana := seedPerson(t, s, "Ana", "ana@example.com")
			bob := seedPerson(t, s, "Bob", "bob@example.com")
			meetingID := seedMeeting(t, s, "Standup", at(10, 0), at(11, 0), ana, bob)

			tests := []struct {
				name       string
				ids        []int64
				start, end int
				want       int
			}{
				{name: "touching after", ids: []int64{ana}, start: 1100, end: 1200, want: 0},
				{name: "touching before", ids: []int64{ana}, start: 900, end: 1000, want: 0},
				{name: "one minute overlap", ids: []int64{ana}, start: 1059, end: 1200, want: 1},
				{name: "inside", ids: []int64{ana}, start: 1015, end: 1030, want: 1},
				{name: "covering", ids: []int64{ana, bob}, start: 900, end: 1200, want: 2},
				{name: "other person", ids: []int64{999}, start: 900, end: 1200, want: 0},
				{name: "no ids", ids: nil, start: 900, end: 1200, want: 0},
			}

			for _, tt := range tests {
				t.Run(tt.name, func(t *testing.T) {
					mustTx(t, s, func(tx Tx) error {
						got, err := tx.FindOverlappingBookings(ctx, tt.ids,
							at(tt.start/100, tt.start%100), at(tt.end/100, tt.end%100))
						require.NoError(t, err)
						assert.Len(t, got, tt.want)
						for _, b := range got {
							assert.Equal(t, meetingID, b.MeetingID)
							assert.Equal(t, at(10, 0), b.Start)
						}
						return nil
					})
				})
			}
		})
	}
}

func TestFindMeetingsInInterval(t *testing.T) {
	for name, newStore := range backends() {
		t.Run(name, func(t *testing.T) {
			s := newStore(t)
			ana := seedPerson(t, s, "Ana", "ana@example.com")
			bob := seedPerson(t, s, "Bob", "bob@example.com")
			seedMeeting(t, s, "Late", at(15, 0), at(16, 0), bob)
			seedMeeting(t, s, "Early", at(9, 0), at(10, 0), bob, ana)
			seedMeeting(t, s, "Straddles", at(17, 30), at(18, 30), ana)

			mustTx(t, s, func(tx Tx) error {
				got, err := tx.FindMeetingsInInterval(context.Background(), at(8, 0), at(18, 0))
				require.NoError(t, err)
				require.Len(t, got, 2)

				assert.Equal(t, "Early", got[0].Title)
				assert.Equal(t, []string{"Ana", "Bob"}, got[0].Participants)
				assert.Equal(t, at(9, 0), got[0].Start)
				assert.Equal(t, at(10, 0), got[0].End)

				assert.Equal(t, "Late", got[1].Title)
				assert.Equal(t, []string{"Bob"}, got[1].Participants)
				return nil
			})
		})
	}
}

func TestRunInTx_RollsBackOnError(t *testing.T) {
	for name, newStore := range backends() {
		t.Run(name, func(t *testing.T) {
			s := newStore(t)
			ctx := context.Background()
			ana := seedPerson(t, s, "Ana", "ana@example.com")

			err := s.RunInTx(ctx, func(tx Tx) error {
				id, err := tx.InsertMeeting(ctx, domain.Meeting{Title: "Doomed", Start: at(10, 0), End: at(11, 0)})
				require.NoError(t, err)
				require.NoError(t, tx.InsertParticipation(ctx, id, ana))
				// Unknown person: foreign key failure.
				return tx.InsertParticipation(ctx, id, ana+100)
			})
			require.Error(t, err)

			mustTx(t, s, func(tx Tx) error {
				n, err := tx.CountMeetings(ctx)
				require.NoError(t, err)
				assert.Zero(t, n)

				bookings, err := tx.FindOverlappingBookings(ctx, []int64{ana}, at(0, 0), at(23, 0))
				require.NoError(t, err)
				assert.Empty(t, bookings)
				return nil
			})
		})
	}
}

func TestRunInTx_CallbackError(t *testing.T) {
	for name, newStore := range backends() {
		t.Run(name, func(t *testing.T) {
			s := newStore(t)
			sentinel := errors.New("stop")

			err := s.RunInTx(context.Background(), func(tx Tx) error {
				_, err := tx.InsertPerson(context.Background(), domain.Person{Name: "Ana", Email: "ana@example.com"})
				require.NoError(t, err)
				return sentinel
			})
			require.ErrorIs(t, err, sentinel)

			mustTx(t, s, func(tx Tx) error {
				persons, err := tx.ListPersons(context.Background())
				require.NoError(t, err)
				assert.Empty(t, persons)
				return nil
			})
		})
	}
}

func TestRunInTx_CancelledContext(t *testing.T) {
	for name, newStore := range backends() {
		t.Run(name, func(t *testing.T) {
			s := newStore(t)
			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			called := false
			err := s.RunInTx(ctx, func(tx Tx) error {
				called = true
				return nil
			})
			require.ErrorIs(t, err, context.Canceled)
			assert.False(t, called)
		})
	}
}

func TestInsertMeeting_CheckConstraint(t *testing.T) {
	for name, newStore := range backends() {
		t.Run(name, func(t *testing.T) {
			s := newStore(t)
			err := s.RunInTx(context.Background(), func(tx Tx) error {
				_, err := tx.InsertMeeting(context.Background(), domain.Meeting{Title: "Zero", Start: at(10, 0), End: at(10, 0)})
				return err
			})
			assert.Error(t, err)
		})
	}
}
