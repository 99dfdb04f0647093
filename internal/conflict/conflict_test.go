package conflict

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/meetsched/internal/domain"
	"github.com/roach88/meetsched/internal/store"
)

// fakeFinder records calls and returns canned bookings.
type fakeFinder struct {
	bookings []domain.Booking
	err      error
	calls    int
	gotIDs   []int64
}

func (f *fakeFinder) FindOverlappingBookings(_ context.Context, ids []int64, _, _ time.Time) ([]domain.Booking, error) {
	f.calls++
	f.gotIDs = ids
	return f.bookings, f.err
}

func at(hour, minute int) time.Time {
	return time.Date(2030, time.March, 4, hour, minute, 0, 0, time.UTC)
}

func TestFind_NoParticipants(t *testing.T) {
	f := &fakeFinder{}
	got, err := NewDetector(nil).Find(context.Background(), f, nil, at(10, 0), at(11, 0))

	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Zero(t, f.calls, "store must not be consulted")
}

func TestFind_InvalidInterval(t *testing.T) {
	tests := []struct {
		name       string
		start, end time.Time
	}{
		{"equal", at(10, 0), at(10, 0)},
		{"reversed", at(11, 0), at(10, 0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &fakeFinder{}
			_, err := NewDetector(nil).Find(context.Background(), f, []int64{1}, tt.start, tt.end)
			require.Error(t, err)
			assert.True(t, domain.IsInterval(err))
			assert.Zero(t, f.calls)
		})
	}
}

func TestFind_DedupesAndSorts(t *testing.T) {
	f := &fakeFinder{bookings: []domain.Booking{
		{MeetingID: 1, PersonID: 3, PersonName: "Zoe"},
		{MeetingID: 1, PersonID: 1, PersonName: "Ana"},
		{MeetingID: 2, PersonID: 3, PersonName: "Zoe"},
		{MeetingID: 2, PersonID: 2, PersonName: "Ana"},
	}}

	got, err := NewDetector(nil).Find(context.Background(), f, []int64{3, 1, 2, 1}, at(10, 0), at(11, 0))
	require.NoError(t, err)

	assert.Equal(t, []domain.Conflict{
		{PersonID: 1, Name: "Ana"},
		{PersonID: 2, Name: "Ana"},
		{PersonID: 3, Name: "Zoe"},
	}, got)
	assert.Equal(t, []int64{3, 1, 2}, f.gotIDs)
}

func TestFind_StoreFailure(t *testing.T) {
	boom := errors.New("disk on fire")
	f := &fakeFinder{err: boom}

	_, err := NewDetector(nil).Find(context.Background(), f, []int64{1}, at(10, 0), at(11, 0))
	require.ErrorIs(t, err, boom)
}

func TestFind_AgainstStore(t *testing.T) {
	s := store.NewMemory()
	ctx := context.Background()

	var ana, bob int64
	require.NoError(t, s.RunInTx(ctx, func(tx store.Tx) error {
		var err error
		if ana, err = tx.InsertPerson(ctx, domain.Person{Name: "Ana", Email: "ana@example.com"}); err != nil {
			return err
		}
		if bob, err = tx.InsertPerson(ctx, domain.Person{Name: "Bob", Email: "bob@example.com"}); err != nil {
			return err
		}
		id, err := tx.InsertMeeting(ctx, domain.Meeting{Title: "Standup", Start: at(10, 0), End: at(11, 0)})
		if err != nil {
			return err
		}
		return tx.InsertParticipation(ctx, id, ana)
	}))

	tests := []struct {
		name       string
		start, end time.Time
		want       []domain.Conflict
	}{
		{"back to back", at(11, 0), at(12, 0), []domain.Conflict{}},
		{"ends at start", at(9, 0), at(10, 0), []domain.Conflict{}},
		{"one minute overlap", at(10, 59), at(12, 0), []domain.Conflict{{PersonID: ana, Name: "Ana"}}},
		{"enclosing", at(9, 0), at(12, 0), []domain.Conflict{{PersonID: ana, Name: "Ana"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, s.RunInTx(ctx, func(tx store.Tx) error {
				got, err := NewDetector(nil).Find(ctx, tx, []int64{ana, bob}, tt.start, tt.end)
				require.NoError(t, err)
				assert.ElementsMatch(t, tt.want, got)
				return nil
			}))
		})
	}
}
