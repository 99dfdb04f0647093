package store

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/samber/lo"

	"github.com/roach88/meetsched/internal/domain"
)

// Memory is an in-process Store. Each transaction works on a private copy
// of the data which replaces the shared state only on commit, so a failed
// transaction leaves nothing behind. Transactions are serialized.
type Memory struct {
	mu    sync.Mutex
	state memState
}

type memState struct {
	persons        map[int64]domain.Person
	meetings       map[int64]domain.Meeting
	participations map[int64][]int64 // meeting id -> person ids
	nextPersonID   int64
	nextMeetingID  int64
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{state: memState{
		persons:        make(map[int64]domain.Person),
		meetings:       make(map[int64]domain.Meeting),
		participations: make(map[int64][]int64),
	}}
}

func (s memState) clone() memState {
	c := s
	c.persons = maps.Clone(s.persons)
	c.meetings = maps.Clone(s.meetings)
	c.participations = make(map[int64][]int64, len(s.participations))
	for id, persons := range s.participations {
		c.participations[id] = slices.Clone(persons)
	}
	return c
}

// RunInTx runs fn against a copy of the store and publishes the copy if fn
// returns nil.
func (m *Memory) RunInTx(ctx context.Context, fn func(tx Tx) error) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	tx := &memTx{state: m.state.clone()}
	if err := fn(tx); err != nil {
		return err
	}
	m.state = tx.state
	return nil
}

// Close is a no-op.
func (m *Memory) Close() error {
	return nil
}

type memTx struct {
	state memState
}

func (t *memTx) InsertPerson(_ context.Context, p domain.Person) (int64, error) {
	key := domain.NameKey(p.Name)
	for _, existing := range t.state.persons {
		if existing.Email == p.Email {
			return 0, fmt.Errorf("insert person: %w: email %s", ErrDuplicate, p.Email)
		}
		if domain.NameKey(existing.Name) == key {
			return 0, fmt.Errorf("insert person: %w: name %s", ErrDuplicate, p.Name)
		}
	}
	t.state.nextPersonID++
	p.ID = t.state.nextPersonID
	t.state.persons[p.ID] = p
	return p.ID, nil
}

func (t *memTx) FindPersonByEmail(_ context.Context, email string) (domain.Person, error) {
	for _, p := range t.state.persons {
		if p.Email == email {
			return p, nil
		}
	}
	return domain.Person{}, fmt.Errorf("find person by email: %w", ErrNotFound)
}

func (t *memTx) FindPersonByName(_ context.Context, name string) (domain.Person, error) {
	key := domain.NameKey(name)
	for _, p := range t.state.persons {
		if domain.NameKey(p.Name) == key {
			return p, nil
		}
	}
	return domain.Person{}, fmt.Errorf("find person by name: %w", ErrNotFound)
}

func (t *memTx) FindPersonsByName(_ context.Context, names []string) (map[string]int64, error) {
	wanted := make(map[string]bool, len(names))
	for _, name := range names {
		if key := domain.NameKey(name); key != "" {
			wanted[key] = true
		}
	}
	result := make(map[string]int64, len(wanted))
	for _, p := range t.state.persons {
		if key := domain.NameKey(p.Name); wanted[key] {
			result[key] = p.ID
		}
	}
	return result, nil
}

func (t *memTx) ListPersons(_ context.Context) ([]domain.Person, error) {
	persons := slices.Collect(maps.Values(t.state.persons))
	sort.Slice(persons, func(i, j int) bool {
		if persons[i].Name != persons[j].Name {
			return persons[i].Name < persons[j].Name
		}
		return persons[i].ID < persons[j].ID
	})
	if persons == nil {
		persons = []domain.Person{}
	}
	return persons, nil
}

func (t *memTx) InsertMeeting(_ context.Context, m domain.Meeting) (int64, error) {
	if !m.End.After(m.Start) {
		return 0, fmt.Errorf("insert meeting: check_times constraint failed")
	}
	t.state.nextMeetingID++
	m.ID = t.state.nextMeetingID
	m.Start = domain.Naive(m.Start)
	m.End = domain.Naive(m.End)
	m.ParticipantIDs = nil
	t.state.meetings[m.ID] = m
	return m.ID, nil
}

func (t *memTx) InsertParticipation(_ context.Context, meetingID, personID int64) error {
	if _, ok := t.state.meetings[meetingID]; !ok {
		return fmt.Errorf("insert participation: unknown meeting %d", meetingID)
	}
	if _, ok := t.state.persons[personID]; !ok {
		return fmt.Errorf("insert participation: unknown person %d", personID)
	}
	if slices.Contains(t.state.participations[meetingID], personID) {
		return fmt.Errorf("insert participation: %w: person %d", ErrDuplicate, personID)
	}
	t.state.participations[meetingID] = append(t.state.participations[meetingID], personID)
	return nil
}

func (t *memTx) CountMeetings(_ context.Context) (int, error) {
	return len(t.state.meetings), nil
}

func (t *memTx) FindOverlappingBookings(_ context.Context, personIDs []int64, start, end time.Time) ([]domain.Booking, error) {
	wanted := lo.SliceToMap(personIDs, func(id int64) (int64, bool) { return id, true })
	bookings := []domain.Booking{}
	for _, id := range t.sortedMeetingIDs() {
		m := t.state.meetings[id]
		if !domain.Overlaps(domain.Naive(start), domain.Naive(end), m.Start, m.End) {
			continue
		}
		persons := slices.Sorted(slices.Values(t.state.participations[id]))
		for _, pid := range persons {
			if !wanted[pid] {
				continue
			}
			bookings = append(bookings, domain.Booking{
				MeetingID:  id,
				PersonID:   pid,
				PersonName: t.state.persons[pid].Name,
				Start:      m.Start,
				End:        m.End,
			})
		}
	}
	return bookings, nil
}

func (t *memTx) FindMeetingsInInterval(_ context.Context, start, end time.Time) ([]domain.MeetingSummary, error) {
	start, end = domain.Naive(start), domain.Naive(end)
	meetings := []domain.MeetingSummary{}
	for _, id := range t.sortedMeetingIDs() {
		m := t.state.meetings[id]
		if m.Start.Before(start) || m.End.After(end) {
			continue
		}
		// Meetings without participants never come out of the SQL join.
		if len(t.state.participations[id]) == 0 {
			continue
		}
		names := lo.Map(t.state.participations[id], func(pid int64, _ int) string {
			return t.state.persons[pid].Name
		})
		sort.Strings(names)
		meetings = append(meetings, domain.MeetingSummary{
			ID:           m.ID,
			Title:        m.Title,
			Description:  m.Description,
			Location:     m.Location,
			Start:        m.Start,
			End:          m.End,
			Participants: names,
		})
	}
	return meetings, nil
}

// sortedMeetingIDs orders meetings by start time, then id.
func (t *memTx) sortedMeetingIDs() []int64 {
	ids := slices.Collect(maps.Keys(t.state.meetings))
	sort.Slice(ids, func(i, j int) bool {
		a, b := t.state.meetings[ids[i]], t.state.meetings[ids[j]]
		if !a.Start.Equal(b.Start) {
			return a.Start.Before(b.Start)
		}
		return ids[i] < ids[j]
	})
	return ids
}

// String summarizes the store contents for test failure messages.
func (m *Memory) String() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return fmt.Sprintf("persons=%d meetings=%d", len(m.state.persons), len(m.state.meetings))
}
