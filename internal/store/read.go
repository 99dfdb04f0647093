package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/samber/lo"

	"github.com/roach88/meetsched/internal/domain"
)

// FindPersonByEmail returns ErrNotFound if no person has the address.
func (t *sqlTx) FindPersonByEmail(ctx context.Context, email string) (domain.Person, error) {
	row := t.queryRow(ctx, `
		SELECT person_id, name, email, phone
		FROM persons
		WHERE email = ?
	`, email)
	return scanPerson(row, "find person by email")
}

// FindPersonByName matches case-insensitively. Returns ErrNotFound if no
// person has the name.
func (t *sqlTx) FindPersonByName(ctx context.Context, name string) (domain.Person, error) {
	row := t.queryRow(ctx, `
		SELECT person_id, name, email, phone
		FROM persons
		WHERE name_key = ?
	`, domain.NameKey(name))
	return scanPerson(row, "find person by name")
}

func scanPerson(row *sql.Row, op string) (domain.Person, error) {
	var p domain.Person
	var phone sql.NullString
	if err := row.Scan(&p.ID, &p.Name, &p.Email, &phone); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Person{}, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return domain.Person{}, fmt.Errorf("%s: %w", op, err)
	}
	if phone.Valid {
		p.Phone = &phone.String
	}
	return p, nil
}

// FindPersonsByName resolves names case-insensitively. Blank names are
// ignored; the result maps name keys to ids.
func (t *sqlTx) FindPersonsByName(ctx context.Context, names []string) (map[string]int64, error) {
	keys := lo.Uniq(lo.FilterMap(names, func(name string, _ int) (string, bool) {
		key := domain.NameKey(name)
		return key, key != ""
	}))
	result := make(map[string]int64, len(keys))
	if len(keys) == 0 {
		return result, nil
	}

	rows, err := t.query(ctx, `
		SELECT person_id, name_key
		FROM persons
		WHERE name_key IN (`+placeholders(len(keys))+`)
	`, lo.ToAnySlice(keys)...)
	if err != nil {
		return nil, fmt.Errorf("find persons by name: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id int64
		var key string
		if err := rows.Scan(&id, &key); err != nil {
			return nil, fmt.Errorf("scan person: %w", err)
		}
		result[key] = id
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate persons: %w", err)
	}
	return result, nil
}

// ListPersons returns every person ordered by name.
func (t *sqlTx) ListPersons(ctx context.Context) ([]domain.Person, error) {
	rows, err := t.query(ctx, `
		SELECT person_id, name, email, phone
		FROM persons
		ORDER BY name ASC, person_id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list persons: %w", err)
	}
	defer rows.Close()

	persons := []domain.Person{}
	for rows.Next() {
		var p domain.Person
		var phone sql.NullString
		if err := rows.Scan(&p.ID, &p.Name, &p.Email, &phone); err != nil {
			return nil, fmt.Errorf("scan person: %w", err)
		}
		if phone.Valid {
			p.Phone = &phone.String
		}
		persons = append(persons, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate persons: %w", err)
	}
	return persons, nil
}

// CountMeetings returns the number of stored meetings.
func (t *sqlTx) CountMeetings(ctx context.Context) (int, error) {
	var n int
	if err := t.queryRow(ctx, `SELECT COUNT(*) FROM meetings`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count meetings: %w", err)
	}
	return n, nil
}

// FindOverlappingBookings uses the half-open overlap test
// start < m.end_time AND end > m.start_time, so meetings that merely touch
// the interval are not returned.
func (t *sqlTx) FindOverlappingBookings(ctx context.Context, personIDs []int64, start, end time.Time) ([]domain.Booking, error) {
	ids := lo.Uniq(personIDs)
	if len(ids) == 0 {
		return []domain.Booking{}, nil
	}

	args := append(lo.ToAnySlice(ids), toMillis(start), toMillis(end))
	rows, err := t.query(ctx, `
		SELECT m.meeting_id, p.person_id, p.name, m.start_time, m.end_time
		FROM meetings m
		JOIN meeting_participants mp ON m.meeting_id = mp.meeting_id
		JOIN persons p ON mp.person_id = p.person_id
		WHERE mp.person_id IN (`+placeholders(len(ids))+`)
		  AND ? < m.end_time AND ? > m.start_time
		ORDER BY m.start_time ASC, m.meeting_id ASC, p.person_id ASC
	`, args...)
	if err != nil {
		return nil, fmt.Errorf("find overlapping bookings: %w", err)
	}
	defer rows.Close()

	bookings := []domain.Booking{}
	for rows.Next() {
		var b domain.Booking
		var startMs, endMs int64
		if err := rows.Scan(&b.MeetingID, &b.PersonID, &b.PersonName, &startMs, &endMs); err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		b.Start = fromMillis(startMs)
		b.End = fromMillis(endMs)
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate bookings: %w", err)
	}
	return bookings, nil
}

// FindMeetingsInInterval returns meetings with start >= start and
// end <= end, ordered by start time, each with its participant names sorted.
func (t *sqlTx) FindMeetingsInInterval(ctx context.Context, start, end time.Time) ([]domain.MeetingSummary, error) {
	rows, err := t.query(ctx, `
		SELECT m.meeting_id, m.title, m.description, m.location, m.start_time, m.end_time, p.name
		FROM meetings m
		JOIN meeting_participants mp ON m.meeting_id = mp.meeting_id
		JOIN persons p ON mp.person_id = p.person_id
		WHERE m.start_time >= ? AND m.end_time <= ?
		ORDER BY m.start_time ASC, m.meeting_id ASC, p.name ASC
	`, toMillis(start), toMillis(end))
	if err != nil {
		return nil, fmt.Errorf("find meetings in interval: %w", err)
	}
	defer rows.Close()

	meetings := []domain.MeetingSummary{}
	for rows.Next() {
		var m domain.MeetingSummary
		var startMs, endMs int64
		var name string
		if err := rows.Scan(&m.ID, &m.Title, &m.Description, &m.Location, &startMs, &endMs, &name); err != nil {
			return nil, fmt.Errorf("scan meeting: %w", err)
		}
		// Rows arrive grouped by meeting.
		if n := len(meetings); n > 0 && meetings[n-1].ID == m.ID {
			meetings[n-1].Participants = append(meetings[n-1].Participants, name)
			continue
		}
		m.Start = fromMillis(startMs)
		m.End = fromMillis(endMs)
		m.Participants = []string{name}
		meetings = append(meetings, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate meetings: %w", err)
	}
	return meetings, nil
}
