package store

import (
	"context"
	"fmt"

	"github.com/roach88/meetsched/internal/domain"
)

// InsertPerson stores a person and returns the assigned id. Duplicate names
// (compared by domain.NameKey) or emails fail with ErrDuplicate.
func (t *sqlTx) InsertPerson(ctx context.Context, p domain.Person) (int64, error) {
	var id int64
	err := t.queryRow(ctx, `
		INSERT INTO persons (name, name_key, email, phone, created_at)
		VALUES (?, ?, ?, ?, ?)
		RETURNING person_id
	`,
		p.Name,
		domain.NameKey(p.Name),
		p.Email,
		p.Phone,
		t.now().UTC().UnixMilli(),
	).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, fmt.Errorf("insert person: %w: %v", ErrDuplicate, err)
		}
		return 0, fmt.Errorf("insert person: %w", err)
	}
	return id, nil
}

// InsertMeeting stores the meeting row only; participations are written
// separately with InsertParticipation inside the same transaction.
func (t *sqlTx) InsertMeeting(ctx context.Context, m domain.Meeting) (int64, error) {
	var id int64
	err := t.queryRow(ctx, `
		INSERT INTO meetings (title, description, location, start_time, end_time, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING meeting_id
	`,
		m.Title,
		m.Description,
		m.Location,
		toMillis(m.Start),
		toMillis(m.End),
		t.now().UTC().UnixMilli(),
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert meeting: %w", err)
	}
	return id, nil
}

// InsertParticipation links a person to a meeting. Both must exist.
func (t *sqlTx) InsertParticipation(ctx context.Context, meetingID, personID int64) error {
	_, err := t.exec(ctx, `
		INSERT INTO meeting_participants (meeting_id, person_id)
		VALUES (?, ?)
	`, meetingID, personID)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("insert participation: %w: %v", ErrDuplicate, err)
		}
		return fmt.Errorf("insert participation: %w", err)
	}
	return nil
}
