package domain

import "time"

// Person is a registered participant.
type Person struct {
	ID    int64   `json:"id"`
	Name  string  `json:"name"`
	Email string  `json:"email"`
	Phone *string `json:"phone,omitempty"`
}

// Meeting is a stored meeting together with the ids of its participants.
type Meeting struct {
	ID             int64     `json:"id"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	Location       string    `json:"location"`
	Start          time.Time `json:"start"`
	End            time.Time `json:"end"`
	ParticipantIDs []int64   `json:"participant_ids"`
}

// MeetingSummary is the read model used for listing and export: a meeting
// with the names of its participants.
type MeetingSummary struct {
	ID           int64     `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Location     string    `json:"location"`
	Start        time.Time `json:"start"`
	End          time.Time `json:"end"`
	Participants []string  `json:"participants"`
}

// Booking is one (meeting, participant) row of an existing meeting.
type Booking struct {
	MeetingID  int64
	PersonID   int64
	PersonName string
	Start      time.Time
	End        time.Time
}

// Conflict identifies a participant who is already booked during a
// requested interval.
type Conflict struct {
	PersonID int64  `json:"person_id"`
	Name     string `json:"name"`
}

// Overlaps reports whether [start, end) intersects [otherStart, otherEnd).
// Intervals that only touch do not overlap.
func Overlaps(start, end, otherStart, otherEnd time.Time) bool {
	return start.Before(otherEnd) && end.After(otherStart)
}
