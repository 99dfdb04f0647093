package calendar

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/emersion/go-ical"

	"github.com/roach88/meetsched/internal/domain"
)

// Event is one VEVENT read back from a calendar document.
type Event struct {
	UID   string
	Title string

	// RawDescription is the DESCRIPTION as stored, participant line included.
	RawDescription string

	// Description has the participant line removed.
	Description string

	Location     string
	Start        time.Time
	End          time.Time
	Participants []string
}

// Decoder reads events from an iCalendar stream one at a time.
//
// Next returns document-level failures (malformed input) as plain errors,
// after which the Decoder is exhausted. Event-level failures are
// *domain.Error values returned alongside the partially read Event; the
// Decoder stays usable and the caller decides whether to continue.
type Decoder struct {
	dec     *ical.Decoder
	pending []*ical.Component
	done    bool
	logger  *slog.Logger
}

// NewDecoder creates a Decoder reading from r. A nil logger uses
// slog.Default().
func NewDecoder(r io.Reader, logger *slog.Logger) *Decoder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Decoder{dec: ical.NewDecoder(r), logger: logger}
}

// Next returns the next event in document order, or io.EOF when there are
// no more. Events lacking DTSTART or DTEND are skipped.
func (d *Decoder) Next() (Event, error) {
	for {
		comp, err := d.nextComponent()
		if err != nil {
			return Event{}, err
		}

		startProp := comp.Props.Get(ical.PropDateTimeStart)
		endProp := comp.Props.Get(ical.PropDateTimeEnd)
		if startProp == nil || endProp == nil {
			d.logger.Warn("skipping event without start or end", "title", textProp(comp, ical.PropSummary))
			continue
		}

		return parseEvent(comp, startProp, endProp)
	}
}

// nextComponent returns the next VEVENT, pulling calendars as needed.
func (d *Decoder) nextComponent() (*ical.Component, error) {
	for len(d.pending) == 0 {
		if d.done {
			return nil, io.EOF
		}
		cal, err := d.dec.Decode()
		if errors.Is(err, io.EOF) {
			d.done = true
			return nil, io.EOF
		}
		if err != nil {
			d.done = true
			return nil, fmt.Errorf("decode calendar: %w", err)
		}
		for _, child := range cal.Children {
			if child.Name != ical.CompEvent {
				d.logger.Debug("skipping non-event component", "component", child.Name)
				continue
			}
			d.pending = append(d.pending, child)
		}
	}
	comp := d.pending[0]
	d.pending = d.pending[1:]
	return comp, nil
}

func parseEvent(comp *ical.Component, startProp, endProp *ical.Prop) (Event, error) {
	raw := textProp(comp, ical.PropDescription)
	event := Event{
		UID:            textProp(comp, ical.PropUID),
		Title:          textProp(comp, ical.PropSummary),
		RawDescription: raw,
		Description:    RemoveParticipants(raw),
		Location:       textProp(comp, ical.PropLocation),
		Participants:   ExtractParticipants(raw),
	}

	start, err := parseDateTime(startProp)
	if err != nil {
		return event, invalidInterval(event.Title, err)
	}
	end, err := parseDateTime(endProp)
	if err != nil {
		return event, invalidInterval(event.Title, err)
	}
	event.Start, event.End = start, end

	if !end.After(start) {
		return event, invalidInterval(event.Title, nil)
	}
	if len(event.Participants) == 0 {
		return event, domain.NewError(domain.KindMissingParticipants, "Event %s has no participants", event.Title)
	}
	return event, nil
}

func invalidInterval(title string, cause error) error {
	e := domain.NewError(domain.KindInterval, "Invalid time interval for %s", title)
	e.Err = cause
	return e
}

// textProp returns the unescaped value of a text property, or "".
func textProp(comp *ical.Component, name string) string {
	prop := comp.Props.Get(name)
	if prop == nil {
		return ""
	}
	text, err := prop.Text()
	if err != nil {
		return prop.Value
	}
	return text
}

// parseDateTime reads a DTSTART/DTEND value as a naive wall-clock time.
// UTC markers and TZIDs are dropped rather than converted.
func parseDateTime(prop *ical.Prop) (time.Time, error) {
	if t, err := prop.DateTime(time.UTC); err == nil {
		return domain.Naive(t), nil
	}

	// Unknown TZIDs make DateTime fail; fall back to the bare value.
	formats := []string{
		floatingLayout,
		utcLayout,
		time.RFC3339,
		"2006-01-02T15:04:05",
		"20060102",
	}
	for _, format := range formats {
		if t, err := time.ParseInLocation(format, prop.Value, time.UTC); err == nil {
			return domain.Naive(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("unable to parse datetime value: %s", prop.Value)
}

// DecodeAll reads every event from r, stopping at the first error. Events
// decoded before the failure are returned with it.
func DecodeAll(r io.Reader, logger *slog.Logger) ([]Event, error) {
	dec := NewDecoder(r, logger)
	var events []Event
	for {
		event, err := dec.Next()
		if errors.Is(err, io.EOF) {
			return events, nil
		}
		if err != nil {
			return events, err
		}
		events = append(events, event)
	}
}
