package calendar

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/emersion/go-ical"

	"github.com/roach88/meetsched/internal/domain"
)

// Defaults for Codec fields.
const (
	DefaultProductID = "-//Meeting Scheduler//EN"
	DefaultUIDDomain = "meetsched.local"
)

const (
	floatingLayout = "20060102T150405"
	utcLayout      = "20060102T150405Z"
)

// Codec encodes meetings as iCalendar documents.
type Codec struct {
	productID string
	uidDomain string
	uids      UIDGenerator
	now       func() time.Time
}

// Option configures a Codec.
type Option func(*Codec)

// WithProductID sets the PRODID of encoded calendars.
func WithProductID(id string) Option {
	return func(c *Codec) {
		if id != "" {
			c.productID = id
		}
	}
}

// WithUIDDomain sets the host part of event UIDs.
func WithUIDDomain(domain string) Option {
	return func(c *Codec) {
		if domain != "" {
			c.uidDomain = domain
		}
	}
}

// WithUIDGenerator replaces the UUIDv7 generator.
func WithUIDGenerator(g UIDGenerator) Option {
	return func(c *Codec) { c.uids = g }
}

// WithClock replaces the clock used for DTSTAMP.
func WithClock(now func() time.Time) Option {
	return func(c *Codec) { c.now = now }
}

// NewCodec creates a Codec with the given options applied over the defaults.
func NewCodec(opts ...Option) *Codec {
	c := &Codec{
		productID: DefaultProductID,
		uidDomain: DefaultUIDDomain,
		uids:      UUIDv7Generator{},
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Encode writes one VCALENDAR holding a VEVENT per meeting, in order.
func (c *Codec) Encode(w io.Writer, meetings []domain.MeetingSummary) error {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, c.productID)

	stamp := c.now().UTC().Format(utcLayout)
	for _, m := range meetings {
		event := ical.NewEvent()
		event.Props.SetText(ical.PropUID, c.uids.Generate()+"@"+c.uidDomain)
		setRaw(event.Props, ical.PropDateTimeStamp, stamp)
		event.Props.SetText(ical.PropSummary, m.Title)
		setRaw(event.Props, ical.PropDateTimeStart, domain.Naive(m.Start).Format(floatingLayout))
		setRaw(event.Props, ical.PropDateTimeEnd, domain.Naive(m.End).Format(floatingLayout))
		event.Props.SetText(ical.PropDescription, embedParticipants(m.Description, m.Participants))
		event.Props.SetText(ical.PropLocation, m.Location)
		cal.Children = append(cal.Children, event.Component)
	}

	if err := ical.NewEncoder(w).Encode(cal); err != nil {
		return fmt.Errorf("encode calendar: %w", err)
	}
	return nil
}

// Marshal returns the encoded document.
func (c *Codec) Marshal(meetings []domain.MeetingSummary) ([]byte, error) {
	var buf bytes.Buffer
	if err := c.Encode(&buf, meetings); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// setRaw sets a property whose value needs no text escaping.
func setRaw(props ical.Props, name, value string) {
	prop := ical.NewProp(name)
	prop.Value = value
	props.Set(prop)
}
