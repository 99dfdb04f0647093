// Package scheduler decides whether a proposed meeting may be created and,
// if so, stores it together with its participants in one transaction.
package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/samber/lo"

	"github.com/roach88/meetsched/internal/conflict"
	"github.com/roach88/meetsched/internal/domain"
	"github.com/roach88/meetsched/internal/store"
	"github.com/roach88/meetsched/internal/validate"
)

// Request is a proposed meeting.
type Request struct {
	Title          string
	Description    string
	Location       string
	Start          time.Time
	End            time.Time
	ParticipantIDs []int64
}

// Scheduler creates meetings.
type Scheduler struct {
	store    store.Store
	detector *conflict.Detector
	now      func() time.Time
	logger   *slog.Logger
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithClock replaces the wall clock used for the past-time check.
func WithClock(now func() time.Time) Option {
	return func(s *Scheduler) { s.now = now }
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Scheduler) { s.logger = logger }
}

// New creates a Scheduler over st.
func New(st store.Store, opts ...Option) *Scheduler {
	s := &Scheduler{
		store:  st,
		now:    domain.Now,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.detector = conflict.NewDetector(s.logger)
	return s
}

// Schedule validates req and stores it. Rejections are *domain.Error values;
// on any failure nothing is stored.
func (s *Scheduler) Schedule(ctx context.Context, req Request) (domain.Meeting, error) {
	m, err := s.prepare(req)
	if err != nil {
		s.logger.Info("meeting rejected", "title", req.Title, "reason", err)
		return domain.Meeting{}, err
	}

	err = s.store.RunInTx(ctx, func(tx store.Tx) error {
		conflicts, err := s.detector.Find(ctx, tx, m.ParticipantIDs, m.Start, m.End)
		if err != nil {
			return err
		}
		if len(conflicts) > 0 {
			return domain.ConflictError(conflicts)
		}

		id, err := tx.InsertMeeting(ctx, m)
		if err != nil {
			return err
		}
		for _, personID := range m.ParticipantIDs {
			if err := tx.InsertParticipation(ctx, id, personID); err != nil {
				return err
			}
		}
		m.ID = id
		return nil
	})
	if err != nil {
		var de *domain.Error
		if !errors.As(err, &de) {
			err = domain.StoreError("Database error", err)
		}
		s.logger.Info("meeting rejected", "title", m.Title, "reason", err)
		return domain.Meeting{}, err
	}

	s.logger.Debug("meeting scheduled",
		"id", m.ID,
		"title", m.Title,
		"start", m.Start.Format(domain.Layout),
		"end", m.End.Format(domain.Layout),
		"participants", len(m.ParticipantIDs))
	return m, nil
}

// prepare runs every check that does not need the store.
func (s *Scheduler) prepare(req Request) (domain.Meeting, error) {
	title, err := validate.Title(req.Title)
	if err != nil {
		return domain.Meeting{}, err
	}
	description, err := validate.Description(req.Description)
	if err != nil {
		return domain.Meeting{}, err
	}
	location, err := validate.Location(req.Location)
	if err != nil {
		return domain.Meeting{}, err
	}

	start, end := domain.Naive(req.Start), domain.Naive(req.End)
	if !end.After(start) {
		return domain.Meeting{}, domain.NewError(domain.KindInterval, "End time must be after start time")
	}
	if start.Before(domain.Naive(s.now())) {
		return domain.Meeting{}, domain.NewError(domain.KindPastTime, "Meeting cannot be scheduled in the past")
	}

	ids := lo.Uniq(req.ParticipantIDs)
	if len(ids) == 0 {
		return domain.Meeting{}, domain.NewError(domain.KindMissingParticipants, "At least one participant is required")
	}

	return domain.Meeting{
		Title:          title,
		Description:    description,
		Location:       location,
		Start:          start,
		End:            end,
		ParticipantIDs: ids,
	}, nil
}


// List returns the meetings lying entirely within [from, to], ordered by
// start time, with participant names.
func (s *Scheduler) List(ctx context.Context, from, to time.Time) ([]domain.MeetingSummary, error) {
	from, to = domain.Naive(from), domain.Naive(to)
	if !to.After(from) {
		return nil, domain.NewError(domain.KindInterval, "End time must be after start time")
	}

	var meetings []domain.MeetingSummary
	err := s.store.RunInTx(ctx, func(tx store.Tx) error {
		var err error
		meetings, err = tx.FindMeetingsInInterval(ctx, from, to)
		return err
	})
	if err != nil {
		return nil, domain.StoreError("Database error", err)
	}
	return meetings, nil
}
