// Package conflict finds participants who are already booked during a
// proposed meeting interval.
package conflict

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/samber/lo"

	"github.com/roach88/meetsched/internal/domain"
)

// BookingFinder is the store capability the detector needs. store.Tx
// satisfies it.
type BookingFinder interface {
	FindOverlappingBookings(ctx context.Context, personIDs []int64, start, end time.Time) ([]domain.Booking, error)
}

// Detector checks participants for double-booking.
type Detector struct {
	logger *slog.Logger
}

// NewDetector creates a Detector. A nil logger uses slog.Default().
func NewDetector(logger *slog.Logger) *Detector {
	if logger == nil {
		logger = slog.Default()
	}
	return &Detector{logger: logger}
}

// Find returns every participant in participantIDs that already has a
// meeting overlapping [start, end). Intervals that only touch do not
// conflict. Each (person, name) appears once, ordered by name then id.
//
// No participants means no conflicts; the store is not consulted.
func (d *Detector) Find(ctx context.Context, q BookingFinder, participantIDs []int64, start, end time.Time) ([]domain.Conflict, error) {
	if len(participantIDs) == 0 {
		return nil, nil
	}
	start, end = domain.Naive(start), domain.Naive(end)
	if !end.After(start) {
		return nil, domain.NewError(domain.KindInterval, "End time must be after start time")
	}

	bookings, err := q.FindOverlappingBookings(ctx, lo.Uniq(participantIDs), start, end)
	if err != nil {
		return nil, fmt.Errorf("find overlapping bookings: %w", err)
	}

	conflicts := lo.UniqBy(
		lo.Map(bookings, func(b domain.Booking, _ int) domain.Conflict {
			return domain.Conflict{PersonID: b.PersonID, Name: b.PersonName}
		}),
		func(c domain.Conflict) int64 { return c.PersonID },
	)
	slices.SortFunc(conflicts, func(a, b domain.Conflict) int {
		return cmp.Or(cmp.Compare(a.Name, b.Name), cmp.Compare(a.PersonID, b.PersonID))
	})

	if len(conflicts) > 0 {
		d.logger.Debug("conflicts found",
			"participants", len(participantIDs),
			"conflicts", len(conflicts),
			"start", start.Format(domain.Layout),
			"end", end.Format(domain.Layout))
	}
	return conflicts, nil
}
