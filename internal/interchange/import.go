package interchange

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/samber/lo"

	"github.com/roach88/meetsched/internal/calendar"
	"github.com/roach88/meetsched/internal/domain"
	"github.com/roach88/meetsched/internal/scheduler"
	"github.com/roach88/meetsched/internal/store"
)

// ImportError reports where an import stopped. Meetings imported before
// the failing event remain stored.
type ImportError struct {
	// Imported is the number of meetings stored before the failure.
	Imported int

	// Title is the failing event's title; empty for document-level errors.
	Title string

	Err error
}

func (e *ImportError) Error() string {
	if e.Title == "" {
		return fmt.Sprintf("Import stopped: %v", e.Err)
	}
	return fmt.Sprintf("Import stopped at %s: %v", e.Title, e.Err)
}

func (e *ImportError) Unwrap() error {
	return e.Err
}

// Scheduler creates meetings. *scheduler.Scheduler satisfies it.
type Scheduler interface {
	Schedule(ctx context.Context, req scheduler.Request) (domain.Meeting, error)
}

// Reconciler imports calendar documents.
type Reconciler struct {
	store     store.Store
	scheduler Scheduler
	logger    *slog.Logger
}

// NewReconciler creates a Reconciler. A nil logger uses slog.Default().
func NewReconciler(st store.Store, sched Scheduler, logger *slog.Logger) *Reconciler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reconciler{store: st, scheduler: sched, logger: logger}
}

// Import schedules every event of the document read from r, in order, and
// returns how many were imported. It stops at the first event that fails to
// decode, names no registered person, or is rejected by the scheduler; the
// returned *ImportError wraps the cause.
func (rc *Reconciler) Import(ctx context.Context, r io.Reader) (int, error) {
	dec := calendar.NewDecoder(r, rc.logger)
	imported := 0
	for {
		event, err := dec.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return imported, rc.stop(imported, event.Title, err)
		}

		ids, err := rc.resolve(ctx, event)
		if err != nil {
			return imported, rc.stop(imported, event.Title, err)
		}

		m, err := rc.scheduler.Schedule(ctx, scheduler.Request{
			Title:          event.Title,
			Description:    event.Description,
			Location:       event.Location,
			Start:          event.Start,
			End:            event.End,
			ParticipantIDs: ids,
		})
		if err != nil {
			return imported, rc.stop(imported, event.Title, err)
		}

		imported++
		rc.logger.Debug("event imported", "uid", event.UID, "meeting_id", m.ID, "title", m.Title)
	}

	rc.logger.Info("import finished", "imported", imported)
	return imported, nil
}

// ImportFile is Import reading from a file.
func (rc *Reconciler) ImportFile(ctx context.Context, path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return rc.Import(ctx, f)
}

// resolve maps the event's participant names to person ids, in listed order.
// Names matching nobody are dropped.
func (rc *Reconciler) resolve(ctx context.Context, event calendar.Event) ([]int64, error) {
	var byKey map[string]int64
	err := rc.store.RunInTx(ctx, func(tx store.Tx) error {
		var err error
		byKey, err = tx.FindPersonsByName(ctx, event.Participants)
		return err
	})
	if err != nil {
		return nil, domain.StoreError("Database error", err)
	}

	ids := lo.Uniq(lo.FilterMap(event.Participants, func(name string, _ int) (int64, bool) {
		id, ok := byKey[domain.NameKey(name)]
		if !ok {
			rc.logger.Debug("unknown participant dropped", "title", event.Title, "name", name)
		}
		return id, ok
	}))
	if len(ids) == 0 {
		return nil, domain.NewError(domain.KindMissingParticipants,
			"Participants for %s do not exist in database", event.Title)
	}
	return ids, nil
}

func (rc *Reconciler) stop(imported int, title string, err error) error {
	rc.logger.Info("import stopped", "imported", imported, "title", title, "reason", err)
	return &ImportError{Imported: imported, Title: title, Err: err}
}
