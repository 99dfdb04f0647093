package interchange

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/roach88/meetsched/internal/calendar"
	"github.com/roach88/meetsched/internal/domain"
)

// MeetingLister returns the meetings lying within an interval.
// scheduler.Scheduler satisfies it.
type MeetingLister interface {
	List(ctx context.Context, from, to time.Time) ([]domain.MeetingSummary, error)
}

// Exporter writes meetings to calendar documents.
type Exporter struct {
	lister MeetingLister
	codec  *calendar.Codec
	logger *slog.Logger
}

// NewExporter creates an Exporter. A nil logger uses slog.Default().
func NewExporter(lister MeetingLister, codec *calendar.Codec, logger *slog.Logger) *Exporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Exporter{lister: lister, codec: codec, logger: logger}
}

// Export encodes the meetings within [from, to] to w and returns how many
// were written. An interval holding no meetings is rejected with
// "No meetings" and nothing is written.
func (e *Exporter) Export(ctx context.Context, w io.Writer, from, to time.Time) (int, error) {
	meetings, err := e.lister.List(ctx, from, to)
	if err != nil {
		return 0, err
	}
	if len(meetings) == 0 {
		return 0, domain.NewError(domain.KindEmpty, "No meetings")
	}

	if err := e.codec.Encode(w, meetings); err != nil {
		return 0, err
	}
	e.logger.Debug("meetings exported",
		"count", len(meetings),
		"from", from.Format(domain.Layout),
		"to", to.Format(domain.Layout))
	return len(meetings), nil
}

// ExportFile is Export to a file. The file is only created once the
// document has been encoded.
func (e *Exporter) ExportFile(ctx context.Context, path string, from, to time.Time) (int, error) {
	var buf bytes.Buffer
	n, err := e.Export(ctx, &buf, from, to)
	if err != nil {
		return 0, err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return 0, fmt.Errorf("write %s: %w", path, err)
	}
	return n, nil
}
