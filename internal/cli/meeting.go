package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/roach88/meetsched/internal/domain"
	"github.com/roach88/meetsched/internal/scheduler"
)

// MeetingScheduleOptions holds flags for the meeting schedule command.
type MeetingScheduleOptions struct {
	*RootOptions
	Title        string
	Description  string
	Location     string
	Start        string
	End          string
	Participants []int64
}

// IntervalOptions holds the --from/--to flags shared by listing and export.
type IntervalOptions struct {
	From string
	To   string
}

func (o *IntervalOptions) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.From, "from", "", `interval start, "YYYY-MM-DD HH:MM" (required)`)
	cmd.Flags().StringVar(&o.To, "to", "", `interval end, "YYYY-MM-DD HH:MM" (required)`)
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")
}

// NewMeetingCommand creates the meeting command group.
func NewMeetingCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "meeting",
		Short: "Schedule and list meetings",
	}
	cmd.AddCommand(newMeetingScheduleCommand(rootOpts))
	cmd.AddCommand(newMeetingListCommand(rootOpts))
	return cmd
}

func newMeetingScheduleCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &MeetingScheduleOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Schedule a meeting",
		Long: `Schedule a meeting with registered participants.

The meeting is rejected if the end is not after the start, the start is in
the past, no participant is given, or any participant already has a meeting
overlapping the interval. Back-to-back meetings are allowed.`,
		Example: `  meetsched meeting schedule --title Planning --start "2030-03-04 10:00" \
    --end "2030-03-04 11:00" --with 1,2`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(rootOpts, cmd, func(a *app) error {
				return runSchedule(a, opts, cmd)
			})
		},
	}

	cmd.Flags().StringVar(&opts.Title, "title", "", "meeting title (required)")
	cmd.Flags().StringVar(&opts.Description, "description", "", "meeting description")
	cmd.Flags().StringVar(&opts.Location, "location", "", "meeting location")
	cmd.Flags().StringVar(&opts.Start, "start", "", `start time, "YYYY-MM-DD HH:MM" (required)`)
	cmd.Flags().StringVar(&opts.End, "end", "", `end time, "YYYY-MM-DD HH:MM" (required)`)
	cmd.Flags().Int64SliceVar(&opts.Participants, "with", nil, "participant person ids")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")

	return cmd
}

func runSchedule(a *app, opts *MeetingScheduleOptions, cmd *cobra.Command) error {
	start, err := parseTime(a.out, "start", opts.Start)
	if err != nil {
		return err
	}
	end, err := parseTime(a.out, "end", opts.End)
	if err != nil {
		return err
	}

	m, err := a.scheduler.Schedule(cmd.Context(), scheduler.Request{
		Title:          opts.Title,
		Description:    opts.Description,
		Location:       opts.Location,
		Start:          start,
		End:            end,
		ParticipantIDs: opts.Participants,
	})
	if err != nil {
		return a.out.Fail(err)
	}

	return a.out.Success(fmt.Sprintf("Scheduled meeting %d: %s (%s - %s)",
		m.ID, m.Title, m.Start.Format(domain.Layout), m.End.Format("15:04")), m)
}

func newMeetingListCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &IntervalOptions{}

	cmd := &cobra.Command{
		Use:           "list",
		Short:         "List meetings lying within an interval",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(rootOpts, cmd, func(a *app) error {
				from, err := parseTime(a.out, "from", opts.From)
				if err != nil {
					return err
				}
				to, err := parseTime(a.out, "to", opts.To)
				if err != nil {
					return err
				}

				meetings, err := a.scheduler.List(cmd.Context(), from, to)
				if err != nil {
					return a.out.Fail(err)
				}
				return a.out.Table(
					[]string{"ID", "Title", "Start", "End", "Location", "Participants"},
					meetingRows(meetings), meetings)
			})
		},
	}
	opts.register(cmd)

	return cmd
}

func meetingRows(meetings []domain.MeetingSummary) [][]string {
	return lo.Map(meetings, func(m domain.MeetingSummary, _ int) []string {
		return []string{
			strconv.FormatInt(m.ID, 10),
			m.Title,
			m.Start.Format(domain.Layout),
			m.End.Format(domain.Layout),
			m.Location,
			strings.Join(m.Participants, ", "),
		}
	})
}
