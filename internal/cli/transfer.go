package cli

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/spf13/cobra"
)

// ExportOptions holds flags for the export command.
type ExportOptions struct {
	*RootOptions
	IntervalOptions
	Output string
}

// TransferResult is the JSON payload of export and import.
type TransferResult struct {
	Count int    `json:"count"`
	File  string `json:"file"`
}

// NewExportCommand creates the export command.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ExportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export meetings to an iCalendar file",
		Long: `Write the meetings lying within [--from, --to] to an iCalendar file.
Participant names are kept on a "Participants:" line of each event
description so that the file can be imported again.`,
		Example:       `  meetsched export --from "2030-03-01 00:00" --to "2030-03-31 23:59" -o march.ics`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(rootOpts, cmd, func(a *app) error {
				return runExport(a, opts, cmd)
			})
		},
	}
	opts.IntervalOptions.register(cmd)
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file path (required)")
	_ = cmd.MarkFlagRequired("output")

	return cmd
}

func runExport(a *app, opts *ExportOptions, cmd *cobra.Command) error {
	from, err := parseTime(a.out, "from", opts.From)
	if err != nil {
		return err
	}
	to, err := parseTime(a.out, "to", opts.To)
	if err != nil {
		return err
	}

	n, err := a.exporter.ExportFile(cmd.Context(), opts.Output, from, to)
	if err != nil {
		var pathErr *fs.PathError
		if errors.As(err, &pathErr) {
			return a.out.commandError(ErrCodeWriteFailed, "failed to write calendar", err)
		}
		return a.out.Fail(err)
	}
	return a.out.Success(fmt.Sprintf("Exported %d meetings to %s", n, opts.Output),
		TransferResult{Count: n, File: opts.Output})
}

// NewImportCommand creates the import command.
func NewImportCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.ics>",
		Short: "Import meetings from an iCalendar file",
		Long: `Schedule every event of an iCalendar file, in order. Participants are
read from the "Participants:" line of each description and matched to
registered persons by name, ignoring case; unknown names are dropped.

Import stops at the first event that cannot be scheduled. Meetings imported
before it are kept.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(rootOpts, cmd, func(a *app) error {
				n, err := a.importer.ImportFile(cmd.Context(), args[0])
				if err != nil {
					var pathErr *fs.PathError
					if errors.As(err, &pathErr) {
						return a.out.commandError(ErrCodeNotFound, "failed to read calendar", err)
					}
					return a.out.Fail(err)
				}
				return a.out.Success(fmt.Sprintf("Imported %d meetings successfully", n),
					TransferResult{Count: n, File: args[0]})
			})
		},
	}
}
