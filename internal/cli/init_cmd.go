package cli

import (
	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/roach88/meetsched/internal/store"
)

// InitResult is the JSON payload of the init command.
type InitResult struct {
	Driver string          `json:"driver"`
	Tables map[string]bool `json:"tables"`
}

// NewInitCommand creates the init command.
func NewInitCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the database schema",
		Long: `Create the database schema if it does not exist yet and report which
tables are present. Safe to run repeatedly.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(rootOpts, cmd, func(a *app) error {
				return runInit(a, cmd)
			})
		},
	}
}

func runInit(a *app, cmd *cobra.Command) error {
	tables, err := a.store.CheckTables(cmd.Context())
	if err != nil {
		return a.out.commandError(ErrCodeDatabase, "failed to check tables", err)
	}

	rows := lo.Map(store.Tables, func(name string, _ int) []string {
		return []string{name, lo.Ternary(tables[name], "present", "missing")}
	})
	a.out.VerboseLog("Database ready (%s)", a.store.Driver())
	return a.out.Table([]string{"Table", "Status"}, rows, InitResult{
		Driver: a.store.Driver(),
		Tables: tables,
	})
}
