package cli

import (
	"fmt"
	"strconv"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/roach88/meetsched/internal/domain"
	"github.com/roach88/meetsched/internal/people"
)

// PersonAddOptions holds flags for the person add command.
type PersonAddOptions struct {
	*RootOptions
	Name  string
	Email string
	Phone string
}

// NewPersonCommand creates the person command group.
func NewPersonCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "person",
		Short: "Register and list participants",
	}
	cmd.AddCommand(newPersonAddCommand(rootOpts))
	cmd.AddCommand(newPersonListCommand(rootOpts))
	cmd.AddCommand(newPersonLoadCommand(rootOpts))
	return cmd
}

func newPersonAddCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &PersonAddOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Register a person",
		Example: `  meetsched person add --name "Ana Lima" --email ana@example.com
  meetsched person add --name Bob --email bob@example.com --phone 0712345678`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(rootOpts, cmd, func(a *app) error {
				var phone *string
				if cmd.Flags().Changed("phone") {
					phone = &opts.Phone
				}
				p, err := a.people.Register(cmd.Context(), opts.Name, opts.Email, phone)
				if err != nil {
					return a.out.Fail(err)
				}
				return a.out.Success(fmt.Sprintf("Registered person %d: %s <%s>", p.ID, p.Name, p.Email), p)
			})
		},
	}

	cmd.Flags().StringVar(&opts.Name, "name", "", "full name (required)")
	cmd.Flags().StringVar(&opts.Email, "email", "", "email address (required)")
	cmd.Flags().StringVar(&opts.Phone, "phone", "", "phone number")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

func newPersonListCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "list",
		Short:         "List registered persons by name",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(rootOpts, cmd, func(a *app) error {
				persons, err := a.people.List(cmd.Context())
				if err != nil {
					return a.out.Fail(err)
				}
				return a.out.Table([]string{"ID", "Name", "Email", "Phone"}, personRows(persons), persons)
			})
		},
	}
}

func personRows(persons []domain.Person) [][]string {
	return lo.Map(persons, func(p domain.Person, _ int) []string {
		return []string{strconv.FormatInt(p.ID, 10), p.Name, p.Email, lo.FromPtr(p.Phone)}
	})
}

func newPersonLoadCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "load <roster.yaml>",
		Short: "Register every person listed in a YAML roster",
		Long: `Register the persons listed in a YAML roster file, in order. Loading
stops at the first rejected entry; persons registered before it are kept.

Roster format:
  persons:
    - name: Ana Lima
      email: ana@example.com
      phone: "0712345678"`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(rootOpts, cmd, func(a *app) error {
				roster, err := people.LoadRoster(args[0])
				if err != nil {
					return a.out.commandError(ErrCodeReadFailed, "failed to load roster", err)
				}
				registered, err := a.people.RegisterAll(cmd.Context(), roster)
				if err != nil {
					return a.out.Fail(err)
				}
				return a.out.Success(fmt.Sprintf("Registered %d persons", len(registered)), registered)
			})
		},
	}
}
