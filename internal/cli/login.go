package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewLoginCommand creates the login command.
func NewLoginCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "login <name>",
		Short: "Resolve an employee by name and cache the session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := opts.Client()

			emp, err := client.Login(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if err := saveSession(emp); err != nil {
				return fmt.Errorf("save session: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Welcome, %s (id %s, location %s)\n\n", emp.Name, emp.ID, emp.Location)

			records, err := client.History(cmd.Context(), emp.ID)
			if err != nil {
				return err
			}
			printRecords(cmd, records)
			return nil
		},
	}
}
