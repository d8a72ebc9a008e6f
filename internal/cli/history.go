package cli

import (
	"github.com/spf13/cobra"
)

// NewHistoryCommand creates the history command.
func NewHistoryCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "Show every attendance record for the logged-in employee",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			emp, err := loadSession()
			if err != nil {
				return err
			}

			records, err := opts.Client().History(cmd.Context(), emp.ID)
			if err != nil {
				return err
			}
			printRecords(cmd, records)
			return nil
		},
	}
}
