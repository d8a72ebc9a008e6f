package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kada-dev/kada-commute/pkg/schema"
)

// NewDeleteCommand creates the delete command.
func NewDeleteCommand(opts *RootOptions) *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete one attendance record",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			emp, err := loadSession()
			if err != nil {
				return err
			}

			req := schema.DeleteRecordRequest{EmployeeID: emp.ID, Date: date}
			if err := opts.Client().DeleteRecord(cmd.Context(), req); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Record deleted")
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "date of the record (YYYY-MM-DD)")
	cmd.MarkFlagRequired("date")
	return cmd
}
