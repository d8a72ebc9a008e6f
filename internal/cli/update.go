package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kada-dev/kada-commute/pkg/schema"
)

// NewUpdateCommand creates the update command.
func NewUpdateCommand(opts *RootOptions) *cobra.Command {
	var date, field, value string

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Rewrite the check-in or check-out time of one record",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			emp, err := loadSession()
			if err != nil {
				return err
			}
			if field != "checkin" && field != "checkout" {
				return fmt.Errorf("--field must be checkin or checkout, got %q", field)
			}

			req := schema.UpdateRecordRequest{
				EmployeeID: emp.ID,
				Date:       date,
				Field:      field,
				Value:      value,
			}
			if err := opts.Client().UpdateRecord(cmd.Context(), req); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Record updated")
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "date of the record (YYYY-MM-DD)")
	cmd.Flags().StringVar(&field, "field", "", "field to rewrite: checkin or checkout")
	cmd.Flags().StringVar(&value, "value", "", "new time (HH:MM:SS)")
	cmd.MarkFlagRequired("date")
	cmd.MarkFlagRequired("field")
	cmd.MarkFlagRequired("value")
	return cmd
}
