package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kada-dev/kada-commute/pkg/schema"
)

// NewCheckOutCommand creates the checkout command.
func NewCheckOutCommand(opts *RootOptions) *cobra.Command {
	var timeOfDay, date string

	cmd := &cobra.Command{
		Use:   "checkout",
		Short: "Record a check-out for the logged-in employee",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			emp, err := loadSession()
			if err != nil {
				return err
			}

			req := schema.CheckOutRequest{
				Name:       emp.Name,
				EmployeeID: emp.ID,
				Time:       timeOfDay,
				Date:       date,
			}
			if err := opts.Client().CheckOut(cmd.Context(), req); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Check-out successful")
			return nil
		},
	}

	cmd.Flags().StringVar(&timeOfDay, "time", "", "explicit check-out time (HH:MM:SS); random evening time when omitted")
	cmd.Flags().StringVar(&date, "date", "", "explicit date (YYYY-MM-DD); today when omitted")
	return cmd
}
