package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kada-dev/kada-commute/pkg/schema"
)

// NewCheckInCommand creates the checkin command.
func NewCheckInCommand(opts *RootOptions) *cobra.Command {
	var timeOfDay, date, location string

	cmd := &cobra.Command{
		Use:   "checkin",
		Short: "Record a check-in for the logged-in employee",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			emp, err := loadSession()
			if err != nil {
				return err
			}
			if location == "" {
				location = emp.Location
			}

			req := schema.CheckInRequest{
				Name:       emp.Name,
				Location:   location,
				EmployeeID: emp.ID,
				Time:       timeOfDay,
				Date:       date,
			}
			if err := opts.Client().CheckIn(cmd.Context(), req); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Check-in successful")
			return nil
		},
	}

	cmd.Flags().StringVar(&timeOfDay, "time", "", "explicit check-in time (HH:MM:SS); random morning time when omitted")
	cmd.Flags().StringVar(&date, "date", "", "explicit date (YYYY-MM-DD); today when omitted")
	cmd.Flags().StringVar(&location, "location", "", "working location; the employee's default when omitted")
	return cmd
}
