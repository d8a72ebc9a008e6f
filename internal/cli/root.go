// Package cli implements the kada console: the interactive front-end that
// logs in by name, records check-ins and check-outs, and inspects history
// through the daemon's API.
package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kada-dev/kada-commute/pkg/schema"
	"github.com/kada-dev/kada-commute/pkg/sdk"
)

// RootOptions holds the flags shared by every subcommand.
type RootOptions struct {
	Addr       string // base URL of the attendance API
	StreamAddr string // host:port of the TCP log stream
}

// Client builds an API client for the configured address.
func (o *RootOptions) Client() *sdk.Client {
	return sdk.New(o.Addr)
}

// NewRootCommand assembles the kada command tree.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:          "kada",
		Short:        "Console for the Kada Commute attendance service",
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&opts.Addr, "addr", envOr("KADA_ADDR", "http://localhost:8000"), "base URL of the attendance API")
	cmd.PersistentFlags().StringVar(&opts.StreamAddr, "stream-addr", envOr("KADA_STREAM_ADDR", "localhost:8001"), "address of the TCP log stream")

	cmd.AddCommand(
		NewLoginCommand(opts),
		NewCheckInCommand(opts),
		NewCheckOutCommand(opts),
		NewHistoryCommand(opts),
		NewUpdateCommand(opts),
		NewDeleteCommand(opts),
		NewWatchCommand(opts),
	)
	return cmd
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// printRecords renders attendance records in the classic console table.
func printRecords(cmd *cobra.Command, records []schema.Record) {
	if len(records) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No records found.")
		return
	}
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "DATE\tCHECK-IN\tCHECK-OUT\tREASON")
	for _, r := range records {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", r.Date, r.CheckInTime, r.CheckOutTime, r.Reason)
	}
	w.Flush()
}
