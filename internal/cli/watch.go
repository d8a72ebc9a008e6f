package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/kada-dev/kada-commute/pkg/sdk"
)

// NewWatchCommand creates the watch command, which tails the daemon's
// notification stream and prints each status line as it arrives.
func NewWatchCommand(opts *RootOptions) *cobra.Command {
	var noTLS bool

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Tail the live attendance log stream",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			useTLS := !noTLS && os.Getenv("KADA_DISABLE_TLS") != "true"

			stream, err := sdk.DialLogStream(opts.StreamAddr, useTLS)
			if err != nil {
				return fmt.Errorf("connect to %s: %w", opts.StreamAddr, err)
			}
			defer stream.Close()

			// Drop the connection when the command context ends.
			go func() {
				<-cmd.Context().Done()
				stream.Close()
			}()

			for {
				line, err := stream.Recv()
				if err != nil {
					if errors.Is(err, io.EOF) || cmd.Context().Err() != nil {
						return nil
					}
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), line)
			}
		},
	}

	cmd.Flags().BoolVar(&noTLS, "no-tls", false, "connect without TLS")
	return cmd
}
