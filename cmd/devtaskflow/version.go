package main

import (
	"fmt"

	"github.com/Oudwins/devtaskflow/internals/version"
	"github.com/Oudwins/devtaskflow/sdk"
	"github.com/spf13/cobra"
)

func versionCmd(opts *rootOptions) *cobra.Command {
	var remote bool
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the client version, or the server's with --remote",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !remote {
				fmt.Fprintln(cmd.OutOrStdout(), version.Version())
				return nil
			}
			if url := opts.serverURL(); !sdk.IsRunning(url) {
				return fmt.Errorf("no server running at %s", url)
			}
			ctx, cancel := requestContext(cmd)
			defer cancel()
			serverVersion, err := opts.client().Version(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), serverVersion)
			return nil
		},
	}
	cmd.Flags().BoolVar(&remote, "remote", false, "ask the server for its version")
	return cmd
}
