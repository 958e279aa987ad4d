package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func workspaceCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "workspace",
		Short: "Save and restore the files open for a task",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "save <task-id> [file...]",
		Short: "Save the open files for a task",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := requestContext(cmd)
			defer cancel()
			files := append([]string{}, args[1:]...)
			if err := opts.client().SaveWorkspace(ctx, args[0], files); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "workspace saved: %s (%d files)\n", args[0], len(files))
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "restore <task-id>",
		Short: "Print the saved files for a task, one per line",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := requestContext(cmd)
			defer cancel()
			files, err := opts.client().RestoreWorkspace(ctx, args[0])
			if err != nil {
				return err
			}
			for _, file := range files {
				fmt.Fprintln(cmd.OutOrStdout(), file)
			}
			return nil
		},
	})
	return cmd
}
