package main

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/Oudwins/devtaskflow/internals/schemas"
	"github.com/spf13/cobra"
)

func tasksCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "List, create and update tasks",
	}
	cmd.AddCommand(tasksListCmd(opts))
	cmd.AddCommand(tasksCreateCmd(opts))
	cmd.AddCommand(tasksStatusCmd(opts))
	return cmd
}

func tasksListCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List your tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := requestContext(cmd)
			defer cancel()
			tasks, err := opts.client().ListTasks(ctx)
			if err != nil {
				return err
			}
			printTasks(cmd.OutOrStdout(), tasks)
			return nil
		},
	}
}

func tasksCreateCmd(opts *rootOptions) *cobra.Command {
	var commitSHA string
	cmd := &cobra.Command{
		Use:   "create <title>",
		Short: "Create a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := requestContext(cmd)
			defer cancel()
			task, err := opts.client().CreateTask(ctx, schemas.TaskCreateRequest{Title: args[0], CommitSHA: commitSHA})
			if err != nil {
				return err
			}
			printTasks(cmd.OutOrStdout(), []schemas.Task{*task})
			return nil
		},
	}
	cmd.Flags().StringVar(&commitSHA, "commit", "", "commit sha to link")
	return cmd
}

func tasksStatusCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "status <id> <open|in-progress|closed>",
		Short: "Change a task's status",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid task id %q", args[0])
			}
			status := schemas.TaskStatus(args[1])
			if !status.Valid() {
				return fmt.Errorf("invalid status %q", args[1])
			}
			ctx, cancel := requestContext(cmd)
			defer cancel()
			task, err := opts.client().UpdateTaskStatus(ctx, id, status)
			if err != nil {
				return err
			}
			printTasks(cmd.OutOrStdout(), []schemas.Task{*task})
			return nil
		},
	}
}

func printTasks(out io.Writer, tasks []schemas.Task) {
	if len(tasks) == 0 {
		fmt.Fprintln(out, "no tasks")
		return
	}
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTATUS\tCOMMIT\tTITLE")
	for _, task := range tasks {
		commit := "-"
		if task.CommitSHA != nil {
			commit = *task.CommitSHA
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", task.ID, task.Status, commit, task.Title)
	}
	_ = w.Flush()
}
