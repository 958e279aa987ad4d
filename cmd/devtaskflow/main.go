package main

import (
	"context"
	"fmt"
	"os"

	"github.com/Oudwins/devtaskflow/internals/env"
	"github.com/Oudwins/devtaskflow/internals/timeouts"
	"github.com/Oudwins/devtaskflow/sdk"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	baseURL string
	session string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "devtaskflow",
		Short:         "Task tracking linked to GitHub commits",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&opts.baseURL, "url", "", "server base URL (defaults to the local server)")
	cmd.PersistentFlags().StringVar(&opts.session, "session", "", "session cookie value (defaults to $DEVTASKFLOW_SESSION)")

	cmd.AddCommand(serveCmd())
	cmd.AddCommand(versionCmd(opts))
	cmd.AddCommand(tasksCmd(opts))
	cmd.AddCommand(workspaceCmd(opts))
	return cmd
}

func (o *rootOptions) serverURL() string {
	if o.baseURL != "" {
		return o.baseURL
	}
	return env.Get().BASE_URL
}

func (o *rootOptions) client() *sdk.Client {
	baseURL := o.serverURL()
	session := o.session
	if session == "" {
		session = env.Get().SESSION
	}
	return sdk.NewClient(sdk.WithBaseURL(baseURL), sdk.WithSessionCookie(session))
}

func requestContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), timeouts.ClientDefault)
}
