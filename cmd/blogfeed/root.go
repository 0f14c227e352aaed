package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
)

// rootFlags are shared by every subcommand.
type rootFlags struct {
	config   string
	email    string
	password string
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	root := &cobra.Command{
		Use:           "blogfeed",
		Short:         "Cached feed client for the blog API",
		Long:          "blogfeed reads paginated blog feeds through a per-query cache that refreshes stale feeds and appends further pages on demand.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	root.PersistentFlags().StringVar(&flags.config, "config", "", "path to config file")
	root.PersistentFlags().StringVar(&flags.email, "email", "", "sign in with this email before reading")
	root.PersistentFlags().StringVar(&flags.password, "password", "", "password for --email")

	root.AddCommand(newFeedCmd(flags))
	root.AddCommand(newPostCmd(flags))
	root.AddCommand(newServeCmd(flags))
	root.AddCommand(newVersionCmd())

	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "blogfeed %s (commit: %s)\n", version, commit)
		},
	}
}
