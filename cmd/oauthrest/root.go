package main

import (
	"github.com/spf13/cobra"

	"github.com/kbukum/oauthrest/version"
)

type rootOptions struct {
	configFile string
	envFile    string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "oauthrest",
		Short:         "Issue OAuth1-signed REST calls",
		Version:       version.Short(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	fs := cmd.PersistentFlags()
	fs.StringVarP(&opts.configFile, "config", "c", "", "config file (default: search oauthrest.yml/config.yml)")
	fs.StringVar(&opts.envFile, "env-file", "", ".env file to load before reading OAUTHREST_ variables")
	fs.StringVar(&opts.logLevel, "log-level", "", "override logging.level")

	cmd.AddCommand(newCallCmd(opts))
	cmd.AddCommand(newSignCmd(opts))
	cmd.AddCommand(newCheckCmd(opts))
	cmd.AddCommand(newVersionCmd())
	return cmd
}
