package main

import (
	"github.com/spf13/cobra"

	"github.com/okian/reelrank/internal/probe"
)

func newRootCommand() *cobra.Command {
	ctx := newCommandContext()

	rootCmd := &cobra.Command{
		Use:           "reelctl",
		Short:         "Query and maintain the reelrank catalog",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return ctx.initLogging(cmd.ErrOrStderr())
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&ctx.url, "url", defaultURL(), "Base URL of the reelrank server")
	flags.DurationVar(&ctx.timeout, "timeout", probe.DefaultTimeout, "HTTP request timeout")
	flags.BoolVar(&ctx.local, "local", false, "Answer from the local pipeline instead of the server")
	flags.BoolVar(&ctx.jsonOut, "json", false, "Print JSON instead of tables")
	flags.StringVar(&ctx.logLevel, "log-level", "warn", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(newRecommendCommand(ctx))
	rootCmd.AddCommand(newGenresCommand(ctx))
	rootCmd.AddCommand(newLanguagesCommand(ctx))
	rootCmd.AddCommand(newStatsCommand(ctx))
	rootCmd.AddCommand(newRebuildCommand(ctx))
	rootCmd.AddCommand(newBuildCommand(ctx))
	rootCmd.AddCommand(newProbeCommand(ctx))

	return rootCmd
}
