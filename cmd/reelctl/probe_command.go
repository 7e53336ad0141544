package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/okian/reelrank/internal/probe"
)

func newProbeCommand(ctx *commandContext) *cobra.Command {
	cfg := probe.DefaultConfig()

	cmd := &cobra.Command{
		Use:   "probe",
		Short: "Check a running server's recommendations for ranking violations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg.BaseURL = ctx.url
			cfg.Timeout = ctx.timeout

			rep, err := probe.Run(cmd.Context(), cfg)
			if rep == nil {
				return err
			}

			if !ctx.jsonOut {
				fmt.Fprintf(cmd.OutOrStdout(), "%d queries, %d empty, %d failed in %s\n",
					rep.Queries, rep.Empty, rep.Failed, rep.Duration.Round(time.Millisecond))
				if len(rep.Violations) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No violations")
					return err
				}
			}
			rows := make([][]string, 0, len(rep.Violations))
			for _, v := range rep.Violations {
				rows = append(rows, []string{v.Rule, v.Query, v.Detail})
			}
			if emitErr := ctx.emit(cmd, rep, []string{"Rule", "Query", "Detail"}, rows, nil); emitErr != nil {
				return emitErr
			}
			return err
		},
	}

	cmd.Flags().IntVar(&cfg.Limit, "limit", cfg.Limit, "Limit sent with each query")
	cmd.Flags().IntVar(&cfg.Genres, "genres", cfg.Genres, "Genres probed per language")
	cmd.Flags().IntVar(&cfg.Workers, "workers", cfg.Workers, "Concurrent queries")
	return cmd
}
