package main

import (
	"fmt"

	"github.com/spf13/cobra"

	service "github.com/okian/reelrank/internal/app"
)

func newBuildCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "build",
		Short: "Run the catalog pipeline locally and write the snapshot cache",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig(cmd.Context())
			if err != nil {
				return err
			}
			svc, err := service.FromConfig(cfg)
			if err != nil {
				return err
			}
			defer svc.Stop()

			if err := svc.Rebuild(cmd.Context(), "reelctl build"); err != nil {
				return fmt.Errorf("build catalog: %w", err)
			}
			st := svc.GetStats(cmd.Context())
			return ctx.emit(cmd, st, []string{"Field", "Value"}, statsRows(st), []columnAlignment{alignLeft, alignRight})
		},
	}
}
