package main

import (
	"fmt"

	"github.com/spf13/cobra"

	_ "github.com/mrhapile/classkit/specs" // registers the behavior specs
	"github.com/mrhapile/classkit/testunit"
)

func newTestCmd(a *app) *cobra.Command {
	var level string

	cmd := &cobra.Command{
		Use:   "test",
		Short: "Run every registered behavior spec",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if level == "" {
				level = a.cfg.Runner.Level
			}
			outputLevel, err := testunit.ParseOutputLevel(level)
			if err != nil {
				return err
			}

			res := testunit.AutoRun(cmd.OutOrStdout(), outputLevel)
			a.logger.Debug("spec run finished", "tests", res.Run, "elapsed", res.Elapsed)
			if !res.Passed() {
				return fmt.Errorf("%d failures, %d errors", res.Failures, res.Errors)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&level, "level", "", "output level (silent, progress, normal, verbose)")
	return cmd
}
