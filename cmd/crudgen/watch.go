package main

import (
	"github.com/spf13/cobra"
	"github.com/vitebski/laravel-crud-generator/internal/watcher"
)

func newWatchCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch files...",
		Short: "Regenerate artifacts whenever one of the files changes",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			applyGenerateFlags(cmd.Flags(), a.cfg)
			// Every run after the first rewrites its own output
			a.cfg.Force = true

			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			regenerate := func() {
				inputs, err := readInputs(args, nil)
				if err != nil {
					a.logger.Errorf("Failed to read inputs: %v", err)
					return
				}
				if err := a.generate(ctx, out, inputs); err != nil {
					a.logger.Errorf("Generation failed: %v", err)
				}
			}

			regenerate()
			return watcher.NewWatcher(args, a.logger).Watch(ctx, func(path string) {
				a.logger.Infof("%s changed, regenerating", path)
				regenerate()
			})
		},
	}
	addGenerateFlags(cmd.Flags())
	return cmd
}
