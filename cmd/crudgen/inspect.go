package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/vitebski/laravel-crud-generator/internal/utils"
)

func newInspectCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect [files...]",
		Short: "Print how CREATE TABLE statements are parsed, without generating anything",
		RunE: func(cmd *cobra.Command, args []string) error {
			inputs, err := readInputs(args, cmd.InOrStdin())
			if err != nil {
				return err
			}

			p := a.newPipeline()
			parsed := p.Parse(inputs)
			out := cmd.OutOrStdout()

			for _, pr := range parsed {
				utils.PrintTableReport(out, pr.Input.Source, pr.Result)
			}
			utils.PrintProjectAnalysis(out, p.Analyze(parsed))

			for _, input := range inputs {
				if err, failed := p.FailedInputs[input.Source]; failed {
					fmt.Fprintf(out, "%s: %v\n", input.Source, err)
				}
			}
			if len(p.FailedInputs) > 0 {
				return fmt.Errorf("%d of %d input(s) could not be parsed", len(p.FailedInputs), len(inputs))
			}
			return nil
		},
	}
}
