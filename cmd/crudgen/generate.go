package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/vitebski/laravel-crud-generator/internal/codegen"
	"github.com/vitebski/laravel-crud-generator/internal/config"
	"github.com/vitebski/laravel-crud-generator/internal/fixtures"
	"github.com/vitebski/laravel-crud-generator/internal/parser"
	"github.com/vitebski/laravel-crud-generator/internal/pipeline"
	"github.com/vitebski/laravel-crud-generator/internal/utils"
	"github.com/vitebski/laravel-crud-generator/internal/writer"
)

func newGenerateCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate [files...]",
		Short: "Generate artifacts from CREATE TABLE files, or stdin when none are given",
		RunE: func(cmd *cobra.Command, args []string) error {
			applyGenerateFlags(cmd.Flags(), a.cfg)

			inputs, err := readInputs(args, cmd.InOrStdin())
			if err != nil {
				return err
			}
			return a.generate(cmd.Context(), cmd.OutOrStdout(), inputs)
		},
	}
	addGenerateFlags(cmd.Flags())
	return cmd
}

// addGenerateFlags defines the flags shared by every command that writes
// artifacts
func addGenerateFlags(flags *pflag.FlagSet) {
	flags.StringP("output", "o", "", "Output directory (default: generated)")
	flags.Bool("force", false, "Overwrite existing files")
	flags.Bool("dry-run", false, "Print the files that would be written without writing them")
	flags.Bool("no-has-many", false, "Do not emit the guessed has-many relation")
	flags.String("has-many-target", "", "Table the guessed has-many relation points at (default: the table itself)")
	flags.Bool("migration", false, "Also generate a create-table migration")
	flags.Int("seed-rows", 0, "Also generate a seeder with this many sample rows")
	flags.Int64("seed", 0, "Random seed for seeder rows")
}

// applyGenerateFlags copies explicitly set flags over the resolved config
func applyGenerateFlags(flags *pflag.FlagSet, cfg *config.Config) {
	if flags.Changed("output") {
		cfg.OutputDir, _ = flags.GetString("output")
	}
	if flags.Changed("force") {
		cfg.Force, _ = flags.GetBool("force")
	}
	if flags.Changed("dry-run") {
		cfg.DryRun, _ = flags.GetBool("dry-run")
	}
	if flags.Changed("no-has-many") {
		noHasMany, _ := flags.GetBool("no-has-many")
		cfg.GuessHasMany = !noHasMany
	}
	if flags.Changed("has-many-target") {
		cfg.HasManyTarget, _ = flags.GetString("has-many-target")
	}
	if flags.Changed("migration") {
		cfg.Migration, _ = flags.GetBool("migration")
	}
	if flags.Changed("seed-rows") {
		cfg.SeedRows, _ = flags.GetInt("seed-rows")
	}
	if flags.Changed("seed") {
		cfg.Seed, _ = flags.GetInt64("seed")
	}
}

// readInputs reads each file, or stdin when no files are given
func readInputs(files []string, stdin io.Reader) ([]pipeline.Input, error) {
	if len(files) == 0 {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return []pipeline.Input{{Source: "stdin", DDL: string(data)}}, nil
	}

	inputs := make([]pipeline.Input, 0, len(files))
	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", file, err)
		}
		inputs = append(inputs, pipeline.Input{Source: file, DDL: string(data)})
	}
	return inputs, nil
}

func (a *app) newPipeline() *pipeline.Pipeline {
	var rows codegen.RowSource
	if a.cfg.SeedRows > 0 {
		rows = fixtures.NewRowGenerator(a.cfg.Seed, a.cfg.SeedRows, a.logger)
	}

	return pipeline.NewPipeline(
		parser.NewSchemaParser(a.logger),
		codegen.NewGenerator(a.cfg.Options(), rows, a.logger),
		writer.NewArtifactWriter(a.cfg.OutputDir, a.cfg.Force, a.cfg.DryRun, a.logger),
		a.logger,
	)
}

// generate runs the pipeline over inputs and prints the summary
func (a *app) generate(ctx context.Context, out io.Writer, inputs []pipeline.Input) error {
	a.logger.Infof("Generating %d input(s) into %s", len(inputs), a.cfg.OutputDir)

	result := a.newPipeline().Run(ctx, inputs)
	utils.PrintSummary(out, result, a.cfg.DryRun)

	if len(result.FailedInputs) > 0 {
		return fmt.Errorf("%d of %d input(s) failed", len(result.FailedInputs), len(inputs))
	}
	return nil
}
