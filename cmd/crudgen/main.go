package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/vitebski/laravel-crud-generator/internal/config"
	"github.com/vitebski/laravel-crud-generator/internal/utils"
)

// app carries the state shared by every command once flags are parsed
type app struct {
	configFile string
	envFile    string
	logLevel   string

	logger *logrus.Logger
	cfg    *config.Config
}

func main() {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "crudgen",
		Short: "Generate Laravel CRUD scaffolding from SQL CREATE TABLE statements",
		Long: `Laravel CRUD Generator

Parses SQL CREATE TABLE statements and generates an Eloquent model,
an API controller, a service class and route declarations for each table,
with optional migrations and seeders.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	rootCmd.PersistentFlags().StringVarP(&a.configFile, "config", "c", config.DefaultFile, "Path to YAML config file")
	rootCmd.PersistentFlags().StringVarP(&a.envFile, "env-file", "e", ".env", "Path to .env file")
	rootCmd.PersistentFlags().StringVarP(&a.logLevel, "log-level", "l", "", "Log level (debug, info, warn, error)")

	rootCmd.AddCommand(
		newGenerateCmd(a),
		newInspectCmd(a),
		newPullCmd(a),
		newWatchCmd(a),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// setup configures logging, loads the .env file and resolves the config.
// Flags win over the config file and the environment.
func (a *app) setup(cmd *cobra.Command, args []string) error {
	a.logger = utils.SetupLogging(a.logLevel)

	utils.LoadEnvironmentVariables(a.envFile, a.logger)

	cfg, err := config.Load(a.configFile, a.logger)
	if err != nil {
		return err
	}
	a.cfg = cfg

	if !cmd.Flags().Changed("log-level") && cfg.LogLevel != "" {
		level, err := logrus.ParseLevel(cfg.LogLevel)
		if err != nil {
			a.logger.Warningf("Ignoring invalid log level %q from config", cfg.LogLevel)
		} else {
			a.logger.SetLevel(level)
		}
	}
	return nil
}
