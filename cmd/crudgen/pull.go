package main

import (
	"errors"

	"github.com/spf13/cobra"
	"github.com/vitebski/laravel-crud-generator/internal/connector"
	"github.com/vitebski/laravel-crud-generator/internal/pipeline"
	"github.com/vitebski/laravel-crud-generator/internal/utils"
)

func newPullCmd(a *app) *cobra.Command {
	var (
		host     string
		user     string
		password string
		database string
		port     string
	)

	cmd := &cobra.Command{
		Use:   "pull [tables...]",
		Short: "Generate artifacts from the tables of a live MySQL database",
		Long: `Reads SHOW CREATE TABLE output for the given tables, or for every base
table when none are given, and generates artifacts from it.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			applyGenerateFlags(cmd.Flags(), a.cfg)

			mysqlCfg := a.cfg.MySQL
			flags := cmd.Flags()
			if flags.Changed("host") {
				mysqlCfg.Host = host
			}
			if flags.Changed("user") {
				mysqlCfg.User = user
			}
			if flags.Changed("password") {
				mysqlCfg.Password = password
			}
			if flags.Changed("database") {
				mysqlCfg.Database = database
			}
			if flags.Changed("port") {
				mysqlCfg.Port = port
			}

			if !utils.ValidateConnectionParams(mysqlCfg.Host, mysqlCfg.User, mysqlCfg.Password, mysqlCfg.Database, mysqlCfg.Port, a.logger) {
				return errors.New("invalid MySQL connection parameters")
			}

			ctx := cmd.Context()
			db := connector.NewDatabaseConnector(mysqlCfg.Host, mysqlCfg.User, mysqlCfg.Password, mysqlCfg.Database, mysqlCfg.Port, a.logger)
			if err := db.Connect(ctx); err != nil {
				return err
			}
			defer db.Disconnect()

			tables := args
			if len(tables) == 0 {
				var err error
				if tables, err = db.ListTables(ctx); err != nil {
					return err
				}
				if len(tables) == 0 {
					return errors.New("no tables found in database")
				}
			}

			inputs := make([]pipeline.Input, 0, len(tables))
			for _, table := range tables {
				ddl, err := db.ShowCreateTable(ctx, table)
				if err != nil {
					return err
				}
				inputs = append(inputs, pipeline.Input{Source: "mysql:" + table, DDL: ddl})
			}

			return a.generate(ctx, cmd.OutOrStdout(), inputs)
		},
	}

	cmd.Flags().StringVarP(&host, "host", "H", "", "MySQL host (default: localhost)")
	cmd.Flags().StringVarP(&user, "user", "u", "", "MySQL user (default: root)")
	cmd.Flags().StringVarP(&password, "password", "p", "", "MySQL password")
	cmd.Flags().StringVarP(&database, "database", "d", "", "MySQL database name")
	cmd.Flags().StringVarP(&port, "port", "P", "", "MySQL port (default: 3306)")
	addGenerateFlags(cmd.Flags())
	return cmd
}
