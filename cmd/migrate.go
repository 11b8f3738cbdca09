package cmd

import (
	"context"

	"github.com/vibast-solutions/ms-go-lubycash/config"
	"github.com/vibast-solutions/ms-go-lubycash/migrations"

	"github.com/pressly/goose/v3"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate [up|down|status|version|redo|reset]",
	Short: "Apply database schema migrations",
	Long:  `Run the embedded MySQL migrations with goose. Defaults to "up".`,
	Args:  cobra.MaximumNArgs(1),
	Run:   runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, args []string) {
	command := "up"
	if len(args) > 0 {
		command = args[0]
	}

	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}
	if err := configureLogging(cfg); err != nil {
		logrus.WithError(err).Fatal("Failed to configure logging")
	}

	db, err := openDB(cfg)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to connect to database")
	}
	defer db.Close()

	goose.SetBaseFS(migrations.FS)
	goose.SetLogger(logrus.StandardLogger())
	if err := goose.SetDialect("mysql"); err != nil {
		logrus.WithError(err).Fatal("Failed to set migration dialect")
	}

	logrus.WithField("command", command).Info("Running migrations")
	if err := goose.RunContext(context.Background(), command, db, "."); err != nil {
		logrus.WithError(err).WithField("command", command).Fatal("Migration failed")
	}
	logrus.WithField("command", command).Info("Migrations finished")
}
