package main

import (
	"database/sql"

	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"

	"github.com/bytebank/bytebank-client/internal/config"
	"github.com/bytebank/bytebank-client/internal/docstore/sqlstore"
)

func main() {
	env, err := config.ProcessEnvironmentVariables()
	if err != nil {
		logrus.WithError(err).Fatal("ProcessEnvironmentVariables")
		return
	}

	db, err := sql.Open("sqlite", env.SQLitePath)
	if err != nil {
		logrus.WithError(err).Fatal("sql.Open")
		return
	}
	defer db.Close()

	if err := sqlstore.Migrate(db); err != nil {
		logrus.WithError(err).Fatal("sqlstore.Migrate")
		return
	}

	logrus.WithField("path", env.SQLitePath).Info("Migration status: up to date")
}
