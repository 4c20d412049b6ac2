package db

import (
	"database/sql"

	"backend-gymflow/internal/config"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	_ "backend-gymflow/migrations"
)

var openSQLFn = sql.Open
var gooseUpFn = goose.Up

// RunMigrations applies pending goose migrations through the pgx stdlib driver.
func RunMigrations(cfg config.Config) error {
	conn, err := openSQLFn("pgx", cfg.PostgresURL)
	if err != nil {
		return err
	}
	defer conn.Close()

	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	return gooseUpFn(conn, "migrations")
}
