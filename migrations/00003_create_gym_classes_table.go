package migrations

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upCreateGymClassesTable, downCreateGymClassesTable)
}

func upCreateGymClassesTable(ctx context.Context, tx *sql.Tx) error {
	query := `
	CREATE TABLE gym_classes (
	  id UUID PRIMARY KEY,
	  name TEXT NOT NULL,
	  class_type TEXT NOT NULL,
	  instructor_name TEXT NOT NULL,
	  capacity INT NOT NULL CHECK (capacity > 0),
	  duration_minutes INT NOT NULL CHECK (duration_minutes > 0),
	  created_at TIMESTAMP WITH TIME ZONE DEFAULT now()
	);
	`

	_, err := tx.ExecContext(ctx, query)
	return err
}

func downCreateGymClassesTable(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `DROP TABLE IF EXISTS gym_classes;`)
	return err
}
