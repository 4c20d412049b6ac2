package migrations

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upCreateClassSessionsTable, downCreateClassSessionsTable)
}

func upCreateClassSessionsTable(ctx context.Context, tx *sql.Tx) error {
	query := `
	CREATE TABLE class_sessions (
	  id UUID PRIMARY KEY,
	  class_id UUID NOT NULL REFERENCES gym_classes(id) ON DELETE CASCADE,
	  session_date DATE NOT NULL,
	  start_time TIMESTAMP WITH TIME ZONE NOT NULL,
	  end_time TIMESTAMP WITH TIME ZONE NOT NULL,
	  remaining_seats INT NOT NULL CHECK (remaining_seats >= 0),
	  created_at TIMESTAMP WITH TIME ZONE DEFAULT now()
	);
	CREATE INDEX idx_class_sessions_date ON class_sessions(session_date);
	CREATE INDEX idx_class_sessions_class ON class_sessions(class_id);
	`

	_, err := tx.ExecContext(ctx, query)
	return err
}

func downCreateClassSessionsTable(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `DROP TABLE IF EXISTS class_sessions;`)
	return err
}
