package migrations

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upCreateProgressRecordsTable, downCreateProgressRecordsTable)
}

func upCreateProgressRecordsTable(ctx context.Context, tx *sql.Tx) error {
	query := `
	CREATE TABLE progress_records (
	  member_id UUID NOT NULL REFERENCES members(id) ON DELETE CASCADE,
	  category TEXT NOT NULL,
	  total_points INT NOT NULL DEFAULT 0 CHECK (total_points >= 0),
	  last_updated TIMESTAMP WITH TIME ZONE DEFAULT now(),
	  PRIMARY KEY (member_id, category)
	);
	`

	_, err := tx.ExecContext(ctx, query)
	return err
}

func downCreateProgressRecordsTable(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `DROP TABLE IF EXISTS progress_records;`)
	return err
}
