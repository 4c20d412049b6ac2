package migrations

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upCreateMembersTable, downCreateMembersTable)
}

func upCreateMembersTable(ctx context.Context, tx *sql.Tx) error {
	query := `
	CREATE TABLE members (
	  id UUID PRIMARY KEY,
	  email TEXT UNIQUE NOT NULL,
	  username TEXT NOT NULL,
	  password_hash TEXT NOT NULL,
	  full_name TEXT,
	  role TEXT NOT NULL DEFAULT 'MEMBER',
	  created_at TIMESTAMP WITH TIME ZONE DEFAULT now(),
	  updated_at TIMESTAMP WITH TIME ZONE DEFAULT now()
	);
	`

	_, err := tx.ExecContext(ctx, query)
	return err
}

func downCreateMembersTable(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `DROP TABLE IF EXISTS members;`)
	return err
}
