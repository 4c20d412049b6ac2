package migrations

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upCreateRefreshTokensTable, downCreateRefreshTokensTable)
}

func upCreateRefreshTokensTable(ctx context.Context, tx *sql.Tx) error {
	query := `
	CREATE TABLE refresh_tokens (
	  id UUID PRIMARY KEY,
	  member_id UUID NOT NULL REFERENCES members(id) ON DELETE CASCADE,
	  token TEXT NOT NULL,
	  expires_at TIMESTAMP WITH TIME ZONE NOT NULL,
	  revoked_at TIMESTAMP WITH TIME ZONE
	);
	CREATE INDEX idx_refresh_tokens_token ON refresh_tokens(token);
	`

	_, err := tx.ExecContext(ctx, query)
	return err
}

func downCreateRefreshTokensTable(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `DROP TABLE IF EXISTS refresh_tokens;`)
	return err
}
