package migrations

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upCreateBookingsTable, downCreateBookingsTable)
}

func upCreateBookingsTable(ctx context.Context, tx *sql.Tx) error {
	query := `
	CREATE TABLE bookings (
	  id UUID PRIMARY KEY,
	  member_id UUID NOT NULL REFERENCES members(id) ON DELETE CASCADE,
	  session_id UUID NOT NULL REFERENCES class_sessions(id) ON DELETE CASCADE,
	  status TEXT NOT NULL CHECK (status IN ('CONFIRMED', 'CANCELLED', 'ATTENDED')),
	  created_at TIMESTAMP WITH TIME ZONE DEFAULT now()
	);
	CREATE INDEX idx_bookings_member ON bookings(member_id);
	CREATE INDEX idx_bookings_session ON bookings(session_id);
	CREATE UNIQUE INDEX idx_bookings_confirmed_once
	  ON bookings(member_id, session_id) WHERE status = 'CONFIRMED';
	`

	_, err := tx.ExecContext(ctx, query)
	return err
}

func downCreateBookingsTable(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `DROP TABLE IF EXISTS bookings;`)
	return err
}
