package migrations

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(Up0001, Down0001)
}

func Up0001(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `
CREATE TABLE configs (
	id BIGINT PRIMARY KEY,
	challenge_started BOOLEAN NOT NULL DEFAULT FALSE,
	tick_duration_seconds INTEGER NOT NULL,
	ticks_count BIGINT NOT NULL DEFAULT 0,
	updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT current_timestamp
);
`)
	if err != nil {
		return err
	}

	return nil
}

func Down0001(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `DROP TABLE configs;`)
	if err != nil {
		return err
	}

	return nil
}
