package migrations

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(Up0004, Down0004)
}

func Up0004(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `
CREATE TABLE submissions (
	id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	attacker_id UUID NOT NULL REFERENCES users (id),
	target_id UUID NOT NULL REFERENCES users (id),
	chall_id UUID NOT NULL REFERENCES challenges (id),
	created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT current_timestamp,
	updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT current_timestamp
);
`)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `
CREATE INDEX idx_submissions_attacker ON submissions (attacker_id, chall_id);
CREATE INDEX idx_submissions_target ON submissions (target_id, chall_id);
`)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `
CREATE TABLE checks (
	id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	user_id UUID NOT NULL REFERENCES users (id),
	chall_id UUID NOT NULL REFERENCES challenges (id),
	tick_id BIGINT NOT NULL REFERENCES ticks (id),
	status TEXT NOT NULL,
	created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT current_timestamp,
	updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT current_timestamp
);
`)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `
CREATE INDEX idx_checks_user_tick ON checks (user_id, tick_id);
`)
	if err != nil {
		return err
	}

	return nil
}

func Down0004(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `DROP TABLE checks;`)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `DROP TABLE submissions;`)
	if err != nil {
		return err
	}

	return nil
}
