package db

import (
	"context"
	"fmt"
)

// schema is idempotent; Migrate can run on every start.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS classified_ads (
		ad_id        UUID PRIMARY KEY,
		owner_id     UUID NOT NULL,
		approved_by  UUID,
		title        TEXT,
		ad_text      TEXT,
		price        NUMERIC(20, 4),
		currency     TEXT,
		state        TEXT NOT NULL,
		version      BIGINT NOT NULL DEFAULT 0,
		updated_at   TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS classified_ad_events (
		event_id     UUID PRIMARY KEY,
		ad_id        UUID NOT NULL REFERENCES classified_ads (ad_id) ON DELETE CASCADE,
		seq          BIGSERIAL,
		position     BIGINT NOT NULL,
		event_type   TEXT NOT NULL,
		payload      JSONB NOT NULL,
		recorded_at  TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS classified_ad_events_ad_seq_idx
		ON classified_ad_events (ad_id, seq)`,
	`CREATE TABLE IF NOT EXISTS user_profiles (
		user_id      UUID PRIMARY KEY,
		full_name    TEXT NOT NULL,
		display_name TEXT NOT NULL,
		version      BIGINT NOT NULL DEFAULT 0,
		updated_at   TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
}

// Migrate creates the tables the repositories need.
func (p *Postgres) Migrate(ctx context.Context) error {
	for i, stmt := range schema {
		if _, err := p.Pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migration step %d: %w", i+1, err)
		}
	}
	p.log.Info("database schema ready", "steps", len(schema))
	return nil
}
