package model

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/uptrace/bun"
)

// CreateSchema creates every table and index if missing, in one transaction.
func CreateSchema(ctx context.Context, db *bun.DB) error {
	if err := db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		for _, table := range []struct {
			model       any
			foreignKeys []string
		}{
			{model: (*Campaign)(nil)},
			{model: (*Session)(nil), foreignKeys: []string{`("campaign_id") REFERENCES "campaigns" ("id")`}},
			{model: (*Response)(nil), foreignKeys: []string{`("session_id") REFERENCES "sessions" ("id")`}},
			{model: (*Setting)(nil)},
			{model: (*Character)(nil), foreignKeys: []string{`("campaign_id") REFERENCES "campaigns" ("id")`}},
		} {
			q := tx.NewCreateTable().
				Model(table.model).
				IfNotExists()
			for _, fk := range table.foreignKeys {
				q = q.ForeignKey(fk)
			}
			if _, err := q.Exec(ctx); err != nil {
				return fmt.Errorf("create table %T: %w", table.model, err)
			}
		}

		// one live campaign name per guild
		if _, err := tx.NewCreateIndex().
			Model((*Campaign)(nil)).
			Unique().
			IfNotExists().
			Index("campaigns_guild_id_name_live_idx").
			Column("guild_id", "name").
			Where("NOT deleted").
			Exec(ctx); err != nil {
			return fmt.Errorf("create campaign name index: %w", err)
		}
		if _, err := tx.NewCreateIndex().
			Model((*Session)(nil)).
			IfNotExists().
			Index("sessions_campaign_id_scheduled_at_idx").
			Column("campaign_id", "scheduled_at").
			Exec(ctx); err != nil {
			return fmt.Errorf("create session index: %w", err)
		}
		return nil
	}); err != nil {
		return fmt.Errorf("CreateSchema: %w", err)
	}

	return nil
}
