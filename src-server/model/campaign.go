package model

import (
	"github.com/uptrace/bun"
)

// Campaigns are never hard-deleted; Deleted hides them from name lookups
// while their sessions stay reachable by id.
type Campaign struct {
	bun.BaseModel `bun:"table:campaigns,alias:campaign"`

	ID          int64  `bun:"id,pk,autoincrement"`
	GuildID     int64  `bun:"guild_id,notnull"` // required
	OwnerID     int64  `bun:"owner_id,notnull"` // required
	Name        string `bun:"name,notnull"`     // required, unique per guild among non-deleted
	Description string `bun:"description,nullzero"`
	Link        string `bun:"link,nullzero"`
	Deleted     bool   `bun:"deleted,notnull,default:false"`
	CreatedAt   int64  `bun:"created_at,notnull"` // unix, UTC

	Sessions []*Session `bun:"rel:has-many,join:id=campaign_id"`
}
