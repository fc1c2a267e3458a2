package model

import "github.com/uptrace/bun"

// Per-guild role bindings. A zero role id means the binding is unset.
type Setting struct {
	bun.BaseModel `bun:"table:settings,alias:setting"`

	GuildID         int64 `bun:"guild_id,pk"`
	RequiredRoleID  int64 `bun:"required_role_id,nullzero"`
	OrganizerRoleID int64 `bun:"organizer_role_id,nullzero"`
	NotifyChannelID int64 `bun:"notify_channel_id,nullzero"`
}
