// Package settings stores per-guild role bindings read by the command layer's
// permission checks.
package settings

import (
	"context"
	"database/sql"
	"errors"

	"dndbot/src-server/apperr"
	"dndbot/src-server/model"

	"github.com/uptrace/bun"
)

func Get(ctx context.Context, db bun.IDB, guildID int64) (*model.Setting, error) {
	const op = "settings.Get"
	setting := new(model.Setting)
	if err := db.NewSelect().
		Model(setting).
		Where("guild_id = ?", guildID).
		Scan(ctx); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound(op, "settings")
		}
		return nil, apperr.Storage(op, err)
	}
	return setting, nil
}

// GetOrDefault returns the stored settings, or an all-unset row when the
// guild never configured any.
func GetOrDefault(ctx context.Context, db bun.IDB, guildID int64) (*model.Setting, error) {
	setting, err := Get(ctx, db, guildID)
	if errors.Is(err, apperr.ErrNotFound) {
		return &model.Setting{GuildID: guildID}, nil
	}
	return setting, err
}

func validate(op string, setting *model.Setting) error {
	switch {
	case setting.GuildID == 0:
		return apperr.InvalidInput(op, "guild id is required")
	case setting.RequiredRoleID < 0:
		return apperr.InvalidInput(op, "required role id is invalid")
	case setting.OrganizerRoleID < 0:
		return apperr.InvalidInput(op, "organizer role id is invalid")
	case setting.NotifyChannelID < 0:
		return apperr.InvalidInput(op, "notify channel id is invalid")
	}
	return nil
}

// Upsert replaces the guild's settings row. Zero ids mean unset.
func Upsert(ctx context.Context, db bun.IDB, setting *model.Setting) error {
	const op = "settings.Upsert"
	if err := validate(op, setting); err != nil {
		return err
	}
	if _, err := db.NewInsert().
		Model(setting).
		On("CONFLICT (guild_id) DO UPDATE").
		Set("required_role_id = EXCLUDED.required_role_id").
		Set("organizer_role_id = EXCLUDED.organizer_role_id").
		Set("notify_channel_id = EXCLUDED.notify_channel_id").
		Exec(ctx); err != nil {
		return apperr.Storage(op, err)
	}
	return nil
}

// Patch changes only the non-nil bindings.
type Patch struct {
	RequiredRoleID  *int64
	OrganizerRoleID *int64
	NotifyChannelID *int64
}

func Update(ctx context.Context, db bun.IDB, guildID int64, patch Patch) (*model.Setting, error) {
	const op = "settings.Update"
	var setting *model.Setting
	if err := db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		current, err := GetOrDefault(ctx, tx, guildID)
		if err != nil {
			return err
		}
		if patch.RequiredRoleID != nil {
			current.RequiredRoleID = *patch.RequiredRoleID
		}
		if patch.OrganizerRoleID != nil {
			current.OrganizerRoleID = *patch.OrganizerRoleID
		}
		if patch.NotifyChannelID != nil {
			current.NotifyChannelID = *patch.NotifyChannelID
		}
		setting = current
		return Upsert(ctx, tx, current)
	}); err != nil {
		return nil, apperr.Storage(op, err)
	}
	return setting, nil
}

// Clear drops the guild's settings; clearing an unconfigured guild is not an
// error.
func Clear(ctx context.Context, db bun.IDB, guildID int64) error {
	const op = "settings.Clear"
	if _, err := db.NewDelete().
		Model((*model.Setting)(nil)).
		Where("guild_id = ?", guildID).
		Exec(ctx); err != nil {
		return apperr.Storage(op, err)
	}
	return nil
}

// NotifyChannels maps guild ids to their notify channel, skipping guilds
// without one.
func NotifyChannels(ctx context.Context, db bun.IDB, guildIDs []int64) (map[int64]int64, error) {
	const op = "settings.NotifyChannels"
	result := make(map[int64]int64)
	if len(guildIDs) == 0 {
		return result, nil
	}
	rows := make([]model.Setting, 0)
	if err := db.NewSelect().
		Model(&rows).
		Where("guild_id IN (?)", bun.In(guildIDs)).
		Where("notify_channel_id IS NOT NULL").
		Scan(ctx); err != nil {
		return nil, apperr.Storage(op, err)
	}
	for _, row := range rows {
		result[row.GuildID] = row.NotifyChannelID
	}
	return result, nil
}
