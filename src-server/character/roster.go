// Package character keeps the player characters registered to campaigns.
package character

import (
	"context"
	"fmt"
	"strings"

	"dndbot/src-server/apperr"
	"dndbot/src-server/campaign"
	"dndbot/src-server/model"

	"github.com/uptrace/bun"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// cleanup strips spaces, title-cases words and removes a trailing period.
func cleanup(s string) string {
	s = strings.TrimSpace(s)
	s = cases.Title(language.English).String(s)
	s = strings.TrimSuffix(s, ".")
	return s
}

type Roster struct {
	campaigns *campaign.Registry
}

func NewRoster(campaigns *campaign.Registry) *Roster {
	return &Roster{campaigns: campaigns}
}

type CreateParams struct {
	GuildID  int64
	Campaign campaign.Ref
	PlayerID int64
	Name     string
	Race     string
	Class    string
}

// Create registers a character in a live campaign. Names are unique per
// campaign; race and class are normalized ("half-elf" -> "Half-Elf").
func (r *Roster) Create(ctx context.Context, db bun.IDB, p CreateParams) (*model.Character, error) {
	const op = "(*Roster).Create"
	character := &model.Character{
		PlayerID: p.PlayerID,
		Name:     strings.TrimSpace(p.Name),
		Race:     cleanup(p.Race),
		Class:    cleanup(p.Class),
	}
	switch {
	case character.PlayerID == 0:
		return nil, apperr.InvalidInput(op, "player id is required")
	case character.Name == "":
		return nil, apperr.InvalidInput(op, "character name is blank")
	case character.Race == "":
		return nil, apperr.InvalidInput(op, "race is blank")
	case character.Class == "":
		return nil, apperr.InvalidInput(op, "class is blank")
	}

	if err := db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		c, err := r.campaigns.Get(ctx, tx, p.GuildID, p.Campaign)
		if err != nil {
			return err
		}
		character.CampaignID = c.ID
		character.Campaign = c
		if _, err := tx.NewInsert().
			Model(character).
			Exec(ctx); err != nil {
			if apperr.IsUniqueViolation(err) {
				return &apperr.Error{
					Kind: apperr.KindDuplicateName,
					Op:   op,
					Msg:  fmt.Sprintf("character %q already exists in %q", character.Name, c.Name),
					Err:  err,
				}
			}
			return apperr.Storage(op, err)
		}
		return nil
	}); err != nil {
		return nil, apperr.Storage(op, err)
	}

	return character, nil
}

func (r *Roster) List(ctx context.Context, db bun.IDB, guildID int64, ref campaign.Ref) ([]model.Character, error) {
	const op = "(*Roster).List"
	c, err := r.campaigns.Get(ctx, db, guildID, ref)
	if err != nil {
		return nil, err
	}
	characters := make([]model.Character, 0)
	if err := db.NewSelect().
		Model(&characters).
		Where("pc.campaign_id = ?", c.ID).
		OrderExpr("pc.name ASC").
		Scan(ctx); err != nil {
		return nil, apperr.Storage(op, err)
	}
	for i := range characters {
		characters[i].Campaign = c
	}
	return characters, nil
}

// ListForPlayer lists a player's characters across the guild's live
// campaigns.
func (r *Roster) ListForPlayer(ctx context.Context, db bun.IDB, guildID int64, playerID int64) ([]model.Character, error) {
	const op = "(*Roster).ListForPlayer"
	characters := make([]model.Character, 0)
	if err := db.NewSelect().
		Model(&characters).
		Relation("Campaign").
		Where("campaign.guild_id = ?", guildID).
		Where("NOT campaign.deleted").
		Where("pc.player_id = ?", playerID).
		OrderExpr("campaign.name ASC, pc.name ASC").
		Scan(ctx); err != nil {
		return nil, apperr.Storage(op, err)
	}
	return characters, nil
}

// Remove deletes a character owned by playerID. Someone else's character is
// reported as not found.
func (r *Roster) Remove(ctx context.Context, db bun.IDB, guildID int64, characterID int64, playerID int64) error {
	const op = "(*Roster).Remove"
	res, err := db.NewDelete().
		Model((*model.Character)(nil)).
		Where("id = ?", characterID).
		Where("player_id = ?", playerID).
		Where("campaign_id IN (?)", db.NewSelect().
			Model((*model.Campaign)(nil)).
			Column("id").
			Where("guild_id = ?", guildID)).
		Exec(ctx)
	if err != nil {
		return apperr.Storage(op, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return apperr.Newf(apperr.KindNotFound, op, "character #%d not found", characterID)
	}
	return nil
}
