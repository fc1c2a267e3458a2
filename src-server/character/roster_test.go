package character_test

import (
	"context"
	"testing"
	"time"

	"dndbot/src-server/apperr"
	"dndbot/src-server/campaign"
	"dndbot/src-server/character"
	"dndbot/src-server/datetime"
	"dndbot/src-server/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	guild  int64 = 900
	player int64 = 5
)

func TestRoster(t *testing.T) {
	ctx := context.Background()
	db := testutil.MustOpenDB(t)
	registry := campaign.NewRegistry(datetime.Fixed(time.Date(2029, 1, 1, 0, 0, 0, 0, time.UTC)))
	roster := character.NewRoster(registry)

	for _, name := range []string{"Strahd", "Avernus"} {
		_, err := registry.Create(ctx, db, campaign.CreateParams{GuildID: guild, OwnerID: 1, Name: name})
		require.NoError(t, err)
	}

	created, err := roster.Create(ctx, db, character.CreateParams{
		GuildID:  guild,
		Campaign: campaign.ByName("Strahd"),
		PlayerID: player,
		Name:     "Ireena",
		Race:     "  half-elf.",
		Class:    "wIZARD",
	})
	require.NoError(t, err)
	assert.Equal(t, "Half-Elf", created.Race)
	assert.Equal(t, "Wizard", created.Class)

	t.Run("duplicate name in campaign", func(t *testing.T) {
		_, err := roster.Create(ctx, db, character.CreateParams{
			GuildID: guild, Campaign: campaign.ByName("Strahd"), PlayerID: player + 1,
			Name: "Ireena", Race: "Human", Class: "Fighter",
		})
		assert.ErrorIs(t, err, apperr.ErrDuplicateName)
	})

	t.Run("same name in another campaign", func(t *testing.T) {
		_, err := roster.Create(ctx, db, character.CreateParams{
			GuildID: guild, Campaign: campaign.ByName("Avernus"), PlayerID: player,
			Name: "Ireena", Race: "Human", Class: "Fighter",
		})
		assert.NoError(t, err)
	})

	t.Run("missing campaign", func(t *testing.T) {
		_, err := roster.Create(ctx, db, character.CreateParams{
			GuildID: guild, Campaign: campaign.ByName("Nope"), PlayerID: player,
			Name: "X", Race: "Human", Class: "Fighter",
		})
		assert.ErrorIs(t, err, apperr.ErrNotFound)
	})

	t.Run("blank fields", func(t *testing.T) {
		_, err := roster.Create(ctx, db, character.CreateParams{
			GuildID: guild, Campaign: campaign.ByName("Strahd"), PlayerID: player,
			Name: "Y", Race: " ", Class: "Fighter",
		})
		assert.ErrorIs(t, err, apperr.ErrInvalidInput)
	})

	list, err := roster.List(ctx, db, guild, campaign.ByName("Strahd"))
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Ireena", list[0].Name)

	mine, err := roster.ListForPlayer(ctx, db, guild, player)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, "Avernus", mine[0].Campaign.Name)

	assert.ErrorIs(t, roster.Remove(ctx, db, guild, created.ID, player+1), apperr.ErrNotFound)
	assert.ErrorIs(t, roster.Remove(ctx, db, guild+1, created.ID, player), apperr.ErrNotFound)
	require.NoError(t, roster.Remove(ctx, db, guild, created.ID, player))

	list, err = roster.List(ctx, db, guild, campaign.ByName("Strahd"))
	require.NoError(t, err)
	assert.Empty(t, list)
}
