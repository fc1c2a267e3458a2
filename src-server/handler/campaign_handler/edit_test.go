package campaign_handler

import (
	"testing"

	"dndbot/src-server/handler/interact"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPatchFrom(t *testing.T) {
	patch := patchFrom(interact.NewOptionMap(nil))
	assert.Nil(t, patch.Description)
	assert.Nil(t, patch.Link)
	assert.Nil(t, patch.OwnerID)
	assert.Nil(t, patch.Name)

	patch = patchFrom(interact.NewOptionMap([]*discordgo.ApplicationCommandInteractionDataOption{
		{Name: "description", Type: discordgo.ApplicationCommandOptionString, Value: "  "},
		{Name: "owner", Type: discordgo.ApplicationCommandOptionUser, Value: "80351110224678912"},
	}))
	require.NotNil(t, patch.Description)
	assert.Equal(t, "", *patch.Description)
	assert.Nil(t, patch.Link)
	require.NotNil(t, patch.OwnerID)
	assert.Equal(t, int64(80351110224678912), *patch.OwnerID)
}
