package handler

import (
	"testing"

	"dndbot/src-server/utils"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHelpText(t *testing.T) {
	config, err := utils.NewConfig(func(key string) string {
		return map[string]string{
			"DISCORD_APP_TOKEN": "token-value",
			"DISCORD_CLIENT_ID": "1",
			"TIMEZONE":          "UTC",
		}[key]
	})
	require.NoError(t, err)
	as := utils.NewAppState(config, nil, nil)
	t.Cleanup(as.GracefulShutdown)

	Ping(as)
	as.AddAppCmdInfo("campaign", &discordgo.ApplicationCommand{
		Name: "campaign",
		Options: []*discordgo.ApplicationCommandOption{
			{Type: discordgo.ApplicationCommandOptionSubCommand, Name: "create", Description: "Create a campaign."},
		},
	})

	text := helpText(as)
	assert.Contains(t, text, "`/ping` Check that the bot is alive.")
	assert.Contains(t, text, "`/campaign create` Create a campaign.")
	assert.Contains(t, text, "`YYYY-MM-DD HH:MM`")
	assert.Contains(t, text, "UTC")
}
