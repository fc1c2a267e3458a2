package character_handler

import (
	"context"

	"dndbot/src-server/campaign"
	"dndbot/src-server/discordid"
	"dndbot/src-server/embed"
	"dndbot/src-server/handler/interact"
	"dndbot/src-server/model"
	"dndbot/src-server/utils"

	"github.com/bwmarrin/discordgo"
)

func list(as *utils.AppState, cmdInfo *[]*discordgo.ApplicationCommandOption, cmdHandler map[string]utils.Handler) {
	id := "list"
	*cmdInfo = append(*cmdInfo, &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionSubCommand,
		Name:        id,
		Description: "List the characters of a campaign or of a player.",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:         discordgo.ApplicationCommandOptionString,
				Name:         "campaign",
				Description:  "Campaign to list.",
				Autocomplete: true,
			},
			{
				Type:        discordgo.ApplicationCommandOptionUser,
				Name:        "player",
				Description: "Player to list, yourself by default.",
			},
		},
	})
	cmdHandler[id] = listHandler(as)
}

func listHandler(as *utils.AppState) utils.Handler {
	return func(s *discordgo.Session, i *discordgo.InteractionCreate) error {
		const where = "character_handler.listHandler"
		as.InteractRespDefer(s, i, true)

		caller, _, ok, err := interact.Member(as, s, i, where)
		if !ok {
			return err
		}
		_, options := interact.SubcommandOptions(i)

		var (
			title      string
			characters []model.Character
		)
		if name := options.String("campaign"); name != "" {
			title = "Characters of " + name
			characters, err = as.Roster.List(context.Background(), as.BunDB, caller.GuildID, campaign.ByName(name))
		} else {
			player := options.Snowflake("player")
			if player == 0 {
				player = caller.UserID
			}
			title = "Characters"
			if player != caller.UserID {
				title = "Characters of player " + discordid.Format(player)
			}
			characters, err = as.Roster.ListForPlayer(context.Background(), as.BunDB, caller.GuildID, player)
		}
		if err != nil {
			return interact.Fail(as, s, i, where, err)
		}
		as.InteractRespEdit(s, i.Interaction, "", []*discordgo.MessageEmbed{embed.Characters(title, characters)}, nil)
		return nil
	}
}
