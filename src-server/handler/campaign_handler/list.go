package campaign_handler

import (
	"context"

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
		Description: "List the campaigns of this server.",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionUser,
				Name:        "owner",
				Description: "Only campaigns owned by this member.",
			},
		},
	})
	cmdHandler[id] = listHandler(as)
}

func listHandler(as *utils.AppState) utils.Handler {
	return func(s *discordgo.Session, i *discordgo.InteractionCreate) error {
		const where = "campaign_handler.listHandler"
		as.InteractRespDefer(s, i, true)

		caller, _, ok, err := interact.Member(as, s, i, where)
		if !ok {
			return err
		}
		_, options := interact.SubcommandOptions(i)

		var campaigns []model.Campaign
		if owner := options.Snowflake("owner"); owner != 0 {
			campaigns, err = as.Registry.ListByOwner(context.Background(), as.BunDB, caller.GuildID, owner)
		} else {
			campaigns, err = as.Registry.List(context.Background(), as.BunDB, caller.GuildID)
		}
		if err != nil {
			return interact.Fail(as, s, i, where, err)
		}
		as.InteractRespEdit(s, i.Interaction, "", []*discordgo.MessageEmbed{embed.CampaignList(campaigns)}, nil)
		return nil
	}
}
