package campaign_handler

import (
	"context"

	"dndbot/src-server/campaign"
	"dndbot/src-server/embed"
	"dndbot/src-server/handler/interact"
	"dndbot/src-server/utils"

	"github.com/bwmarrin/discordgo"
)

func create(as *utils.AppState, cmdInfo *[]*discordgo.ApplicationCommandOption, cmdHandler map[string]utils.Handler) {
	id := "create"
	*cmdInfo = append(*cmdInfo, &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionSubCommand,
		Name:        id,
		Description: "Create a campaign, owned by you.",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "name",
				Description: "Name of the campaign, unique in this server.",
				Required:    true,
				MaxLength:   100,
			},
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "description",
				Description: "What the campaign is about.",
			},
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "link",
				Description: "Link to the campaign notes, map or VTT.",
			},
		},
	})
	cmdHandler[id] = createHandler(as)
}

func createHandler(as *utils.AppState) utils.Handler {
	return func(s *discordgo.Session, i *discordgo.InteractionCreate) error {
		const where = "campaign_handler.createHandler"
		as.InteractRespDefer(s, i, false)

		caller, setting, ok, err := interact.Member(as, s, i, where)
		if !ok {
			return err
		}
		if !caller.CanOrganize(setting) {
			return interact.Deny(as, s, i)
		}

		_, options := interact.SubcommandOptions(i)
		created, err := as.Registry.Create(context.Background(), as.BunDB, campaign.CreateParams{
			GuildID:     caller.GuildID,
			OwnerID:     caller.UserID,
			Name:        options.String("name"),
			Description: options.String("description"),
			Link:        options.String("link"),
		})
		if err != nil {
			return interact.Fail(as, s, i, where, err)
		}
		as.InteractRespEdit(s, i.Interaction, "Campaign created.", []*discordgo.MessageEmbed{embed.Campaign(created)}, nil)
		return nil
	}
}
