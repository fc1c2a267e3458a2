package campaign_handler

import (
	"context"
	"fmt"

	"dndbot/src-server/campaign"
	"dndbot/src-server/handler/interact"
	"dndbot/src-server/utils"

	"github.com/bwmarrin/discordgo"
)

func rename(as *utils.AppState, cmdInfo *[]*discordgo.ApplicationCommandOption, cmdHandler map[string]utils.Handler) {
	id := "rename"
	*cmdInfo = append(*cmdInfo, &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionSubCommand,
		Name:        id,
		Description: "Rename a campaign.",
		Options: []*discordgo.ApplicationCommandOption{
			campaignOption("Campaign to rename."),
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "name",
				Description: "New name.",
				Required:    true,
				MaxLength:   100,
			},
		},
	})
	cmdHandler[id] = renameHandler(as)
}

func renameHandler(as *utils.AppState) utils.Handler {
	return func(s *discordgo.Session, i *discordgo.InteractionCreate) error {
		const where = "campaign_handler.renameHandler"
		as.InteractRespDefer(s, i, false)

		caller, setting, ok, err := interact.Member(as, s, i, where)
		if !ok {
			return err
		}
		_, options := interact.SubcommandOptions(i)
		ref := campaign.ByName(options.String("campaign"))

		current, err := as.Registry.Get(context.Background(), as.BunDB, caller.GuildID, ref)
		if err != nil {
			return interact.Fail(as, s, i, where, err)
		}
		if !caller.CanManageCampaign(setting, current) {
			return interact.Deny(as, s, i)
		}

		renamed, err := as.Registry.Rename(context.Background(), as.BunDB, caller.GuildID, campaign.ByID(current.ID), options.String("name"))
		if err != nil {
			return interact.Fail(as, s, i, where, err)
		}
		as.InteractRespEdit(s, i.Interaction, fmt.Sprintf("Campaign **%s** is now **%s**.", current.Name, renamed.Name), nil, nil)
		return nil
	}
}
