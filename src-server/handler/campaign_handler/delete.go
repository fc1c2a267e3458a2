package campaign_handler

import (
	"context"
	"fmt"

	"dndbot/src-server/campaign"
	"dndbot/src-server/handler/interact"
	"dndbot/src-server/utils"

	"github.com/bwmarrin/discordgo"
)

func delete(as *utils.AppState, cmdInfo *[]*discordgo.ApplicationCommandOption, cmdHandler map[string]utils.Handler) {
	id := "delete"
	*cmdInfo = append(*cmdInfo, &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionSubCommand,
		Name:        id,
		Description: "Delete a campaign. Its sessions and answers are kept.",
		Options: []*discordgo.ApplicationCommandOption{
			campaignOption("Campaign to delete."),
		},
	})
	cmdHandler[id] = deleteHandler(as)
}

func deleteHandler(as *utils.AppState) utils.Handler {
	return func(s *discordgo.Session, i *discordgo.InteractionCreate) error {
		const where = "campaign_handler.deleteHandler"
		as.InteractRespDefer(s, i, false)

		caller, setting, ok, err := interact.Member(as, s, i, where)
		if !ok {
			return err
		}
		_, options := interact.SubcommandOptions(i)

		current, err := as.Registry.Get(context.Background(), as.BunDB, caller.GuildID, campaign.ByName(options.String("campaign")))
		if err != nil {
			return interact.Fail(as, s, i, where, err)
		}
		if !caller.CanManageCampaign(setting, current) {
			return interact.Deny(as, s, i)
		}

		if err := as.Registry.SoftDelete(context.Background(), as.BunDB, caller.GuildID, campaign.ByID(current.ID)); err != nil {
			return interact.Fail(as, s, i, where, err)
		}
		as.InteractRespEdit(s, i.Interaction, fmt.Sprintf("Campaign **%s** deleted.", current.Name), nil, nil)
		return nil
	}
}
