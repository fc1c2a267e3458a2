package campaign_handler

import (
	"context"

	"dndbot/src-server/campaign"
	"dndbot/src-server/embed"
	"dndbot/src-server/handler/interact"
	"dndbot/src-server/utils"

	"github.com/bwmarrin/discordgo"
)

func edit(as *utils.AppState, cmdInfo *[]*discordgo.ApplicationCommandOption, cmdHandler map[string]utils.Handler) {
	id := "edit"
	*cmdInfo = append(*cmdInfo, &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionSubCommand,
		Name:        id,
		Description: "Change the description, link or owner of a campaign.",
		Options: []*discordgo.ApplicationCommandOption{
			campaignOption("Campaign to edit."),
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "description",
				Description: "New description.",
			},
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "link",
				Description: "New link.",
			},
			{
				Type:        discordgo.ApplicationCommandOptionUser,
				Name:        "owner",
				Description: "Hand the campaign over to another member.",
			},
		},
	})
	cmdHandler[id] = editHandler(as)
}

// patchFrom builds a campaign patch from the provided options only.
func patchFrom(options interact.OptionMap) campaign.Patch {
	patch := campaign.Patch{
		Description: options.OptionalString("description"),
		Link:        options.OptionalString("link"),
	}
	if options.Has("owner") {
		if owner := options.Snowflake("owner"); owner != 0 {
			patch.OwnerID = &owner
		}
	}
	return patch
}

func editHandler(as *utils.AppState) utils.Handler {
	return func(s *discordgo.Session, i *discordgo.InteractionCreate) error {
		const where = "campaign_handler.editHandler"
		as.InteractRespDefer(s, i, false)

		caller, setting, ok, err := interact.Member(as, s, i, where)
		if !ok {
			return err
		}
		_, options := interact.SubcommandOptions(i)
		patch := patchFrom(options)
		if patch.Description == nil && patch.Link == nil && patch.OwnerID == nil {
			as.InteractRespEdit(s, i.Interaction, "Nothing to change, pick at least one option.", nil, nil)
			return nil
		}

		current, err := as.Registry.Get(context.Background(), as.BunDB, caller.GuildID, campaign.ByName(options.String("campaign")))
		if err != nil {
			return interact.Fail(as, s, i, where, err)
		}
		if !caller.CanManageCampaign(setting, current) {
			return interact.Deny(as, s, i)
		}

		updated, err := as.Registry.Update(context.Background(), as.BunDB, caller.GuildID, campaign.ByID(current.ID), patch)
		if err != nil {
			return interact.Fail(as, s, i, where, err)
		}
		as.InteractRespEdit(s, i.Interaction, "Campaign updated.", []*discordgo.MessageEmbed{embed.Campaign(updated)}, nil)
		return nil
	}
}
