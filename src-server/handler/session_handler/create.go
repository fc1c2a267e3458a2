package session_handler

import (
	"context"

	"dndbot/src-server/campaign"
	"dndbot/src-server/embed"
	"dndbot/src-server/handler/interact"
	"dndbot/src-server/schedule"
	"dndbot/src-server/utils"

	"github.com/bwmarrin/discordgo"
)

func create(as *utils.AppState, cmdInfo *[]*discordgo.ApplicationCommandOption, cmdHandler map[string]utils.Handler) {
	id := "create"
	*cmdInfo = append(*cmdInfo, &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionSubCommand,
		Name:        id,
		Description: "Schedule a session. The date must be in the future.",
		Options: []*discordgo.ApplicationCommandOption{
			campaignOption("Campaign the session belongs to.", true),
			dateOption("date", "Date and time of the session (YYYY-MM-DD HH:MM)."),
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "location",
				Description: "Where to meet.",
			},
		},
	})
	cmdHandler[id] = createHandler(as)
}

func createHandler(as *utils.AppState) utils.Handler {
	return func(s *discordgo.Session, i *discordgo.InteractionCreate) error {
		const where = "session_handler.createHandler"
		as.InteractRespDefer(s, i, false)

		caller, setting, ok, err := interact.Member(as, s, i, where)
		if !ok {
			return err
		}
		_, options := interact.SubcommandOptions(i)

		target, err := as.Registry.Get(context.Background(), as.BunDB, caller.GuildID, campaign.ByName(options.String("campaign")))
		if err != nil {
			return interact.Fail(as, s, i, where, err)
		}
		if !caller.CanManageCampaign(setting, target) {
			return interact.Deny(as, s, i)
		}

		session, err := as.Scheduler.Create(context.Background(), as.BunDB, schedule.CreateParams{
			GuildID:     caller.GuildID,
			Campaign:    campaign.ByID(target.ID),
			OrganizerID: caller.UserID,
			Location:    options.String("location"),
			ScheduledAt: options.String("date"),
		})
		if err != nil {
			return interact.Fail(as, s, i, where, err)
		}
		session.Campaign = target
		as.InteractRespEdit(s, i.Interaction, "Session created.", []*discordgo.MessageEmbed{embed.Session(as.Clock, session, nil)}, nil)
		return nil
	}
}
