package session_handler

import (
	"context"
	"fmt"

	"dndbot/src-server/campaign"
	"dndbot/src-server/embed"
	"dndbot/src-server/handler/interact"
	"dndbot/src-server/schedule"
	"dndbot/src-server/utils"

	"github.com/bwmarrin/discordgo"
)

// RRULE bodies offered as "repeat" choices.
var repeatChoices = []*discordgo.ApplicationCommandOptionChoice{
	{Name: "every week", Value: "FREQ=WEEKLY"},
	{Name: "every two weeks", Value: "FREQ=WEEKLY;INTERVAL=2"},
	{Name: "every month", Value: "FREQ=MONTHLY"},
}

// seriesRule turns the repeat choice and count into an RRULE body. A custom
// rule wins over both.
func seriesRule(repeat string, count int64, custom string) string {
	if custom != "" {
		return custom
	}
	if repeat == "" {
		repeat = "FREQ=WEEKLY"
	}
	return fmt.Sprintf("%s;COUNT=%d", repeat, count)
}

func series(as *utils.AppState, cmdInfo *[]*discordgo.ApplicationCommandOption, cmdHandler map[string]utils.Handler) {
	id := "series"
	minCount := float64(2)
	*cmdInfo = append(*cmdInfo, &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionSubCommand,
		Name:        id,
		Description: "Schedule a recurring series of sessions.",
		Options: []*discordgo.ApplicationCommandOption{
			campaignOption("Campaign the sessions belong to.", true),
			dateOption("start", "Date and time of the first session (YYYY-MM-DD HH:MM)."),
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "repeat",
				Description: "How often to meet, weekly by default.",
				Choices:     repeatChoices,
			},
			{
				Type:        discordgo.ApplicationCommandOptionInteger,
				Name:        "count",
				Description: fmt.Sprintf("Number of sessions (2-%d), 4 by default.", schedule.MaxSeriesOccurrences),
				MinValue:    &minCount,
				MaxValue:    schedule.MaxSeriesOccurrences,
			},
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "rrule",
				Description: "Custom recurrence rule, e.g. FREQ=WEEKLY;BYDAY=FR;COUNT=6.",
			},
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "location",
				Description: "Where to meet.",
			},
		},
	})
	cmdHandler[id] = seriesHandler(as)
}

func seriesHandler(as *utils.AppState) utils.Handler {
	return func(s *discordgo.Session, i *discordgo.InteractionCreate) error {
		const where = "session_handler.seriesHandler"
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

		sessions, err := as.Scheduler.CreateSeries(context.Background(), as.BunDB, schedule.SeriesParams{
			CreateParams: schedule.CreateParams{
				GuildID:     caller.GuildID,
				Campaign:    campaign.ByID(target.ID),
				OrganizerID: caller.UserID,
				Location:    options.String("location"),
				ScheduledAt: options.String("start"),
			},
			RRule: seriesRule(options.String("repeat"), options.Int("count", 4), options.String("rrule")),
		})
		if err != nil {
			return interact.Fail(as, s, i, where, err)
		}

		embeds := make([]*discordgo.MessageEmbed, 0, len(sessions))
		for idx := range sessions {
			sessions[idx].Campaign = target
			embeds = append(embeds, embed.Session(as.Clock, &sessions[idx], nil))
		}
		chunks := embed.Chunk(embeds)
		as.InteractRespEdit(s, i.Interaction, fmt.Sprintf("%d sessions created.", len(sessions)), chunks[0], nil)
		followUp(as, s, i, chunks[1:], false)
		return nil
	}
}
