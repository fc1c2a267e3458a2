package session_handler

import (
	"context"
	"log/slog"
	"time"

	"dndbot/src-server/attendance"
	"dndbot/src-server/campaign"
	"dndbot/src-server/embed"
	"dndbot/src-server/handler/interact"
	"dndbot/src-server/model"
	"dndbot/src-server/schedule"
	"dndbot/src-server/utils"

	"github.com/bwmarrin/discordgo"
)

func list(as *utils.AppState, cmdInfo *[]*discordgo.ApplicationCommandOption, cmdHandler map[string]utils.Handler) {
	id := "list"
	*cmdInfo = append(*cmdInfo, &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionSubCommand,
		Name:        id,
		Description: "List upcoming sessions with who is going.",
		Options: []*discordgo.ApplicationCommandOption{
			campaignOption("Only sessions of this campaign.", false),
			{
				Type:        discordgo.ApplicationCommandOptionBoolean,
				Name:        "include-past",
				Description: "Also show sessions that already took place.",
			},
		},
	})
	cmdHandler[id] = listHandler(as)
}

// sessionEmbeds renders sessions with their Going / Not going buckets.
func sessionEmbeds(as *utils.AppState, sessions []model.Session) []*discordgo.MessageEmbed {
	embeds := make([]*discordgo.MessageEmbed, 0, len(sessions))
	for idx := range sessions {
		tally := attendance.PartitionPtr(sessions[idx].Responses)
		embeds = append(embeds, embed.Session(as.Clock, &sessions[idx], &tally))
	}
	return embeds
}

// followUp sends the embeds that did not fit in the first reply.
func followUp(as *utils.AppState, s *discordgo.Session, i *discordgo.InteractionCreate, chunks [][]*discordgo.MessageEmbed, hidden bool) {
	for _, chunk := range chunks {
		params := &discordgo.WebhookParams{Embeds: chunk}
		if hidden {
			params.Flags = discordgo.MessageFlagsEphemeral
		}
		startTimer := time.Now()
		if _, err := s.FollowupMessageCreate(i.Interaction, true, params); err != nil {
			slog.Warn("followUp: can't send follow-up message", "error", err)
			return
		}
		as.MetricChans.ObserveDiscordSend(startTimer)
	}
}

func listHandler(as *utils.AppState) utils.Handler {
	return func(s *discordgo.Session, i *discordgo.InteractionCreate) error {
		const where = "session_handler.listHandler"
		as.InteractRespDefer(s, i, false)

		caller, _, ok, err := interact.Member(as, s, i, where)
		if !ok {
			return err
		}
		_, options := interact.SubcommandOptions(i)

		includePast := options.Bool("include-past")
		filter := schedule.ListFilter{
			GuildID:          caller.GuildID,
			UpcomingOnly:     !includePast,
			ExcludeCancelled: !includePast,
			WithResponses:    true,
		}
		if name := options.String("campaign"); name != "" {
			ref := campaign.ByName(name)
			filter.Campaign = &ref
		}

		sessions, err := as.Scheduler.List(context.Background(), as.BunDB, filter)
		if err != nil {
			return interact.Fail(as, s, i, where, err)
		}
		if len(sessions) == 0 {
			as.InteractRespEdit(s, i.Interaction, "No sessions scheduled.", nil, nil)
			return nil
		}

		chunks := embed.Chunk(sessionEmbeds(as, sessions))
		as.InteractRespEdit(s, i.Interaction, "", chunks[0], nil)
		followUp(as, s, i, chunks[1:], false)
		return nil
	}
}
