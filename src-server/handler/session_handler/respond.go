package session_handler

import (
	"context"
	"fmt"

	"dndbot/src-server/attendance"
	"dndbot/src-server/discordid"
	"dndbot/src-server/embed"
	"dndbot/src-server/handler/interact"
	"dndbot/src-server/model"
	"dndbot/src-server/utils"

	"github.com/bwmarrin/discordgo"
)

func decisionOption() *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionInteger,
		Name:        "decision",
		Description: "Are you coming?",
		Required:    true,
		Choices: []*discordgo.ApplicationCommandOptionChoice{
			{Name: model.DecisionGoing.String(), Value: int(model.DecisionGoing)},
			{Name: model.DecisionNotGoing.String(), Value: int(model.DecisionNotGoing)},
		},
	}
}

func respond(as *utils.AppState, cmdInfo *[]*discordgo.ApplicationCommandOption, cmdHandler map[string]utils.Handler) {
	id := "respond"
	*cmdInfo = append(*cmdInfo, &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionSubCommand,
		Name:        id,
		Description: "Tell the organizer whether you are coming.",
		Options: []*discordgo.ApplicationCommandOption{
			sessionOption(),
			decisionOption(),
		},
	})
	cmdHandler[id] = respondHandler(as)
}

func dmrespond(as *utils.AppState, cmdInfo *[]*discordgo.ApplicationCommandOption, cmdHandler map[string]utils.Handler) {
	id := "dmrespond"
	*cmdInfo = append(*cmdInfo, &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionSubCommand,
		Name:        id,
		Description: "Answer for a player (organizers only).",
		Options: []*discordgo.ApplicationCommandOption{
			sessionOption(),
			{
				Type:        discordgo.ApplicationCommandOptionUser,
				Name:        "player",
				Description: "Player to answer for.",
				Required:    true,
			},
			decisionOption(),
		},
	})
	cmdHandler[id] = dmrespondHandler(as)
}

// renderAnswer shows the session with its updated buckets.
func renderAnswer(as *utils.AppState, s *discordgo.Session, i *discordgo.InteractionCreate, where string, guildID int64, session *model.Session, content string) error {
	responses, err := as.Ledger.ListForSession(context.Background(), as.BunDB, guildID, session.ID)
	if err != nil {
		return interact.Fail(as, s, i, where, err)
	}
	tally := attendance.Partition(responses)
	as.InteractRespEdit(s, i.Interaction, content, []*discordgo.MessageEmbed{embed.Session(as.Clock, session, &tally)}, nil)
	return nil
}

func respondHandler(as *utils.AppState) utils.Handler {
	return func(s *discordgo.Session, i *discordgo.InteractionCreate) error {
		const where = "session_handler.respondHandler"
		as.InteractRespDefer(s, i, true)

		caller, _, ok, err := interact.Member(as, s, i, where)
		if !ok {
			return err
		}
		_, options := interact.SubcommandOptions(i)
		sessionID := options.Int("session", 0)
		decision := model.Decision(options.Int("decision", -1))

		response, err := as.Ledger.Record(context.Background(), as.BunDB, caller.GuildID, sessionID, caller.UserID, decision)
		if err != nil {
			return interact.Fail(as, s, i, where, err)
		}
		session, err := as.Scheduler.Get(context.Background(), as.BunDB, caller.GuildID, sessionID)
		if err != nil {
			return interact.Fail(as, s, i, where, err)
		}
		return renderAnswer(as, s, i, where, caller.GuildID, session,
			fmt.Sprintf("Answer recorded: **%s**.", response.Decision))
	}
}

func dmrespondHandler(as *utils.AppState) utils.Handler {
	return func(s *discordgo.Session, i *discordgo.InteractionCreate) error {
		const where = "session_handler.dmrespondHandler"
		session, caller, options, ok, err := managedSession(as, s, i, where)
		if !ok {
			return err
		}
		player := options.Snowflake("player")
		decision := model.Decision(options.Int("decision", -1))

		response, err := as.Ledger.RecordOnBehalf(context.Background(), as.BunDB, caller.GuildID, session.ID, player, decision, caller.UserID)
		if err != nil {
			return interact.Fail(as, s, i, where, err)
		}
		return renderAnswer(as, s, i, where, caller.GuildID, session,
			fmt.Sprintf("Answer recorded for %s: **%s**.", discordid.Mention(player), response.Decision))
	}
}
