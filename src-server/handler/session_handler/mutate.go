package session_handler

import (
	"context"

	"dndbot/src-server/embed"
	"dndbot/src-server/handler/interact"
	"dndbot/src-server/model"
	"dndbot/src-server/utils"

	"github.com/bwmarrin/discordgo"
)

func reschedule(as *utils.AppState, cmdInfo *[]*discordgo.ApplicationCommandOption, cmdHandler map[string]utils.Handler) {
	id := "reschedule"
	*cmdInfo = append(*cmdInfo, &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionSubCommand,
		Name:        id,
		Description: "Move a session to another date.",
		Options: []*discordgo.ApplicationCommandOption{
			sessionOption(),
			dateOption("date", "New date and time (YYYY-MM-DD HH:MM)."),
		},
	})
	cmdHandler[id] = mutateHandler(as, "session_handler.rescheduleHandler", "Session rescheduled.",
		func(ctx context.Context, as *utils.AppState, caller interact.Caller, session *model.Session, options interact.OptionMap) (*model.Session, error) {
			return as.Scheduler.Reschedule(ctx, as.BunDB, caller.GuildID, session.ID, options.String("date"))
		})
}

func relocate(as *utils.AppState, cmdInfo *[]*discordgo.ApplicationCommandOption, cmdHandler map[string]utils.Handler) {
	id := "relocate"
	*cmdInfo = append(*cmdInfo, &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionSubCommand,
		Name:        id,
		Description: "Change where a session takes place.",
		Options: []*discordgo.ApplicationCommandOption{
			sessionOption(),
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "location",
				Description: "New location, leave empty to clear it.",
			},
		},
	})
	cmdHandler[id] = mutateHandler(as, "session_handler.relocateHandler", "Session moved.",
		func(ctx context.Context, as *utils.AppState, caller interact.Caller, session *model.Session, options interact.OptionMap) (*model.Session, error) {
			return as.Scheduler.Relocate(ctx, as.BunDB, caller.GuildID, session.ID, options.String("location"))
		})
}

func status(as *utils.AppState, cmdInfo *[]*discordgo.ApplicationCommandOption, cmdHandler map[string]utils.Handler) {
	id := "status"
	choices := make([]*discordgo.ApplicationCommandOptionChoice, len(model.SessionStatuses))
	for idx, st := range model.SessionStatuses {
		choices[idx] = &discordgo.ApplicationCommandOptionChoice{Name: st.String(), Value: int(st)}
	}
	*cmdInfo = append(*cmdInfo, &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionSubCommand,
		Name:        id,
		Description: "Set the status of a session.",
		Options: []*discordgo.ApplicationCommandOption{
			sessionOption(),
			{
				Type:        discordgo.ApplicationCommandOptionInteger,
				Name:        "status",
				Description: "New status.",
				Required:    true,
				Choices:     choices,
			},
		},
	})
	cmdHandler[id] = mutateHandler(as, "session_handler.statusHandler", "Session status updated.",
		func(ctx context.Context, as *utils.AppState, caller interact.Caller, session *model.Session, options interact.OptionMap) (*model.Session, error) {
			return as.Scheduler.SetStatus(ctx, as.BunDB, caller.GuildID, session.ID, model.SessionStatus(options.Int("status", -1)))
		})
}

func cancel(as *utils.AppState, cmdInfo *[]*discordgo.ApplicationCommandOption, cmdHandler map[string]utils.Handler) {
	id := "cancel"
	*cmdInfo = append(*cmdInfo, &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionSubCommand,
		Name:        id,
		Description: "Cancel a session.",
		Options: []*discordgo.ApplicationCommandOption{
			sessionOption(),
		},
	})
	cmdHandler[id] = mutateHandler(as, "session_handler.cancelHandler", "Session cancelled.",
		func(ctx context.Context, as *utils.AppState, caller interact.Caller, session *model.Session, options interact.OptionMap) (*model.Session, error) {
			return as.Scheduler.Cancel(ctx, as.BunDB, caller.GuildID, session.ID)
		})
}

type mutation func(ctx context.Context, as *utils.AppState, caller interact.Caller, session *model.Session, options interact.OptionMap) (*model.Session, error)

// mutateHandler wraps a single-session change: defer, permission check,
// apply, render the updated session.
func mutateHandler(as *utils.AppState, where string, done string, apply mutation) utils.Handler {
	return func(s *discordgo.Session, i *discordgo.InteractionCreate) error {
		session, caller, options, ok, err := managedSession(as, s, i, where)
		if !ok {
			return err
		}
		updated, err := apply(context.Background(), as, caller, session, options)
		if err != nil {
			return interact.Fail(as, s, i, where, err)
		}
		as.InteractRespEdit(s, i.Interaction, done, []*discordgo.MessageEmbed{embed.Session(as.Clock, updated, nil)}, nil)
		return nil
	}
}
