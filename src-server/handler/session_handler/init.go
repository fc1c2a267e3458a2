package session_handler

import (
	"context"

	"dndbot/src-server/handler/interact"
	"dndbot/src-server/model"
	"dndbot/src-server/utils"

	"github.com/bwmarrin/discordgo"
)

// Init injects one "session" slash command with multiple subcommands
// into appCmdInfo and appCmdHandler in AppState.
func Init(as *utils.AppState) {
	localCmdInfo := make(
		[]*discordgo.ApplicationCommandOption, 0,
	)
	localCmdHandler := make(
		map[string]utils.Handler,
	)

	// injecting info and handler into 2 local maps
	create(as, &localCmdInfo, localCmdHandler)
	series(as, &localCmdInfo, localCmdHandler)
	reschedule(as, &localCmdInfo, localCmdHandler)
	relocate(as, &localCmdInfo, localCmdHandler)
	status(as, &localCmdInfo, localCmdHandler)
	cancel(as, &localCmdInfo, localCmdHandler)
	list(as, &localCmdInfo, localCmdHandler)
	respond(as, &localCmdInfo, localCmdHandler)
	dmrespond(as, &localCmdInfo, localCmdHandler)
	cancelAll(as, &localCmdInfo, localCmdHandler)
	purge(as, &localCmdInfo, localCmdHandler)

	id := "session"
	as.AddAppCmdInfo(id, &discordgo.ApplicationCommand{
		Name:        id,
		Description: "Session scheduling and RSVP commands.",
		Options:     localCmdInfo,
	})
	as.AddAppCmdHandler(id, func(s *discordgo.Session, i *discordgo.InteractionCreate) error {
		name, _ := interact.SubcommandOptions(i)
		if handler, ok := localCmdHandler[name]; ok {
			return handler(s, i)
		}
		return nil
	})
	as.AddAutocompleteHandler(id, func(s *discordgo.Session, i *discordgo.InteractionCreate) error {
		_, options := interact.SubcommandOptions(i)
		return interact.RespondAutocomplete(as, s, i, options)
	})
}

var minSessionID = float64(1)

func campaignOption(description string, required bool) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:         discordgo.ApplicationCommandOptionString,
		Name:         "campaign",
		Description:  description,
		Required:     required,
		Autocomplete: true,
	}
}

func sessionOption() *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionInteger,
		Name:        "session",
		Description: "Session number, as shown by /session list.",
		Required:    true,
		MinValue:    &minSessionID,
	}
}

func dateOption(name string, description string) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:         discordgo.ApplicationCommandOptionString,
		Name:         name,
		Description:  description,
		Required:     true,
		Autocomplete: true,
	}
}

// managedSession defers the reply, loads the session and checks the caller
// may change it. ok is false when the reply was already written.
func managedSession(as *utils.AppState, s *discordgo.Session, i *discordgo.InteractionCreate, where string) (*model.Session, interact.Caller, interact.OptionMap, bool, error) {
	as.InteractRespDefer(s, i, false)

	caller, setting, ok, err := interact.Member(as, s, i, where)
	if !ok {
		return nil, caller, nil, false, err
	}
	_, options := interact.SubcommandOptions(i)

	session, err := as.Scheduler.Get(context.Background(), as.BunDB, caller.GuildID, options.Int("session", 0))
	if err != nil {
		return nil, caller, options, false, interact.Fail(as, s, i, where, err)
	}
	if !caller.CanManageSession(setting, session) {
		return nil, caller, options, false, interact.Deny(as, s, i)
	}
	return session, caller, options, true, nil
}
