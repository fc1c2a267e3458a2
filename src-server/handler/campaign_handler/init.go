package campaign_handler

import (
	"dndbot/src-server/handler/interact"
	"dndbot/src-server/utils"

	"github.com/bwmarrin/discordgo"
)

// Init injects one "campaign" slash command with multiple subcommands
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
	rename(as, &localCmdInfo, localCmdHandler)
	edit(as, &localCmdInfo, localCmdHandler)
	delete(as, &localCmdInfo, localCmdHandler)
	list(as, &localCmdInfo, localCmdHandler)

	id := "campaign"
	as.AddAppCmdInfo(id, &discordgo.ApplicationCommand{
		Name:        id,
		Description: "Campaign management commands.",
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

// campaignOption is the autocompleted campaign name every subcommand but
// create and list takes.
func campaignOption(description string) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:         discordgo.ApplicationCommandOptionString,
		Name:         "campaign",
		Description:  description,
		Required:     true,
		Autocomplete: true,
	}
}
