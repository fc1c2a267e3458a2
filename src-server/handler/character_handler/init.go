package character_handler

import (
	"dndbot/src-server/handler/interact"
	"dndbot/src-server/utils"

	"github.com/bwmarrin/discordgo"
)

// Init injects one "character" slash command with multiple subcommands
// into appCmdInfo and appCmdHandler in AppState.
func Init(as *utils.AppState) {
	localCmdInfo := make(
		[]*discordgo.ApplicationCommandOption, 0,
	)
	localCmdHandler := make(
		map[string]utils.Handler,
	)

	create(as, &localCmdInfo, localCmdHandler)
	list(as, &localCmdInfo, localCmdHandler)
	remove(as, &localCmdInfo, localCmdHandler)

	id := "character"
	as.AddAppCmdInfo(id, &discordgo.ApplicationCommand{
		Name:        id,
		Description: "Player character commands.",
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
