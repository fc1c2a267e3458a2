package character_handler

import (
	"context"
	"fmt"

	"dndbot/src-server/handler/interact"
	"dndbot/src-server/utils"

	"github.com/bwmarrin/discordgo"
)

func remove(as *utils.AppState, cmdInfo *[]*discordgo.ApplicationCommandOption, cmdHandler map[string]utils.Handler) {
	id := "remove"
	minID := float64(1)
	*cmdInfo = append(*cmdInfo, &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionSubCommand,
		Name:        id,
		Description: "Remove one of your characters.",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionInteger,
				Name:        "character",
				Description: "Character number, as shown by /character list.",
				Required:    true,
				MinValue:    &minID,
			},
		},
	})
	cmdHandler[id] = removeHandler(as)
}

func removeHandler(as *utils.AppState) utils.Handler {
	return func(s *discordgo.Session, i *discordgo.InteractionCreate) error {
		const where = "character_handler.removeHandler"
		as.InteractRespDefer(s, i, true)

		caller, _, ok, err := interact.Member(as, s, i, where)
		if !ok {
			return err
		}
		_, options := interact.SubcommandOptions(i)
		characterID := options.Int("character", 0)

		if err := as.Roster.Remove(context.Background(), as.BunDB, caller.GuildID, characterID, caller.UserID); err != nil {
			return interact.Fail(as, s, i, where, err)
		}
		as.InteractRespEdit(s, i.Interaction, fmt.Sprintf("Character #%d removed.", characterID), nil, nil)
		return nil
	}
}
