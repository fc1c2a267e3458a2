package handler

import (
	"log/slog"
	"sort"
	"strings"

	"dndbot/src-server/embed"
	"dndbot/src-server/utils"

	"github.com/bwmarrin/discordgo"
)

func Help(as *utils.AppState) {
	id := "help"
	as.AddAppCmdHandler(id, helpHandler(as))
	as.AddAppCmdInfo(id, &discordgo.ApplicationCommand{
		Name:        id,
		Description: "List the available commands.",
	})
}

// helpText is built from the registered command info so it never drifts
// from what Discord shows.
func helpText(as *utils.AppState) string {
	lines := make([]string, 0, 32)
	as.IterateAppCmdInfo(func(_ string, info *discordgo.ApplicationCommand) {
		subs := 0
		for _, opt := range info.Options {
			if opt.Type != discordgo.ApplicationCommandOptionSubCommand {
				continue
			}
			subs++
			lines = append(lines, "`/"+info.Name+" "+opt.Name+"` "+opt.Description)
		}
		if subs == 0 {
			lines = append(lines, "`/"+info.Name+"` "+info.Description)
		}
	})
	sort.Strings(lines)
	lines = append(lines, "", "Dates are written `YYYY-MM-DD HH:MM`, e.g. `2030-01-01 18:00`, in "+as.Clock.Loc().String()+" time.")
	return strings.Join(lines, "\n")
}

func helpHandler(as *utils.AppState) utils.Handler {
	return func(s *discordgo.Session, i *discordgo.InteractionCreate) error {
		if err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseChannelMessageWithSource,
			Data: &discordgo.InteractionResponseData{
				Flags: discordgo.MessageFlagsEphemeral,
				Embeds: []*discordgo.MessageEmbed{{
					Title:       "Commands",
					Color:       embed.ColorInfo,
					Description: helpText(as),
				}},
			},
		}); err != nil {
			slog.Warn("helpHandler: can't respond", "error", err)
		}
		return nil
	}
}
