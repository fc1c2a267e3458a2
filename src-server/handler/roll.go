package handler

import (
	"fmt"
	"log/slog"
	"math/rand"
	"sync"

	"dndbot/src-server/dice"
	"dndbot/src-server/discordid"
	"dndbot/src-server/handler/interact"
	"dndbot/src-server/utils"

	"github.com/bwmarrin/discordgo"
)

func Roll(as *utils.AppState) {
	id := "roll"
	choices := make([]*discordgo.ApplicationCommandOptionChoice, len(dice.Sides))
	for idx, sides := range dice.Sides {
		choices[idx] = &discordgo.ApplicationCommandOptionChoice{
			Name:  fmt.Sprintf("d%d", sides),
			Value: sides,
		}
	}
	minCount := float64(1)
	as.AddAppCmdHandler(id, rollHandler(as, dice.NewRand(0)))
	as.AddAppCmdInfo(id, &discordgo.ApplicationCommand{
		Name:        id,
		Description: "Roll some dice.",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionInteger,
				Name:        "die",
				Description: "Which die to roll.",
				Required:    true,
				Choices:     choices,
			},
			{
				Type:        discordgo.ApplicationCommandOptionInteger,
				Name:        "count",
				Description: fmt.Sprintf("How many dice (1-%d).", dice.MaxCount),
				MinValue:    &minCount,
				MaxValue:    dice.MaxCount,
			},
		},
	})
}

func rollHandler(as *utils.AppState, rng *rand.Rand) utils.Handler {
	// rand.Rand is not safe for concurrent use
	var mu sync.Mutex
	return func(s *discordgo.Session, i *discordgo.InteractionCreate) error {
		options := interact.CommandOptions(i)

		mu.Lock()
		result, err := dice.Roll(rng, int(options.Int("die", 0)), int(options.Int("count", 1)))
		mu.Unlock()
		if err != nil {
			msg, _ := interact.UserMessage(err)
			as.InteractRespHiddenReply(s, i, msg)
			return nil
		}

		content := result.String()
		if i.Member != nil && i.Member.User != nil {
			content = discordid.Mention(discordid.MustParse(i.Member.User.ID)) + " rolled " + content
		}
		if err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseChannelMessageWithSource,
			Data: &discordgo.InteractionResponseData{
				Content: content,
				AllowedMentions: &discordgo.MessageAllowedMentions{
					Parse: []discordgo.AllowedMentionType{},
				},
			},
		}); err != nil {
			slog.Warn("rollHandler: can't respond", "error", err)
		}
		return nil
	}
}
