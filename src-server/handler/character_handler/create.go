package character_handler

import (
	"context"
	"fmt"

	"dndbot/src-server/campaign"
	"dndbot/src-server/character"
	"dndbot/src-server/handler/interact"
	"dndbot/src-server/utils"

	"github.com/bwmarrin/discordgo"
)

func create(as *utils.AppState, cmdInfo *[]*discordgo.ApplicationCommandOption, cmdHandler map[string]utils.Handler) {
	id := "create"
	*cmdInfo = append(*cmdInfo, &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionSubCommand,
		Name:        id,
		Description: "Add your character to a campaign.",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:         discordgo.ApplicationCommandOptionString,
				Name:         "campaign",
				Description:  "Campaign the character plays in.",
				Required:     true,
				Autocomplete: true,
			},
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "name",
				Description: "Character name.",
				Required:    true,
				MaxLength:   100,
			},
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "race",
				Description: "e.g. half-elf",
				Required:    true,
			},
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "class",
				Description: "e.g. warlock",
				Required:    true,
			},
		},
	})
	cmdHandler[id] = createHandler(as)
}

func createHandler(as *utils.AppState) utils.Handler {
	return func(s *discordgo.Session, i *discordgo.InteractionCreate) error {
		const where = "character_handler.createHandler"
		as.InteractRespDefer(s, i, false)

		caller, _, ok, err := interact.Member(as, s, i, where)
		if !ok {
			return err
		}
		_, options := interact.SubcommandOptions(i)

		created, err := as.Roster.Create(context.Background(), as.BunDB, character.CreateParams{
			GuildID:  caller.GuildID,
			Campaign: campaign.ByName(options.String("campaign")),
			PlayerID: caller.UserID,
			Name:     options.String("name"),
			Race:     options.String("race"),
			Class:    options.String("class"),
		})
		if err != nil {
			return interact.Fail(as, s, i, where, err)
		}
		as.InteractRespEdit(s, i.Interaction,
			fmt.Sprintf("**%s**, %s %s, joined **%s** (character #%d).", created.Name, created.Race, created.Class, created.Campaign.Name, created.ID),
			nil, nil)
		return nil
	}
}
