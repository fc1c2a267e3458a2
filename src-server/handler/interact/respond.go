package interact

import (
	"context"
	"fmt"

	"dndbot/src-server/model"
	"dndbot/src-server/settings"
	"dndbot/src-server/utils"

	"github.com/bwmarrin/discordgo"
)

// Fail edits the deferred reply with the user-facing text for err. It
// returns err only when the failure is the bot's fault.
func Fail(as *utils.AppState, s *discordgo.Session, i *discordgo.InteractionCreate, where string, err error) error {
	msg, ok := UserMessage(err)
	as.InteractRespEdit(s, i.Interaction, msg, []*discordgo.MessageEmbed{}, []discordgo.MessageComponent{})
	if ok {
		return nil
	}
	return fmt.Errorf("%s: %w", where, err)
}

// Deny edits the deferred reply with the no-permission text.
func Deny(as *utils.AppState, s *discordgo.Session, i *discordgo.InteractionCreate) error {
	as.InteractRespEdit(s, i.Interaction, MsgNoPermission, nil, nil)
	return nil
}

// Member resolves the caller and the guild settings, and checks the member
// role. ok is false when the reply was already written.
func Member(as *utils.AppState, s *discordgo.Session, i *discordgo.InteractionCreate, where string) (caller Caller, setting *model.Setting, ok bool, err error) {
	caller, err = CallerOf(i)
	if err != nil {
		return caller, nil, false, Fail(as, s, i, where, err)
	}
	setting, err = settings.GetOrDefault(context.Background(), as.BunDB, caller.GuildID)
	if err != nil {
		return caller, nil, false, Fail(as, s, i, where, err)
	}
	if !caller.CanUse(setting) {
		return caller, setting, false, Deny(as, s, i)
	}
	return caller, setting, true, nil
}
