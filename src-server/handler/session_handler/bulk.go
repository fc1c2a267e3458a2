package session_handler

import (
	"context"
	"fmt"
	"log/slog"

	"dndbot/src-server/embed"
	"dndbot/src-server/handler/interact"
	"dndbot/src-server/utils"

	"github.com/bwmarrin/discordgo"
)

func cancelAll(as *utils.AppState, cmdInfo *[]*discordgo.ApplicationCommandOption, cmdHandler map[string]utils.Handler) {
	id := "cancel-all"
	*cmdInfo = append(*cmdInfo, &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionSubCommand,
		Name:        id,
		Description: "Cancel every session of this server (administrators only).",
	})
	cmdHandler[id] = confirmHandler(as, "session_handler.cancelAllHandler",
		"Cancel **every** session of every campaign in this server?",
		func(ctx context.Context, guildID int64) (string, error) {
			count, err := as.Scheduler.BulkCancel(ctx, as.BunDB, guildID)
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("%d sessions cancelled.", count), nil
		})
}

func purge(as *utils.AppState, cmdInfo *[]*discordgo.ApplicationCommandOption, cmdHandler map[string]utils.Handler) {
	id := "purge"
	*cmdInfo = append(*cmdInfo, &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionSubCommand,
		Name:        id,
		Description: "Delete every session and answer of this server (administrators only).",
	})
	cmdHandler[id] = confirmHandler(as, "session_handler.purgeHandler",
		"Permanently delete **every** session and answer in this server? This can't be undone.",
		func(ctx context.Context, guildID int64) (string, error) {
			count, err := as.Scheduler.Purge(ctx, as.BunDB, guildID)
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("%d sessions deleted.", count), nil
		})
}

type guildAction func(ctx context.Context, guildID int64) (string, error)

// pendingAction is stored with the confirmation buttons.
type pendingAction struct {
	GuildID int64
	UserID  int64
}

// confirmHandler asks an elevated member to confirm a guild-wide action with
// two buttons. Only the member who asked may press them, until they expire.
func confirmHandler(as *utils.AppState, where string, question string, action guildAction) utils.Handler {
	return func(s *discordgo.Session, i *discordgo.InteractionCreate) error {
		as.InteractRespDefer(s, i, true)
		caller, err := interact.CallerOf(i)
		if err != nil {
			return interact.Fail(as, s, i, where, err)
		}
		if !caller.Elevated() {
			return interact.Deny(as, s, i)
		}

		pending := pendingAction{GuildID: caller.GuildID, UserID: caller.UserID}
		var confirmID, abortID string
		done := func() {
			as.RemoveComponentHandler(confirmID)
			as.RemoveComponentHandler(abortID)
		}
		confirmID = as.AddComponentHandler(pending, func(s *discordgo.Session, ci *discordgo.InteractionCreate) error {
			if !pressedBy(ci, pending) {
				as.InteractRespHiddenReply(s, ci, interact.MsgNoPermission)
				return nil
			}
			done()
			deferUpdate(s, ci)
			msg, err := action(context.Background(), pending.GuildID)
			if err != nil {
				return interact.Fail(as, s, ci, where, err)
			}
			as.InteractRespEdit(s, ci.Interaction, msg, []*discordgo.MessageEmbed{}, []discordgo.MessageComponent{})
			return nil
		})
		abortID = as.AddComponentHandler(pending, func(s *discordgo.Session, ci *discordgo.InteractionCreate) error {
			if !pressedBy(ci, pending) {
				as.InteractRespHiddenReply(s, ci, interact.MsgNoPermission)
				return nil
			}
			done()
			deferUpdate(s, ci)
			as.InteractRespEdit(s, ci.Interaction, "Nothing was changed.", []*discordgo.MessageEmbed{}, []discordgo.MessageComponent{})
			return nil
		})

		as.InteractRespEdit(s, i.Interaction, question, []*discordgo.MessageEmbed{{
			Description: "This confirmation expires in " + utils.ComponentTTL.String() + ".",
			Color:       embed.ColorWarning,
		}}, []discordgo.MessageComponent{
			discordgo.ActionsRow{
				Components: []discordgo.MessageComponent{
					discordgo.Button{Label: "Confirm", Style: discordgo.DangerButton, CustomID: confirmID},
					discordgo.Button{Label: "Abort", Style: discordgo.SecondaryButton, CustomID: abortID},
				},
			},
		})
		return nil
	}
}

func pressedBy(i *discordgo.InteractionCreate, pending pendingAction) bool {
	caller, err := interact.CallerOf(i)
	if err != nil {
		return false
	}
	return caller.GuildID == pending.GuildID && caller.UserID == pending.UserID
}

func deferUpdate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredMessageUpdate,
	}); err != nil {
		slog.Warn("deferUpdate: can't acknowledge button", "error", err)
	}
}
