package utils

import (
	"log/slog"
	"time"

	"github.com/bwmarrin/discordgo"
)

// =========================================================
// Pre-built discordgo interaction responses for convenience
// =========================================================

// Send a hidden (ephemeral) reply to the interaction.
func (as *AppState) InteractRespHiddenReply(s *discordgo.Session, i *discordgo.InteractionCreate, content string) {
	startTimer := time.Now()
	if err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Flags:   discordgo.MessageFlagsEphemeral,
			Content: content,
		},
	}); err != nil {
		slog.Warn("InteractRespHiddenReply: can't respond", "error", err)
		return
	}
	as.MetricChans.ObserveDiscordSend(startTimer)
}

// Acknowledge the interaction now and edit the reply later with
// InteractRespEdit. Returns false when Discord refused the ack.
func (as *AppState) InteractRespDefer(s *discordgo.Session, i *discordgo.InteractionCreate, hidden bool) bool {
	data := &discordgo.InteractionResponseData{}
	if hidden {
		data.Flags = discordgo.MessageFlagsEphemeral
	}
	startTimer := time.Now()
	if err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: data,
	}); err != nil {
		slog.Warn("InteractRespDefer: can't send defer message", "error", err)
		return false
	}
	as.MetricChans.ObserveDiscordSend(startTimer)
	return true
}

// Edit the deferred reply. Nil embeds/components leave them unchanged; an
// empty slice clears them.
func (as *AppState) InteractRespEdit(
	s *discordgo.Session,
	interaction *discordgo.Interaction,
	content string,
	embeds []*discordgo.MessageEmbed,
	components []discordgo.MessageComponent,
) {
	edit := &discordgo.WebhookEdit{Content: &content}
	if embeds != nil {
		edit.Embeds = &embeds
	}
	if components != nil {
		edit.Components = &components
	}
	startTimer := time.Now()
	if _, err := s.InteractionResponseEdit(interaction, edit); err != nil {
		slog.Warn("InteractRespEdit: can't edit response", "error", err)
		return
	}
	as.MetricChans.ObserveDiscordSend(startTimer)
}

// Answer an autocomplete request.
func (as *AppState) InteractRespChoices(s *discordgo.Session, i *discordgo.InteractionCreate, choices []*discordgo.ApplicationCommandOptionChoice) {
	if err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionApplicationCommandAutocompleteResult,
		Data: &discordgo.InteractionResponseData{
			Choices: choices,
		},
	}); err != nil {
		slog.Warn("InteractRespChoices: can't respond", "error", err)
	}
}
