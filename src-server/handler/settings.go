package handler

import (
	"context"

	"dndbot/src-server/embed"
	"dndbot/src-server/handler/interact"
	"dndbot/src-server/settings"
	"dndbot/src-server/utils"

	"github.com/bwmarrin/discordgo"
)

// Settings registers "/settings show|set|clear". Only administrators and
// server managers may use it.
func Settings(as *utils.AppState) {
	id := "settings"
	localCmdHandler := map[string]utils.Handler{
		"show":  settingsShowHandler(as),
		"set":   settingsSetHandler(as),
		"clear": settingsClearHandler(as),
	}
	perm := int64(discordgo.PermissionManageServer)
	as.AddAppCmdInfo(id, &discordgo.ApplicationCommand{
		Name:                     id,
		Description:              "Role bindings and reminder channel of this server.",
		DefaultMemberPermissions: &perm,
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "show",
				Description: "Show the current settings.",
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "set",
				Description: "Change one or more settings.",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:        discordgo.ApplicationCommandOptionRole,
						Name:        "member-role",
						Description: "Role required to use the campaign commands.",
					},
					{
						Type:        discordgo.ApplicationCommandOptionRole,
						Name:        "organizer-role",
						Description: "Role allowed to manage every campaign and session.",
					},
					{
						Type:         discordgo.ApplicationCommandOptionChannel,
						Name:         "reminder-channel",
						Description:  "Channel where upcoming sessions are announced.",
						ChannelTypes: []discordgo.ChannelType{discordgo.ChannelTypeGuildText},
					},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "clear",
				Description: "Remove every setting of this server.",
			},
		},
	})
	as.AddAppCmdHandler(id, func(s *discordgo.Session, i *discordgo.InteractionCreate) error {
		name, _ := interact.SubcommandOptions(i)
		if handler, ok := localCmdHandler[name]; ok {
			return handler(s, i)
		}
		return nil
	})
}

// settingsCaller defers the reply and checks the caller is elevated.
func settingsCaller(as *utils.AppState, s *discordgo.Session, i *discordgo.InteractionCreate, where string) (interact.Caller, bool, error) {
	as.InteractRespDefer(s, i, true)
	caller, err := interact.CallerOf(i)
	if err != nil {
		return caller, false, interact.Fail(as, s, i, where, err)
	}
	if !caller.Elevated() {
		return caller, false, interact.Deny(as, s, i)
	}
	return caller, true, nil
}

func settingsShowHandler(as *utils.AppState) utils.Handler {
	return func(s *discordgo.Session, i *discordgo.InteractionCreate) error {
		const where = "settingsShowHandler"
		caller, ok, err := settingsCaller(as, s, i, where)
		if !ok {
			return err
		}
		setting, err := settings.GetOrDefault(context.Background(), as.BunDB, caller.GuildID)
		if err != nil {
			return interact.Fail(as, s, i, where, err)
		}
		as.InteractRespEdit(s, i.Interaction, "", []*discordgo.MessageEmbed{embed.Settings(setting)}, nil)
		return nil
	}
}

func settingsSetHandler(as *utils.AppState) utils.Handler {
	return func(s *discordgo.Session, i *discordgo.InteractionCreate) error {
		const where = "settingsSetHandler"
		caller, ok, err := settingsCaller(as, s, i, where)
		if !ok {
			return err
		}

		_, options := interact.SubcommandOptions(i)
		patch := settings.Patch{}
		snowflake := func(name string) *int64 {
			if !options.Has(name) {
				return nil
			}
			id := options.Snowflake(name)
			return &id
		}
		patch.RequiredRoleID = snowflake("member-role")
		patch.OrganizerRoleID = snowflake("organizer-role")
		patch.NotifyChannelID = snowflake("reminder-channel")
		if patch.RequiredRoleID == nil && patch.OrganizerRoleID == nil && patch.NotifyChannelID == nil {
			as.InteractRespEdit(s, i.Interaction, "Nothing to change, pick at least one option.", nil, nil)
			return nil
		}

		setting, err := settings.Update(context.Background(), as.BunDB, caller.GuildID, patch)
		if err != nil {
			return interact.Fail(as, s, i, where, err)
		}
		as.InteractRespEdit(s, i.Interaction, "Settings updated.", []*discordgo.MessageEmbed{embed.Settings(setting)}, nil)
		return nil
	}
}

func settingsClearHandler(as *utils.AppState) utils.Handler {
	return func(s *discordgo.Session, i *discordgo.InteractionCreate) error {
		const where = "settingsClearHandler"
		caller, ok, err := settingsCaller(as, s, i, where)
		if !ok {
			return err
		}
		if err := settings.Clear(context.Background(), as.BunDB, caller.GuildID); err != nil {
			return interact.Fail(as, s, i, where, err)
		}
		as.InteractRespEdit(s, i.Interaction, "Settings cleared, every member may use the campaign commands.", []*discordgo.MessageEmbed{}, nil)
		return nil
	}
}
