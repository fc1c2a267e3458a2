// Package embed renders campaigns, sessions and rosters as Discord embeds.
package embed

import (
	"fmt"
	"strings"

	"dndbot/src-server/attendance"
	"dndbot/src-server/datetime"
	"dndbot/src-server/discordid"
	"dndbot/src-server/model"

	"github.com/bwmarrin/discordgo"
)

const (
	ColorInfo    = 0x5865F2
	ColorSuccess = 0x57F287
	ColorWarning = 0xFEE75C
	ColorError   = 0xED4245

	// Discord caps embeds per message
	MaxPerMessage = 10
)

func mentions(ids []int64) string {
	if len(ids) == 0 {
		return "-"
	}
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = discordid.Mention(id)
	}
	return strings.Join(parts, ", ")
}

func statusColor(status model.SessionStatus) int {
	switch status {
	case model.SessionStatusConfirmed:
		return ColorSuccess
	case model.SessionStatusCancelled:
		return ColorError
	default:
		return ColorWarning
	}
}

// Session renders one session with its Going / Not going buckets. tally may
// be nil when responses were not loaded.
func Session(clock datetime.Clock, session *model.Session, tally *attendance.Tally) *discordgo.MessageEmbed {
	date := "not set"
	if session.ScheduledAt != 0 {
		date = clock.FormatUnix(session.ScheduledAt)
	}
	location := session.Location
	if location == "" {
		location = "-"
	}

	embed := &discordgo.MessageEmbed{
		Title: fmt.Sprintf("Session #%d: %s", session.ID, session.CampaignName()),
		Color: statusColor(session.Status),
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Date", Value: date, Inline: true},
			{Name: "Location", Value: location, Inline: true},
			{Name: "Status", Value: session.Status.String(), Inline: true},
			{Name: "Organizer", Value: discordid.Mention(session.OrganizerID), Inline: true},
		},
	}
	if tally != nil {
		embed.Fields = append(embed.Fields,
			&discordgo.MessageEmbedField{Name: fmt.Sprintf("Going (%d)", len(tally.Going)), Value: mentions(tally.Going)},
			&discordgo.MessageEmbedField{Name: fmt.Sprintf("Not going (%d)", len(tally.NotGoing)), Value: mentions(tally.NotGoing)},
		)
	}
	return embed
}

func Campaign(campaign *model.Campaign) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:       campaign.Name,
		Description: campaign.Description,
		URL:         campaign.Link,
		Color:       ColorInfo,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Owner", Value: discordid.Mention(campaign.OwnerID), Inline: true},
		},
	}
	return embed
}

// CampaignList renders every campaign as one line of a single embed.
func CampaignList(campaigns []model.Campaign) *discordgo.MessageEmbed {
	var sb strings.Builder
	for _, c := range campaigns {
		sb.WriteString(fmt.Sprintf("**%s** (%s)", c.Name, discordid.Mention(c.OwnerID)))
		if c.Link != "" {
			sb.WriteString(" " + c.Link)
		}
		sb.WriteString("\n")
	}
	if sb.Len() == 0 {
		sb.WriteString("No campaigns yet.")
	}
	return &discordgo.MessageEmbed{
		Title:       "Campaigns",
		Description: sb.String(),
		Color:       ColorInfo,
	}
}

func Characters(title string, characters []model.Character) *discordgo.MessageEmbed {
	var sb strings.Builder
	for _, c := range characters {
		sb.WriteString(fmt.Sprintf("`#%d` **%s**, %s %s (%s)", c.ID, c.Name, c.Race, c.Class, discordid.Mention(c.PlayerID)))
		if c.Campaign != nil {
			sb.WriteString(" in " + c.Campaign.Name)
		}
		sb.WriteString("\n")
	}
	if sb.Len() == 0 {
		sb.WriteString("No characters yet.")
	}
	return &discordgo.MessageEmbed{
		Title:       title,
		Description: sb.String(),
		Color:       ColorInfo,
	}
}

func Settings(setting *model.Setting) *discordgo.MessageEmbed {
	role := func(id int64) string {
		if id == 0 {
			return "not set"
		}
		return "<@&" + discordid.Format(id) + ">"
	}
	channel := "not set"
	if setting.NotifyChannelID != 0 {
		channel = "<#" + discordid.Format(setting.NotifyChannelID) + ">"
	}
	return &discordgo.MessageEmbed{
		Title: "Settings",
		Color: ColorInfo,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Required role", Value: role(setting.RequiredRoleID), Inline: true},
			{Name: "Organizer role", Value: role(setting.OrganizerRoleID), Inline: true},
			{Name: "Reminder channel", Value: channel, Inline: true},
		},
	}
}

// Chunk splits embeds into groups Discord accepts in one message.
func Chunk(embeds []*discordgo.MessageEmbed) [][]*discordgo.MessageEmbed {
	chunks := make([][]*discordgo.MessageEmbed, 0, len(embeds)/MaxPerMessage+1)
	for len(embeds) > MaxPerMessage {
		chunks = append(chunks, embeds[:MaxPerMessage])
		embeds = embeds[MaxPerMessage:]
	}
	if len(embeds) > 0 {
		chunks = append(chunks, embeds)
	}
	return chunks
}
