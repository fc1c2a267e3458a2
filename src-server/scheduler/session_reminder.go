package scheduler

import (
	"context"
	"log/slog"
	"time"

	"dndbot/src-server/attendance"
	"dndbot/src-server/datetime"
	"dndbot/src-server/discordid"
	"dndbot/src-server/embed"
	"dndbot/src-server/schedule"
	"dndbot/src-server/settings"
	"dndbot/src-server/utils"

	"github.com/bwmarrin/discordgo"
	"github.com/uptrace/bun"
)

const reminderInterval = 30 * time.Second

// SendFunc posts embeds to a channel.
type SendFunc func(channelID string, embeds []*discordgo.MessageEmbed) error

// SessionReminder announces sessions about to start in each guild's notify
// channel until graceful shutdown.
func SessionReminder(as *utils.AppState) {
	gracefulShutdownCh := as.CreateGracefulShutdownChan()
	send := func(channelID string, embeds []*discordgo.MessageEmbed) error {
		startTimer := time.Now()
		if _, err := as.DgSession.ChannelMessageSendEmbeds(channelID, embeds); err != nil {
			return err
		}
		as.MetricChans.ObserveDiscordSend(startTimer)
		return nil
	}

	ticker := time.NewTicker(reminderInterval)
	defer ticker.Stop()
	for {
		select {
		case <-*gracefulShutdownCh:
			return
		case <-ticker.C:
			if _, err := RemindDue(context.Background(), as.BunDB, as.Scheduler, as.Clock, as.Config.GetReminderWindow(), send); err != nil {
				slog.Error("SessionReminder: can't remind sessions", "error", err)
			}
		}
	}
}

// RemindDue sends one embed per due session to its guild's notify channel
// and marks the session reminded. Guilds without a channel are marked
// silently; a failed send leaves the session for the next round. It returns
// how many sessions were marked.
func RemindDue(
	ctx context.Context,
	db bun.IDB,
	scheduler *schedule.Scheduler,
	clock datetime.Clock,
	window time.Duration,
	send SendFunc,
) (int, error) {
	due, err := scheduler.DueForReminder(ctx, db, window)
	if err != nil {
		return 0, err
	}
	if len(due) == 0 {
		return 0, nil
	}

	guildIDs := make([]int64, 0)
	byGuild := make(map[int64][]int)
	for i, session := range due {
		guildID := session.Campaign.GuildID
		if _, ok := byGuild[guildID]; !ok {
			guildIDs = append(guildIDs, guildID)
		}
		byGuild[guildID] = append(byGuild[guildID], i)
	}
	channels, err := settings.NotifyChannels(ctx, db, guildIDs)
	if err != nil {
		return 0, err
	}

	reminded := make([]int64, 0, len(due))
	for _, guildID := range guildIDs {
		indexes := byGuild[guildID]
		channelID, ok := channels[guildID]
		if !ok {
			for _, i := range indexes {
				reminded = append(reminded, due[i].ID)
			}
			continue
		}

		embeds := make([]*discordgo.MessageEmbed, len(indexes))
		for j, i := range indexes {
			tally := attendance.PartitionPtr(due[i].Responses)
			embeds[j] = embed.Session(clock, &due[i], &tally)
		}
		sent := 0
		for _, chunk := range embed.Chunk(embeds) {
			if err := send(discordid.Format(channelID), chunk); err != nil {
				slog.Error("RemindDue: can't send message", "guild", guildID, "channel", channelID, "error", err)
				break
			}
			sent += len(chunk)
		}
		for _, i := range indexes[:sent] {
			reminded = append(reminded, due[i].ID)
		}
	}

	if err := scheduler.MarkReminded(ctx, db, reminded); err != nil {
		return 0, err
	}
	return len(reminded), nil
}
