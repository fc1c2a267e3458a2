package route

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"dndbot/src-server/discordid"
	"dndbot/src-server/ical"
	"dndbot/src-server/model"
	"dndbot/src-server/schedule"
	"dndbot/src-server/utils"

	"github.com/google/uuid"
)

// uid namespace for session events; stable across restarts so calendar
// clients update events in place
var sessionNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("dndbot/session"))

func SessionUID(sessionID int64) string {
	return uuid.NewSHA1(sessionNamespace, []byte(fmt.Sprintf("%d", sessionID))).String()
}

// Ical serves the upcoming, non-cancelled sessions of a guild as an
// iCalendar feed.
func Ical(muxer *http.ServeMux, as *utils.AppState) {
	muxer.HandleFunc("GET /ical/{guild_id}", func(w http.ResponseWriter, r *http.Request) {
		rawGuildID := strings.TrimSuffix(r.PathValue("guild_id"), ".ics")
		guildID, err := discordid.Parse(rawGuildID)
		if err != nil {
			http.Error(w, "invalid guild id", http.StatusBadRequest)
			return
		}

		sessions, err := as.Scheduler.List(r.Context(), as.BunDB, schedule.ListFilter{
			GuildID:          guildID,
			UpcomingOnly:     true,
			ExcludeCancelled: true,
		})
		if err != nil {
			slog.Error("can't list sessions for ical feed", "guild", guildID, "error", err)
			http.Error(w, "can't list sessions", http.StatusInternalServerError)
			return
		}

		icalCalendar := SessionsToCalendar(rawGuildID, sessions)

		var sb strings.Builder
		if err := icalCalendar.ToIcal(func(s string) { sb.WriteString(s) }); err != nil {
			slog.Error("can't serialize ical feed", "guild", guildID, "error", err)
			http.Error(w, "can't serialize calendar", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		if _, err := io.WriteString(w, sb.String()); err != nil {
			slog.Warn("can't write to response", "where", "route/ical.go", "err", err)
		}
	})
}

func SessionsToCalendar(calendarID string, sessions []model.Session) *ical.Calendar {
	icalCalendar := ical.NewCalendar(calendarID, "Campaign sessions")
	for _, session := range sessions {
		start, ok := session.ScheduledTime()
		if !ok {
			continue
		}
		event := ical.NewEvent(SessionUID(session.ID)).
			SetSummary(session.CampaignName()).
			SetStart(start).
			SetLocation(session.Location).
			SetStatus(sessionStatusToIcal(session.Status)).
			SetStamp(time.Unix(session.CreatedAt, 0))
		if session.Campaign != nil {
			event.SetDescription(session.Campaign.Description)
			event.SetURL(session.Campaign.Link)
		}
		icalCalendar.AddEvent(event)
	}
	return icalCalendar
}

func sessionStatusToIcal(status model.SessionStatus) ical.Status {
	switch status {
	case model.SessionStatusConfirmed:
		return ical.StatusConfirmed
	case model.SessionStatusCancelled:
		return ical.StatusCancelled
	default:
		return ical.StatusTentative
	}
}
