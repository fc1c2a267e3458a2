package route

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"dndbot/src-server/campaign"
	"dndbot/src-server/datetime"
	"dndbot/src-server/schedule"
	"dndbot/src-server/testutil"
	"dndbot/src-server/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMux(t *testing.T) (*http.ServeMux, *utils.AppState) {
	t.Helper()
	config, err := utils.NewConfig(func(key string) string {
		return map[string]string{
			"DISCORD_APP_TOKEN": "token-value",
			"DISCORD_CLIENT_ID": "1",
			"TIMEZONE":          "UTC",
		}[key]
	})
	require.NoError(t, err)
	as := utils.NewAppState(config, testutil.MustOpenDB(t), nil)
	t.Cleanup(as.GracefulShutdown)

	// pin "now" so the fixtures stay in the future
	as.Clock = datetime.Fixed(time.Date(2029, 6, 1, 12, 0, 0, 0, time.UTC))
	as.Registry = campaign.NewRegistry(as.Clock)
	as.Scheduler = schedule.NewScheduler(as.Clock, as.Registry)

	muxer := http.NewServeMux()
	Ical(muxer, as)
	Health(muxer, as)
	return muxer, as
}

func TestIcalFeed(t *testing.T) {
	muxer, as := newMux(t)
	ctx := context.Background()

	_, err := as.Registry.Create(ctx, as.BunDB, campaign.CreateParams{GuildID: 77, OwnerID: 1, Name: "Curse of Strahd", Link: "https://example.com/cos"})
	require.NoError(t, err)
	kept, err := as.Scheduler.Create(ctx, as.BunDB, schedule.CreateParams{
		GuildID: 77, Campaign: campaign.ByName("Curse of Strahd"), OrganizerID: 1, Location: "Tavern", ScheduledAt: "2030-01-01 18:00",
	})
	require.NoError(t, err)
	dropped, err := as.Scheduler.Create(ctx, as.BunDB, schedule.CreateParams{
		GuildID: 77, Campaign: campaign.ByName("Curse of Strahd"), OrganizerID: 1, ScheduledAt: "2030-01-08 18:00",
	})
	require.NoError(t, err)
	_, err = as.Scheduler.Cancel(ctx, as.BunDB, 77, dropped.ID)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	muxer.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ical/77.ics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/calendar; charset=utf-8", rec.Header().Get("Content-Type"))

	body := rec.Body.String()
	assert.Equal(t, 1, strings.Count(body, "BEGIN:VEVENT"))
	assert.Contains(t, body, "UID:"+SessionUID(kept.ID))
	assert.Contains(t, body, "SUMMARY:Curse of Strahd\r\n")
	assert.Contains(t, body, "LOCATION:Tavern\r\n")
	assert.Contains(t, body, "DTSTART:20300101T180000Z\r\n")
	assert.Contains(t, body, "STATUS:TENTATIVE\r\n")
	assert.NotContains(t, body, SessionUID(dropped.ID))
}

func TestIcalFeedBadGuild(t *testing.T) {
	muxer, _ := newMux(t)
	rec := httptest.NewRecorder()
	muxer.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ical/not-a-guild", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealth(t *testing.T) {
	muxer, _ := newMux(t)
	rec := httptest.NewRecorder()
	LogMiddleware(muxer).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestSessionUIDIsStable(t *testing.T) {
	assert.Equal(t, SessionUID(5), SessionUID(5))
	assert.NotEqual(t, SessionUID(5), SessionUID(6))
}
