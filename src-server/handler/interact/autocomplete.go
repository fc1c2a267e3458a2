package interact

import (
	"context"
	"log/slog"
	"time"

	"dndbot/src-server/utils"

	"github.com/bwmarrin/discordgo"
)

// Discord shows at most 25 choices.
const maxChoices = 25

// CampaignChoices suggests live campaign names starting with prefix.
func CampaignChoices(as *utils.AppState, guildID int64, prefix string) []*discordgo.ApplicationCommandOptionChoice {
	names, err := as.Registry.Complete(context.Background(), as.BunDB, guildID, prefix, maxChoices)
	if err != nil {
		slog.Warn("CampaignChoices: can't complete campaign names", "guild", guildID, "error", err)
		return []*discordgo.ApplicationCommandOptionChoice{}
	}
	choices := make([]*discordgo.ApplicationCommandOptionChoice, len(names))
	for i, name := range names {
		choices[i] = &discordgo.ApplicationCommandOptionChoice{Name: name, Value: name}
	}
	return choices
}

// DateChoices turns whatever the user typed ("friday 7pm", "in 3 days")
// into canonical "YYYY-MM-DD HH:MM" suggestions. Only future dates are
// offered.
func DateChoices(as *utils.AppState, text string) []*discordgo.ApplicationCommandOptionChoice {
	now := as.Clock.Now().In(as.Clock.Loc())
	choices := make([]*discordgo.ApplicationCommandOptionChoice, 0, 4)
	add := func(t time.Time) {
		if !t.After(now) {
			return
		}
		formatted := as.Clock.Format(t)
		for _, c := range choices {
			if c.Value == formatted {
				return
			}
		}
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{Name: formatted, Value: formatted})
	}

	if text == "" {
		next := now.Truncate(time.Hour).Add(time.Hour)
		add(next)
		add(next.AddDate(0, 0, 1))
		add(next.AddDate(0, 0, 7))
		return choices
	}
	if t, err := as.Clock.Parse(text); err == nil {
		add(t)
		return choices
	}
	if result, err := as.When.Parse(text, now); err == nil && result != nil {
		for _, suggestion := range parsedSuggestions(result.Time, now, as.Clock.Loc()) {
			add(suggestion)
		}
	}
	return choices
}

// parsedSuggestions turns a natural-language parse into candidate dates in
// loc. A parse that kept the current time of day ("friday") also suggests
// 19:00 that day.
func parsedSuggestions(parsed time.Time, now time.Time, loc *time.Location) []time.Time {
	parsed = parsed.In(loc)
	now = now.In(loc)
	suggestions := []time.Time{parsed.Truncate(time.Minute)}
	if parsed.Hour() == now.Hour() && parsed.Minute() == now.Minute() {
		suggestions = append(suggestions, time.Date(parsed.Year(), parsed.Month(), parsed.Day(), 19, 0, 0, 0, loc))
	}
	return suggestions
}

// RespondAutocomplete answers with campaign or date choices depending on the
// focused option name.
func RespondAutocomplete(as *utils.AppState, s *discordgo.Session, i *discordgo.InteractionCreate, options OptionMap) error {
	focused, ok := options.Focused()
	if !ok {
		as.InteractRespChoices(s, i, []*discordgo.ApplicationCommandOptionChoice{})
		return nil
	}
	text, _ := focused.Value.(string)

	var choices []*discordgo.ApplicationCommandOptionChoice
	switch focused.Name {
	case "campaign":
		caller, err := CallerOf(i)
		if err != nil {
			as.InteractRespChoices(s, i, []*discordgo.ApplicationCommandOptionChoice{})
			return nil
		}
		choices = CampaignChoices(as, caller.GuildID, text)
	case "date", "start":
		choices = DateChoices(as, text)
	default:
		choices = []*discordgo.ApplicationCommandOptionChoice{}
	}
	as.InteractRespChoices(s, i, choices)
	return nil
}
