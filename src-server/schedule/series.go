package schedule

import (
	"context"
	"strings"

	"dndbot/src-server/apperr"
	"dndbot/src-server/model"

	"github.com/uptrace/bun"
	"github.com/xyedo/rrule"
)

const (
	MaxSeriesOccurrences = 52
	seriesHorizonYears   = 1
)

type SeriesParams struct {
	CreateParams
	// RFC 5545 recurrence, e.g. "FREQ=WEEKLY;COUNT=4". DTSTART is taken
	// from ScheduledAt.
	RRule string
}

// Occurrences expands rule from start, capped at MaxSeriesOccurrences and one
// year. The first occurrence is start itself.
func (s *Scheduler) Occurrences(p SeriesParams) ([]int64, error) {
	const op = "(*Scheduler).Occurrences"
	start, err := s.clock.ParseFuture(p.ScheduledAt)
	if err != nil {
		return nil, err
	}

	body := strings.TrimSpace(p.RRule)
	body = strings.TrimPrefix(strings.ToUpper(body), "RRULE:")
	if body == "" {
		return nil, apperr.InvalidInput(op, "recurrence rule is blank")
	}
	option, err := rrule.StrToROption(body)
	if err != nil {
		return nil, &apperr.Error{Kind: apperr.KindInvalidInput, Op: op, Msg: "invalid recurrence rule", Err: err}
	}
	option.Dtstart = start
	rule, err := rrule.NewRRule(*option)
	if err != nil {
		return nil, &apperr.Error{Kind: apperr.KindInvalidInput, Op: op, Msg: "invalid recurrence rule", Err: err}
	}

	dates := rule.Between(start, start.AddDate(seriesHorizonYears, 0, 0), true)
	if len(dates) == 0 {
		return nil, apperr.InvalidInput(op, "recurrence rule yields no dates")
	}
	if len(dates) > MaxSeriesOccurrences {
		dates = dates[:MaxSeriesOccurrences]
	}

	result := make([]int64, len(dates))
	for i, date := range dates {
		result[i] = date.UTC().Unix()
	}
	return result, nil
}

// CreateSeries inserts one Pending session per occurrence in a single
// transaction; either all of them exist afterwards or none.
func (s *Scheduler) CreateSeries(ctx context.Context, db bun.IDB, p SeriesParams) ([]model.Session, error) {
	const op = "(*Scheduler).CreateSeries"
	if p.OrganizerID == 0 {
		return nil, apperr.InvalidInput(op, "organizer id is required")
	}
	dates, err := s.Occurrences(p)
	if err != nil {
		return nil, err
	}

	createdAt := s.clock.Now().UTC().Unix()
	location := strings.TrimSpace(p.Location)
	sessions := make([]model.Session, len(dates))
	if err := db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		c, err := s.campaigns.Get(ctx, tx, p.GuildID, p.Campaign)
		if err != nil {
			return err
		}
		for i, date := range dates {
			sessions[i] = model.Session{
				CampaignID:  c.ID,
				OrganizerID: p.OrganizerID,
				Location:    location,
				Status:      model.SessionStatusPending,
				CreatedAt:   createdAt,
				ScheduledAt: date,
				Campaign:    c,
			}
		}
		if _, err := tx.NewInsert().
			Model(&sessions).
			Exec(ctx); err != nil {
			return apperr.Storage(op, err)
		}
		return nil
	}); err != nil {
		return nil, apperr.Storage(op, err)
	}

	return sessions, nil
}
