// Package attendance records RSVPs: one row per (session, respondent),
// overwritten in place by later answers.
package attendance

import (
	"context"
	"log/slog"

	"dndbot/src-server/apperr"
	"dndbot/src-server/datetime"
	"dndbot/src-server/model"
	"dndbot/src-server/schedule"

	"github.com/uptrace/bun"
)

type Ledger struct {
	clock    datetime.Clock
	sessions *schedule.Scheduler
}

func NewLedger(clock datetime.Clock, sessions *schedule.Scheduler) *Ledger {
	return &Ledger{clock: clock, sessions: sessions}
}

// Record stores respondent's decision for a session of the guild. Repeated
// calls overwrite decision and timestamp; concurrent calls for the same pair
// are serialized by the upsert, last commit wins. Cancelled sessions accept
// responses.
func (l *Ledger) Record(
	ctx context.Context,
	db bun.IDB,
	guildID int64,
	sessionID int64,
	respondentID int64,
	decision model.Decision,
) (*model.Response, error) {
	const op = "(*Ledger).Record"
	switch {
	case respondentID == 0:
		return nil, apperr.InvalidInput(op, "respondent id is required")
	case !decision.Valid():
		return nil, apperr.Newf(apperr.KindInvalidInput, op, "unknown decision %d", decision)
	}
	response := &model.Response{
		SessionID:    sessionID,
		RespondentID: respondentID,
		Decision:     decision,
		RespondedAt:  l.clock.Now().UTC().Unix(),
	}
	// the session check and the upsert commit together so a purge can't
	// slip in between them
	if err := db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := l.sessions.Get(ctx, tx, guildID, sessionID); err != nil {
			return err
		}
		_, err := tx.NewInsert().
			Model(response).
			On("CONFLICT (session_id, respondent_id) DO UPDATE").
			Set("decision = EXCLUDED.decision").
			Set("responded_at = EXCLUDED.responded_at").
			Exec(ctx)
		return err
	}); err != nil {
		return nil, apperr.Storage(op, err)
	}

	return response, nil
}

// RecordOnBehalf is Record for a proxy answer; actorID is only logged, the
// caller has already decided it may answer for respondentID.
func (l *Ledger) RecordOnBehalf(
	ctx context.Context,
	db bun.IDB,
	guildID int64,
	sessionID int64,
	respondentID int64,
	decision model.Decision,
	actorID int64,
) (*model.Response, error) {
	const op = "(*Ledger).RecordOnBehalf"
	if actorID == 0 {
		return nil, apperr.InvalidInput(op, "actor id is required")
	}
	response, err := l.Record(ctx, db, guildID, sessionID, respondentID, decision)
	if err != nil {
		return nil, err
	}
	slog.Info("proxy rsvp recorded",
		"guild", guildID,
		"session", sessionID,
		"respondent", respondentID,
		"actor", actorID,
		"decision", decision.String(),
	)
	return response, nil
}

// ListForSession returns every response of a session, oldest answer first.
func (l *Ledger) ListForSession(ctx context.Context, db bun.IDB, guildID int64, sessionID int64) ([]model.Response, error) {
	const op = "(*Ledger).ListForSession"
	if _, err := l.sessions.Get(ctx, db, guildID, sessionID); err != nil {
		return nil, err
	}
	responses := make([]model.Response, 0)
	if err := db.NewSelect().
		Model(&responses).
		Where("response.session_id = ?", sessionID).
		OrderExpr("response.responded_at ASC, response.id ASC").
		Scan(ctx); err != nil {
		return nil, apperr.Storage(op, err)
	}
	return responses, nil
}

// Tally splits respondents into display buckets.
type Tally struct {
	Going    []int64
	NotGoing []int64
}

func Partition(responses []model.Response) Tally {
	tally := Tally{
		Going:    make([]int64, 0),
		NotGoing: make([]int64, 0),
	}
	for _, response := range responses {
		switch response.Decision {
		case model.DecisionGoing:
			tally.Going = append(tally.Going, response.RespondentID)
		case model.DecisionNotGoing:
			tally.NotGoing = append(tally.NotGoing, response.RespondentID)
		}
	}
	return tally
}

// PartitionPtr is Partition for relation-loaded responses.
func PartitionPtr(responses []*model.Response) Tally {
	flat := make([]model.Response, 0, len(responses))
	for _, response := range responses {
		if response != nil {
			flat = append(flat, *response)
		}
	}
	return Partition(flat)
}
