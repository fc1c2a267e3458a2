// Package schedule owns sessions: future-dated creation, status changes,
// community-wide cancellation and purge, listing and recurring series.
package schedule

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"strings"
	"time"

	"dndbot/src-server/apperr"
	"dndbot/src-server/campaign"
	"dndbot/src-server/datetime"
	"dndbot/src-server/model"

	"github.com/uptrace/bun"
)

type Scheduler struct {
	clock     datetime.Clock
	campaigns *campaign.Registry
}

func NewScheduler(clock datetime.Clock, campaigns *campaign.Registry) *Scheduler {
	return &Scheduler{clock: clock, campaigns: campaigns}
}

type CreateParams struct {
	GuildID     int64
	Campaign    campaign.Ref
	OrganizerID int64
	Location    string
	ScheduledAt string // "YYYY-MM-DD HH:MM"
}

// Create schedules a Pending session under a live campaign. The date is
// checked before anything is written.
func (s *Scheduler) Create(ctx context.Context, db bun.IDB, p CreateParams) (*model.Session, error) {
	const op = "(*Scheduler).Create"
	if p.OrganizerID == 0 {
		return nil, apperr.InvalidInput(op, "organizer id is required")
	}
	scheduledAt, err := s.clock.ParseFuture(p.ScheduledAt)
	if err != nil {
		return nil, err
	}

	session := &model.Session{
		OrganizerID: p.OrganizerID,
		Location:    strings.TrimSpace(p.Location),
		Status:      model.SessionStatusPending,
		CreatedAt:   s.clock.Now().UTC().Unix(),
		ScheduledAt: scheduledAt.UTC().Unix(),
	}
	if err := db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		c, err := s.campaigns.Get(ctx, tx, p.GuildID, p.Campaign)
		if err != nil {
			return err
		}
		session.CampaignID = c.ID
		session.Campaign = c
		if _, err := tx.NewInsert().
			Model(session).
			Exec(ctx); err != nil {
			return apperr.Storage(op, err)
		}
		return nil
	}); err != nil {
		return nil, apperr.Storage(op, err)
	}

	return session, nil
}

// Get finds a session by id within a guild. Sessions of soft-deleted
// campaigns are still returned.
func (s *Scheduler) Get(ctx context.Context, db bun.IDB, guildID int64, sessionID int64) (*model.Session, error) {
	const op = "(*Scheduler).Get"
	session := new(model.Session)
	if err := db.NewSelect().
		Model(session).
		Relation("Campaign").
		Where("session.id = ?", sessionID).
		Where("campaign.guild_id = ?", guildID).
		Limit(1).
		Scan(ctx); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.Newf(apperr.KindNotFound, op, "session #%d not found", sessionID)
		}
		return nil, apperr.Storage(op, err)
	}
	return session, nil
}

// update re-reads the session inside a transaction, lets mutate change it and
// report which columns it touched, then writes only those.
func (s *Scheduler) update(
	ctx context.Context,
	db bun.IDB,
	op string,
	guildID int64,
	sessionID int64,
	mutate func(session *model.Session) []string,
) (*model.Session, error) {
	var updated *model.Session
	if err := db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		session, err := s.Get(ctx, tx, guildID, sessionID)
		if err != nil {
			return err
		}
		updated = session
		columns := mutate(session)
		if len(columns) == 0 {
			return nil
		}
		if _, err := tx.NewUpdate().
			Model(session).
			Column(columns...).
			WherePK().
			Exec(ctx); err != nil {
			return apperr.Storage(op, err)
		}
		return nil
	}); err != nil {
		return nil, apperr.Storage(op, err)
	}
	return updated, nil
}

// Reschedule moves a session to a new strictly-future date and re-arms its
// reminder.
func (s *Scheduler) Reschedule(ctx context.Context, db bun.IDB, guildID int64, sessionID int64, date string) (*model.Session, error) {
	const op = "(*Scheduler).Reschedule"
	scheduledAt, err := s.clock.ParseFuture(date)
	if err != nil {
		return nil, err
	}
	return s.update(ctx, db, op, guildID, sessionID, func(session *model.Session) []string {
		if session.ScheduledAt == scheduledAt.UTC().Unix() {
			return nil
		}
		session.ScheduledAt = scheduledAt.UTC().Unix()
		session.Reminded = false
		return []string{"scheduled_at", "reminded"}
	})
}

// Relocate sets the location; blank clears it.
func (s *Scheduler) Relocate(ctx context.Context, db bun.IDB, guildID int64, sessionID int64, location string) (*model.Session, error) {
	const op = "(*Scheduler).Relocate"
	location = strings.TrimSpace(location)
	return s.update(ctx, db, op, guildID, sessionID, func(session *model.Session) []string {
		if session.Location == location {
			return nil
		}
		session.Location = location
		return []string{"location"}
	})
}

// SetStatus overwrites the status. Every status is reachable from every
// other, including reopening a cancelled session.
func (s *Scheduler) SetStatus(ctx context.Context, db bun.IDB, guildID int64, sessionID int64, status model.SessionStatus) (*model.Session, error) {
	const op = "(*Scheduler).SetStatus"
	if !status.Valid() {
		return nil, apperr.Newf(apperr.KindInvalidInput, op, "unknown status %d", status)
	}
	return s.update(ctx, db, op, guildID, sessionID, func(session *model.Session) []string {
		if session.Status == status {
			return nil
		}
		session.Status = status
		return []string{"status"}
	})
}

func (s *Scheduler) Cancel(ctx context.Context, db bun.IDB, guildID int64, sessionID int64) (*model.Session, error) {
	return s.SetStatus(ctx, db, guildID, sessionID, model.SessionStatusCancelled)
}

// guildCampaignIDs selects the ids of every campaign of a guild, deleted
// ones included.
func guildCampaignIDs(db bun.IDB, guildID int64) *bun.SelectQuery {
	return db.NewSelect().
		Model((*model.Campaign)(nil)).
		Column("id").
		Where("guild_id = ?", guildID)
}

// BulkCancel cancels every session of every campaign in the guild, deleted
// campaigns included, as one statement in one transaction. It returns how
// many sessions changed status.
func (s *Scheduler) BulkCancel(ctx context.Context, db bun.IDB, guildID int64) (int64, error) {
	const op = "(*Scheduler).BulkCancel"
	var affected int64
	if err := db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		res, err := tx.NewUpdate().
			Model((*model.Session)(nil)).
			Set("status = ?", model.SessionStatusCancelled).
			Where("campaign_id IN (?)", guildCampaignIDs(tx, guildID)).
			Where("status != ?", model.SessionStatusCancelled).
			Exec(ctx)
		if err != nil {
			return err
		}
		affected, err = res.RowsAffected()
		return err
	}); err != nil {
		return 0, apperr.Storage(op, err)
	}

	slog.Info("sessions bulk cancelled", "guild", guildID, "count", affected)
	return affected, nil
}

// Purge physically deletes every response and then every session of the
// guild in one transaction. It returns the number of sessions removed.
func (s *Scheduler) Purge(ctx context.Context, db bun.IDB, guildID int64) (int64, error) {
	const op = "(*Scheduler).Purge"
	var affected int64
	if err := db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		sessionIDs := tx.NewSelect().
			Model((*model.Session)(nil)).
			Column("id").
			Where("campaign_id IN (?)", guildCampaignIDs(tx, guildID))
		if _, err := tx.NewDelete().
			Model((*model.Response)(nil)).
			Where("session_id IN (?)", sessionIDs).
			Exec(ctx); err != nil {
			return err
		}
		res, err := tx.NewDelete().
			Model((*model.Session)(nil)).
			Where("campaign_id IN (?)", guildCampaignIDs(tx, guildID)).
			Exec(ctx)
		if err != nil {
			return err
		}
		affected, err = res.RowsAffected()
		return err
	}); err != nil {
		return 0, apperr.Storage(op, err)
	}

	slog.Info("sessions purged", "guild", guildID, "count", affected)
	return affected, nil
}

type ListFilter struct {
	GuildID int64
	// nil lists every live campaign of the guild
	Campaign         *campaign.Ref
	UpcomingOnly     bool
	ExcludeCancelled bool
	// load the responses of each session
	WithResponses bool
}

// List returns sessions with their campaign joined, ordered by date with
// undated sessions last.
func (s *Scheduler) List(ctx context.Context, db bun.IDB, f ListFilter) ([]model.Session, error) {
	const op = "(*Scheduler).List"
	sessions := make([]model.Session, 0)
	q := db.NewSelect().
		Model(&sessions).
		Relation("Campaign").
		Where("campaign.guild_id = ?", f.GuildID)
	if f.WithResponses {
		q = q.Relation("Responses")
	}
	if f.Campaign != nil {
		c, err := s.campaigns.Get(ctx, db, f.GuildID, *f.Campaign)
		if err != nil {
			return nil, err
		}
		q = q.Where("session.campaign_id = ?", c.ID)
	} else {
		q = q.Where("NOT campaign.deleted")
	}
	if f.UpcomingOnly {
		q = q.Where("session.scheduled_at > ?", s.clock.Now().UTC().Unix())
	}
	if f.ExcludeCancelled {
		q = q.Where("session.status != ?", model.SessionStatusCancelled)
	}

	if err := q.
		OrderExpr("session.scheduled_at IS NULL, session.scheduled_at ASC, session.id ASC").
		Scan(ctx); err != nil {
		return nil, apperr.Storage(op, err)
	}
	return sessions, nil
}

// DueForReminder lists non-cancelled sessions of live campaigns, across all
// guilds, that start within window and were not reminded yet. Responses are
// loaded.
func (s *Scheduler) DueForReminder(ctx context.Context, db bun.IDB, window time.Duration) ([]model.Session, error) {
	const op = "(*Scheduler).DueForReminder"
	now := s.clock.Now().UTC()
	sessions := make([]model.Session, 0)
	if err := db.NewSelect().
		Model(&sessions).
		Relation("Campaign").
		Relation("Responses").
		Where("NOT campaign.deleted").
		Where("NOT session.reminded").
		Where("session.status != ?", model.SessionStatusCancelled).
		Where("session.scheduled_at > ?", now.Unix()).
		Where("session.scheduled_at <= ?", now.Add(window).Unix()).
		OrderExpr("session.scheduled_at ASC, session.id ASC").
		Scan(ctx); err != nil {
		return nil, apperr.Storage(op, err)
	}
	return sessions, nil
}

func (s *Scheduler) MarkReminded(ctx context.Context, db bun.IDB, sessionIDs []int64) error {
	const op = "(*Scheduler).MarkReminded"
	if len(sessionIDs) == 0 {
		return nil
	}
	if _, err := db.NewUpdate().
		Model((*model.Session)(nil)).
		Set("reminded = ?", true).
		Where("id IN (?)", bun.In(sessionIDs)).
		Exec(ctx); err != nil {
		return apperr.Storage(op, err)
	}
	return nil
}
