package attendance_test

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"dndbot/src-server/apperr"
	"dndbot/src-server/attendance"
	"dndbot/src-server/campaign"
	"dndbot/src-server/datetime"
	"dndbot/src-server/model"
	"dndbot/src-server/schedule"
	"dndbot/src-server/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
)

const (
	g1 int64 = 501
	u1 int64 = 1
	u2 int64 = 2
	u3 int64 = 3
)

type fixture struct {
	ctx       context.Context
	db        *bun.DB
	now       time.Time
	registry  *campaign.Registry
	scheduler *schedule.Scheduler
	ledger    *attendance.Ledger
}

func newFixture(t *testing.T) *fixture {
	f := &fixture{
		ctx: context.Background(),
		db:  testutil.MustOpenDB(t),
		now: time.Date(2029, 6, 1, 12, 0, 0, 0, time.UTC),
	}
	// advances one second per call so response order is observable
	tick := f.now
	var mu sync.Mutex
	clock := datetime.Clock{Location: time.UTC, NowFunc: func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		tick = tick.Add(time.Second)
		return tick
	}}
	f.registry = campaign.NewRegistry(clock)
	f.scheduler = schedule.NewScheduler(clock, f.registry)
	f.ledger = attendance.NewLedger(clock, f.scheduler)
	return f
}

func (f *fixture) strahdSession(t *testing.T) *model.Session {
	t.Helper()
	_, err := f.registry.Create(f.ctx, f.db, campaign.CreateParams{GuildID: g1, OwnerID: u1, Name: "Curse of Strahd"})
	require.NoError(t, err)
	s, err := f.scheduler.Create(f.ctx, f.db, schedule.CreateParams{
		GuildID:     g1,
		Campaign:    campaign.ByName("Curse of Strahd"),
		OrganizerID: u1,
		Location:    "Tavern",
		ScheduledAt: "2030-01-01 18:00",
	})
	require.NoError(t, err)
	return s
}

func TestStrahdScenario(t *testing.T) {
	f := newFixture(t)
	s := f.strahdSession(t)
	assert.Equal(t, model.SessionStatusPending, s.Status)

	_, err := f.ledger.Record(f.ctx, f.db, g1, s.ID, u2, model.DecisionGoing)
	require.NoError(t, err)

	responses, err := f.ledger.ListForSession(f.ctx, f.db, g1, s.ID)
	require.NoError(t, err)
	require.Len(t, responses, 1)
	assert.Equal(t, u2, responses[0].RespondentID)
	assert.Equal(t, model.DecisionGoing, responses[0].Decision)

	renamed, err := f.registry.Rename(f.ctx, f.db, g1, campaign.ByName("Curse of Strahd"), "Curse of Strahd")
	require.NoError(t, err)
	assert.Equal(t, "Curse of Strahd", renamed.Name)
}

func TestRecordOverwrites(t *testing.T) {
	f := newFixture(t)
	s := f.strahdSession(t)

	first, err := f.ledger.Record(f.ctx, f.db, g1, s.ID, u2, model.DecisionGoing)
	require.NoError(t, err)
	second, err := f.ledger.Record(f.ctx, f.db, g1, s.ID, u2, model.DecisionNotGoing)
	require.NoError(t, err)
	assert.Greater(t, second.RespondedAt, first.RespondedAt)

	responses, err := f.ledger.ListForSession(f.ctx, f.db, g1, s.ID)
	require.NoError(t, err)
	require.Len(t, responses, 1)
	assert.Equal(t, model.DecisionNotGoing, responses[0].Decision)
	assert.Equal(t, second.RespondedAt, responses[0].RespondedAt)
}

func TestRecordConcurrentSamePair(t *testing.T) {
	f := newFixture(t)
	s := f.strahdSession(t)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := f.ledger.Record(f.ctx, f.db, g1, s.ID, u3, model.Decision(i%2))
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	count, err := f.db.NewSelect().
		Model((*model.Response)(nil)).
		Where("session_id = ?", s.ID).
		Where("respondent_id = ?", u3).
		Count(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestRecordOnBehalf(t *testing.T) {
	f := newFixture(t)
	s := f.strahdSession(t)

	_, err := f.ledger.RecordOnBehalf(f.ctx, f.db, g1, s.ID, u3, model.DecisionGoing, u1)
	require.NoError(t, err)
	_, err = f.ledger.Record(f.ctx, f.db, g1, s.ID, u3, model.DecisionNotGoing)
	require.NoError(t, err)

	responses, err := f.ledger.ListForSession(f.ctx, f.db, g1, s.ID)
	require.NoError(t, err)
	require.Len(t, responses, 1)
	assert.Equal(t, model.DecisionNotGoing, responses[0].Decision)

	_, err = f.ledger.RecordOnBehalf(f.ctx, f.db, g1, s.ID, u3, model.DecisionGoing, 0)
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)
}

func TestRecordPreconditions(t *testing.T) {
	f := newFixture(t)
	s := f.strahdSession(t)

	_, err := f.ledger.Record(f.ctx, f.db, g1, s.ID+1, u2, model.DecisionGoing)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	_, err = f.ledger.Record(f.ctx, f.db, g1+1, s.ID, u2, model.DecisionGoing)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	_, err = f.ledger.Record(f.ctx, f.db, g1, s.ID, 0, model.DecisionGoing)
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)
	_, err = f.ledger.Record(f.ctx, f.db, g1, s.ID, u2, model.Decision(5))
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)
	_, err = f.ledger.ListForSession(f.ctx, f.db, g1, s.ID+1)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

// queryLog collects the statements that reach the database.
type queryLog struct {
	mu      sync.Mutex
	queries []string
}

func (l *queryLog) BeforeQuery(ctx context.Context, _ *bun.QueryEvent) context.Context {
	return ctx
}

func (l *queryLog) AfterQuery(_ context.Context, event *bun.QueryEvent) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.queries = append(l.queries, event.Query)
}

func (l *queryLog) indexOf(prefix string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i, q := range l.queries {
		if strings.HasPrefix(q, prefix) {
			return i
		}
	}
	return -1
}

func TestRecordChecksSessionInsideTransaction(t *testing.T) {
	f := newFixture(t)
	s := f.strahdSession(t)

	queries := &queryLog{}
	f.db.AddQueryHook(queries)

	_, err := f.ledger.Record(f.ctx, f.db, g1, s.ID, u2, model.DecisionGoing)
	require.NoError(t, err)

	begin := queries.indexOf("BEGIN")
	lookup := queries.indexOf(`SELECT "session"`)
	upsert := queries.indexOf(`INSERT INTO "responses"`)
	commit := queries.indexOf("COMMIT")
	require.NotEqual(t, -1, begin)
	require.NotEqual(t, -1, lookup)
	require.NotEqual(t, -1, upsert)
	require.NotEqual(t, -1, commit)
	assert.Less(t, begin, lookup)
	assert.Less(t, lookup, upsert)
	assert.Less(t, upsert, commit)
}

func TestRecordInCallerTransactionRollsBack(t *testing.T) {
	f := newFixture(t)
	s := f.strahdSession(t)

	tx, err := f.db.BeginTx(f.ctx, nil)
	require.NoError(t, err)
	_, err = f.ledger.Record(f.ctx, tx, g1, s.ID, u2, model.DecisionGoing)
	require.NoError(t, err)
	require.NoError(t, tx.Rollback())

	responses, err := f.ledger.ListForSession(f.ctx, f.db, g1, s.ID)
	require.NoError(t, err)
	assert.Empty(t, responses)
}

func TestRecordOnCancelledSession(t *testing.T) {
	f := newFixture(t)
	s := f.strahdSession(t)
	_, err := f.scheduler.Cancel(f.ctx, f.db, g1, s.ID)
	require.NoError(t, err)

	_, err = f.ledger.Record(f.ctx, f.db, g1, s.ID, u2, model.DecisionGoing)
	assert.NoError(t, err)
}

func TestPartition(t *testing.T) {
	f := newFixture(t)
	s := f.strahdSession(t)
	for _, r := range []struct {
		id       int64
		decision model.Decision
	}{{u1, model.DecisionGoing}, {u2, model.DecisionNotGoing}, {u3, model.DecisionGoing}} {
		_, err := f.ledger.Record(f.ctx, f.db, g1, s.ID, r.id, r.decision)
		require.NoError(t, err)
	}

	responses, err := f.ledger.ListForSession(f.ctx, f.db, g1, s.ID)
	require.NoError(t, err)
	tally := attendance.Partition(responses)
	assert.Equal(t, []int64{u1, u3}, tally.Going)
	assert.Equal(t, []int64{u2}, tally.NotGoing)

	empty := attendance.Partition(nil)
	assert.Empty(t, empty.Going)
	assert.Empty(t, empty.NotGoing)
}
