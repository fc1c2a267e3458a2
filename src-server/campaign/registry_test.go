package campaign_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"dndbot/src-server/apperr"
	"dndbot/src-server/campaign"
	"dndbot/src-server/datetime"
	"dndbot/src-server/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
)

const (
	guildA int64 = 1001
	guildB int64 = 1002
	owner  int64 = 42
)

func newRegistry() *campaign.Registry {
	return campaign.NewRegistry(datetime.Fixed(time.Date(2029, 6, 1, 12, 0, 0, 0, time.UTC)))
}

func TestCreateAndGet(t *testing.T) {
	ctx := context.Background()
	db := testutil.MustOpenDB(t)
	reg := newRegistry()

	created, err := reg.Create(ctx, db, campaign.CreateParams{
		GuildID:     guildA,
		OwnerID:     owner,
		Name:        "Curse of Strahd",
		Description: "Gothic horror",
		Link:        "https://example.com/strahd",
	})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.Equal(t, time.Date(2029, 6, 1, 12, 0, 0, 0, time.UTC).Unix(), created.CreatedAt)

	byName, err := reg.Get(ctx, db, guildA, campaign.ByName("Curse of Strahd"))
	require.NoError(t, err)
	assert.Equal(t, created.ID, byName.ID)
	assert.Equal(t, "Gothic horror", byName.Description)

	byID, err := reg.Get(ctx, db, guildA, campaign.ByID(created.ID))
	require.NoError(t, err)
	assert.Equal(t, "Curse of Strahd", byID.Name)

	_, err = reg.Get(ctx, db, guildB, campaign.ByID(created.ID))
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestCreateValidation(t *testing.T) {
	ctx := context.Background()
	db := testutil.MustOpenDB(t)
	reg := newRegistry()

	cases := map[string]campaign.CreateParams{
		"blank name":  {GuildID: guildA, OwnerID: owner, Name: "   "},
		"no guild":    {OwnerID: owner, Name: "x"},
		"no owner":    {GuildID: guildA, Name: "x"},
		"broken link": {GuildID: guildA, OwnerID: owner, Name: "x", Link: "not a url"},
	}
	for name, p := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := reg.Create(ctx, db, p)
			assert.ErrorIs(t, err, apperr.ErrInvalidInput)
		})
	}
}

func TestCreateDuplicate(t *testing.T) {
	ctx := context.Background()
	db := testutil.MustOpenDB(t)
	reg := newRegistry()

	_, err := reg.Create(ctx, db, campaign.CreateParams{GuildID: guildA, OwnerID: owner, Name: "Tomb"})
	require.NoError(t, err)

	_, err = reg.Create(ctx, db, campaign.CreateParams{GuildID: guildA, OwnerID: owner + 1, Name: "Tomb"})
	assert.ErrorIs(t, err, apperr.ErrDuplicateName)

	// other guilds and other casings are distinct names
	_, err = reg.Create(ctx, db, campaign.CreateParams{GuildID: guildB, OwnerID: owner, Name: "Tomb"})
	assert.NoError(t, err)
	_, err = reg.Create(ctx, db, campaign.CreateParams{GuildID: guildA, OwnerID: owner, Name: "tomb"})
	assert.NoError(t, err)
}

func TestCreateConcurrentSameName(t *testing.T) {
	ctx := context.Background()
	db := testutil.MustOpenDB(t)
	reg := newRegistry()

	const workers = 8
	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = reg.Create(ctx, db, campaign.CreateParams{GuildID: guildA, OwnerID: owner, Name: "Race"})
		}(i)
	}
	wg.Wait()

	ok := 0
	for _, err := range errs {
		if err == nil {
			ok++
			continue
		}
		assert.ErrorIs(t, err, apperr.ErrDuplicateName)
	}
	assert.Equal(t, 1, ok)

	list, err := reg.List(ctx, db, guildA)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

// rivalInsert slips a live campaign named name into tx right before the first
// statement starting with prefix, after the registry's own name check ran.
type rivalInsert struct {
	tx     bun.Tx
	prefix string
	name   string
	fired  bool
}

func (h *rivalInsert) BeforeQuery(ctx context.Context, event *bun.QueryEvent) context.Context {
	if h.fired || !strings.HasPrefix(event.Query, h.prefix) {
		return ctx
	}
	h.fired = true
	_, _ = h.tx.ExecContext(ctx,
		"INSERT INTO campaigns (guild_id, owner_id, name, created_at) VALUES (?, ?, ?, ?)",
		guildA, owner+1, h.name, int64(0))
	return ctx
}

func (h *rivalInsert) AfterQuery(context.Context, *bun.QueryEvent) {}

func beginTx(t *testing.T, db *bun.DB) bun.Tx {
	t.Helper()
	tx, err := db.BeginTx(context.Background(), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = tx.Rollback() })
	return tx
}

func TestCreateUniqueIndexRejectsLateDuplicate(t *testing.T) {
	ctx := context.Background()
	db := testutil.MustOpenDB(t)
	reg := newRegistry()
	tx := beginTx(t, db)

	hook := &rivalInsert{tx: tx, prefix: `INSERT INTO "campaigns"`, name: "Race"}
	db.AddQueryHook(hook)

	_, err := reg.Create(ctx, tx, campaign.CreateParams{GuildID: guildA, OwnerID: owner, Name: "Race"})
	require.True(t, hook.fired)
	assert.ErrorIs(t, err, apperr.ErrDuplicateName)
	assert.Contains(t, err.Error(), `campaign "Race" already exists`)
	assert.True(t, apperr.IsUniqueViolation(errors.Unwrap(err)))

	list, err := reg.List(ctx, tx, guildA)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, owner+1, list[0].OwnerID)
}

func TestRenameUniqueIndexRejectsLateDuplicate(t *testing.T) {
	ctx := context.Background()
	db := testutil.MustOpenDB(t)
	reg := newRegistry()
	tx := beginTx(t, db)

	original, err := reg.Create(ctx, tx, campaign.CreateParams{GuildID: guildA, OwnerID: owner, Name: "Tomb"})
	require.NoError(t, err)

	hook := &rivalInsert{tx: tx, prefix: `UPDATE "campaigns"`, name: "Race"}
	db.AddQueryHook(hook)

	_, err = reg.Rename(ctx, tx, guildA, campaign.ByID(original.ID), "Race")
	require.True(t, hook.fired)
	assert.ErrorIs(t, err, apperr.ErrDuplicateName)
	assert.Contains(t, err.Error(), `campaign "Race" already exists`)
	assert.True(t, apperr.IsUniqueViolation(errors.Unwrap(err)))

	kept, err := reg.Get(ctx, tx, guildA, campaign.ByID(original.ID))
	require.NoError(t, err)
	assert.Equal(t, "Tomb", kept.Name)
}

func TestResolveIsExact(t *testing.T) {
	ctx := context.Background()
	db := testutil.MustOpenDB(t)
	reg := newRegistry()

	created, err := reg.Create(ctx, db, campaign.CreateParams{GuildID: guildA, OwnerID: owner, Name: "Rime"})
	require.NoError(t, err)

	id, err := reg.Resolve(ctx, db, guildA, "Rime")
	require.NoError(t, err)
	assert.Equal(t, created.ID, id)

	for _, name := range []string{"rime", "Rim", "Rime ", ""} {
		_, err := reg.Resolve(ctx, db, guildA, name)
		assert.Error(t, err, name)
	}
}

func TestComplete(t *testing.T) {
	ctx := context.Background()
	db := testutil.MustOpenDB(t)
	reg := newRegistry()

	for _, name := range []string{"Storm King", "Strahd", "strange", "Tomb"} {
		_, err := reg.Create(ctx, db, campaign.CreateParams{GuildID: guildA, OwnerID: owner, Name: name})
		require.NoError(t, err)
	}

	names, err := reg.Complete(ctx, db, guildA, "St", 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"Storm King", "Strahd"}, names)

	names, err = reg.Complete(ctx, db, guildA, "", 2)
	require.NoError(t, err)
	assert.Len(t, names, 2)

	names, err = reg.Complete(ctx, db, guildB, "St", 10)
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestListAndListByOwner(t *testing.T) {
	ctx := context.Background()
	db := testutil.MustOpenDB(t)
	reg := newRegistry()

	for i, name := range []string{"Zeta", "Alpha", "Mid"} {
		_, err := reg.Create(ctx, db, campaign.CreateParams{GuildID: guildA, OwnerID: owner + int64(i%2), Name: name})
		require.NoError(t, err)
	}

	list, err := reg.List(ctx, db, guildA)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "Alpha", list[0].Name)
	assert.Equal(t, "Zeta", list[2].Name)

	mine, err := reg.ListByOwner(ctx, db, guildA, owner)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, "Mid", mine[0].Name)
	assert.Equal(t, "Zeta", mine[1].Name)
}

func TestRename(t *testing.T) {
	ctx := context.Background()
	db := testutil.MustOpenDB(t)
	reg := newRegistry()

	created, err := reg.Create(ctx, db, campaign.CreateParams{GuildID: guildA, OwnerID: owner, Name: "Old"})
	require.NoError(t, err)
	_, err = reg.Create(ctx, db, campaign.CreateParams{GuildID: guildA, OwnerID: owner, Name: "Taken"})
	require.NoError(t, err)

	t.Run("same name is a no-op", func(t *testing.T) {
		got, err := reg.Rename(ctx, db, guildA, campaign.ByName("Old"), "Old")
		require.NoError(t, err)
		assert.Equal(t, created.ID, got.ID)
	})

	t.Run("clash", func(t *testing.T) {
		_, err := reg.Rename(ctx, db, guildA, campaign.ByName("Old"), "Taken")
		assert.ErrorIs(t, err, apperr.ErrDuplicateName)
	})

	t.Run("missing", func(t *testing.T) {
		_, err := reg.Rename(ctx, db, guildA, campaign.ByName("Nope"), "Whatever")
		assert.ErrorIs(t, err, apperr.ErrNotFound)
	})

	t.Run("ok", func(t *testing.T) {
		got, err := reg.Rename(ctx, db, guildA, campaign.ByID(created.ID), "New")
		require.NoError(t, err)
		assert.Equal(t, "New", got.Name)

		_, err = reg.Resolve(ctx, db, guildA, "Old")
		assert.ErrorIs(t, err, apperr.ErrNotFound)
		id, err := reg.Resolve(ctx, db, guildA, "New")
		require.NoError(t, err)
		assert.Equal(t, created.ID, id)
	})
}

func TestUpdateFields(t *testing.T) {
	ctx := context.Background()
	db := testutil.MustOpenDB(t)
	reg := newRegistry()

	created, err := reg.Create(ctx, db, campaign.CreateParams{GuildID: guildA, OwnerID: owner, Name: "Edit me", Description: "before"})
	require.NoError(t, err)
	ref := campaign.ByID(created.ID)

	_, err = reg.UpdateOwner(ctx, db, guildA, ref, 77)
	require.NoError(t, err)
	_, err = reg.UpdateDescription(ctx, db, guildA, ref, "after")
	require.NoError(t, err)
	_, err = reg.UpdateLink(ctx, db, guildA, ref, "https://example.com/wiki")
	require.NoError(t, err)

	got, err := reg.Get(ctx, db, guildA, ref)
	require.NoError(t, err)
	assert.Equal(t, int64(77), got.OwnerID)
	assert.Equal(t, "after", got.Description)
	assert.Equal(t, "https://example.com/wiki", got.Link)
	assert.Equal(t, "Edit me", got.Name)

	_, err = reg.UpdateLink(ctx, db, guildA, ref, "::nope")
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)
	_, err = reg.UpdateOwner(ctx, db, guildA, ref, 0)
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)
}

func TestSoftDelete(t *testing.T) {
	ctx := context.Background()
	db := testutil.MustOpenDB(t)
	reg := newRegistry()

	created, err := reg.Create(ctx, db, campaign.CreateParams{GuildID: guildA, OwnerID: owner, Name: "Gone"})
	require.NoError(t, err)

	require.NoError(t, reg.SoftDelete(ctx, db, guildA, campaign.ByName("Gone")))

	_, err = reg.Get(ctx, db, guildA, campaign.ByID(created.ID))
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	err = reg.SoftDelete(ctx, db, guildA, campaign.ByName("Gone"))
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	list, err := reg.List(ctx, db, guildA)
	require.NoError(t, err)
	assert.Empty(t, list)

	// the name is free again
	again, err := reg.Create(ctx, db, campaign.CreateParams{GuildID: guildA, OwnerID: owner, Name: "Gone"})
	require.NoError(t, err)
	assert.NotEqual(t, created.ID, again.ID)
}
