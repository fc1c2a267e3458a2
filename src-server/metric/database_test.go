package metric

import (
	"context"
	"testing"

	"dndbot/src-server/model"
	dbtest "dndbot/src-server/testutil"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueryHookObserves(t *testing.T) {
	reg := prometheus.NewRegistry()
	hook := NewQueryHook(reg)
	db := dbtest.MustOpenDB(t)
	db.AddQueryHook(hook)

	ctx := context.Background()
	_, err := db.NewInsert().Model(&model.Setting{GuildID: 1}).Exec(ctx)
	require.NoError(t, err)
	_, err = db.NewSelect().Model((*model.Setting)(nil)).Where("guild_id = ?", 1).Exists(ctx)
	require.NoError(t, err)

	assert.Equal(t, 2, testutil.CollectAndCount(reg, "dndbot_database_query_seconds"))

	// registering twice reuses the collector
	again := NewQueryHook(reg)
	assert.Same(t, hook.latency, again.latency)
}
