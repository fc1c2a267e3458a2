package model_test

import (
	"context"
	"testing"

	"dndbot/src-server/model"
	"dndbot/src-server/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateSchemaIsIdempotent(t *testing.T) {
	db := testutil.MustOpenDB(t)
	require.NoError(t, model.CreateSchema(context.Background(), db))
}

func TestResponseUniquePerSessionRespondent(t *testing.T) {
	ctx := context.Background()
	db := testutil.MustOpenDB(t)

	campaign := &model.Campaign{GuildID: 1, OwnerID: 2, Name: "Curse of Strahd", CreatedAt: 1}
	_, err := db.NewInsert().Model(campaign).Exec(ctx)
	require.NoError(t, err)
	session := &model.Session{CampaignID: campaign.ID, OrganizerID: 2, CreatedAt: 1}
	_, err = db.NewInsert().Model(session).Exec(ctx)
	require.NoError(t, err)

	_, err = db.NewInsert().Model(&model.Response{SessionID: session.ID, RespondentID: 3, RespondedAt: 1}).Exec(ctx)
	require.NoError(t, err)
	_, err = db.NewInsert().Model(&model.Response{SessionID: session.ID, RespondentID: 3, RespondedAt: 2}).Exec(ctx)
	assert.Error(t, err)
}

func TestCampaignNameUniqueOnlyAmongLiveRows(t *testing.T) {
	ctx := context.Background()
	db := testutil.MustOpenDB(t)

	first := &model.Campaign{GuildID: 1, OwnerID: 2, Name: "Tomb", CreatedAt: 1}
	_, err := db.NewInsert().Model(first).Exec(ctx)
	require.NoError(t, err)

	_, err = db.NewInsert().Model(&model.Campaign{GuildID: 1, OwnerID: 2, Name: "Tomb", CreatedAt: 1}).Exec(ctx)
	assert.Error(t, err, "live duplicate in same guild")

	_, err = db.NewInsert().Model(&model.Campaign{GuildID: 9, OwnerID: 2, Name: "Tomb", CreatedAt: 1}).Exec(ctx)
	assert.NoError(t, err, "other guild")

	_, err = db.NewInsert().Model(&model.Campaign{GuildID: 1, OwnerID: 2, Name: "tomb", CreatedAt: 1}).Exec(ctx)
	assert.NoError(t, err, "names are case-sensitive")

	_, err = db.NewUpdate().Model((*model.Campaign)(nil)).Set("deleted = ?", true).Where("id = ?", first.ID).Exec(ctx)
	require.NoError(t, err)
	_, err = db.NewInsert().Model(&model.Campaign{GuildID: 1, OwnerID: 2, Name: "Tomb", CreatedAt: 1}).Exec(ctx)
	assert.NoError(t, err, "soft-deleted row frees the name")
}

func TestSessionRequiresExistingCampaign(t *testing.T) {
	db := testutil.MustOpenDB(t)
	_, err := db.NewInsert().Model(&model.Session{CampaignID: 404, OrganizerID: 1, CreatedAt: 1}).Exec(context.Background())
	assert.Error(t, err)
}

func TestStatusAndDecisionParsing(t *testing.T) {
	for _, status := range model.SessionStatuses {
		parsed, err := model.ParseSessionStatus(status.String())
		require.NoError(t, err)
		assert.Equal(t, status, parsed)
	}
	_, err := model.ParseSessionStatus("finished")
	assert.Error(t, err)
	assert.False(t, model.SessionStatus(7).Valid())
	assert.Equal(t, "Unknown", model.SessionStatus(7).String())

	d, err := model.ParseDecision("yes")
	require.NoError(t, err)
	assert.Equal(t, model.DecisionGoing, d)
	d, err = model.ParseDecision("Not going")
	require.NoError(t, err)
	assert.Equal(t, model.DecisionNotGoing, d)
	assert.False(t, model.Decision(4).Valid())
}
