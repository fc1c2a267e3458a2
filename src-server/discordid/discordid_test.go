package discordid_test

import (
	"math"
	"testing"

	"dndbot/src-server/discordid"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	id, err := discordid.Parse("80351110224678912")
	require.NoError(t, err)
	assert.Equal(t, int64(80351110224678912), id)
	assert.Equal(t, "80351110224678912", discordid.Format(id))

	u, err := discordid.FromStorage(id)
	require.NoError(t, err)
	back, err := discordid.ToStorage(u)
	require.NoError(t, err)
	assert.Equal(t, id, back)
}

func TestRejectsOutOfRange(t *testing.T) {
	_, err := discordid.ToStorage(math.MaxUint64)
	assert.Error(t, err)

	_, err = discordid.FromStorage(-1)
	assert.Error(t, err)

	_, err = discordid.Parse("18446744073709551615")
	assert.Error(t, err)

	_, err = discordid.Parse("-5")
	assert.Error(t, err)

	_, err = discordid.Parse("")
	assert.Error(t, err)

	_, err = discordid.Parse("abc")
	assert.Error(t, err)
}

func TestMustParseAndMention(t *testing.T) {
	assert.Equal(t, int64(0), discordid.MustParse("nope"))
	assert.Equal(t, "<@42>", discordid.Mention(42))
}
