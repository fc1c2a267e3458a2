package session_handler

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSeriesRule(t *testing.T) {
	assert.Equal(t, "FREQ=WEEKLY;COUNT=4", seriesRule("", 4, ""))
	assert.Equal(t, "FREQ=WEEKLY;INTERVAL=2;COUNT=6", seriesRule("FREQ=WEEKLY;INTERVAL=2", 6, ""))
	assert.Equal(t, "FREQ=DAILY;COUNT=3", seriesRule("FREQ=MONTHLY", 10, "FREQ=DAILY;COUNT=3"))
}

func TestRepeatChoicesAreRules(t *testing.T) {
	for _, choice := range repeatChoices {
		assert.Contains(t, choice.Value, "FREQ=")
	}
}
