// Package discordid maps platform snowflakes (unsigned 64-bit, sent as decimal
// strings) to and from the signed BIGINT columns they are stored in.
package discordid

import (
	"fmt"
	"math"

	"github.com/bwmarrin/snowflake"
)

func ToStorage(id uint64) (int64, error) {
	if id > math.MaxInt64 {
		return 0, fmt.Errorf("ToStorage: id %d overflows int64", id)
	}
	return int64(id), nil
}

func FromStorage(id int64) (uint64, error) {
	if id < 0 {
		return 0, fmt.Errorf("FromStorage: id %d is negative", id)
	}
	return uint64(id), nil
}

// Parse a decimal snowflake as sent by Discord ("80351110224678912").
func Parse(s string) (int64, error) {
	if s == "" {
		return 0, fmt.Errorf("Parse: id is blank")
	}
	id, err := snowflake.ParseString(s)
	if err != nil {
		return 0, fmt.Errorf("Parse: %w", err)
	}
	if id.Int64() < 0 {
		return 0, fmt.Errorf("Parse: id %s is negative", s)
	}
	return id.Int64(), nil
}

// MustParse is Parse for ids the platform guarantees to be well formed
// (interaction guild/user ids). It returns 0 on failure.
func MustParse(s string) int64 {
	id, err := Parse(s)
	if err != nil {
		return 0
	}
	return id
}

func Format(id int64) string {
	return snowflake.ID(id).String()
}

// Mention renders a user id as a discord mention.
func Mention(id int64) string {
	return "<@" + Format(id) + ">"
}
