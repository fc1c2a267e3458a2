package interact

import (
	"errors"
	"strings"
	"unicode"

	"dndbot/src-server/apperr"
	"dndbot/src-server/dice"
)

const (
	MsgNoPermission = "You do not have permission to use this command."
	msgInternal     = "Something went wrong on our side, please try again later."
	exampleDate     = "2030-01-01 18:00"
)

// UserMessage turns an error from the core into the text shown to the
// user. ok is false for failures that are the bot's fault; those should be
// logged and returned.
func UserMessage(err error) (msg string, ok bool) {
	if errors.Is(err, ErrNotInGuild) {
		return sentence(ErrNotInGuild.Error()), true
	}
	if errors.Is(err, dice.ErrInvalidDie) || errors.Is(err, dice.ErrInvalidCount) {
		return "That is not a roll I can make.", true
	}

	var appErr *apperr.Error
	if !errors.As(err, &appErr) {
		return msgInternal, false
	}
	switch appErr.Kind {
	case apperr.KindNotFound, apperr.KindDuplicateName:
		return sentence(appErr.Msg), true
	case apperr.KindInvalidDate:
		return "Invalid date, expected `YYYY-MM-DD HH:MM` (e.g. `" + exampleDate + "`).", true
	case apperr.KindPastDate:
		return "The date must be in the future.", true
	case apperr.KindInvalidInput:
		return "Invalid input: " + appErr.Msg + ".", true
	case apperr.KindUnauthorized:
		return MsgNoPermission, true
	default:
		return msgInternal, false
	}
}

// sentence capitalizes s and ends it with a period.
func sentence(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(s)
	runes[0] = unicode.ToUpper(runes[0])
	s = string(runes)
	if !strings.HasSuffix(s, ".") {
		s += "."
	}
	return s
}
