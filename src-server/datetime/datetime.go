// Package datetime owns the one date format accepted at the boundary,
// "YYYY-MM-DD HH:MM", interpreted in a single configured location.
package datetime

import (
	"strings"
	"time"

	"dndbot/src-server/apperr"
)

const Layout = "2006-01-02 15:04"

// Clock carries the configured location and the source of "now". The zero
// value uses time.Local and time.Now.
type Clock struct {
	Location *time.Location
	NowFunc  func() time.Time
}

func NewClock(loc *time.Location) Clock {
	return Clock{Location: loc, NowFunc: time.Now}
}

// Fixed returns a clock frozen at t, for tests and replay.
func Fixed(t time.Time) Clock {
	return Clock{Location: t.Location(), NowFunc: func() time.Time { return t }}
}

func (c Clock) Now() time.Time {
	if c.NowFunc == nil {
		return time.Now()
	}
	return c.NowFunc()
}

func (c Clock) Loc() *time.Location {
	if c.Location == nil {
		return time.Local
	}
	return c.Location
}

// Parse reads s in Layout, in the clock's location.
func (c Clock) Parse(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, apperr.New(apperr.KindInvalidDate, "Clock.Parse", "date is blank")
	}
	t, err := time.ParseInLocation(Layout, s, c.Loc())
	if err != nil {
		return time.Time{}, &apperr.Error{
			Kind: apperr.KindInvalidDate,
			Op:   "Clock.Parse",
			Msg:  "expected YYYY-MM-DD HH:MM",
			Err:  err,
		}
	}
	return t, nil
}

// RequireFuture fails with PastDate unless t is strictly after now.
func (c Clock) RequireFuture(t time.Time) error {
	if !t.After(c.Now()) {
		return apperr.Newf(apperr.KindPastDate, "Clock.RequireFuture", "%s is not in the future", c.Format(t))
	}
	return nil
}

// ParseFuture is Parse followed by RequireFuture.
func (c Clock) ParseFuture(s string) (time.Time, error) {
	t, err := c.Parse(s)
	if err != nil {
		return time.Time{}, err
	}
	if err := c.RequireFuture(t); err != nil {
		return time.Time{}, err
	}
	return t, nil
}

func (c Clock) Format(t time.Time) string {
	return t.In(c.Loc()).Format(Layout)
}

// FormatUnix formats a stored unix timestamp, "" for an unset one.
func (c Clock) FormatUnix(unix int64) string {
	if unix == 0 {
		return ""
	}
	return c.Format(time.Unix(unix, 0))
}
