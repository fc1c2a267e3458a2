// The `ical` package serializes sessions into an iCalendar feed.
//
// # References:
// - RFC5545: https://datatracker.ietf.org/doc/html/rfc5545
//
// # Notes:
// - Only VEVENTs are written; no VTIMEZONE, all datetimes are UTC.
// - Content lines end with CRLF and are folded at 75 octets.
//
// # Example usage:
//
//	calendar := ical.NewCalendar("guild-1", "Campaign sessions")
//	calendar.AddEvent(ical.NewEvent("uid@host").SetSummary("Strahd").SetStart(t))
//	_ = calendar.ToIcal(func(s string) { sb.WriteString(s) })
package ical

import (
	"fmt"
	"sort"
)

const ProdID = "-//dndbot//sessions//EN"

type Calendar struct {
	id          string
	name        string
	description string
	events      []*Event
}

func NewCalendar(id string, name string) *Calendar {
	return &Calendar{
		id:     id,
		name:   name,
		events: make([]*Event, 0),
	}
}

func (c *Calendar) SetDescription(description string) *Calendar {
	c.description = description
	return c
}

func (c *Calendar) AddEvent(event *Event) *Calendar {
	c.events = append(c.events, event)
	return c
}

func (c *Calendar) GetID() string {
	return c.id
}

func (c *Calendar) Events() []*Event {
	return c.events
}

// ToIcal writes the whole VCALENDAR through write. Events are emitted in
// start order.
func (c *Calendar) ToIcal(write func(string)) error {
	line := Fold(write)

	sort.SliceStable(c.events, func(i, j int) bool {
		return c.events[i].start.Before(c.events[j].start)
	})

	line("BEGIN:VCALENDAR")
	line("VERSION:2.0")
	line("PRODID:" + ProdID)
	line("CALSCALE:GREGORIAN")
	line("METHOD:PUBLISH")
	if c.name != "" {
		line("X-WR-CALNAME:" + EscapeText(c.name))
	}
	if c.description != "" {
		line("X-WR-CALDESC:" + EscapeText(c.description))
	}
	for _, event := range c.events {
		if err := event.toIcal(line); err != nil {
			return fmt.Errorf("(*Calendar).ToIcal: %w", err)
		}
	}
	line("END:VCALENDAR")
	return nil
}
