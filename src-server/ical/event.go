package ical

import (
	"errors"
	"fmt"
	"time"
)

type Status string

const (
	StatusTentative Status = "TENTATIVE"
	StatusConfirmed Status = "CONFIRMED"
	StatusCancelled Status = "CANCELLED"
)

type Event struct {
	uid         string    // required
	summary     string    // required
	start       time.Time // required
	duration    time.Duration
	description string
	location    string
	url         string
	organizer   string
	status      Status
	stamp       time.Time
}

func NewEvent(uid string) *Event {
	return &Event{
		uid:      uid,
		duration: 4 * time.Hour,
		stamp:    time.Now(),
	}
}

// #region Setters

func (e *Event) SetSummary(summary string) *Event {
	e.summary = summary
	return e
}

func (e *Event) SetStart(start time.Time) *Event {
	e.start = start
	return e
}

func (e *Event) SetDuration(duration time.Duration) *Event {
	e.duration = duration
	return e
}

func (e *Event) SetDescription(description string) *Event {
	e.description = description
	return e
}

func (e *Event) SetLocation(location string) *Event {
	e.location = location
	return e
}

func (e *Event) SetURL(url string) *Event {
	e.url = url
	return e
}

// SetOrganizer takes a display name, written as CN with a placeholder
// mailto since chat users have no address.
func (e *Event) SetOrganizer(name string) *Event {
	e.organizer = name
	return e
}

func (e *Event) SetStatus(status Status) *Event {
	e.status = status
	return e
}

func (e *Event) SetStamp(stamp time.Time) *Event {
	e.stamp = stamp
	return e
}

// #endregion

// #region Getters

func (e *Event) GetUID() string {
	return e.uid
}

func (e *Event) GetSummary() string {
	return e.summary
}

func (e *Event) GetStart() time.Time {
	return e.start
}

func (e *Event) GetStatus() Status {
	return e.status
}

// #endregion

func (e *Event) validate() error {
	switch {
	case e.uid == "":
		return errors.New("uid is required")
	case e.summary == "":
		return fmt.Errorf("event %s: summary is required", e.uid)
	case e.start.IsZero():
		return fmt.Errorf("event %s: start is required", e.uid)
	}
	return nil
}

func (e *Event) toIcal(line func(string)) error {
	if err := e.validate(); err != nil {
		return err
	}

	line("BEGIN:VEVENT")
	line("UID:" + e.uid)
	line("DTSTAMP:" + FormatDateTime(e.stamp))
	line("DTSTART:" + FormatDateTime(e.start))
	if e.duration > 0 {
		line("DTEND:" + FormatDateTime(e.start.Add(e.duration)))
	}
	line("SUMMARY:" + EscapeText(e.summary))
	if e.description != "" {
		line("DESCRIPTION:" + EscapeText(e.description))
	}
	if e.location != "" {
		line("LOCATION:" + EscapeText(e.location))
	}
	if e.url != "" {
		line("URL:" + e.url)
	}
	if e.organizer != "" {
		line(fmt.Sprintf("ORGANIZER;CN=%s:mailto:noreply@invalid", quoteParam(e.organizer)))
	}
	if e.status != "" {
		line("STATUS:" + string(e.status))
	}
	line("END:VEVENT")
	return nil
}
