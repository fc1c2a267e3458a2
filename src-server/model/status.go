package model

import (
	"fmt"
	"strings"
)

// SessionStatus is stored as SMALLINT. Any status may be set from any other;
// there is no transition table.
type SessionStatus int16

const (
	SessionStatusPending SessionStatus = iota
	SessionStatusConfirmed
	SessionStatusCancelled
)

var SessionStatuses = []SessionStatus{
	SessionStatusPending,
	SessionStatusConfirmed,
	SessionStatusCancelled,
}

func (s SessionStatus) String() string {
	switch s {
	case SessionStatusPending:
		return "Pending"
	case SessionStatusConfirmed:
		return "Confirmed"
	case SessionStatusCancelled:
		return "Cancelled"
	default:
		return "Unknown"
	}
}

func (s SessionStatus) Valid() bool {
	return s >= SessionStatusPending && s <= SessionStatusCancelled
}

func ParseSessionStatus(s string) (SessionStatus, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pending", "0":
		return SessionStatusPending, nil
	case "confirmed", "accepted", "1":
		return SessionStatusConfirmed, nil
	case "cancelled", "canceled", "2":
		return SessionStatusCancelled, nil
	}
	return 0, fmt.Errorf("ParseSessionStatus: unknown status %q", s)
}

// Decision is a respondent's RSVP, stored as SMALLINT.
type Decision int16

const (
	DecisionNotGoing Decision = iota
	DecisionGoing
)

func (d Decision) String() string {
	switch d {
	case DecisionNotGoing:
		return "Not going"
	case DecisionGoing:
		return "Going"
	default:
		return "Unknown"
	}
}

func (d Decision) Valid() bool {
	return d == DecisionNotGoing || d == DecisionGoing
}

func ParseDecision(s string) (Decision, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "going", "yes", "y", "1":
		return DecisionGoing, nil
	case "not going", "not-going", "notgoing", "no", "n", "0":
		return DecisionNotGoing, nil
	}
	return 0, fmt.Errorf("ParseDecision: unknown decision %q", s)
}
