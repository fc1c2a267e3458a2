// Package apperr holds the error taxonomy shared by the campaign registry,
// the session scheduler and the attendance ledger.
//
// Business outcomes (missing rows, name clashes, bad dates) are returned as
// *Error values and matched by kind:
//
//	if errors.Is(err, apperr.ErrNotFound) { ... }
//
// Anything the storage layer throws that is not one of those is wrapped as
// KindStorage and is fatal for the request.
package apperr

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

type Kind int

const (
	KindUnknown Kind = iota
	KindNotFound
	KindDuplicateName
	KindInvalidDate
	KindPastDate
	KindInvalidInput
	KindUnauthorized
	KindStorage
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindDuplicateName:
		return "duplicate_name"
	case KindInvalidDate:
		return "invalid_date"
	case KindPastDate:
		return "past_date"
	case KindInvalidInput:
		return "invalid_input"
	case KindUnauthorized:
		return "unauthorized"
	case KindStorage:
		return "storage"
	default:
		return "unknown"
	}
}

type Error struct {
	Kind Kind
	Op   string // e.g. "(*Registry).Create"
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	var sb strings.Builder
	if e.Op != "" {
		sb.WriteString(e.Op)
		sb.WriteString(": ")
	}
	sb.WriteString(e.Msg)
	if e.Err != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Err.Error())
	}
	return sb.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same kind, so the sentinels below work with
// errors.Is regardless of Op/Msg.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

var (
	ErrNotFound      = &Error{Kind: KindNotFound, Msg: "not found"}
	ErrDuplicateName = &Error{Kind: KindDuplicateName, Msg: "already exists"}
	ErrInvalidDate   = &Error{Kind: KindInvalidDate, Msg: "invalid date"}
	ErrPastDate      = &Error{Kind: KindPastDate, Msg: "date is not in the future"}
	ErrInvalidInput  = &Error{Kind: KindInvalidInput, Msg: "invalid input"}
	ErrUnauthorized  = &Error{Kind: KindUnauthorized, Msg: "unauthorized"}
	ErrStorage       = &Error{Kind: KindStorage, Msg: "storage failure"}
)

func New(kind Kind, op string, msg string) *Error {
	return &Error{Kind: kind, Op: op, Msg: msg}
}

func Newf(kind Kind, op string, format string, args ...any) *Error {
	return &Error{Kind: kind, Op: op, Msg: fmt.Sprintf(format, args...)}
}

func NotFound(op string, what string) *Error {
	return &Error{Kind: KindNotFound, Op: op, Msg: what + " not found"}
}

func InvalidInput(op string, msg string) *Error {
	return &Error{Kind: KindInvalidInput, Op: op, Msg: msg}
}

// Storage classifies an error coming back from the database. Errors that are
// already typed pass through untouched, sql.ErrNoRows becomes NotFound and
// unique violations become DuplicateName.
func Storage(op string, err error) error {
	if err == nil {
		return nil
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return err
	}
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return &Error{Kind: KindNotFound, Op: op, Msg: "not found", Err: err}
	case IsUniqueViolation(err):
		return &Error{Kind: KindDuplicateName, Op: op, Msg: "already exists", Err: err}
	}
	return &Error{Kind: KindStorage, Op: op, Msg: "storage failure", Err: err}
}

func KindOf(err error) Kind {
	if err == nil {
		return KindUnknown
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindUnknown
}

// IsUniqueViolation detects uniqueness constraint violations across the
// sqlite drivers behind sqliteshim and postgres-style SQLSTATE 23505.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	lower := strings.ToLower(err.Error())
	return strings.Contains(lower, "unique constraint") ||
		strings.Contains(lower, "sqlstate 23505") ||
		strings.Contains(lower, "duplicate key")
}
