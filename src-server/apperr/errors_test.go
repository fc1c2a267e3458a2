package apperr_test

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"dndbot/src-server/apperr"

	"github.com/stretchr/testify/assert"
)

func TestIsMatchesByKind(t *testing.T) {
	err := apperr.NotFound("(*Registry).Get", "campaign")
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
	assert.False(t, errors.Is(err, apperr.ErrDuplicateName))

	wrapped := fmt.Errorf("handler: %w", err)
	assert.True(t, errors.Is(wrapped, apperr.ErrNotFound))
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(wrapped))
}

func TestStorageClassification(t *testing.T) {
	assert.Nil(t, apperr.Storage("op", nil))

	notFound := apperr.Storage("op", fmt.Errorf("scan: %w", sql.ErrNoRows))
	assert.True(t, errors.Is(notFound, apperr.ErrNotFound))

	dup := apperr.Storage("op", errors.New("constraint failed: UNIQUE constraint failed: campaigns.guild_id, campaigns.name (2067)"))
	assert.True(t, errors.Is(dup, apperr.ErrDuplicateName))

	fk := apperr.Storage("op", errors.New("FOREIGN KEY constraint failed"))
	assert.Equal(t, apperr.KindStorage, apperr.KindOf(fk))
	assert.True(t, errors.Is(fk, apperr.ErrStorage))

	typed := apperr.New(apperr.KindPastDate, "op", "too early")
	assert.Same(t, typed, apperr.Storage("other", typed))
}

func TestErrorString(t *testing.T) {
	err := &apperr.Error{Kind: apperr.KindStorage, Op: "(*Ledger).Record", Msg: "storage failure", Err: errors.New("disk I/O error")}
	assert.Equal(t, "(*Ledger).Record: storage failure: disk I/O error", err.Error())
	assert.Equal(t, "storage", apperr.KindStorage.String())
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, apperr.IsUniqueViolation(errors.New("UNIQUE constraint failed: responses.session_id")))
	assert.True(t, apperr.IsUniqueViolation(errors.New("ERROR: duplicate key value violates unique constraint (SQLSTATE 23505)")))
	assert.False(t, apperr.IsUniqueViolation(errors.New("database is locked")))
	assert.False(t, apperr.IsUniqueViolation(nil))
}

func TestStorageUniqueViolationMessageIsNeutral(t *testing.T) {
	err := apperr.Storage("(*Ledger).Record", errors.New("UNIQUE constraint failed: responses.session_id, responses.respondent_id"))
	assert.True(t, errors.Is(err, apperr.ErrDuplicateName))

	var appErr *apperr.Error
	assert.True(t, errors.As(err, &appErr))
	assert.Equal(t, "already exists", appErr.Msg)
	assert.NotContains(t, err.Error(), "name")
}
