package model

import "github.com/uptrace/bun"

// At most one row per (session, respondent); a repeated RSVP overwrites it.
type Response struct {
	bun.BaseModel `bun:"table:responses,alias:response"`

	ID           int64    `bun:"id,pk,autoincrement"`
	SessionID    int64    `bun:"session_id,notnull,unique:responses_session_respondent"`    // required
	RespondentID int64    `bun:"respondent_id,notnull,unique:responses_session_respondent"` // required
	Decision     Decision `bun:"decision,notnull,type:smallint"`
	RespondedAt  int64    `bun:"responded_at,notnull"` // unix, UTC

	Session *Session `bun:"rel:belongs-to,join:session_id=id"`
}
