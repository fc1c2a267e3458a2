package model

import (
	"time"

	"github.com/uptrace/bun"
)

type Session struct {
	bun.BaseModel `bun:"table:sessions,alias:session"`

	ID          int64         `bun:"id,pk,autoincrement"`
	CampaignID  int64         `bun:"campaign_id,notnull"`  // required
	OrganizerID int64         `bun:"organizer_id,notnull"` // required
	Location    string        `bun:"location,nullzero"`
	Status      SessionStatus `bun:"status,notnull,type:smallint"`
	CreatedAt   int64         `bun:"created_at,notnull"` // unix, UTC
	ScheduledAt int64         `bun:"scheduled_at,nullzero"`
	Reminded    bool          `bun:"reminded,notnull,default:false"`

	Campaign  *Campaign   `bun:"rel:belongs-to,join:campaign_id=id"`
	Responses []*Response `bun:"rel:has-many,join:id=session_id"`
}

// ScheduledTime reports the scheduled date, false when unset.
func (s *Session) ScheduledTime() (time.Time, bool) {
	if s.ScheduledAt == 0 {
		return time.Time{}, false
	}
	return time.Unix(s.ScheduledAt, 0).UTC(), true
}

// CampaignName is the joined campaign's name, "" when not loaded.
func (s *Session) CampaignName() string {
	if s.Campaign == nil {
		return ""
	}
	return s.Campaign.Name
}
