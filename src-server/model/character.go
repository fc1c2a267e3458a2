package model

import "github.com/uptrace/bun"

type Character struct {
	bun.BaseModel `bun:"table:characters,alias:pc"`

	ID         int64  `bun:"id,pk,autoincrement"`
	CampaignID int64  `bun:"campaign_id,notnull,unique:characters_campaign_name"` // required
	PlayerID   int64  `bun:"player_id,notnull"`                                   // required
	Name       string `bun:"name,notnull,unique:characters_campaign_name"`        // required
	Race       string `bun:"race,notnull"`
	Class      string `bun:"class,notnull"`

	Campaign *Campaign `bun:"rel:belongs-to,join:campaign_id=id"`
}
