// Package campaign is the campaign registry: per-guild campaigns with unique
// live names and soft deletion.
package campaign

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"

	"dndbot/src-server/apperr"
	"dndbot/src-server/datetime"
	"dndbot/src-server/model"

	"github.com/uptrace/bun"
)

// Ref points at a campaign either by id or by exact name.
type Ref struct {
	ID   int64
	Name string
}

func ByID(id int64) Ref {
	return Ref{ID: id}
}

func ByName(name string) Ref {
	return Ref{Name: name}
}

func (r Ref) String() string {
	if r.ID != 0 {
		return fmt.Sprintf("#%d", r.ID)
	}
	return fmt.Sprintf("%q", r.Name)
}

// Apply narrows a select over campaigns to this ref. It expects the
// campaign table under its default alias.
func (r Ref) Apply(q *bun.SelectQuery) *bun.SelectQuery {
	if r.ID != 0 {
		return q.Where("campaign.id = ?", r.ID)
	}
	return q.Where("campaign.name = ?", r.Name)
}

func (r Ref) valid() bool {
	return r.ID != 0 || r.Name != ""
}

type Registry struct {
	clock datetime.Clock
}

func NewRegistry(clock datetime.Clock) *Registry {
	return &Registry{clock: clock}
}

type CreateParams struct {
	GuildID     int64
	OwnerID     int64
	Name        string
	Description string
	Link        string
}

func (r *Registry) Create(ctx context.Context, db bun.IDB, p CreateParams) (*model.Campaign, error) {
	const op = "(*Registry).Create"
	switch {
	case p.GuildID == 0:
		return nil, apperr.InvalidInput(op, "guild id is required")
	case p.OwnerID == 0:
		return nil, apperr.InvalidInput(op, "owner id is required")
	}
	if err := validateName(op, p.Name); err != nil {
		return nil, err
	}
	if err := validateLink(op, p.Link); err != nil {
		return nil, err
	}

	// fast path only; the unique index decides races
	taken, err := nameTaken(ctx, db, p.GuildID, p.Name, 0)
	if err != nil {
		return nil, apperr.Storage(op, err)
	}
	if taken {
		return nil, apperr.Newf(apperr.KindDuplicateName, op, "campaign %q already exists", p.Name)
	}

	campaign := &model.Campaign{
		GuildID:     p.GuildID,
		OwnerID:     p.OwnerID,
		Name:        p.Name,
		Description: p.Description,
		Link:        p.Link,
		CreatedAt:   r.clock.Now().UTC().Unix(),
	}
	if _, err := db.NewInsert().
		Model(campaign).
		Exec(ctx); err != nil {
		if apperr.IsUniqueViolation(err) {
			return nil, &apperr.Error{Kind: apperr.KindDuplicateName, Op: op, Msg: fmt.Sprintf("campaign %q already exists", p.Name), Err: err}
		}
		return nil, apperr.Storage(op, err)
	}

	return campaign, nil
}

// Get returns a live (non-deleted) campaign.
func (r *Registry) Get(ctx context.Context, db bun.IDB, guildID int64, ref Ref) (*model.Campaign, error) {
	const op = "(*Registry).Get"
	if !ref.valid() {
		return nil, apperr.InvalidInput(op, "campaign reference is empty")
	}
	campaign := new(model.Campaign)
	if err := ref.Apply(db.NewSelect().
		Model(campaign).
		Where("campaign.guild_id = ?", guildID).
		Where("NOT campaign.deleted")).
		Limit(1).
		Scan(ctx); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound(op, "campaign "+ref.String())
		}
		return nil, apperr.Storage(op, err)
	}
	return campaign, nil
}

// Resolve maps an exact, case-sensitive name to a live campaign id.
func (r *Registry) Resolve(ctx context.Context, db bun.IDB, guildID int64, name string) (int64, error) {
	campaign, err := r.Get(ctx, db, guildID, ByName(name))
	if err != nil {
		return 0, err
	}
	return campaign.ID, nil
}

// Complete lists live campaign names starting with prefix (case-sensitive),
// sorted, at most limit entries. Used for autocompletion.
func (r *Registry) Complete(ctx context.Context, db bun.IDB, guildID int64, prefix string, limit int) ([]string, error) {
	const op = "(*Registry).Complete"
	names := make([]string, 0)
	q := db.NewSelect().
		Model((*model.Campaign)(nil)).
		Column("name").
		Where("guild_id = ?", guildID).
		Where("NOT deleted").
		OrderExpr("name ASC")
	if prefix != "" {
		// LIKE is case-insensitive in sqlite
		q = q.Where("substr(name, 1, ?) = ?", utf8.RuneCountInString(prefix), prefix)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Scan(ctx, &names); err != nil {
		return nil, apperr.Storage(op, err)
	}
	return names, nil
}

// List returns every live campaign of a guild, sorted by name.
func (r *Registry) List(ctx context.Context, db bun.IDB, guildID int64) ([]model.Campaign, error) {
	const op = "(*Registry).List"
	campaigns := make([]model.Campaign, 0)
	if err := db.NewSelect().
		Model(&campaigns).
		Where("campaign.guild_id = ?", guildID).
		Where("NOT campaign.deleted").
		OrderExpr("campaign.name ASC").
		Scan(ctx); err != nil {
		return nil, apperr.Storage(op, err)
	}
	return campaigns, nil
}

func (r *Registry) ListByOwner(ctx context.Context, db bun.IDB, guildID int64, ownerID int64) ([]model.Campaign, error) {
	const op = "(*Registry).ListByOwner"
	campaigns := make([]model.Campaign, 0)
	if err := db.NewSelect().
		Model(&campaigns).
		Where("campaign.guild_id = ?", guildID).
		Where("campaign.owner_id = ?", ownerID).
		Where("NOT campaign.deleted").
		OrderExpr("campaign.name ASC").
		Scan(ctx); err != nil {
		return nil, apperr.Storage(op, err)
	}
	return campaigns, nil
}

// Patch names the fields to change; nil fields are left alone. An empty
// Description or Link clears it.
type Patch struct {
	Name        *string
	OwnerID     *int64
	Description *string
	Link        *string
}

func (p Patch) empty() bool {
	return p.Name == nil && p.OwnerID == nil && p.Description == nil && p.Link == nil
}

// Update applies patch to a freshly read row inside one transaction and
// writes back only the columns that changed.
func (r *Registry) Update(ctx context.Context, db bun.IDB, guildID int64, ref Ref, patch Patch) (*model.Campaign, error) {
	const op = "(*Registry).Update"
	if patch.Name != nil {
		if err := validateName(op, *patch.Name); err != nil {
			return nil, err
		}
	}
	if patch.OwnerID != nil && *patch.OwnerID == 0 {
		return nil, apperr.InvalidInput(op, "owner id is required")
	}
	if patch.Link != nil {
		if err := validateLink(op, *patch.Link); err != nil {
			return nil, err
		}
	}

	var updated *model.Campaign
	if err := db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		campaign, err := r.Get(ctx, tx, guildID, ref)
		if err != nil {
			return err
		}
		updated = campaign
		if patch.empty() {
			return nil
		}

		columns := make([]string, 0, 4)
		if patch.Name != nil && *patch.Name != campaign.Name {
			taken, err := nameTaken(ctx, tx, guildID, *patch.Name, campaign.ID)
			if err != nil {
				return apperr.Storage(op, err)
			}
			if taken {
				return apperr.Newf(apperr.KindDuplicateName, op, "campaign %q already exists", *patch.Name)
			}
			campaign.Name = *patch.Name
			columns = append(columns, "name")
		}
		if patch.OwnerID != nil && *patch.OwnerID != campaign.OwnerID {
			campaign.OwnerID = *patch.OwnerID
			columns = append(columns, "owner_id")
		}
		if patch.Description != nil && *patch.Description != campaign.Description {
			campaign.Description = *patch.Description
			columns = append(columns, "description")
		}
		if patch.Link != nil && *patch.Link != campaign.Link {
			campaign.Link = *patch.Link
			columns = append(columns, "link")
		}
		if len(columns) == 0 {
			return nil
		}

		if _, err := tx.NewUpdate().
			Model(campaign).
			Column(columns...).
			WherePK().
			Where("NOT deleted").
			Exec(ctx); err != nil {
			if apperr.IsUniqueViolation(err) {
				return &apperr.Error{Kind: apperr.KindDuplicateName, Op: op, Msg: fmt.Sprintf("campaign %q already exists", campaign.Name), Err: err}
			}
			return apperr.Storage(op, err)
		}
		return nil
	}); err != nil {
		return nil, apperr.Storage(op, err)
	}

	return updated, nil
}

// Rename to the current name is a no-op, not a DuplicateName.
func (r *Registry) Rename(ctx context.Context, db bun.IDB, guildID int64, ref Ref, newName string) (*model.Campaign, error) {
	return r.Update(ctx, db, guildID, ref, Patch{Name: &newName})
}

func (r *Registry) UpdateOwner(ctx context.Context, db bun.IDB, guildID int64, ref Ref, ownerID int64) (*model.Campaign, error) {
	return r.Update(ctx, db, guildID, ref, Patch{OwnerID: &ownerID})
}

func (r *Registry) UpdateDescription(ctx context.Context, db bun.IDB, guildID int64, ref Ref, description string) (*model.Campaign, error) {
	return r.Update(ctx, db, guildID, ref, Patch{Description: &description})
}

func (r *Registry) UpdateLink(ctx context.Context, db bun.IDB, guildID int64, ref Ref, link string) (*model.Campaign, error) {
	return r.Update(ctx, db, guildID, ref, Patch{Link: &link})
}

// SoftDelete hides the campaign from lookups and listings. Its sessions are
// kept and stay reachable by id.
func (r *Registry) SoftDelete(ctx context.Context, db bun.IDB, guildID int64, ref Ref) error {
	const op = "(*Registry).SoftDelete"
	return apperr.Storage(op, db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		campaign, err := r.Get(ctx, tx, guildID, ref)
		if err != nil {
			return err
		}
		res, err := tx.NewUpdate().
			Model((*model.Campaign)(nil)).
			Set("deleted = ?", true).
			Where("id = ?", campaign.ID).
			Where("NOT deleted").
			Exec(ctx)
		if err != nil {
			return apperr.Storage(op, err)
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			return apperr.NotFound(op, "campaign "+ref.String())
		}
		return nil
	}))
}

func nameTaken(ctx context.Context, db bun.IDB, guildID int64, name string, exceptID int64) (bool, error) {
	q := db.NewSelect().
		Model((*model.Campaign)(nil)).
		Where("guild_id = ?", guildID).
		Where("name = ?", name).
		Where("NOT deleted")
	if exceptID != 0 {
		q = q.Where("id != ?", exceptID)
	}
	return q.Exists(ctx)
}

func validateName(op string, name string) error {
	switch {
	case strings.TrimSpace(name) == "":
		return apperr.InvalidInput(op, "campaign name is blank")
	case utf8.RuneCountInString(name) > 100:
		return apperr.InvalidInput(op, "campaign name is longer than 100 characters")
	}
	return nil
}

func validateLink(op string, link string) error {
	if link == "" {
		return nil
	}
	if _, err := url.ParseRequestURI(link); err != nil {
		return &apperr.Error{Kind: apperr.KindInvalidInput, Op: op, Msg: "link is not a valid url", Err: err}
	}
	return nil
}
