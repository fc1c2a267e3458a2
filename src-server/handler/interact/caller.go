package interact

import (
	"errors"

	"dndbot/src-server/discordid"
	"dndbot/src-server/model"

	"github.com/bwmarrin/discordgo"
)

var ErrNotInGuild = errors.New("this command only works inside a server")

// Caller is the member behind an interaction, reduced to plain ids.
type Caller struct {
	GuildID     int64
	UserID      int64
	RoleIDs     []int64
	Permissions int64
}

func CallerOf(i *discordgo.InteractionCreate) (Caller, error) {
	if i.GuildID == "" || i.Member == nil || i.Member.User == nil {
		return Caller{}, ErrNotInGuild
	}
	guildID, err := discordid.Parse(i.GuildID)
	if err != nil {
		return Caller{}, err
	}
	userID, err := discordid.Parse(i.Member.User.ID)
	if err != nil {
		return Caller{}, err
	}
	roles := make([]int64, 0, len(i.Member.Roles))
	for _, role := range i.Member.Roles {
		if id, err := discordid.Parse(role); err == nil {
			roles = append(roles, id)
		}
	}
	return Caller{
		GuildID:     guildID,
		UserID:      userID,
		RoleIDs:     roles,
		Permissions: i.Member.Permissions,
	}, nil
}

func (c Caller) HasRole(roleID int64) bool {
	if roleID == 0 {
		return false
	}
	for _, id := range c.RoleIDs {
		if id == roleID {
			return true
		}
	}
	return false
}

// Elevated members (administrators and server managers) pass every check.
func (c Caller) Elevated() bool {
	return c.Permissions&discordgo.PermissionAdministrator != 0 ||
		c.Permissions&discordgo.PermissionManageServer != 0
}

// CanUse gates every campaign command behind the configured member role.
// Without one, everybody may use them.
func (c Caller) CanUse(setting *model.Setting) bool {
	if c.Elevated() || setting.RequiredRoleID == 0 {
		return true
	}
	return c.HasRole(setting.RequiredRoleID)
}

// CanOrganize is true for elevated members and holders of the organizer
// role.
func (c Caller) CanOrganize(setting *model.Setting) bool {
	return c.Elevated() || c.HasRole(setting.OrganizerRoleID)
}

// CanManageCampaign lets the owner or an organizer edit a campaign and its
// sessions.
func (c Caller) CanManageCampaign(setting *model.Setting, campaign *model.Campaign) bool {
	return campaign.OwnerID == c.UserID || c.CanOrganize(setting)
}

// CanManageSession additionally lets a session's organizer edit it.
func (c Caller) CanManageSession(setting *model.Setting, session *model.Session) bool {
	if session.OrganizerID == c.UserID {
		return true
	}
	if session.Campaign != nil && session.Campaign.OwnerID == c.UserID {
		return true
	}
	return c.CanOrganize(setting)
}
