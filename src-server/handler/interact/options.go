// Package interact holds what every command handler needs: option parsing,
// the caller's identity and permissions, and error-to-text mapping.
package interact

import (
	"strings"

	"dndbot/src-server/discordid"

	"github.com/bwmarrin/discordgo"
)

type OptionMap map[string]*discordgo.ApplicationCommandInteractionDataOption

// SubcommandOptions returns the name of the invoked subcommand and its
// options, for commands shaped "/command subcommand ...".
func SubcommandOptions(i *discordgo.InteractionCreate) (string, OptionMap) {
	data := i.ApplicationCommandData()
	if len(data.Options) == 0 {
		return "", OptionMap{}
	}
	sub := data.Options[0]
	return sub.Name, NewOptionMap(sub.Options)
}

// CommandOptions returns the options of a command without subcommands.
func CommandOptions(i *discordgo.InteractionCreate) OptionMap {
	return NewOptionMap(i.ApplicationCommandData().Options)
}

func NewOptionMap(options []*discordgo.ApplicationCommandInteractionDataOption) OptionMap {
	optionMap := make(OptionMap, len(options))
	for _, opt := range options {
		optionMap[opt.Name] = opt
	}
	return optionMap
}

func (m OptionMap) Has(name string) bool {
	_, ok := m[name]
	return ok
}

// String returns the trimmed string value, "" when absent.
func (m OptionMap) String(name string) string {
	if opt, ok := m[name]; ok {
		if value, ok := opt.Value.(string); ok {
			return strings.TrimSpace(value)
		}
	}
	return ""
}

// OptionalString distinguishes an absent option (nil) from a blank one.
func (m OptionMap) OptionalString(name string) *string {
	if !m.Has(name) {
		return nil
	}
	value := m.String(name)
	return &value
}

func (m OptionMap) Int(name string, fallback int64) int64 {
	if opt, ok := m[name]; ok {
		if value, ok := opt.Value.(float64); ok {
			return int64(value)
		}
	}
	return fallback
}

func (m OptionMap) Bool(name string) bool {
	if opt, ok := m[name]; ok {
		if value, ok := opt.Value.(bool); ok {
			return value
		}
	}
	return false
}

// Snowflake reads a user, role or channel option as a storage id, 0 when
// absent or malformed.
func (m OptionMap) Snowflake(name string) int64 {
	if opt, ok := m[name]; ok {
		if value, ok := opt.Value.(string); ok {
			return discordid.MustParse(value)
		}
	}
	return 0
}

// Focused returns the option the user is typing in during autocomplete.
func (m OptionMap) Focused() (*discordgo.ApplicationCommandInteractionDataOption, bool) {
	for _, opt := range m {
		if opt.Focused {
			return opt, true
		}
	}
	return nil, false
}
