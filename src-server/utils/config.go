package utils

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	port string

	discordGuildID  string
	discordAppToken string
	discordClientID string

	location     *time.Location
	databasePath string
	logLevel     slog.Level

	metricCollectionInterval time.Duration
	reminderWindow           time.Duration

	hostname string
}

// NewConfig reads every setting through getenv (usually os.Getenv). All
// invalid or missing values are reported together.
func NewConfig(getenv func(string) string) (*Config, error) {
	var errs []error
	fail := func(err error) {
		errs = append(errs, err)
	}
	duration := func(key string, fallback time.Duration) time.Duration {
		raw := getenv(key)
		if raw == "" {
			slog.Debug("env", key, fallback.String()+" (default)")
			return fallback
		}
		d, err := time.ParseDuration(raw)
		switch {
		case err != nil:
			fail(fmt.Errorf("invalid %s: %w", key, err))
			return fallback
		case d <= 0:
			fail(fmt.Errorf("invalid %s: must be positive", key))
			return fallback
		}
		slog.Debug("env", key, d.String())
		return d
	}

	config := &Config{
		port: func() string {
			port := getenv("PORT")
			if port == "" {
				port = "8080"
			}
			if n, err := strconv.Atoi(port); err != nil || n <= 0 || n > 65535 {
				fail(fmt.Errorf("invalid PORT %q", port))
			}
			slog.Debug("env", "PORT", port)
			return port
		}(),

		discordGuildID: func() string {
			discordGuildID := getenv("DISCORD_GUILD_ID")
			if discordGuildID == "" {
				slog.Debug("env", "DISCORD_GUILD_ID", "(global commands)")
				return ""
			}
			if _, err := strconv.ParseUint(discordGuildID, 10, 64); err != nil {
				fail(fmt.Errorf("invalid DISCORD_GUILD_ID %q", discordGuildID))
			}
			slog.Debug("env", "DISCORD_GUILD_ID", discordGuildID)
			return discordGuildID
		}(),
		discordAppToken: func() string {
			discordAppToken := getenv("DISCORD_APP_TOKEN")
			if discordAppToken == "" {
				fail(errors.New("DISCORD_APP_TOKEN is not set"))
				return ""
			}
			slog.Debug("env", "DISCORD_APP_TOKEN", truncate(discordAppToken))
			return discordAppToken
		}(),
		discordClientID: func() string {
			discordClientID := getenv("DISCORD_CLIENT_ID")
			if discordClientID == "" {
				fail(errors.New("DISCORD_CLIENT_ID is not set"))
				return ""
			}
			slog.Debug("env", "DISCORD_CLIENT_ID", discordClientID)
			return discordClientID
		}(),

		location: func() *time.Location {
			timezoneStr := getenv("TIMEZONE")
			switch timezoneStr {
			case "":
				slog.Warn("TIMEZONE is not set, using local timezone", "timezone", time.Local)
				return time.Local
			case "UTC":
				return time.UTC
			}
			loc, err := time.LoadLocation(timezoneStr)
			if err != nil {
				fail(fmt.Errorf("invalid TIMEZONE %q: %w", timezoneStr, err))
				return time.Local
			}
			slog.Debug("env", "TIMEZONE", timezoneStr)
			return loc
		}(),
		databasePath: func() string {
			databasePath := getenv("DATABASE_PATH")
			if databasePath == "" {
				databasePath = "./sqlite.db"
			}
			slog.Debug("env", "DATABASE_PATH", databasePath)
			return databasePath
		}(),
		logLevel: func() slog.Level {
			raw := getenv("LOG_LEVEL")
			if raw == "" {
				return slog.LevelDebug
			}
			var level slog.Level
			if err := level.UnmarshalText([]byte(strings.ToUpper(raw))); err != nil {
				fail(fmt.Errorf("invalid LOG_LEVEL %q: %w", raw, err))
				return slog.LevelDebug
			}
			return level
		}(),

		metricCollectionInterval: duration("METRIC_COLLECTION_INTERVAL", 30*time.Second),
		reminderWindow:           duration("REMINDER_WINDOW", 15*time.Minute),

		hostname: func() string {
			hostname := strings.TrimSuffix(getenv("HOSTNAME"), "/")
			if hostname == "" {
				slog.Warn("HOSTNAME is not set, iCal links will be relative")
			}
			slog.Debug("env", "HOSTNAME", hostname)
			return hostname
		}(),
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("NewConfig: %w", errors.Join(errs...))
	}
	return config, nil
}

func truncate(secret string) string {
	if len(secret) <= 3 {
		return "..."
	}
	return secret[0:3] + "..."
}

// Get PORT env, default to 8080
func (c *Config) GetPort() string {
	return c.port
}

// Get DISCORD_GUILD_ID env, empty for global commands
func (c *Config) GetDiscordGuildID() string {
	return c.discordGuildID
}

// Get DISCORD_APP_TOKEN env
func (c *Config) GetDiscordAppToken() string {
	return c.discordAppToken
}

// Get DISCORD_CLIENT_ID env
func (c *Config) GetDiscordClientID() string {
	return c.discordClientID
}

// Get TIMEZONE env
func (c *Config) GetLocation() *time.Location {
	return c.location
}

// Get DATABASE_PATH env, default to ./sqlite.db
func (c *Config) GetDatabasePath() string {
	return c.databasePath
}

// Get LOG_LEVEL env, default to debug
func (c *Config) GetLogLevel() slog.Level {
	return c.logLevel
}

// Get METRIC_COLLECTION_INTERVAL env, default to 30s
func (c *Config) GetMetricCollectionInterval() time.Duration {
	return c.metricCollectionInterval
}

// Get REMINDER_WINDOW env, default to 15m
func (c *Config) GetReminderWindow() time.Duration {
	return c.reminderWindow
}

// Get HOSTNAME env
func (c *Config) GetHostname() string {
	return c.hostname
}
