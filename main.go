package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"dndbot/src-server/handler"
	"dndbot/src-server/handler/campaign_handler"
	"dndbot/src-server/handler/character_handler"
	"dndbot/src-server/handler/session_handler"
	"dndbot/src-server/metric"
	"dndbot/src-server/route"
	"dndbot/src-server/scheduler"
	"dndbot/src-server/utils"

	"github.com/bwmarrin/discordgo"
	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func setLogger(level slog.Level) {
	slog.SetDefault(slog.New(
		tint.NewHandler(os.Stderr, &tint.Options{
			Level:      level,
			TimeFormat: time.RFC1123Z,
		}),
	))
}

func init() {
	if err := godotenv.Load(); err != nil {
		slog.Info(err.Error())
	}
	setLogger(slog.LevelDebug)
}

func main() {
	config, err := utils.NewConfig(os.Getenv)
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	setLogger(config.GetLogLevel())

	bunDB, err := utils.OpenDB(context.Background(), config.GetDatabasePath())
	if err != nil {
		slog.Error("can't open database", "error", err)
		os.Exit(1)
	}
	defer bunDB.Close()
	bunDB.AddQueryHook(metric.NewQueryHook(prometheus.DefaultRegisterer))

	dgSession, err := discordgo.New("Bot " + config.GetDiscordAppToken())
	if err != nil {
		slog.Error("can't create discord session", "error", err)
		os.Exit(1)
	}

	// There are 2 important things (and others) inside the AppState:
	// - appCmdInfo: a map of all slash commands
	// - appCmdHandler: a map of all slash command handlers
	as := utils.NewAppState(config, bunDB, dgSession)

	// injecting interaction handlers into appCmdInfo, appCmdHandler in AppState
	campaign_handler.Init(as)
	session_handler.Init(as)
	character_handler.Init(as)
	handler.Settings(as)
	handler.Roll(as)
	handler.Ping(as)
	handler.Help(as)

	// tell discordgo how to handle interactions from Discord (w/ appCmdHandler)
	as.DgSession.AddHandler(func(s *discordgo.Session, i *discordgo.InteractionCreate) {
		// label keeps button custom ids out of the metric labels
		execute := func(id string, label string) {
			if handler, ok := as.GetAppCmdHandler(id); ok {
				if err := handler(s, i); err != nil {
					slog.Error("handler error", "command", id, "error", err.Error())
					as.MetricChans.ObserveCommand(label, "error")
					return
				}
				as.MetricChans.ObserveCommand(label, "ok")
				return
			}
			if i == nil || i.Interaction == nil {
				return
			}
			as.InteractRespHiddenReply(s, i, "This interaction has expired.")
			username := func(i *discordgo.InteractionCreate) string {
				switch {
				case i.Member != nil && i.Member.User != nil:
					return i.Member.User.Username
				case i.User != nil:
					return i.User.Username
				}
				return "unknown"
			}(i)
			slog.Debug("someone used an expired interaction", "username", username, "custom_id", id)
		}

		switch i.Type {
		case discordgo.InteractionApplicationCommand: // slash commands
			cmdData := i.ApplicationCommandData()
			execute(cmdData.Name, cmdData.Name)
		case discordgo.InteractionApplicationCommandAutocomplete:
			cmdData := i.ApplicationCommandData()
			if handler, ok := as.GetAutocompleteHandler(cmdData.Name); ok {
				if err := handler(s, i); err != nil {
					slog.Warn("autocomplete error", "command", cmdData.Name, "error", err.Error())
				}
			}
		case discordgo.InteractionMessageComponent: // confirmation buttons
			componentData := i.MessageComponentData()
			execute(componentData.CustomID, "button")
		default:
			slog.Error("unknown interaction type", "type", i.Type)
		}
	})

	// open a connection to Discord
	if err := as.DgSession.Open(); err != nil {
		slog.Error("can't open discord connection", "error", err)
		os.Exit(1)
	}
	defer as.DgSession.Close()

	// tell Discord what commands we have (w/ appCmdInfo)
	if _, err := as.DgSession.ApplicationCommandBulkOverwrite(
		as.Config.GetDiscordClientID(),
		as.Config.GetDiscordGuildID(),
		func() []*discordgo.ApplicationCommand {
			var cmds []*discordgo.ApplicationCommand
			as.IterateAppCmdInfo(func(k string, v *discordgo.ApplicationCommand) {
				cmds = append(cmds, v)
			})
			return cmds
		}()); err != nil {
		slog.Error("can't create slash commands", "error", err.Error())
	}

	// cleanup appCmdInfo from memory
	as.NukeAppCmdInfo()
	runtime.GC()

	go metric.Init(as)
	go scheduler.SessionReminder(as)

	// http server
	muxer := http.NewServeMux()
	muxer.Handle("GET /metrics", promhttp.Handler())
	route.Health(muxer, as)
	route.Ical(muxer, as)
	server := &http.Server{
		Addr:              ":" + as.Config.GetPort(),
		Handler:           route.LogMiddleware(muxer),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("cannot start HTTP server", "error", err)
			as.AppCloseSignalChan <- syscall.SIGTERM
		}
	}()

	slog.Info("number of guilds", "guilds", len(as.DgSession.State.Guilds))
	slog.Info("app is now running, press Ctrl+C to exit")

	signal.Notify(as.AppCloseSignalChan, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-as.AppCloseSignalChan
	slog.Info("Gracefully shutting down...")
	as.GracefulShutdown()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		slog.Warn("can't shut down HTTP server", "error", err)
	}
}
