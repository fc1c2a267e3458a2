package metric

import (
	"log/slog"
	"time"

	"dndbot/src-server/utils"

	"github.com/prometheus/client_golang/prometheus"
)

// register adds c to the default registry, reusing an already registered
// collector of the same description.
func register[T prometheus.Collector](c T) T {
	if err := prometheus.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(T); ok {
				return existing
			}
		}
		slog.Error("can't register metric", "error", err)
	}
	return c
}

func databaseEmptyRead(as *utils.AppState, tickerInterval time.Duration) {
	databaseEmptyRead := register(prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "dndbot_database_empty_read_microsec",
		Help: "The latency of an empty database read in microseconds",
	}))
	databaseEmptyRead.Set(0)
	gracefulShutdownCh := as.CreateGracefulShutdownChan()
	go func() {
		ticker := time.NewTicker(tickerInterval)
		defer ticker.Stop()
		for {
			select {
			case <-*gracefulShutdownCh:
				prometheus.Unregister(databaseEmptyRead)
				return
			case <-ticker.C:
				latency, err := database(as)
				if err != nil {
					slog.Error("can't get database latency", "error", err)
					continue
				}
				databaseEmptyRead.Set(float64(latency.Microseconds()))
			}
		}
	}()
}

func discordSendMessage(as *utils.AppState, clearTickerInterval time.Duration) {
	discordSendMessage := register(prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "dndbot_discord_send_message_microsec",
		Help: "The latency of a discord message send in microseconds",
	}))
	discordSendMessage.Set(0)
	gracefulShutdownCh := as.CreateGracefulShutdownChan()
	go func() {
		clearTicker := time.NewTicker(clearTickerInterval)
		defer clearTicker.Stop()
		for {
			select {
			case <-*gracefulShutdownCh:
				prometheus.Unregister(discordSendMessage)
				return
			case latency := <-as.MetricChans.DiscordSendMessage:
				discordSendMessage.Set(latency)
				clearTicker.Reset(clearTickerInterval)
			case <-clearTicker.C:
				discordSendMessage.Set(0)
			}
		}
	}()
}

func discordHeartbeatLatency(as *utils.AppState, tickerInterval time.Duration) {
	discordHeartbeatLatency := register(prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "dndbot_discord_heartbeat_latency_microsec",
		Help: "The latency of a discord heartbeat in microseconds",
	}))
	discordHeartbeatLatency.Set(0)
	gracefulShutdownCh := as.CreateGracefulShutdownChan()
	go func() {
		ticker := time.NewTicker(tickerInterval)
		defer ticker.Stop()
		for {
			select {
			case <-*gracefulShutdownCh:
				prometheus.Unregister(discordHeartbeatLatency)
				return
			case <-ticker.C:
				if as.DgSession == nil {
					continue
				}
				latency := as.DgSession.HeartbeatLatency().Microseconds()
				discordHeartbeatLatency.Set(float64(latency))
			}
		}
	}()
}

func commandsHandled(as *utils.AppState) {
	commandsHandled := register(prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "dndbot_commands_handled_total",
		Help: "Slash commands handled, by command and outcome",
	}, []string{"command", "outcome"}))
	gracefulShutdownCh := as.CreateGracefulShutdownChan()
	go func() {
		for {
			select {
			case <-*gracefulShutdownCh:
				prometheus.Unregister(commandsHandled)
				return
			case sample := <-as.MetricChans.CommandHandled:
				commandsHandled.WithLabelValues(sample.Command, sample.Outcome).Inc()
			}
		}
	}()
}

// Init starts the collectors; they stop on graceful shutdown.
func Init(as *utils.AppState) {
	tickerInterval := as.Config.GetMetricCollectionInterval()
	clearTickerInterval := as.Config.GetMetricCollectionInterval() * 2

	databaseEmptyRead(as, tickerInterval)
	discordSendMessage(as, clearTickerInterval)
	discordHeartbeatLatency(as, tickerInterval)
	commandsHandled(as)
}
