package utils

import "time"

// Metric carries latency samples from handlers to the metric collectors.
// Sends never block; samples are dropped when nobody is listening.
type Metric struct {
	DiscordSendMessage chan float64
	CommandHandled     chan CommandSample
}

type CommandSample struct {
	Command string
	Outcome string
}

func NewMetric() *Metric {
	return &Metric{
		DiscordSendMessage: make(chan float64, 64),
		CommandHandled:     make(chan CommandSample, 64),
	}
}

func (m *Metric) ObserveDiscordSend(since time.Time) {
	select {
	case m.DiscordSendMessage <- float64(time.Since(since).Microseconds()):
	default:
	}
}

func (m *Metric) ObserveCommand(command string, outcome string) {
	select {
	case m.CommandHandled <- CommandSample{Command: command, Outcome: outcome}:
	default:
	}
}
