package utils

import (
	"os"
	"sync"
	"time"

	"dndbot/src-server/attendance"
	"dndbot/src-server/campaign"
	"dndbot/src-server/character"
	"dndbot/src-server/datetime"
	"dndbot/src-server/schedule"

	"github.com/bwmarrin/discordgo"
	"github.com/google/uuid"
	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
	"github.com/uptrace/bun"
)

type Handler func(s *discordgo.Session, i *discordgo.InteractionCreate) error

// ComponentTTL is how long a confirmation button stays answerable.
const ComponentTTL = 5 * time.Minute

type AppState struct {
	Config    *Config
	BunDB     *bun.DB
	DgSession *discordgo.Session
	When      *when.Parser
	Clock     datetime.Clock

	Registry  *campaign.Registry
	Scheduler *schedule.Scheduler
	Ledger    *attendance.Ledger
	Roster    *character.Roster

	MetricChans *Metric

	AppCloseSignalChan chan os.Signal

	startedAt time.Time

	mu sync.RWMutex
	// will be send to Discord
	appCmdInfo map[string]*discordgo.ApplicationCommand
	// handling commands, buttons and autocomplete from Discord WSAPI
	appCmdHandler map[string]Handler
	// same as above but for autocomplete requests of a command
	autocompleteHandler map[string]Handler
	// pending confirmation buttons; expired entries are removed together with
	// their handler
	componentQueue map[uuid.UUID]MsgComponentInfo

	shutdownMu         sync.Mutex
	gracefulShutdownCh []chan struct{}
}

func NewAppState(config *Config, bunDB *bun.DB, dgSession *discordgo.Session) *AppState {
	as := &AppState{
		Config:    config,
		BunDB:     bunDB,
		DgSession: dgSession,
		Clock:     datetime.NewClock(config.GetLocation()),

		MetricChans:        NewMetric(),
		AppCloseSignalChan: make(chan os.Signal, 1),
		startedAt:          time.Now(),

		appCmdInfo:          make(map[string]*discordgo.ApplicationCommand),
		appCmdHandler:       make(map[string]Handler),
		autocompleteHandler: make(map[string]Handler),
		componentQueue:      make(map[uuid.UUID]MsgComponentInfo),
	}

	// date parser, for autocomplete suggestions
	as.When = when.New(nil)
	as.When.Add(en.All...)
	as.When.Add(common.All...)

	as.Registry = campaign.NewRegistry(as.Clock)
	as.Scheduler = schedule.NewScheduler(as.Clock, as.Registry)
	as.Ledger = attendance.NewLedger(as.Clock, as.Scheduler)
	as.Roster = character.NewRoster(as.Registry)

	gracefulShutdownCh := as.CreateGracefulShutdownChan()
	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-*gracefulShutdownCh:
				return
			case <-ticker.C:
				as.ExpireComponents(time.Now())
			}
		}
	}()

	return as
}

func (as *AppState) GetUptime() time.Duration {
	return time.Since(as.startedAt).Round(time.Second)
}

// #region command info

func (as *AppState) AddAppCmdInfo(id string, info *discordgo.ApplicationCommand) {
	as.mu.Lock()
	defer as.mu.Unlock()
	as.appCmdInfo[id] = info
}

func (as *AppState) IterateAppCmdInfo(fn func(k string, v *discordgo.ApplicationCommand)) {
	as.mu.RLock()
	defer as.mu.RUnlock()
	for k, v := range as.appCmdInfo {
		fn(k, v)
	}
}

// NukeAppCmdInfo frees the command descriptions once they are registered.
func (as *AppState) NukeAppCmdInfo() {
	as.mu.Lock()
	defer as.mu.Unlock()
	as.appCmdInfo = make(map[string]*discordgo.ApplicationCommand)
}

// #endregion

// #region handlers

func (as *AppState) AddAppCmdHandler(id string, handler Handler) {
	as.mu.Lock()
	defer as.mu.Unlock()
	as.appCmdHandler[id] = handler
}

func (as *AppState) GetAppCmdHandler(id string) (Handler, bool) {
	as.mu.RLock()
	defer as.mu.RUnlock()
	handler, ok := as.appCmdHandler[id]
	return handler, ok
}

func (as *AppState) RemoveAppCmdHandler(id string) {
	as.mu.Lock()
	defer as.mu.Unlock()
	delete(as.appCmdHandler, id)
}

func (as *AppState) AddAutocompleteHandler(id string, handler Handler) {
	as.mu.Lock()
	defer as.mu.Unlock()
	as.autocompleteHandler[id] = handler
}

func (as *AppState) GetAutocompleteHandler(id string) (Handler, bool) {
	as.mu.RLock()
	defer as.mu.RUnlock()
	handler, ok := as.autocompleteHandler[id]
	return handler, ok
}

// AddComponentHandler registers a one-off button handler under a fresh
// custom id, which is returned. It expires after ComponentTTL.
func (as *AppState) AddComponentHandler(data any, handler Handler) string {
	id := uuid.New()
	as.mu.Lock()
	defer as.mu.Unlock()
	as.componentQueue[id] = MsgComponentInfo{DateAdded: time.Now(), Data: data}
	as.appCmdHandler[id.String()] = handler
	return id.String()
}

// RemoveComponentHandler drops a button handler before it expires.
func (as *AppState) RemoveComponentHandler(customID string) {
	id, err := uuid.Parse(customID)
	as.mu.Lock()
	defer as.mu.Unlock()
	if err == nil {
		delete(as.componentQueue, id)
	}
	delete(as.appCmdHandler, customID)
}

// ExpireComponents removes button handlers older than ComponentTTL and
// returns how many were removed.
func (as *AppState) ExpireComponents(now time.Time) int {
	as.mu.Lock()
	defer as.mu.Unlock()
	removed := 0
	for id, info := range as.componentQueue {
		if now.Sub(info.DateAdded) > ComponentTTL {
			delete(as.componentQueue, id)
			delete(as.appCmdHandler, id.String())
			removed++
		}
	}
	return removed
}

// #endregion

// #region shutdown

// CreateGracefulShutdownChan returns a channel closed by GracefulShutdown.
func (as *AppState) CreateGracefulShutdownChan() *chan struct{} {
	as.shutdownMu.Lock()
	defer as.shutdownMu.Unlock()
	ch := make(chan struct{})
	as.gracefulShutdownCh = append(as.gracefulShutdownCh, ch)
	return &ch
}

func (as *AppState) GracefulShutdown() {
	as.shutdownMu.Lock()
	defer as.shutdownMu.Unlock()
	for _, ch := range as.gracefulShutdownCh {
		close(ch)
	}
	as.gracefulShutdownCh = nil
}

// #endregion
