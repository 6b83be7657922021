package table

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/lazharichir/holdem/domain"
	"github.com/lazharichir/holdem/domain/events"
	"github.com/sirupsen/logrus"
)

// Settings are the timings shared by every table of a registry
type Settings struct {
	Pauses     Pauses
	VoteWindow time.Duration
	Tick       time.Duration
}

func DefaultSettings() Settings {
	return Settings{
		Pauses:     DefaultPauses(),
		VoteWindow: 30 * time.Second,
		Tick:       time.Second,
	}
}

// Registry owns the running tables by ID
type Registry struct {
	settings Settings
	store    events.EventStore
	log      logrus.FieldLogger

	mu       sync.RWMutex
	loops    map[string]*entry
	handlers []events.EventHandler
}

type entry struct {
	loop    *Loop
	cancel  context.CancelFunc
	created time.Time
}

// NewRegistry creates an empty registry. Every event of every table is
// appended to store before it reaches the handlers.
func NewRegistry(store events.EventStore, settings Settings, log logrus.FieldLogger) *Registry {
	return &Registry{
		settings: settings,
		store:    store,
		log:      log,
		loops:    map[string]*entry{},
	}
}

// AddEventHandler subscribes h to the events of all tables
func (r *Registry) AddEventHandler(h events.EventHandler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers = append(r.handlers, h)
}

func (r *Registry) publish(e events.Event) {
	if err := r.store.Append(e); err != nil {
		r.log.WithError(err).WithField("event", e.Name()).Warn("could not store event")
	}

	r.mu.RLock()
	handlers := append([]events.EventHandler{}, r.handlers...)
	r.mu.RUnlock()
	for _, h := range handlers {
		h(e)
	}
}

// Create opens a table and starts its loop and session clock
func (r *Registry) Create(name string, rules domain.TableRules, opts ...domain.TableOption) (*Loop, error) {
	t, err := domain.NewTable(name, rules, opts...)
	if err != nil {
		return nil, err
	}
	t.RegisterEventHandler(r.publish)

	loop := NewLoop(t, r.settings.Pauses, r.log)
	ctx, cancel := context.WithCancel(context.Background())
	countdown := NewCountdown(loop, rules.TimeBudget, r.settings.VoteWindow, r.settings.Tick, r.log)

	r.mu.Lock()
	r.loops[t.ID] = &entry{loop: loop, cancel: cancel, created: time.Now()}
	r.mu.Unlock()

	loop.Start()
	go countdown.Run(ctx)
	go func() {
		<-loop.Done()
		cancel()
		r.remove(t.ID, loop)
	}()

	r.log.WithFields(logrus.Fields{"table_id": t.ID, "name": name}).Info("table created")
	return loop, nil
}

// Get returns the loop of a running table
func (r *Registry) Get(tableID string) (*Loop, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.loops[tableID]
	if !ok {
		return nil, &domain.NotFoundError{Kind: "table", ID: tableID}
	}
	return e.loop, nil
}

// List returns the running tables, oldest first
func (r *Registry) List() []*Loop {
	r.mu.RLock()
	entries := make([]*entry, 0, len(r.loops))
	for _, e := range r.loops {
		entries = append(entries, e)
	}
	r.mu.RUnlock()

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].created.Equal(entries[j].created) {
			return entries[i].loop.TableID() < entries[j].loop.TableID()
		}
		return entries[i].created.Before(entries[j].created)
	})
	out := make([]*Loop, len(entries))
	for i, e := range entries {
		out[i] = e.loop
	}
	return out
}

// Destroy stops a table and forgets it
func (r *Registry) Destroy(tableID string) error {
	loop, err := r.Get(tableID)
	if err != nil {
		return err
	}
	loop.Stop()
	r.remove(tableID, loop)
	return nil
}

// SubmitAction routes a player action to its table
func (r *Registry) SubmitAction(tableID, playerID string, a domain.Action) error {
	loop, err := r.Get(tableID)
	if err != nil {
		return err
	}
	return loop.SubmitAction(playerID, a)
}

// Shutdown stops every table
func (r *Registry) Shutdown() {
	for _, loop := range r.List() {
		loop.Stop()
		r.remove(loop.TableID(), loop)
	}
}

func (r *Registry) remove(tableID string, loop *Loop) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.loops[tableID]
	if !ok || e.loop != loop {
		return
	}
	e.cancel()
	delete(r.loops, tableID)
	r.log.WithField("table_id", tableID).Info("table removed")
}
