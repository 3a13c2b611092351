/* api.go
 * This file contains the public methods for interacting with the tournament layer. Bot
 * handlers should only call through here, never the sub packages directly. The API owns
 * the registry of active tournaments and serializes every mutating trigger per tournament
 * Authors: Zachary Bower
 */

package api

import (
	"fmt"
	"log"
	"sync"

	"tabletop-bot/tournament/event"
	"tabletop-bot/tournament/store"
	"tabletop-bot/tournament/swiss"
)

// Roster resolves a participant id to a display name. A lookup miss is a soft
// failure: the caller falls back to the id rather than halting pairing
type Roster interface {
	DisplayName(userID string) (string, error)
}

// Notifier delivers a direct message to a participant. Failures (for example a
// user with DMs disabled) are logged and non-fatal
type Notifier interface {
	Notify(userID string, message string) error
}

// managedEvent pairs an event with the mutex that serializes its triggers.
// Registration, result reports, round advances and drops all read-modify-write
// the same event, so only one runs at a time per tournament; different
// tournaments interleave freely
type managedEvent struct {
	mu sync.Mutex
	ev *event.Event
}

// API provides the tournament operations the interaction layer invokes
type API struct {
	Store    store.Interface
	Roster   Roster
	Notifier Notifier

	mu     sync.RWMutex
	events map[string]*managedEvent
}

// NewAPI creates an API instance over the given store and collaborators
// Preconditions: Receives the store and the roster/notifier collaborators
// Postconditions: Returns a pointer to the API with an empty registry
func NewAPI(st store.Interface, roster Roster, notifier Notifier) (*API, error) {
	if st == nil {
		return nil, fmt.Errorf("a store is required but none was provided")
	}
	return &API{
		Store:    st,
		Roster:   roster,
		Notifier: notifier,
		events:   make(map[string]*managedEvent),
	}, nil
}

// LoadActive reloads every persisted non-concluded, non-cancelled tournament
// into the registry. Must run before the bot accepts triggers
// Preconditions: None
// Postconditions: Returns the number of tournaments loaded, or an error if it occurs
func (a *API) LoadActive() (int, error) {
	records, err := a.Store.LoadAll()
	if err != nil {
		return 0, fmt.Errorf("failed to load persisted tournaments: %w", err)
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	loaded := 0
	for _, record := range records {
		if !record.Active() {
			// Terminal records belong in the archive; skip rather than fail
			log.Printf("skipping terminal record %s (%s) found in active storage", record.ID, record.Name)
			continue
		}
		ev, err := store.DecodeEvent(record)
		if err != nil {
			return loaded, fmt.Errorf("failed to restore tournament %s: %w", record.ID, err)
		}
		a.events[ev.ID] = &managedEvent{ev: ev}
		loaded++
	}
	return loaded, nil
}

// CreateTournament opens a new tournament for registration and persists it
// Preconditions: Receives the name, organizer and channel ids, and optional
// participant/round limits (0 = none)
// Postconditions: Returns the created event, registered and saved
func (a *API) CreateTournament(name string, organizerID string, channelID string, maxParticipants int, maxRounds int) (*event.Event, error) {
	if name == "" {
		return nil, fmt.Errorf("a tournament name is required")
	}
	if existing := a.findByChannel(channelID); existing != nil {
		return nil, fmt.Errorf("'%s' is already running in this channel, cancel or conclude it first", existing.ev.Name)
	}

	ev := event.New(name, organizerID, channelID, maxParticipants, maxRounds)
	if err := a.Store.Save(store.EncodeEvent(ev)); err != nil {
		return nil, err
	}

	a.mu.Lock()
	a.events[ev.ID] = &managedEvent{ev: ev}
	a.mu.Unlock()
	return ev, nil
}

// eventForChannel returns the managed event running in the given channel
func (a *API) eventForChannel(channelID string) (*managedEvent, error) {
	if me := a.findByChannel(channelID); me != nil {
		return me, nil
	}
	return nil, fmt.Errorf("no tournament is running in this channel")
}

func (a *API) findByChannel(channelID string) *managedEvent {
	a.mu.RLock()
	defer a.mu.RUnlock()
	for _, me := range a.events {
		if me.ev.ChannelID == channelID {
			return me
		}
	}
	return nil
}

// EventByID returns the live event with the given id, or nil
func (a *API) EventByID(id string) *event.Event {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if me, ok := a.events[id]; ok {
		return me.ev
	}
	return nil
}

func (a *API) managedByID(id string) *managedEvent {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.events[id]
}

// ActiveTournaments returns the ids and names of every registered tournament
func (a *API) ActiveTournaments() map[string]string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	out := make(map[string]string, len(a.events))
	for id, me := range a.events {
		out[id] = me.ev.Name
	}
	return out
}

// save persists the event. State changes are not committed until this
// succeeds; callers surface the error to the organizer on failure
func (a *API) save(ev *event.Event) error {
	if err := a.Store.Save(store.EncodeEvent(ev)); err != nil {
		return fmt.Errorf("failed to save tournament '%s', the last change may be lost on restart: %w", ev.Name, err)
	}
	return nil
}

// archive moves the event's record to archival storage and drops it from the registry
func (a *API) archive(ev *event.Event) error {
	if err := a.Store.Save(store.EncodeEvent(ev)); err != nil {
		return fmt.Errorf("failed to save tournament '%s' before archiving: %w", ev.Name, err)
	}
	if err := a.Store.Archive(ev.ID); err != nil {
		return fmt.Errorf("failed to archive tournament '%s': %w", ev.Name, err)
	}
	a.mu.Lock()
	delete(a.events, ev.ID)
	a.mu.Unlock()
	return nil
}

// notify sends a DM through the notifier, logging and swallowing failures
func (a *API) notify(userID string, message string) {
	if a.Notifier == nil {
		return
	}
	if err := a.Notifier.Notify(userID, message); err != nil {
		log.Printf("could not notify %s: %v", userID, err)
	}
}

// displayName resolves a participant's name through the roster, falling back
// to the id when the lookup misses (for example a departed member)
func (a *API) displayName(userID string) string {
	if a.Roster == nil {
		return userID
	}
	name, err := a.Roster.DisplayName(userID)
	if err != nil || name == "" {
		log.Printf("could not resolve display name for %s: %v", userID, err)
		return userID
	}
	return name
}

// notifyPairings DMs every player their pairing or bye for the round
func (a *API) notifyPairings(ev *event.Event, round *swiss.Round) {
	for _, m := range round.Matches {
		if m.IsBye() {
			a.notify(m.Player1.ID, fmt.Sprintf("%s round %d: you have a bye this round.", ev.Name, round.Number))
			continue
		}
		a.notify(m.Player1.ID, fmt.Sprintf("%s round %d: you are paired against %s.", ev.Name, round.Number, m.Player2.Name))
		a.notify(m.Player2.ID, fmt.Sprintf("%s round %d: you are paired against %s.", ev.Name, round.Number, m.Player1.Name))
	}
}
