/* event.go
 * Contains the Event struct and its lifecycle: registration with capacity and waitlist,
 * starting the swiss tournament, round progression, drops, cancellation and conclusion.
 * The Event owns the swiss engine once started; everything before that is roster state
 * Authors: Zachary Bower
 */

package event

import (
	"errors"
	"fmt"

	"tabletop-bot/tournament/swiss"

	"github.com/rs/xid"
)

var (
	// ErrRegistrationClosed is returned for roster changes after start or cancellation
	ErrRegistrationClosed = errors.New("registration for this tournament is closed")
	// ErrNotStarted is returned for round operations before the tournament starts
	ErrNotStarted = errors.New("the tournament has not started yet")
	// ErrRoundNotFinished is returned when advancing while matches are outstanding
	ErrRoundNotFinished = errors.New("the current round still has unfinished matches")
	// ErrAlreadyAdvanced is returned when an advance request references a round
	// that has already been paired past, i.e. a double-click
	ErrAlreadyAdvanced = errors.New("that round has already been advanced")
	// ErrTournamentComplete is returned when advancing past the final round
	ErrTournamentComplete = errors.New("the final round has been played, the tournament is complete")
	// ErrCancelled is returned for operations on a cancelled tournament
	ErrCancelled = errors.New("the tournament has been cancelled")
)

// RegistrationState is a participant's intent toward an event
type RegistrationState int

const (
	StateParticipate RegistrationState = iota
	StateTentative
	StateDecline
)

func (s RegistrationState) String() string {
	switch s {
	case StateParticipate:
		return "participate"
	case StateTentative:
		return "tentative"
	case StateDecline:
		return "decline"
	}
	return "unknown"
}

// ParseRegistrationState converts a persisted state string back to a RegistrationState
func ParseRegistrationState(s string) (RegistrationState, error) {
	switch s {
	case "participate":
		return StateParticipate, nil
	case "tentative":
		return StateTentative, nil
	case "decline":
		return StateDecline, nil
	}
	return StateParticipate, fmt.Errorf("unknown registration state %q", s)
}

// Status is the lifecycle phase of an event
type Status int

const (
	StatusRegistration Status = iota
	StatusRoundActive
	StatusConcluded
	StatusCancelled
)

// Event is one tournament as the community sees it: announcement metadata,
// the registration roster and, once started, the swiss engine
type Event struct {
	ID          string
	Name        string
	OrganizerID string
	Description string
	Time        string
	ChannelID   string

	Users           map[string]RegistrationState
	Waitlist        []string
	MaxParticipants int // 0 = unlimited
	MaxRounds       int // 0 = auto from field size
	DaysPerMatch    int

	CancelledReason string
	WinnerID        string

	Swiss *swiss.SwissTournament
}

// New creates an event in the registration phase with a fresh id
// Preconditions: Receives the announcement metadata and optional limits (0 = none)
// Postconditions: Returns a pointer to the Event ready to accept registrations
func New(name string, organizerID string, channelID string, maxParticipants int, maxRounds int) *Event {
	return &Event{
		ID:              xid.New().String(),
		Name:            name,
		OrganizerID:     organizerID,
		ChannelID:       channelID,
		MaxParticipants: maxParticipants,
		MaxRounds:       maxRounds,
		Users:           make(map[string]RegistrationState),
	}
}

// Status returns the lifecycle phase the event is currently in
func (e *Event) Status() Status {
	switch {
	case e.CancelledReason != "":
		return StatusCancelled
	case e.WinnerID != "":
		return StatusConcluded
	case e.Swiss != nil:
		return StatusRoundActive
	}
	return StatusRegistration
}

// Started reports whether round play has begun
func (e *Event) Started() bool {
	return e.Swiss != nil
}

// ParticipantCount returns the number of users registered as participating
func (e *Event) ParticipantCount() int {
	count := 0
	for _, state := range e.Users {
		if state == StateParticipate {
			count++
		}
	}
	return count
}

// Participants returns the ids of all participating users
func (e *Event) Participants() []string {
	var ids []string
	for id, state := range e.Users {
		if state == StateParticipate {
			ids = append(ids, id)
		}
	}
	return ids
}

// Register applies a participant's registration choice. A participate request
// against a full roster lands on the waitlist and returns a notice saying so;
// a decline removes the user from both roster and waitlist, which can promote
// the waitlist head
// Preconditions: Receives the participant id and desired state
// Postconditions: Returns an optional user-facing notice and the ids promoted
// from the waitlist as a result of this change
func (e *Event) Register(userID string, state RegistrationState) (notice string, promoted []string, err error) {
	switch e.Status() {
	case StatusCancelled:
		return "", nil, ErrCancelled
	case StatusRoundActive, StatusConcluded:
		return "", nil, ErrRegistrationClosed
	}

	switch state {
	case StateDecline:
		delete(e.Users, userID)
		e.removeFromWaitlist(userID)
		return "", e.promoteFromWaitlist(), nil

	case StateParticipate:
		if e.onWaitlist(userID) {
			return "You are already on the waitlist.", nil, nil
		}
		// A missing map entry reads as the zero value, which is
		// StateParticipate, so roster membership needs an explicit check
		current, registered := e.Users[userID]
		if e.full() && !(registered && current == StateParticipate) {
			e.Waitlist = append(e.Waitlist, userID)
			// Tentative users joining a full event move to the queue too
			delete(e.Users, userID)
			return fmt.Sprintf("%s is full (%d players), you have been added to the waitlist.", e.Name, e.MaxParticipants), nil, nil
		}
		e.Users[userID] = StateParticipate
		return "", nil, nil

	case StateTentative:
		current, registered := e.Users[userID]
		wasParticipating := registered && current == StateParticipate
		e.removeFromWaitlist(userID)
		e.Users[userID] = StateTentative
		if wasParticipating {
			return "", e.promoteFromWaitlist(), nil
		}
		return "", nil, nil
	}
	return "", nil, fmt.Errorf("unknown registration state %d", state)
}

func (e *Event) full() bool {
	return e.MaxParticipants > 0 && e.ParticipantCount() >= e.MaxParticipants
}

func (e *Event) onWaitlist(userID string) bool {
	for _, id := range e.Waitlist {
		if id == userID {
			return true
		}
	}
	return false
}

func (e *Event) removeFromWaitlist(userID string) {
	for i, id := range e.Waitlist {
		if id == userID {
			e.Waitlist = append(e.Waitlist[:i], e.Waitlist[i+1:]...)
			return
		}
	}
}

// promoteFromWaitlist pops waitlist heads into the roster while capacity
// allows, returning the promoted ids so callers can notify them
func (e *Event) promoteFromWaitlist() []string {
	var promoted []string
	for len(e.Waitlist) > 0 && !e.full() {
		head := e.Waitlist[0]
		e.Waitlist = e.Waitlist[1:]
		e.Users[head] = StateParticipate
		promoted = append(promoted, head)
	}
	return promoted
}

// Start freezes registration, builds the player list from the participating
// roster and pairs round 1. Display names come from the names map keyed by
// participant id; missing entries fall back to the id. Decorative symbols are
// stripped from names so pairing tables stay clean
// Preconditions: Receives a map of participant id to display name
// Postconditions: The event holds a swiss tournament with round 1 paired, or
// is unchanged on error
func (e *Event) Start(names map[string]string) (*swiss.Round, error) {
	switch e.Status() {
	case StatusCancelled:
		return nil, ErrCancelled
	case StatusRoundActive, StatusConcluded:
		return nil, fmt.Errorf("%s has already started", e.Name)
	}

	ids := e.Participants()
	if len(ids) < 2 {
		return nil, fmt.Errorf("at least 2 participants are required to start, have %d", len(ids))
	}

	players := make([]*swiss.Player, 0, len(ids))
	for _, id := range ids {
		name := StripDecorations(names[id])
		if name == "" {
			name = id
		}
		players = append(players, swiss.NewPlayer(id, name))
	}

	tournament := swiss.NewSwissTournament(players, e.MaxRounds)
	round, err := tournament.PairNextRound()
	if err != nil {
		return nil, err
	}
	e.Swiss = tournament
	return round, nil
}

// AdvanceRound pairs the next round. fromRound is the round number the caller
// believes is current and is the idempotency guard against double triggers:
// if play has already moved past it the call is rejected as already advanced,
// not as an unfinished round. Pass 0 to skip the guard
// Preconditions: The tournament is started and the current round is concluded
// Postconditions: Returns the new round, or a typed error with the event unchanged
func (e *Event) AdvanceRound(fromRound int) (*swiss.Round, error) {
	if err := e.requireActive(); err != nil {
		return nil, err
	}
	current := e.Swiss.CurrentRound()
	if fromRound > 0 && current.Number > fromRound {
		return nil, ErrAlreadyAdvanced
	}
	if !current.IsConcluded() {
		return nil, ErrRoundNotFinished
	}
	if e.Swiss.IsFinished() {
		return nil, ErrTournamentComplete
	}
	return e.Swiss.PairNextRound()
}

// ReportResult records a match result for the current round on behalf of the
// given player, with the score oriented from that player's perspective
// Preconditions: Receives the player's id, their game wins, the opponent's
// game wins and drawn games
// Postconditions: Returns the updated match, or an error with state unchanged
func (e *Event) ReportResult(playerID string, wins int, losses int, draws int) (*swiss.Match, error) {
	if err := e.requireActive(); err != nil {
		return nil, err
	}
	player := e.Swiss.PlayerByID(playerID)
	if player == nil {
		return nil, fmt.Errorf("no player with id %s is in this tournament", playerID)
	}
	match := e.Swiss.CurrentRound().MatchFor(player)
	if match == nil {
		return nil, fmt.Errorf("%s has no match this round", player.Name)
	}
	if match.IsBye() {
		return nil, fmt.Errorf("%s has a bye this round, there is nothing to report", player.Name)
	}
	if match.Player1 == player {
		return match, match.SetResult(wins, losses, draws)
	}
	return match, match.SetResult(losses, wins, draws)
}

// Drop removes a participant from future pairings. Before the tournament
// starts this is the same as declining; after, the player is marked dropped
// but stays in the standings history
// Preconditions: Receives the participant id
// Postconditions: Returns ids promoted from the waitlist (pre-start only)
func (e *Event) Drop(userID string) (promoted []string, err error) {
	if e.Status() == StatusCancelled {
		return nil, ErrCancelled
	}
	if !e.Started() {
		_, promoted, err = e.Register(userID, StateDecline)
		return promoted, err
	}
	player := e.Swiss.PlayerByID(userID)
	if player == nil {
		return nil, fmt.Errorf("no player with id %s is in this tournament", userID)
	}
	if player.Dropped {
		return nil, fmt.Errorf("%s has already dropped", player.Name)
	}
	player.Dropped = true
	return nil, nil
}

// Cancel terminally cancels the event, recording the reason
func (e *Event) Cancel(reason string) error {
	if e.Status() == StatusCancelled {
		return ErrCancelled
	}
	if reason == "" {
		reason = "cancelled by the organizer"
	}
	e.CancelledReason = reason
	return nil
}

// Conclude finishes the tournament, recording the winner as the top
// standings-sorted player who has not dropped
// Preconditions: Every round has been played and concluded
// Postconditions: Returns the winner and marks the event concluded
func (e *Event) Conclude() (*swiss.Player, error) {
	if err := e.requireActive(); err != nil {
		return nil, err
	}
	if !e.Swiss.IsFinished() {
		return nil, ErrRoundNotFinished
	}
	winner := e.Swiss.Winner()
	if winner == nil {
		return nil, fmt.Errorf("every player has dropped, there is no winner")
	}
	e.WinnerID = winner.ID
	return winner, nil
}

func (e *Event) requireActive() error {
	switch e.Status() {
	case StatusCancelled:
		return ErrCancelled
	case StatusRegistration:
		return ErrNotStarted
	case StatusConcluded:
		return ErrTournamentComplete
	}
	return nil
}
