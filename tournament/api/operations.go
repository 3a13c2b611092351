/* operations.go
 * Contains the user-triggered tournament operations: registration, starting, result
 * reports, round advancement, drops, kicks and cancellation. Each runs under the
 * tournament's mutex and persists before returning
 * Authors: Zachary Bower
 */

package api

import (
	"errors"
	"fmt"

	"tabletop-bot/tournament/event"
	"tabletop-bot/tournament/shared"
	"tabletop-bot/tournament/swiss"
)

// Register applies a user's registration choice for the channel's tournament
// Preconditions: Receives the channel id, the user and the desired state
// Postconditions: Returns a user-facing response string describing the outcome
func (a *API) Register(channelID string, user shared.User, state event.RegistrationState) (string, error) {
	me, err := a.eventForChannel(channelID)
	if err != nil {
		return "", err
	}
	me.mu.Lock()
	defer me.mu.Unlock()

	notice, promoted, err := me.ev.Register(user.UserID, state)
	if err != nil {
		return "", err
	}
	if err := a.save(me.ev); err != nil {
		return "", err
	}
	for _, id := range promoted {
		a.notify(id, fmt.Sprintf("A spot opened up in %s: you have been moved off the waitlist and are now registered.", me.ev.Name))
	}
	if notice != "" {
		return notice, nil
	}
	switch state {
	case event.StateParticipate:
		return fmt.Sprintf("%s is registered for %s (%d players).", user.Username, me.ev.Name, me.ev.ParticipantCount()), nil
	case event.StateTentative:
		return fmt.Sprintf("%s is marked tentative for %s.", user.Username, me.ev.Name), nil
	}
	return fmt.Sprintf("%s has been removed from %s.", user.Username, me.ev.Name), nil
}

// StartTournament freezes registration and pairs round 1. Only the organizer
// may start. Display names are resolved through the roster collaborator
// Preconditions: Receives the channel id and the requesting user's id
// Postconditions: Returns the paired first round, persisted, with players notified
func (a *API) StartTournament(channelID string, requesterID string) (*swiss.Round, error) {
	me, err := a.eventForChannel(channelID)
	if err != nil {
		return nil, err
	}
	me.mu.Lock()
	defer me.mu.Unlock()

	if me.ev.OrganizerID != requesterID {
		return nil, fmt.Errorf("only the organizer can start the tournament")
	}

	names := make(map[string]string)
	for _, id := range me.ev.Participants() {
		names[id] = a.displayName(id)
	}

	round, err := me.ev.Start(names)
	if err != nil {
		return nil, err
	}
	if err := a.save(me.ev); err != nil {
		return nil, err
	}
	a.notifyPairings(me.ev, round)
	return round, nil
}

// ReportResult records a result for the reporting player's current match.
// The score is from the reporter's perspective: their wins first
// Preconditions: Receives the channel id, the reporting user and the game score
// Postconditions: Returns a response string; the round conclusion is mentioned
// when this report finishes the round
func (a *API) ReportResult(channelID string, user shared.User, wins int, losses int, draws int) (string, error) {
	me, err := a.eventForChannel(channelID)
	if err != nil {
		return "", err
	}
	me.mu.Lock()
	defer me.mu.Unlock()
	return a.reportLocked(me.ev, user.UserID, wins, losses, draws)
}

// ReportResultFor records a result on behalf of a named player, organizer
// only. The name is fuzzy-matched against the tournament's players
// Preconditions: Receives the channel id, requesting user id, the player name
// and the score from that player's perspective
// Postconditions: As ReportResult
func (a *API) ReportResultFor(channelID string, requesterID string, playerName string, wins int, losses int, draws int) (string, error) {
	me, err := a.eventForChannel(channelID)
	if err != nil {
		return "", err
	}
	me.mu.Lock()
	defer me.mu.Unlock()

	if me.ev.OrganizerID != requesterID {
		return "", fmt.Errorf("only the organizer can report for another player")
	}
	if !me.ev.Started() {
		return "", event.ErrNotStarted
	}
	player, err := resolvePlayer(playerName, me.ev.Swiss.Players)
	if err != nil {
		return "", err
	}
	return a.reportLocked(me.ev, player.ID, wins, losses, draws)
}

func (a *API) reportLocked(ev *event.Event, playerID string, wins int, losses int, draws int) (string, error) {
	match, err := ev.ReportResult(playerID, wins, losses, draws)
	if err != nil {
		return "", err
	}
	if err := a.save(ev); err != nil {
		return "", err
	}

	res := fmt.Sprintf("Result recorded: %s %d-%d-%d %s.", match.Player1.Name, match.Player1Wins, match.Player2Wins, match.Draws, match.Player2.Name)
	if ev.Swiss.CurrentRound().IsConcluded() {
		if ev.Swiss.IsFinished() {
			res += " That was the last match: the tournament is complete, the organizer can now post final standings and conclude."
		} else {
			res += fmt.Sprintf(" Round %d is concluded: the organizer can now advance to the next round.", ev.Swiss.CurrentRound().Number)
		}
	}
	return res, nil
}

// AdvanceRound pairs the next round, or concludes the tournament when the
// final round has been played. fromRound guards against double triggers; pass
// 0 to advance from whatever round is current
// Preconditions: Receives the channel id, requesting user id and the round the
// caller believes is current
// Postconditions: Returns the new round (nil when concluding) and the winner
// (non-nil only on conclusion); the event is persisted or archived
func (a *API) AdvanceRound(channelID string, requesterID string, fromRound int) (*swiss.Round, *swiss.Player, error) {
	me, err := a.eventForChannel(channelID)
	if err != nil {
		return nil, nil, err
	}
	me.mu.Lock()
	defer me.mu.Unlock()

	if me.ev.OrganizerID != requesterID {
		return nil, nil, fmt.Errorf("only the organizer can advance the round")
	}

	round, err := me.ev.AdvanceRound(fromRound)
	if errors.Is(err, event.ErrTournamentComplete) {
		winner, err := me.ev.Conclude()
		if err != nil {
			return nil, nil, err
		}
		if err := a.archive(me.ev); err != nil {
			return nil, nil, err
		}
		return nil, winner, nil
	}
	if err != nil {
		return nil, nil, err
	}
	if err := a.save(me.ev); err != nil {
		return nil, nil, err
	}
	a.notifyPairings(me.ev, round)
	return round, nil, nil
}

// DropPlayer removes the requesting user from the tournament: a decline
// before start, a drop from future pairings after
// Preconditions: Receives the channel id and the user
// Postconditions: Returns a response string; promoted waitlist users are notified
func (a *API) DropPlayer(channelID string, user shared.User) (string, error) {
	me, err := a.eventForChannel(channelID)
	if err != nil {
		return "", err
	}
	me.mu.Lock()
	defer me.mu.Unlock()
	return a.dropLocked(me.ev, user.UserID, user.Username)
}

// KickPlayer drops a named player, organizer only
// Preconditions: Receives the channel id, requesting user id and the player name
// Postconditions: As DropPlayer
func (a *API) KickPlayer(channelID string, requesterID string, playerName string) (string, error) {
	me, err := a.eventForChannel(channelID)
	if err != nil {
		return "", err
	}
	me.mu.Lock()
	defer me.mu.Unlock()

	if me.ev.OrganizerID != requesterID {
		return "", fmt.Errorf("only the organizer can kick a player")
	}
	if !me.ev.Started() {
		return "", fmt.Errorf("before the tournament starts, ask the player to decline instead")
	}
	player, err := resolvePlayer(playerName, me.ev.Swiss.Players)
	if err != nil {
		return "", err
	}
	return a.dropLocked(me.ev, player.ID, player.Name)
}

func (a *API) dropLocked(ev *event.Event, userID string, username string) (string, error) {
	promoted, err := ev.Drop(userID)
	if err != nil {
		return "", err
	}
	if err := a.save(ev); err != nil {
		return "", err
	}
	for _, id := range promoted {
		a.notify(id, fmt.Sprintf("A spot opened up in %s: you have been moved off the waitlist and are now registered.", ev.Name))
	}
	if ev.Started() {
		return fmt.Sprintf("%s has dropped from %s and will not be paired in future rounds.", username, ev.Name), nil
	}
	return fmt.Sprintf("%s has been removed from %s.", username, ev.Name), nil
}

// CancelTournament terminally cancels the channel's tournament, organizer only
// Preconditions: Receives the channel id, requesting user id and a reason
// Postconditions: The record is archived with its reason and removed from the registry
func (a *API) CancelTournament(channelID string, requesterID string, reason string) (string, error) {
	me, err := a.eventForChannel(channelID)
	if err != nil {
		return "", err
	}
	me.mu.Lock()
	defer me.mu.Unlock()

	if me.ev.OrganizerID != requesterID {
		return "", fmt.Errorf("only the organizer can cancel the tournament")
	}
	if err := me.ev.Cancel(reason); err != nil {
		return "", err
	}
	if err := a.archive(me.ev); err != nil {
		return "", err
	}
	return fmt.Sprintf("%s has been cancelled: %s", me.ev.Name, me.ev.CancelledReason), nil
}

// RecordPairingsMessage remembers the channel message announcing the current
// round's pairings so later result reports can edit it in place
// Preconditions: The tournament must have started
// Postconditions: The message id is stored on the current round and persisted
func (a *API) RecordPairingsMessage(channelID string, messageID string) error {
	return a.recordAnnouncement(channelID, func(r *swiss.Round) { r.PairingsMessageID = messageID })
}

// RecordStandingsMessage remembers the posted standings message for the
// current round
func (a *API) RecordStandingsMessage(channelID string, messageID string) error {
	return a.recordAnnouncement(channelID, func(r *swiss.Round) { r.StandingsMessageID = messageID })
}

func (a *API) recordAnnouncement(channelID string, set func(*swiss.Round)) error {
	me, err := a.eventForChannel(channelID)
	if err != nil {
		return err
	}
	me.mu.Lock()
	defer me.mu.Unlock()

	if !me.ev.Started() {
		return fmt.Errorf("the tournament has not started yet")
	}
	set(me.ev.Swiss.CurrentRound())
	return a.save(me.ev)
}

// CurrentAnnouncements returns the announcement message ids recorded for the
// current round and whether the round is concluded
// Preconditions: The tournament must have started
func (a *API) CurrentAnnouncements(channelID string) (pairingsID string, standingsID string, concluded bool, err error) {
	me, err := a.eventForChannel(channelID)
	if err != nil {
		return "", "", false, err
	}
	me.mu.Lock()
	defer me.mu.Unlock()

	if !me.ev.Started() {
		return "", "", false, fmt.Errorf("the tournament has not started yet")
	}
	round := me.ev.Swiss.CurrentRound()
	return round.PairingsMessageID, round.StandingsMessageID, round.IsConcluded(), nil
}
