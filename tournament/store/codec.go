/* codec.go
 * Contains the conversion between live Event objects and their persisted records.
 * Decoding reconstructs in strict dependency order: players first, then matches
 * (which reference players by id), then rounds, then the tournament
 * Authors: Zachary Bower
 */

package store

import (
	"fmt"
	"sort"

	"tabletop-bot/tournament/event"
	"tabletop-bot/tournament/swiss"
)

// EncodeEvent flattens a live event into its persisted record
// Preconditions: Receives a pointer to the event
// Postconditions: Returns a record that DecodeEvent inverts exactly
func EncodeEvent(e *event.Event) *EventRecord {
	record := &EventRecord{
		Version:         SchemaVersion,
		ID:              e.ID,
		Name:            e.Name,
		OrganizerID:     e.OrganizerID,
		Description:     e.Description,
		Time:            e.Time,
		ChannelID:       e.ChannelID,
		Users:           make(map[string]string, len(e.Users)),
		Waitlist:        append([]string(nil), e.Waitlist...),
		MaxParticipants: e.MaxParticipants,
		MaxRounds:       e.MaxRounds,
		DaysPerMatch:    e.DaysPerMatch,
		Cancelled:       e.CancelledReason,
		Winner:          e.WinnerID,
	}
	for id, state := range e.Users {
		record.Users[id] = state.String()
	}
	if e.Swiss != nil {
		record.Tournament = encodeTournament(e.Swiss)
	}
	return record
}

func encodeTournament(t *swiss.SwissTournament) *TournamentRecord {
	record := &TournamentRecord{MaxRounds: t.MaxRounds}
	for _, p := range t.Players {
		record.Players = append(record.Players, PlayerRecord{
			PlayerID: p.ID,
			Name:     p.Name,
			Dropped:  p.Dropped,
		})
	}
	for _, r := range t.Rounds {
		round := RoundRecord{
			RoundNumber:        r.Number,
			PairingsMessageID:  r.PairingsMessageID,
			StandingsMessageID: r.StandingsMessageID,
		}
		for _, m := range r.Matches {
			match := MatchRecord{
				Player1ID:   m.Player1.ID,
				Player1Wins: m.Player1Wins,
				Player2Wins: m.Player2Wins,
				Draws:       m.Draws,
			}
			if m.Player2 != nil {
				match.Player2ID = m.Player2.ID
			}
			round.Matches = append(round.Matches, match)
		}
		record.Rounds = append(record.Rounds, round)
	}
	return record
}

// DecodeEvent reconstructs a live event from its persisted record
// Preconditions: Receives a record produced by EncodeEvent
// Postconditions: Returns the event, or an error if references do not resolve
func DecodeEvent(record *EventRecord) (*event.Event, error) {
	if record.Version > SchemaVersion {
		return nil, fmt.Errorf("record %s has schema version %d, this build understands up to %d",
			record.ID, record.Version, SchemaVersion)
	}
	e := &event.Event{
		ID:              record.ID,
		Name:            record.Name,
		OrganizerID:     record.OrganizerID,
		Description:     record.Description,
		Time:            record.Time,
		ChannelID:       record.ChannelID,
		Users:           make(map[string]event.RegistrationState, len(record.Users)),
		Waitlist:        append([]string(nil), record.Waitlist...),
		MaxParticipants: record.MaxParticipants,
		MaxRounds:       record.MaxRounds,
		DaysPerMatch:    record.DaysPerMatch,
		CancelledReason: record.Cancelled,
		WinnerID:        record.Winner,
	}
	for id, state := range record.Users {
		parsed, err := event.ParseRegistrationState(state)
		if err != nil {
			return nil, fmt.Errorf("record %s: %w", record.ID, err)
		}
		e.Users[id] = parsed
	}
	if record.Tournament != nil {
		tournament, err := decodeTournament(record.Tournament)
		if err != nil {
			return nil, fmt.Errorf("record %s: %w", record.ID, err)
		}
		e.Swiss = tournament
	}
	return e, nil
}

func decodeTournament(record *TournamentRecord) (*swiss.SwissTournament, error) {
	// Players must exist before any match can reference them
	players := make([]*swiss.Player, 0, len(record.Players))
	byID := make(map[string]*swiss.Player, len(record.Players))
	for _, pr := range record.Players {
		p := swiss.NewPlayer(pr.PlayerID, pr.Name)
		p.Dropped = pr.Dropped
		players = append(players, p)
		byID[pr.PlayerID] = p
	}

	t := &swiss.SwissTournament{MaxRounds: record.MaxRounds, Players: players}

	// Rounds are replayed in order so each player's history stays chronological
	rounds := append([]RoundRecord(nil), record.Rounds...)
	sort.SliceStable(rounds, func(i, j int) bool { return rounds[i].RoundNumber < rounds[j].RoundNumber })
	for _, rr := range rounds {
		round := &swiss.Round{
			Number:             rr.RoundNumber,
			PairingsMessageID:  rr.PairingsMessageID,
			StandingsMessageID: rr.StandingsMessageID,
		}
		for _, mr := range rr.Matches {
			p1 := byID[mr.Player1ID]
			if p1 == nil {
				return nil, fmt.Errorf("round %d references unknown player %s", rr.RoundNumber, mr.Player1ID)
			}
			var p2 *swiss.Player
			if mr.Player2ID != "" {
				p2 = byID[mr.Player2ID]
				if p2 == nil {
					return nil, fmt.Errorf("round %d references unknown player %s", rr.RoundNumber, mr.Player2ID)
				}
			}
			// Matches are rebuilt directly rather than through NewMatch: the
			// pairing invariants were checked when the match was first made
			m := &swiss.Match{
				Player1:     p1,
				Player2:     p2,
				Player1Wins: mr.Player1Wins,
				Player2Wins: mr.Player2Wins,
				Draws:       mr.Draws,
			}
			p1.History = append(p1.History, m)
			if p2 != nil {
				p2.History = append(p2.History, m)
			}
			round.Matches = append(round.Matches, m)
		}
		t.Rounds = append(t.Rounds, round)
	}
	return t, nil
}
