/* render.go
 * Contains the text rendering of pairings and standings. The output is monospace
 * table text the bot posts inside a code block; the engine itself is agnostic to
 * how these rows end up displayed
 * Authors: Zachary Bower
 */

package api

import (
	"fmt"
	"strings"

	"tabletop-bot/tournament/swiss"
)

// FormatPairings renders the current round's pairings for the channel's tournament
// Preconditions: Receives the channel id
// Postconditions: Returns the rendered pairing table, or an error if it occurs
func (a *API) FormatPairings(channelID string) (string, error) {
	me, err := a.eventForChannel(channelID)
	if err != nil {
		return "", err
	}
	me.mu.Lock()
	defer me.mu.Unlock()

	if !me.ev.Started() {
		return "", fmt.Errorf("the tournament has not started yet")
	}
	return RenderPairings(me.ev.Name, me.ev.Swiss.CurrentRound()), nil
}

// FormatStandings renders the standings for the channel's tournament
// Preconditions: Receives the channel id
// Postconditions: Returns the rendered standings table, or an error if it occurs
func (a *API) FormatStandings(channelID string) (string, error) {
	me, err := a.eventForChannel(channelID)
	if err != nil {
		return "", err
	}
	me.mu.Lock()
	defer me.mu.Unlock()

	if !me.ev.Started() {
		return "", fmt.Errorf("the tournament has not started yet")
	}
	return RenderStandings(me.ev.Name, me.ev.Swiss), nil
}

// StandingsFor renders standings for a tournament id. The web endpoint runs
// on its own goroutine, so this takes the tournament's mutex like every
// other trigger
func (a *API) StandingsFor(id string) (string, error) {
	me := a.managedByID(id)
	if me == nil {
		return "", fmt.Errorf("no active tournament with id %s", id)
	}
	me.mu.Lock()
	defer me.mu.Unlock()

	if !me.ev.Started() {
		return "", fmt.Errorf("the tournament has not started yet")
	}
	return RenderStandings(me.ev.Name, me.ev.Swiss), nil
}

// GetTournamentInfo returns display lines describing the channel's tournament
// Preconditions: Receives the channel id
// Postconditions: Returns one string per line of the summary
func (a *API) GetTournamentInfo(channelID string) ([]string, error) {
	me, err := a.eventForChannel(channelID)
	if err != nil {
		return nil, err
	}
	me.mu.Lock()
	defer me.mu.Unlock()

	ev := me.ev
	info := []string{
		fmt.Sprintf("Tournament: %s (id %s)", ev.Name, ev.ID),
		fmt.Sprintf("Organizer: <@%s>", ev.OrganizerID),
	}
	if ev.Description != "" {
		info = append(info, ev.Description)
	}
	if ev.Time != "" {
		info = append(info, fmt.Sprintf("Scheduled: %s", ev.Time))
	}
	if !ev.Started() {
		line := fmt.Sprintf("Registered players: %d", ev.ParticipantCount())
		if ev.MaxParticipants > 0 {
			line = fmt.Sprintf("%s/%d (%d waitlisted)", line, ev.MaxParticipants, len(ev.Waitlist))
		}
		return append(info, line, "Status: open for registration"), nil
	}
	info = append(info,
		fmt.Sprintf("Players: %d (%d active)", len(ev.Swiss.Players), len(ev.Swiss.ActivePlayers())),
		fmt.Sprintf("Round: %d of %d", ev.Swiss.CurrentRound().Number, ev.Swiss.MaxRounds),
	)
	if ev.Swiss.CurrentRound().IsConcluded() {
		info = append(info, "Status: round concluded, waiting to advance")
	} else {
		info = append(info, "Status: round in progress")
	}
	return info, nil
}

// RenderPairings renders a round's matches as table text
func RenderPairings(name string, round *swiss.Round) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s - Round %d pairings\n```\n", name, round.Number))
	for i, m := range round.Matches {
		if m.IsBye() {
			b.WriteString(fmt.Sprintf("Table %d: %s  (bye)\n", i+1, decorate(m.Player1)))
			continue
		}
		row := fmt.Sprintf("Table %d: %s vs %s", i+1, decorate(m.Player1), decorate(m.Player2))
		if m.IsFinished() {
			row += fmt.Sprintf("  [%d-%d-%d]", m.Player1Wins, m.Player2Wins, m.Draws)
		}
		b.WriteString(row + "\n")
	}
	b.WriteString("```")
	return b.String()
}

// RenderStandings renders ranked standings rows with record and tiebreak percentages
func RenderStandings(name string, t *swiss.SwissTournament) string {
	ranked := swiss.SortPlayersByStandings(t.Players)

	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s - Standings after round %d\n```\n", name, t.CurrentRound().Number))
	b.WriteString(fmt.Sprintf("%-4s %-24s %-4s %-7s %-6s %-6s %-6s\n", "Rank", "Player", "Pts", "Record", "OMW%", "GW%", "OGW%"))
	for i, p := range ranked {
		wins, losses, draws := p.Record()
		b.WriteString(fmt.Sprintf("%-4d %-24s %-4d %-7s %-6.3f %-6.3f %-6.3f\n",
			i+1,
			decorate(p),
			p.MatchPoints(),
			fmt.Sprintf("%d-%d-%d", wins, losses, draws),
			p.OpponentMatchWinPercentage(),
			p.GameWinPercentage(),
			p.OpponentGameWinPercentage(),
		))
	}
	b.WriteString("```")
	return b.String()
}

// decorate marks dropped players so their rows read as struck out
func decorate(p *swiss.Player) string {
	if p.Dropped {
		return p.Name + " (dropped)"
	}
	return p.Name
}
