/* match.go
 * Contains the Match struct, the rematch and bye invariants applied at creation time,
 * and result recording with the best-of-N completion rule
 * Authors: Zachary Bower
 */

package swiss

import "log"

// MatchBestOf is the number of games in a match. All tournaments this bot runs
// are best-of-3
const MatchBestOf = 3

const matchWinsNeeded = MatchBestOf/2 + 1

// byeWins is the fixed score a bye completes with (a 2-0 win in best-of-3)
const byeWins = matchWinsNeeded

// Match is a single pairing between two players, or between one player and a
// bye when Player2 is nil. A match is created by the pairing engine and mutated
// once via SetResult; calling SetResult again with another valid score
// overwrites it, which is how organizers correct misreported results
type Match struct {
	Player1 *Player
	Player2 *Player
	// Player1Wins/Player2Wins/Draws are game counts, all zero until reported
	Player1Wins int
	Player2Wins int
	Draws       int
}

// NewMatch pairs two players and appends the match to their histories. A nil
// player2 is a bye: it auto-completes 2-0-0 and only appears in the receiving
// player's history
// Preconditions: Receives pointers to both players, player2 may be nil
// Postconditions: Returns the created Match, or a RematchError if the two have already played
func NewMatch(player1 *Player, player2 *Player) (*Match, error) {
	if player2 == nil {
		if player1.HasBye() {
			// Soft invariant: avoid double byes wherever possible, but when the
			// pairing engine had no better candidate we assign anyway
			log.Printf("warning: %s is receiving a second bye", player1.Name)
		}
		m := &Match{Player1: player1, Player1Wins: byeWins}
		player1.History = append(player1.History, m)
		return m, nil
	}
	if player1.HasPlayed(player2) {
		return nil, &RematchError{Player1: player1.Name, Player2: player2.Name}
	}
	m := &Match{Player1: player1, Player2: player2}
	player1.History = append(player1.History, m)
	player2.History = append(player2.History, m)
	return m, nil
}

// IsBye reports whether this match is a bye
func (m *Match) IsBye() bool {
	return m.Player2 == nil
}

// IsFinished reports whether the recorded score satisfies the best-of-N
// completion rule: a side has reached a majority of games, or every game has
// been played. A partial score like 1-0 is not finished
func (m *Match) IsFinished() bool {
	if m.IsBye() {
		return true
	}
	return validResult(m.Player1Wins, m.Player2Wins, m.Draws)
}

// SetResult records the game score for this match
// Preconditions: Receives player1 wins, player2 wins and drawn games
// Postconditions: Updates the match, or returns an InvalidResultError leaving it unchanged
func (m *Match) SetResult(player1Wins int, player2Wins int, draws int) error {
	if m.IsBye() {
		return &InvalidResultError{Player1Wins: player1Wins, Player2Wins: player2Wins, Draws: draws}
	}
	if !validResult(player1Wins, player2Wins, draws) {
		return &InvalidResultError{Player1Wins: player1Wins, Player2Wins: player2Wins, Draws: draws}
	}
	m.Player1Wins = player1Wins
	m.Player2Wins = player2Wins
	m.Draws = draws
	return nil
}

func validResult(player1Wins int, player2Wins int, draws int) bool {
	if player1Wins < 0 || player2Wins < 0 || draws < 0 {
		return false
	}
	games := player1Wins + player2Wins + draws
	if games > MatchBestOf {
		return false
	}
	// Play stops once a side reaches the majority, so neither side can exceed
	// it and both cannot reach it
	if player1Wins > matchWinsNeeded || player2Wins > matchWinsNeeded {
		return false
	}
	if player1Wins >= matchWinsNeeded && player2Wins >= matchWinsNeeded {
		return false
	}
	return player1Wins >= matchWinsNeeded || player2Wins >= matchWinsNeeded || games == MatchBestOf
}

// Opponent returns the other player of the match, or nil for a bye or when the
// given player is not part of this match
func (m *Match) Opponent(p *Player) *Player {
	switch p {
	case m.Player1:
		return m.Player2
	case m.Player2:
		return m.Player1
	}
	return nil
}

// Contains reports whether the given player is one of the match's participants
func (m *Match) Contains(p *Player) bool {
	return p != nil && (m.Player1 == p || m.Player2 == p)
}

// WinsFor returns the number of games the given player won
func (m *Match) WinsFor(p *Player) int {
	switch p {
	case m.Player1:
		return m.Player1Wins
	case m.Player2:
		return m.Player2Wins
	}
	return 0
}

// WinnerIs reports whether the given player won this match
func (m *Match) WinnerIs(p *Player) bool {
	if !m.Contains(p) {
		return false
	}
	return m.WinsFor(p) > m.WinsFor(m.Opponent(p))
}

// IsDraw reports whether a finished match ended with equal game wins
func (m *Match) IsDraw() bool {
	return !m.IsBye() && m.IsFinished() && m.Player1Wins == m.Player2Wins
}

// MatchPointsFor returns the match points this match contributes for the given
// player: 3 for a win (byes included), 1 for a draw, 0 for a loss
func (m *Match) MatchPointsFor(p *Player) int {
	switch {
	case m.WinnerIs(p):
		return 3
	case m.IsDraw():
		return 1
	}
	return 0
}

// GamesPlayed returns the number of games recorded for this match
func (m *Match) GamesPlayed() int {
	return m.Player1Wins + m.Player2Wins + m.Draws
}
