/* player.go
 * Contains the Player struct and the derived tiebreak statistics. Stats are computed on
 * demand rather than cached since tournaments this bot runs are small
 * Authors: Zachary Bower
 */

package swiss

// PercentageFloor is the minimum value any win percentage can take. This is the
// standard MTG tournament floor and stops one bad round from wrecking a player's
// own or their opponents' tiebreaks for the rest of the event
const PercentageFloor = 0.33

type Player struct {
	ID      string
	Name    string
	Dropped bool
	// History holds every match this player has been part of, in the order
	// they were paired. Both players of a match hold the same *Match, so the
	// rematch check is O(history) per player
	History []*Match
}

// NewPlayer creates a player from a participant identity
// Preconditions: Receives the participant id and display name
// Postconditions: Returns a pointer to a Player with an empty match history
func NewPlayer(id string, name string) *Player {
	return &Player{
		ID:   id,
		Name: name,
	}
}

// HasPlayed reports whether this player has already been paired against the
// given opponent in this tournament
// Preconditions: Receives a pointer to the opponent Player
// Postconditions: Returns true if any match in either player's history pairs the two
func (p *Player) HasPlayed(opponent *Player) bool {
	if opponent == nil {
		return p.HasBye()
	}
	for _, m := range p.History {
		if m.Opponent(p) == opponent {
			return true
		}
	}
	// Symmetric check; histories are duplicated on both sides but a missed
	// append on one side must not let a rematch through
	for _, m := range opponent.History {
		if m.Opponent(opponent) == p {
			return true
		}
	}
	return false
}

// HasBye reports whether this player has already received a bye this tournament
func (p *Player) HasBye() bool {
	for _, m := range p.History {
		if m.IsBye() {
			return true
		}
	}
	return false
}

// MatchPoints returns the player's match points: 3 per match win, 1 per draw,
// counted over finished matches only. A bye counts as a win
func (p *Player) MatchPoints() int {
	points := 0
	for _, m := range p.History {
		if !m.IsFinished() {
			continue
		}
		points += m.MatchPointsFor(p)
	}
	return points
}

// GamePoints returns the player's game points: 3 per game win, 1 per drawn game,
// over finished matches
func (p *Player) GamePoints() int {
	points := 0
	for _, m := range p.History {
		if !m.IsFinished() {
			continue
		}
		points += 3*m.WinsFor(p) + m.Draws
	}
	return points
}

// Record returns the player's match record as wins, losses and draws over
// finished matches. Used for rendering standings rows
func (p *Player) Record() (wins int, losses int, draws int) {
	for _, m := range p.History {
		if !m.IsFinished() {
			continue
		}
		switch {
		case m.WinnerIs(p):
			wins++
		case m.IsDraw():
			draws++
		default:
			losses++
		}
	}
	return wins, losses, draws
}

// MatchWinPercentage returns match points over total possible match points
// across finished matches, clamped to the tournament floor
func (p *Player) MatchWinPercentage() float64 {
	finished := 0
	for _, m := range p.History {
		if m.IsFinished() {
			finished++
		}
	}
	if finished == 0 {
		return PercentageFloor
	}
	return clamp(float64(p.MatchPoints()) / float64(3*finished))
}

// GameWinPercentage returns game points over total possible game points across
// finished matches, clamped to the tournament floor
func (p *Player) GameWinPercentage() float64 {
	games := 0
	for _, m := range p.History {
		if !m.IsFinished() {
			continue
		}
		games += m.GamesPlayed()
	}
	if games == 0 {
		return PercentageFloor
	}
	return clamp(float64(p.GamePoints()) / float64(3*games))
}

// OpponentMatchWinPercentage returns the average match-win percentage of this
// player's opponents over finished matches. Byes are excluded since a bye has
// no real opponent; a player with no finished non-bye matches gets the floor
func (p *Player) OpponentMatchWinPercentage() float64 {
	total := 0.0
	opponents := 0
	for _, m := range p.History {
		if !m.IsFinished() || m.IsBye() {
			continue
		}
		total += m.Opponent(p).MatchWinPercentage()
		opponents++
	}
	if opponents == 0 {
		return PercentageFloor
	}
	return clamp(total / float64(opponents))
}

// OpponentGameWinPercentage returns the average game-win percentage of this
// player's opponents, with the same bye exclusion and floor as OMW
func (p *Player) OpponentGameWinPercentage() float64 {
	total := 0.0
	opponents := 0
	for _, m := range p.History {
		if !m.IsFinished() || m.IsBye() {
			continue
		}
		total += m.Opponent(p).GameWinPercentage()
		opponents++
	}
	if opponents == 0 {
		return PercentageFloor
	}
	return clamp(total / float64(opponents))
}

// clamp applies the uniform percentage floor
func clamp(pct float64) float64 {
	if pct < PercentageFloor {
		return PercentageFloor
	}
	return pct
}
