/* round.go
 * Contains the Round struct. Rounds remember the ids of their pairing and standings
 * announcements so the interaction layer can edit them; the engine never owns those messages
 * Authors: Zachary Bower
 */

package swiss

// Round is one round of the tournament: a 1-based sequence number and the
// matches paired for it
type Round struct {
	Number  int
	Matches []*Match
	// Message ids of the externally-owned pairing and standings announcements.
	// Opaque to the engine; kept only so the posts can be edited later
	PairingsMessageID  string
	StandingsMessageID string
}

// IsConcluded reports whether every match in the round is finished
func (r *Round) IsConcluded() bool {
	for _, m := range r.Matches {
		if !m.IsFinished() {
			return false
		}
	}
	return true
}

// MatchFor returns the match the given player is part of in this round, or nil
// if the player sat the round out
func (r *Round) MatchFor(p *Player) *Match {
	for _, m := range r.Matches {
		if m.Contains(p) {
			return m
		}
	}
	return nil
}
