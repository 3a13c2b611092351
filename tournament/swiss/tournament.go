/* tournament.go
 * Contains the SwissTournament struct: the players, the append-only round list and the
 * effective round count. Pairing itself lives in pairing.go
 * Authors: Zachary Bower
 */

package swiss

import (
	"math/rand"
	"time"
)

// SwissTournament is the running state of a swiss event once registration has
// been frozen. Players are owned exclusively by the tournament and are never
// destroyed, only marked dropped
type SwissTournament struct {
	MaxRounds int
	Players   []*Player
	Rounds    []*Round

	rng *rand.Rand
}

// NewSwissTournament builds a tournament from the finalized roster.
// maxRounds <= 0 means auto-compute from the participant count; an explicit
// value is still capped at the recommended count for the field size
// Preconditions: Receives the player list and the configured round limit
// Postconditions: Returns a tournament with no rounds paired yet
func NewSwissTournament(players []*Player, maxRounds int) *SwissTournament {
	recommended := RecommendedRounds(len(players))
	if maxRounds <= 0 || maxRounds > recommended {
		maxRounds = recommended
	}
	return &SwissTournament{
		MaxRounds: maxRounds,
		Players:   players,
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// RecommendedRounds returns the standard swiss round count for a field size
func RecommendedRounds(playerCount int) int {
	switch {
	case playerCount <= 8:
		return 3
	case playerCount <= 16:
		return 4
	case playerCount <= 32:
		return 5
	case playerCount <= 64:
		return 6
	case playerCount <= 128:
		return 7
	case playerCount <= 226:
		return 8
	case playerCount <= 409:
		return 9
	}
	return 10
}

// ActivePlayers returns the players still in the tournament, in roster order
func (t *SwissTournament) ActivePlayers() []*Player {
	active := make([]*Player, 0, len(t.Players))
	for _, p := range t.Players {
		if !p.Dropped {
			active = append(active, p)
		}
	}
	return active
}

// PlayerByID returns the player with the given participant id, or nil
func (t *SwissTournament) PlayerByID(id string) *Player {
	for _, p := range t.Players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// CurrentRound returns the most recently paired round, or nil before round 1
func (t *SwissTournament) CurrentRound() *Round {
	if len(t.Rounds) == 0 {
		return nil
	}
	return t.Rounds[len(t.Rounds)-1]
}

// IsFinished reports whether every round has been paired and concluded
func (t *SwissTournament) IsFinished() bool {
	return len(t.Rounds) >= t.MaxRounds && t.CurrentRound().IsConcluded()
}

// Winner returns the top standings-sorted player who has not dropped. Only
// meaningful once the tournament is finished
func (t *SwissTournament) Winner() *Player {
	for _, p := range SortPlayersByStandings(t.Players) {
		if !p.Dropped {
			return p
		}
	}
	return nil
}

// random returns the tournament's random source, falling back to a fresh one
// for tournaments reconstructed from persistence
func (t *SwissTournament) random() *rand.Rand {
	if t.rng == nil {
		t.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return t.rng
}

// SetRand replaces the random source. Tests use this for deterministic pairing
func (t *SwissTournament) SetRand(rng *rand.Rand) {
	t.rng = rng
}
