/* pairing.go
 * Contains the three pairing strategies: round 1 random pairing, intermediate-round
 * weighted min-conflict matching and final-round ranked greedy pairing, plus the
 * bye assignment policy shared between them
 * Authors: Zachary Bower
 */

package swiss

import (
	"log"
	"math"
	"sort"
)

// scoreDiffPenalty is the weight multiplier on the match-point gap between two
// candidates in intermediate-round matching. Larger gaps cost more
const scoreDiffPenalty = 5

// exactMatchingLimit is the largest field the bitmask matching solver is run
// on. Beyond it the backtracking search is used instead
const exactMatchingLimit = 20

// PairNextRound pairs the next round and appends it to the tournament.
// Round 1 is paired randomly, the final round by standings rank, everything in
// between by min-conflict weighted matching
// Preconditions: The current round, if any, must be concluded
// Postconditions: Returns the new round, or a PairingPreconditionError /
// RematchError without mutating the tournament
func (t *SwissTournament) PairNextRound() (*Round, error) {
	if current := t.CurrentRound(); current != nil && !current.IsConcluded() {
		return nil, &PairingPreconditionError{Reason: "the current round still has unfinished matches"}
	}
	if len(t.Rounds) >= t.MaxRounds {
		return nil, &PairingPreconditionError{Reason: "all rounds have already been paired"}
	}

	active := t.ActivePlayers()
	if len(active) < 2 {
		return nil, &PairingPreconditionError{Reason: "fewer than two active players remain"}
	}

	number := len(t.Rounds) + 1
	var matches []*Match
	var err error
	switch {
	case number == 1:
		matches, err = t.pairFirstRound(active)
	case number == t.MaxRounds:
		matches, err = t.pairFinalRound(active)
	default:
		matches, err = t.pairIntermediateRound(active)
	}
	if err != nil {
		return nil, err
	}

	round := &Round{Number: number, Matches: matches}
	t.Rounds = append(t.Rounds, round)
	return round, nil
}

// pairFirstRound shuffles the field uniformly and pairs consecutive players.
// The odd player out receives a bye
func (t *SwissTournament) pairFirstRound(active []*Player) ([]*Match, error) {
	shuffled := append([]*Player(nil), active...)
	t.random().Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	var matches []*Match
	for i := 0; i+1 < len(shuffled); i += 2 {
		m, err := NewMatch(shuffled[i], shuffled[i+1])
		if err != nil {
			return nil, err
		}
		matches = append(matches, m)
	}
	if len(shuffled)%2 == 1 {
		bye, err := NewMatch(shuffled[len(shuffled)-1], nil)
		if err != nil {
			return nil, err
		}
		matches = append(matches, bye)
	}
	return matches, nil
}

// pairIntermediateRound pairs by maximum-weight matching on the complete graph
// of active players, with edge weight -(score difference * penalty) and pairs
// that already played forbidden. Players are shuffled within identical-score
// brackets first so equal-score pairings carry no deterministic bias
func (t *SwissTournament) pairIntermediateRound(active []*Player) ([]*Match, error) {
	field := t.shuffleWithinBrackets(active)

	if len(field)%2 == 0 {
		pairs, ok := matchField(field)
		if !ok {
			return nil, &PairingPreconditionError{Reason: "no pairing without a rematch exists for the remaining players"}
		}
		return buildMatches(pairs, nil)
	}

	// Odd field: the bye goes to the lowest-scoring player without one, but
	// only if the rest of the field can still be matched. Walk up from the
	// bottom until a candidate works
	for i := len(field) - 1; i >= 0; i-- {
		if field[i].HasBye() {
			continue
		}
		rest := without(field, i)
		if pairs, ok := matchField(rest); ok {
			return buildMatches(pairs, field[i])
		}
	}

	// Everyone left has had a bye already (or removing any non-byed player
	// leaves the rest unmatchable). Fall back to a double bye for the
	// lowest-scoring player whose removal keeps the field matchable
	for i := len(field) - 1; i >= 0; i-- {
		rest := without(field, i)
		if pairs, ok := matchField(rest); ok {
			log.Printf("warning: no first-bye candidate leaves a valid pairing, giving %s another bye", field[i].Name)
			return buildMatches(pairs, field[i])
		}
	}
	return nil, &PairingPreconditionError{Reason: "no pairing without a rematch exists for the remaining players"}
}

// pairFinalRound ranks the field by full standings order and then repeatedly
// pairs the top remaining player against the highest-ranked remaining player
// they have not faced. This trades strict adjacency for a clean
// top-of-standings final match
func (t *SwissTournament) pairFinalRound(active []*Player) ([]*Match, error) {
	remaining := SortPlayersByStandings(active)

	var byePlayer *Player
	if len(remaining)%2 == 1 {
		idx := -1
		for i := len(remaining) - 1; i >= 0; i-- {
			if !remaining[i].HasBye() {
				idx = i
				break
			}
		}
		if idx == -1 {
			idx = len(remaining) - 1
			log.Printf("warning: every remaining player has had a bye, giving %s another", remaining[idx].Name)
		}
		byePlayer = remaining[idx]
		remaining = without(remaining, idx)
	}

	var matches []*Match
	for len(remaining) > 0 {
		top := remaining[0]
		oppIdx := -1
		for i := 1; i < len(remaining); i++ {
			if !top.HasPlayed(remaining[i]) {
				oppIdx = i
				break
			}
		}
		if oppIdx == -1 {
			// The tail of the standings can paint itself into a corner where
			// only rematches remain. In the final round we allow the rematch
			// rather than refusing to finish the tournament
			oppIdx = 1
			log.Printf("warning: final round rematch between %s and %s, no fresh opponent remains", top.Name, remaining[1].Name)
			m := &Match{Player1: top, Player2: remaining[1]}
			top.History = append(top.History, m)
			remaining[1].History = append(remaining[1].History, m)
			matches = append(matches, m)
		} else {
			m, err := NewMatch(top, remaining[oppIdx])
			if err != nil {
				return nil, err
			}
			matches = append(matches, m)
		}
		remaining = without(without(remaining, oppIdx), 0)
	}

	if byePlayer != nil {
		bye, err := NewMatch(byePlayer, nil)
		if err != nil {
			return nil, err
		}
		matches = append(matches, bye)
	}
	return matches, nil
}

// shuffleWithinBrackets orders the field descending by match points, shuffling
// players that share a score so matching sees no deterministic bias
func (t *SwissTournament) shuffleWithinBrackets(active []*Player) []*Player {
	shuffled := append([]*Player(nil), active...)
	t.random().Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	sort.SliceStable(shuffled, func(i, j int) bool {
		return shuffled[i].MatchPoints() > shuffled[j].MatchPoints()
	})
	return shuffled
}

// matchField finds a perfect matching of the field with no rematches,
// maximizing total edge weight -(score difference * penalty). Small fields are
// solved exactly with a bitmask solver; larger ones fall back to a
// backtracking search that tries closest scores first
func matchField(field []*Player) ([][2]*Player, bool) {
	if len(field) == 0 {
		return nil, true
	}
	if len(field)%2 != 0 {
		return nil, false
	}
	if len(field) <= exactMatchingLimit {
		return matchExact(field)
	}
	return matchBacktracking(field, make([]bool, len(field)))
}

// matchExact computes a maximum-weight perfect matching over subsets of the
// field. best[mask] is the highest achievable weight pairing exactly the
// players in mask; forbidden (rematch) edges never enter
func matchExact(field []*Player) ([][2]*Player, bool) {
	n := len(field)
	points := make([]int, n)
	for i, p := range field {
		points[i] = p.MatchPoints()
	}

	negInf := math.Inf(-1)
	size := 1 << n
	best := make([]float64, size)
	choice := make([]int, size)
	for mask := 1; mask < size; mask++ {
		best[mask] = negInf
		choice[mask] = -1
	}

	for mask := 3; mask < size; mask++ {
		i := lowestBit(mask)
		for j := i + 1; j < n; j++ {
			if mask&(1<<j) == 0 || field[i].HasPlayed(field[j]) {
				continue
			}
			rest := mask &^ (1 << i) &^ (1 << j)
			if best[rest] == negInf {
				continue
			}
			diff := points[i] - points[j]
			if diff < 0 {
				diff = -diff
			}
			weight := best[rest] - float64(diff*scoreDiffPenalty)
			if weight > best[mask] {
				best[mask] = weight
				choice[mask] = j
			}
		}
	}

	full := size - 1
	if best[full] == negInf {
		return nil, false
	}
	var pairs [][2]*Player
	for mask := full; mask != 0; {
		i := lowestBit(mask)
		j := choice[mask]
		pairs = append(pairs, [2]*Player{field[i], field[j]})
		mask = mask &^ (1 << i) &^ (1 << j)
	}
	return pairs, true
}

// matchBacktracking pairs the first unused player with candidates in field
// order (already sorted by score bracket) and backtracks on dead ends. It
// returns the first complete rematch-free matching it finds
func matchBacktracking(field []*Player, used []bool) ([][2]*Player, bool) {
	first := -1
	for i := range field {
		if !used[i] {
			first = i
			break
		}
	}
	if first == -1 {
		return nil, true
	}
	used[first] = true
	for j := first + 1; j < len(field); j++ {
		if used[j] || field[first].HasPlayed(field[j]) {
			continue
		}
		used[j] = true
		if rest, ok := matchBacktracking(field, used); ok {
			return append(rest, [2]*Player{field[first], field[j]}), true
		}
		used[j] = false
	}
	used[first] = false
	return nil, false
}

// buildMatches materializes pairs into Match objects, appending the bye last
func buildMatches(pairs [][2]*Player, byePlayer *Player) ([]*Match, error) {
	var matches []*Match
	for _, pair := range pairs {
		m, err := NewMatch(pair[0], pair[1])
		if err != nil {
			return nil, err
		}
		matches = append(matches, m)
	}
	if byePlayer != nil {
		bye, err := NewMatch(byePlayer, nil)
		if err != nil {
			return nil, err
		}
		matches = append(matches, bye)
	}
	return matches, nil
}

func without(players []*Player, i int) []*Player {
	out := make([]*Player, 0, len(players)-1)
	out = append(out, players[:i]...)
	return append(out, players[i+1:]...)
}

func lowestBit(mask int) int {
	for i := 0; ; i++ {
		if mask&(1<<i) != 0 {
			return i
		}
	}
}
