/* standings.go
 * Contains the standings sort. The tiebreak order is the MTG convention:
 * match points, then opponents' match-win %, then own game-win %, then opponents' game-win %
 * Authors: Zachary Bower
 */

package swiss

import (
	"slices"
	"sort"
)

// SortPlayersByStandings returns the players sorted descending by the 4-tuple
// (match points, OMW%, GW%, OGW%). The sort is stable; players tied on all four
// keys keep their input order, which is acceptable since placement beyond the
// reported ranks is not contractual
// Preconditions: Receives a slice of players
// Postconditions: Returns a new sorted slice, the input is not modified
func SortPlayersByStandings(players []*Player) []*Player {
	ranked := slices.Clone(players)
	keys := make(map[*Player]standingsKey, len(ranked))
	for _, p := range ranked {
		keys[p] = standingsKeyFor(p)
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return keys[ranked[i]].beats(keys[ranked[j]])
	})
	return ranked
}

// standingsKey caches a player's tiebreak tuple for the duration of one sort,
// so the O(n^2) opponent-percentage walks run once per player instead of once
// per comparison
type standingsKey struct {
	matchPoints int
	omw         float64
	gw          float64
	ogw         float64
}

func standingsKeyFor(p *Player) standingsKey {
	return standingsKey{
		matchPoints: p.MatchPoints(),
		omw:         p.OpponentMatchWinPercentage(),
		gw:          p.GameWinPercentage(),
		ogw:         p.OpponentGameWinPercentage(),
	}
}

func (k standingsKey) beats(other standingsKey) bool {
	if k.matchPoints != other.matchPoints {
		return k.matchPoints > other.matchPoints
	}
	if k.omw != other.omw {
		return k.omw > other.omw
	}
	if k.gw != other.gw {
		return k.gw > other.gw
	}
	return k.ogw > other.ogw
}
