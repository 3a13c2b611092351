/* resolve.go
 * Contains fuzzy player-name resolution for organizer commands that name a player,
 * e.g. reporting on someone's behalf or kicking
 * Authors: Zachary Bower
 */

package api

import (
	"fmt"
	"strings"

	"tabletop-bot/tournament/swiss"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// resolvePlayer matches the input against player names, case insensitively and
// fuzzily. An exact match wins outright; otherwise the best ranked fuzzy match
// is taken
// Preconditions: Receives the input name and the tournament's players
// Postconditions: Returns the matched player, or an error if nothing matches
func resolvePlayer(input string, players []*swiss.Player) (*swiss.Player, error) {
	lowerInput := strings.ToLower(strings.TrimSpace(input))
	if lowerInput == "" {
		return nil, fmt.Errorf("a player name is required")
	}

	lookup := make(map[string]*swiss.Player, len(players))
	var lowerNames []string
	for _, p := range players {
		lower := strings.ToLower(p.Name)
		lookup[lower] = p
		lowerNames = append(lowerNames, lower)
	}

	if p, ok := lookup[lowerInput]; ok {
		return p, nil
	}

	results := fuzzy.RankFindFold(lowerInput, lowerNames)
	if len(results) == 0 {
		return nil, fmt.Errorf("no player matching '%s' is in this tournament", input)
	}
	best := results[0]
	for _, r := range results {
		if r.Distance < best.Distance {
			best = r
		}
	}
	return lookup[best.Target], nil
}
