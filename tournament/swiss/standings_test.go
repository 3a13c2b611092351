/* standings_test.go
 * Contains unit tests for the standings sort order and its stability
 * Authors: Zachary Bower
 */

package swiss

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSortPlayersByStandings_MatchPointsDominate(t *testing.T) {
	alice := NewPlayer("1", "Alice")
	bob := NewPlayer("2", "Bob")
	carol := NewPlayer("3", "Carol")
	dave := NewPlayer("4", "Dave")

	playMatch(t, alice, bob, 2, 0, 0)
	playMatch(t, carol, dave, 1, 1, 1)

	ranked := SortPlayersByStandings([]*Player{dave, carol, bob, alice})

	assert.Same(t, alice, ranked[0]) // 3 points
	// Carol and Dave drew (1 point each), Bob lost (0)
	assert.Same(t, bob, ranked[3])
}

func TestSortPlayersByStandings_OMWBreaksTies(t *testing.T) {
	// Alice and Bob both win round 1, but Alice's opponent goes on to win
	// their round 2 match while Bob's loses, so Alice's OMW is higher
	alice := NewPlayer("1", "Alice")
	bob := NewPlayer("2", "Bob")
	carol := NewPlayer("3", "Carol")
	dave := NewPlayer("4", "Dave")
	erin := NewPlayer("5", "Erin")
	frank := NewPlayer("6", "Frank")

	playMatch(t, alice, carol, 2, 1, 0)
	playMatch(t, bob, dave, 2, 1, 0)
	playMatch(t, carol, erin, 2, 0, 0)
	playMatch(t, dave, frank, 0, 2, 0)

	require.Equal(t, alice.MatchPoints(), bob.MatchPoints())
	require.Greater(t, alice.OpponentMatchWinPercentage(), bob.OpponentMatchWinPercentage())

	ranked := SortPlayersByStandings([]*Player{bob, alice})
	assert.Same(t, alice, ranked[0])
	assert.Same(t, bob, ranked[1])
}

func TestSortPlayersByStandings_StableForFullTies(t *testing.T) {
	// Fresh players are tied on every key, so input order must be preserved
	players := []*Player{
		NewPlayer("1", "Alice"),
		NewPlayer("2", "Bob"),
		NewPlayer("3", "Carol"),
	}

	ranked := SortPlayersByStandings(players)

	require.Len(t, ranked, 3)
	for i := range players {
		assert.Same(t, players[i], ranked[i])
	}
}

func TestSortPlayersByStandings_DoesNotMutateInput(t *testing.T) {
	alice := NewPlayer("1", "Alice")
	bob := NewPlayer("2", "Bob")
	playMatch(t, bob, alice, 2, 0, 0)

	input := []*Player{alice, bob}
	ranked := SortPlayersByStandings(input)

	assert.Same(t, alice, input[0])
	assert.Same(t, bob, ranked[0])
}

func TestSortPlayersByStandings_TransitivelyConsistent(t *testing.T) {
	// Build a mid-tournament mess and check pairwise consistency of the ranking
	players := make([]*Player, 6)
	names := []string{"Alice", "Bob", "Carol", "Dave", "Erin", "Frank"}
	for i := range players {
		players[i] = NewPlayer(names[i], names[i])
	}
	playMatch(t, players[0], players[1], 2, 0, 0)
	playMatch(t, players[2], players[3], 2, 1, 0)
	playMatch(t, players[4], players[5], 1, 1, 1)
	playMatch(t, players[0], players[2], 2, 1, 0)
	playMatch(t, players[1], players[4], 0, 2, 0)
	playMatch(t, players[3], players[5], 2, 0, 0)

	ranked := SortPlayersByStandings(players)
	for i := 0; i < len(ranked); i++ {
		for j := i + 1; j < len(ranked); j++ {
			hi, lo := standingsKeyFor(ranked[i]), standingsKeyFor(ranked[j])
			assert.False(t, lo.beats(hi), "%s must not outrank %s", ranked[j].Name, ranked[i].Name)
		}
	}
}
