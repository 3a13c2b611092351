/* errors.go
 * Contains the error types returned by the swiss engine. These are split into their own
 * types so callers can distinguish user-input problems from pairing precondition problems
 * Authors: Zachary Bower
 */

package swiss

import "fmt"

// RematchError is returned when a pairing would put two players against each
// other for a second time in the same tournament
type RematchError struct {
	Player1 string
	Player2 string
}

func (e *RematchError) Error() string {
	return fmt.Sprintf("%s and %s have already played each other this tournament", e.Player1, e.Player2)
}

// InvalidResultError is returned when a reported score does not satisfy the
// best-of-N completion rule
type InvalidResultError struct {
	Player1Wins int
	Player2Wins int
	Draws       int
}

func (e *InvalidResultError) Error() string {
	return fmt.Sprintf("%d-%d-%d is not a valid best-of-%d result: one side must win %d games, or %d games must be played",
		e.Player1Wins, e.Player2Wins, e.Draws, MatchBestOf, matchWinsNeeded, MatchBestOf)
}

// PairingPreconditionError is returned when the pairing engine is invoked in a
// state it cannot pair from, e.g. the current round still has unfinished matches
type PairingPreconditionError struct {
	Reason string
}

func (e *PairingPreconditionError) Error() string {
	return fmt.Sprintf("cannot pair next round: %s", e.Reason)
}
