/* event_test.go
 * Contains unit tests for the event lifecycle: registration and waitlist handling,
 * starting, round progression idempotency, drops, cancellation and conclusion
 * Authors: Zachary Bower
 */

package event

import (
	"fmt"
	"math/rand"
	"testing"

	"tabletop-bot/tournament/swiss"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// namesFor builds the id -> display name map Start expects for n test users
func namesFor(n int) map[string]string {
	names := make(map[string]string, n)
	for i := 1; i <= n; i++ {
		names[fmt.Sprintf("u%d", i)] = fmt.Sprintf("User %d", i)
	}
	return names
}

// registerAll registers u1..un as participating
func registerAll(t *testing.T, e *Event, n int) {
	t.Helper()
	for i := 1; i <= n; i++ {
		_, _, err := e.Register(fmt.Sprintf("u%d", i), StateParticipate)
		require.NoError(t, err)
	}
}

// finishRound reports a decisive result on every non-bye match
func finishRound(t *testing.T, round *swiss.Round) {
	t.Helper()
	for _, m := range round.Matches {
		if !m.IsBye() {
			require.NoError(t, m.SetResult(2, 0, 0))
		}
	}
}

// region registration

func TestRegister_StatesAndReRegistration(t *testing.T) {
	e := New("Friday Swiss", "organizer", "chan1", 0, 0)

	_, _, err := e.Register("u1", StateParticipate)
	require.NoError(t, err)
	_, _, err = e.Register("u2", StateTentative)
	require.NoError(t, err)

	assert.Equal(t, 1, e.ParticipantCount())
	assert.Equal(t, StateTentative, e.Users["u2"])

	// Changing intent replaces the previous state
	_, _, err = e.Register("u2", StateParticipate)
	require.NoError(t, err)
	assert.Equal(t, 2, e.ParticipantCount())

	_, _, err = e.Register("u1", StateDecline)
	require.NoError(t, err)
	assert.Equal(t, 1, e.ParticipantCount())
	_, declined := e.Users["u1"]
	assert.False(t, declined)
}

func TestRegister_FullEventWaitlistsInOrder(t *testing.T) {
	// Scenario: max_participants = 4, five then six users want in
	e := New("Capped Event", "organizer", "chan1", 4, 0)
	registerAll(t, e, 4)

	notice, promoted, err := e.Register("u5", StateParticipate)
	require.NoError(t, err)
	assert.Contains(t, notice, "full")
	assert.Contains(t, notice, "waitlist")
	assert.Empty(t, promoted)

	_, _, err = e.Register("u6", StateParticipate)
	require.NoError(t, err)

	assert.Equal(t, 4, e.ParticipantCount())
	assert.Equal(t, []string{"u5", "u6"}, e.Waitlist)

	// Registering again while queued does not duplicate the entry
	notice, _, err = e.Register("u5", StateParticipate)
	require.NoError(t, err)
	assert.Contains(t, notice, "already on the waitlist")
	assert.Equal(t, []string{"u5", "u6"}, e.Waitlist)
}

func TestRegister_DeclinePromotesWaitlistHead(t *testing.T) {
	e := New("Capped Event", "organizer", "chan1", 4, 0)
	registerAll(t, e, 4)
	_, _, err := e.Register("u5", StateParticipate)
	require.NoError(t, err)
	_, _, err = e.Register("u6", StateParticipate)
	require.NoError(t, err)

	// u2 drops out; u5 was queued first so u5 is promoted, u6 keeps waiting
	_, promoted, err := e.Register("u2", StateDecline)
	require.NoError(t, err)

	assert.Equal(t, []string{"u5"}, promoted)
	assert.Equal(t, StateParticipate, e.Users["u5"])
	assert.Equal(t, []string{"u6"}, e.Waitlist)
	assert.Equal(t, 4, e.ParticipantCount())
}

func TestRegister_MovingToTentativePromotesWaitlist(t *testing.T) {
	e := New("Capped Event", "organizer", "chan1", 2, 0)
	registerAll(t, e, 2)
	_, _, err := e.Register("u3", StateParticipate)
	require.NoError(t, err)

	_, promoted, err := e.Register("u1", StateTentative)
	require.NoError(t, err)

	assert.Equal(t, []string{"u3"}, promoted)
	assert.Empty(t, e.Waitlist)
	assert.Equal(t, StateTentative, e.Users["u1"])
}

func TestRegister_WaitlistedUserCanDecline(t *testing.T) {
	e := New("Capped Event", "organizer", "chan1", 2, 0)
	registerAll(t, e, 2)
	_, _, err := e.Register("u3", StateParticipate)
	require.NoError(t, err)

	_, promoted, err := e.Register("u3", StateDecline)
	require.NoError(t, err)

	assert.Empty(t, promoted)
	assert.Empty(t, e.Waitlist)
}

func TestRegister_ClosedAfterStart(t *testing.T) {
	e := New("Friday Swiss", "organizer", "chan1", 0, 0)
	registerAll(t, e, 4)
	_, err := e.Start(namesFor(4))
	require.NoError(t, err)

	_, _, err = e.Register("u9", StateParticipate)
	assert.ErrorIs(t, err, ErrRegistrationClosed)
}

// endregion

// region start

func TestStart_RequiresTwoParticipants(t *testing.T) {
	e := New("Friday Swiss", "organizer", "chan1", 0, 0)
	_, _, err := e.Register("u1", StateParticipate)
	require.NoError(t, err)
	_, _, err = e.Register("u2", StateTentative)
	require.NoError(t, err)

	_, err = e.Start(namesFor(2))

	assert.Error(t, err)
	assert.False(t, e.Started())
}

func TestStart_TentativeUsersAreNotSeated(t *testing.T) {
	e := New("Friday Swiss", "organizer", "chan1", 0, 0)
	registerAll(t, e, 4)
	_, _, err := e.Register("u5", StateTentative)
	require.NoError(t, err)

	round, err := e.Start(namesFor(5))

	require.NoError(t, err)
	assert.Len(t, e.Swiss.Players, 4)
	assert.Len(t, round.Matches, 2)
	assert.Nil(t, e.Swiss.PlayerByID("u5"))
	assert.Equal(t, StatusRoundActive, e.Status())
}

func TestStart_FallsBackToIDForMissingName(t *testing.T) {
	e := New("Friday Swiss", "organizer", "chan1", 0, 0)
	registerAll(t, e, 2)

	_, err := e.Start(map[string]string{"u1": "Alice"})
	require.NoError(t, err)

	assert.Equal(t, "u2", e.Swiss.PlayerByID("u2").Name)
}

func TestStart_Twice(t *testing.T) {
	e := New("Friday Swiss", "organizer", "chan1", 0, 0)
	registerAll(t, e, 4)
	_, err := e.Start(namesFor(4))
	require.NoError(t, err)

	_, err = e.Start(namesFor(4))
	assert.Error(t, err)
}

// endregion

// region round progression

func TestAdvanceRound_LifecycleToConclusion(t *testing.T) {
	e := New("Friday Swiss", "organizer", "chan1", 0, 0)
	registerAll(t, e, 4)
	round, err := e.Start(namesFor(4))
	require.NoError(t, err)
	e.Swiss.SetRand(rand.New(rand.NewSource(1)))

	for round.Number < e.Swiss.MaxRounds {
		finishRound(t, round)
		round, err = e.AdvanceRound(round.Number)
		require.NoError(t, err)
	}
	finishRound(t, round)

	_, err = e.AdvanceRound(round.Number)
	assert.ErrorIs(t, err, ErrTournamentComplete)

	winner, err := e.Conclude()
	require.NoError(t, err)
	assert.Equal(t, winner.ID, e.WinnerID)
	assert.Equal(t, StatusConcluded, e.Status())

	// A concluded event rejects further play
	_, err = e.ReportResult("u1", 2, 0, 0)
	assert.ErrorIs(t, err, ErrTournamentComplete)
}

func TestAdvanceRound_UnfinishedRound(t *testing.T) {
	e := New("Friday Swiss", "organizer", "chan1", 0, 0)
	registerAll(t, e, 4)
	_, err := e.Start(namesFor(4))
	require.NoError(t, err)

	_, err = e.AdvanceRound(1)
	assert.ErrorIs(t, err, ErrRoundNotFinished)
}

func TestAdvanceRound_DoubleTriggerIsIdempotent(t *testing.T) {
	e := New("Friday Swiss", "organizer", "chan1", 0, 0)
	registerAll(t, e, 4)
	round, err := e.Start(namesFor(4))
	require.NoError(t, err)
	finishRound(t, round)

	_, err = e.AdvanceRound(1)
	require.NoError(t, err)

	// The second click says "advance past round 1" again, but play has moved
	// on: reject as already advanced rather than as an unfinished round 2
	_, err = e.AdvanceRound(1)
	assert.ErrorIs(t, err, ErrAlreadyAdvanced)
}

func TestAdvanceRound_BeforeStart(t *testing.T) {
	e := New("Friday Swiss", "organizer", "chan1", 0, 0)
	_, err := e.AdvanceRound(0)
	assert.ErrorIs(t, err, ErrNotStarted)
}

// endregion

// region reporting

func TestReportResult_OrientsScoreToReporter(t *testing.T) {
	e := New("Friday Swiss", "organizer", "chan1", 0, 0)
	registerAll(t, e, 2)
	round, err := e.Start(namesFor(2))
	require.NoError(t, err)
	m := round.Matches[0]

	// Player2 reporting a 2-1 win must land as 1-2 on the stored match
	reporter := m.Player2
	match, err := e.ReportResult(reporter.ID, 2, 1, 0)
	require.NoError(t, err)
	assert.Same(t, m, match)
	assert.Equal(t, 1, m.Player1Wins)
	assert.Equal(t, 2, m.Player2Wins)
	assert.True(t, m.WinnerIs(reporter))
}

func TestReportResult_UnknownPlayerAndBye(t *testing.T) {
	e := New("Friday Swiss", "organizer", "chan1", 0, 0)
	registerAll(t, e, 3)
	round, err := e.Start(namesFor(3))
	require.NoError(t, err)

	_, err = e.ReportResult("stranger", 2, 0, 0)
	assert.Error(t, err)

	var byed *swiss.Player
	for _, m := range round.Matches {
		if m.IsBye() {
			byed = m.Player1
		}
	}
	require.NotNil(t, byed)
	_, err = e.ReportResult(byed.ID, 2, 0, 0)
	assert.Error(t, err)
}

// endregion

// region drop / cancel

func TestDrop_BeforeStartActsAsDecline(t *testing.T) {
	e := New("Capped Event", "organizer", "chan1", 2, 0)
	registerAll(t, e, 2)
	_, _, err := e.Register("u3", StateParticipate)
	require.NoError(t, err)

	promoted, err := e.Drop("u1")
	require.NoError(t, err)

	assert.Equal(t, []string{"u3"}, promoted)
	_, present := e.Users["u1"]
	assert.False(t, present)
}

func TestDrop_AfterStartMarksPlayerDropped(t *testing.T) {
	e := New("Friday Swiss", "organizer", "chan1", 0, 0)
	registerAll(t, e, 4)
	_, err := e.Start(namesFor(4))
	require.NoError(t, err)

	_, err = e.Drop("u1")
	require.NoError(t, err)

	player := e.Swiss.PlayerByID("u1")
	require.NotNil(t, player, "dropped players stay in the tournament history")
	assert.True(t, player.Dropped)

	_, err = e.Drop("u1")
	assert.Error(t, err, "dropping twice is rejected")
}

func TestCancel_TerminalState(t *testing.T) {
	e := New("Friday Swiss", "organizer", "chan1", 0, 0)
	registerAll(t, e, 4)

	require.NoError(t, e.Cancel("venue flooded"))
	assert.Equal(t, StatusCancelled, e.Status())
	assert.Equal(t, "venue flooded", e.CancelledReason)

	_, _, err := e.Register("u9", StateParticipate)
	assert.ErrorIs(t, err, ErrCancelled)
	_, err = e.Start(namesFor(4))
	assert.ErrorIs(t, err, ErrCancelled)
	assert.ErrorIs(t, e.Cancel("again"), ErrCancelled)
}

func TestCancel_DefaultReason(t *testing.T) {
	e := New("Friday Swiss", "organizer", "chan1", 0, 0)
	require.NoError(t, e.Cancel(""))
	assert.NotEmpty(t, e.CancelledReason)
}

// endregion

func TestParseRegistrationState_RoundTrip(t *testing.T) {
	for _, state := range []RegistrationState{StateParticipate, StateTentative, StateDecline} {
		parsed, err := ParseRegistrationState(state.String())
		require.NoError(t, err)
		assert.Equal(t, state, parsed)
	}
	_, err := ParseRegistrationState("maybe")
	assert.Error(t, err)
}
