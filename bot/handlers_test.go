/* handlers_test.go
 * Contains unit tests for bot command handlers using mock Discord session
 * Authors: Zachary Bower
 */

package bot

import (
	"strings"
	"testing"

	"tabletop-bot/tournament/api"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// createTestBot creates a Bot instance over an in-memory API for testing
func createTestBot(t *testing.T) *Bot {
	t.Helper()
	roster := &api.MockRoster{Names: map[string]string{
		"user1": "Alice", "user2": "Bob", "user3": "Carol", "user4": "Dave",
	}}
	apiPtr, err := api.NewAPI(api.NewMockStore(), roster, api.NewMockNotifier())
	require.NoError(t, err)
	return &Bot{
		BotToken: "test_token",
		GuildID:  "guild123",
		APIPtr:   apiPtr,
	}
}

// createMockMessage creates a mock Discord message for testing
func createMockMessage(content, userID, username, channelID string) *discordgo.MessageCreate {
	return &discordgo.MessageCreate{
		Message: &discordgo.Message{
			Content:   content,
			ChannelID: channelID,
			Author: &discordgo.User{
				ID:       userID,
				Username: username,
			},
		},
	}
}

// send dispatches a command through the same entry point the runtime uses
func send(bot *Bot, session *MockDiscordSession, content, userID string) {
	message := createMockMessage(content, userID, "name-"+userID, "channel123")
	bot.newMessageHandler(session, message, "bot_user_id")
}

// createAndFill opens a tournament as user "org" and joins user1..user4
func createAndFill(bot *Bot, session *MockDiscordSession) {
	send(bot, session, "$create \"Friday Swiss\"", "org")
	for _, id := range []string{"user1", "user2", "user3", "user4"} {
		send(bot, session, "$join", id)
	}
	session.ClearMessages()
}

// region dispatch tests

func TestNewMessageHandler_IgnoresOwnMessages(t *testing.T) {
	bot := createTestBot(t)
	mockSession := NewMockDiscordSession()
	message := createMockMessage("$help", "bot_user_id", "Bot", "channel123")

	bot.newMessageHandler(mockSession, message, "bot_user_id")

	assert.Empty(t, mockSession.SentMessages)
}

func TestNewMessageHandler_IgnoresNonCommands(t *testing.T) {
	bot := createTestBot(t)
	mockSession := NewMockDiscordSession()

	send(bot, mockSession, "good game everyone", "user1")

	assert.Empty(t, mockSession.SentMessages)
}

func TestHelpMessage_Success(t *testing.T) {
	bot := createTestBot(t)
	mockSession := NewMockDiscordSession()

	send(bot, mockSession, "$help", "user1")

	require.Len(t, mockSession.SentMessages, 1)
	last := mockSession.GetLastMessage()
	assert.Equal(t, "channel123", last.ChannelID)
	assert.Contains(t, last.Content, "$create")
	assert.Contains(t, last.Content, "$report")
	assert.Contains(t, last.Content, "$advance")
}

// endregion

// region create tests

func TestCreateHandler_Success(t *testing.T) {
	bot := createTestBot(t)
	mockSession := NewMockDiscordSession()

	send(bot, mockSession, "$create \"Friday Swiss\" 8", "org")

	last := mockSession.GetLastMessage()
	assert.Contains(t, last.Content, "Friday Swiss is open for registration")
	assert.Contains(t, last.Content, "Capacity: 8 players")
}

func TestCreateHandler_MissingName(t *testing.T) {
	bot := createTestBot(t)
	mockSession := NewMockDiscordSession()

	send(bot, mockSession, "$create", "org")

	assert.Contains(t, mockSession.GetLastMessage().Content, "Usage: $create")
}

func TestCreateHandler_InvalidLimit(t *testing.T) {
	bot := createTestBot(t)
	mockSession := NewMockDiscordSession()

	send(bot, mockSession, "$create \"Friday Swiss\" lots", "org")

	assert.Contains(t, mockSession.GetLastMessage().Content, "not a valid player limit")
}

func TestCreateHandler_SecondTournamentRejected(t *testing.T) {
	bot := createTestBot(t)
	mockSession := NewMockDiscordSession()
	send(bot, mockSession, "$create \"First\"", "org")

	send(bot, mockSession, "$create \"Second\"", "org")

	assert.Contains(t, mockSession.GetLastMessage().Content, "already running")
}

// endregion

// region registration tests

func TestRegisterHandlers(t *testing.T) {
	bot := createTestBot(t)
	mockSession := NewMockDiscordSession()
	send(bot, mockSession, "$create \"Friday Swiss\"", "org")

	send(bot, mockSession, "$join", "user1")
	assert.Contains(t, mockSession.GetLastMessage().Content, "registered")

	send(bot, mockSession, "$tentative", "user2")
	assert.Contains(t, mockSession.GetLastMessage().Content, "tentative")

	send(bot, mockSession, "$decline", "user1")
	assert.Contains(t, mockSession.GetLastMessage().Content, "removed")
}

func TestRegisterHandler_NoTournament(t *testing.T) {
	bot := createTestBot(t)
	mockSession := NewMockDiscordSession()

	send(bot, mockSession, "$join", "user1")

	assert.Contains(t, mockSession.GetLastMessage().Content, "no tournament")
}

func TestJoinHandler_FullTournamentWaitlists(t *testing.T) {
	bot := createTestBot(t)
	mockSession := NewMockDiscordSession()
	send(bot, mockSession, "$create \"Capped\" 2", "org")
	send(bot, mockSession, "$join", "user1")
	send(bot, mockSession, "$join", "user2")

	send(bot, mockSession, "$join", "user3")

	assert.Contains(t, mockSession.GetLastMessage().Content, "waitlist")
}

// endregion

// region start tests

func TestStartHandler_PostsRoundOnePairings(t *testing.T) {
	bot := createTestBot(t)
	mockSession := NewMockDiscordSession()
	createAndFill(bot, mockSession)

	send(bot, mockSession, "$start", "org")

	last := mockSession.GetLastMessage()
	assert.Contains(t, last.Content, "Round 1 pairings")
	assert.Contains(t, last.Content, "Table 1")
	assert.Contains(t, last.Content, "Alice")
}

func TestStartHandler_NonOrganizerRejected(t *testing.T) {
	bot := createTestBot(t)
	mockSession := NewMockDiscordSession()
	createAndFill(bot, mockSession)

	send(bot, mockSession, "$start", "user1")

	assert.Contains(t, mockSession.GetLastMessage().Content, "organizer")
}

// endregion

// region report tests

func TestReportHandler_SelfReport(t *testing.T) {
	bot := createTestBot(t)
	mockSession := NewMockDiscordSession()
	createAndFill(bot, mockSession)
	send(bot, mockSession, "$start", "org")

	send(bot, mockSession, "$report 2-1", "user1")

	assert.Contains(t, mockSession.GetLastMessage().Content, "Result recorded")
}

func TestReportHandler_OrganizerReportsForPlayer(t *testing.T) {
	bot := createTestBot(t)
	mockSession := NewMockDiscordSession()
	createAndFill(bot, mockSession)
	send(bot, mockSession, "$start", "org")

	send(bot, mockSession, "$report \"Bob\" 2-0-1", "org")

	assert.Contains(t, mockSession.GetLastMessage().Content, "Result recorded")
}

func TestReportHandler_UpdatesPairingsMessage(t *testing.T) {
	bot := createTestBot(t)
	mockSession := NewMockDiscordSession()
	createAndFill(bot, mockSession)
	send(bot, mockSession, "$start", "org")
	mockSession.ClearMessages()

	ev := bot.APIPtr.EventByID(soleTournamentID(t, bot))
	m := ev.Swiss.CurrentRound().Matches[0]
	send(bot, mockSession, "$report 2-1", m.Player1.ID)

	// The pairing announcement gets edited in place with the new score
	require.NotEmpty(t, mockSession.EditedMessages)
	edit := mockSession.EditedMessages[len(mockSession.EditedMessages)-1]
	assert.Equal(t, "mock_message_id", edit.MessageID)
	assert.Contains(t, edit.Content, "Round 1 pairings")
	assert.Contains(t, edit.Content, "[2-1-0]")
}

func TestReportHandler_PostsStandingsWhenRoundConcludes(t *testing.T) {
	bot := createTestBot(t)
	mockSession := NewMockDiscordSession()
	createAndFill(bot, mockSession)
	send(bot, mockSession, "$start", "org")
	mockSession.ClearMessages()

	reportCurrentRound(t, bot, mockSession)

	var standings []MockMessage
	for _, m := range mockSession.SentMessages {
		if strings.Contains(m.Content, "Standings after round 1") {
			standings = append(standings, m)
		}
	}
	require.Len(t, standings, 1)
	assert.Contains(t, standings[0].Content, "OMW%")
}

func TestReportHandler_MalformedScore(t *testing.T) {
	bot := createTestBot(t)
	mockSession := NewMockDiscordSession()
	createAndFill(bot, mockSession)
	send(bot, mockSession, "$start", "org")

	send(bot, mockSession, "$report two-one", "user1")

	assert.Contains(t, mockSession.GetLastMessage().Content, "not a score")
}

func TestReportHandler_TooManyArgs(t *testing.T) {
	bot := createTestBot(t)
	mockSession := NewMockDiscordSession()
	createAndFill(bot, mockSession)
	send(bot, mockSession, "$start", "org")

	send(bot, mockSession, "$report Bob 2-0 extra", "org")

	assert.Contains(t, mockSession.GetLastMessage().Content, "usage: $report")
}

// endregion

// region standings and pairings tests

func TestStandingsHandler(t *testing.T) {
	bot := createTestBot(t)
	mockSession := NewMockDiscordSession()
	createAndFill(bot, mockSession)
	send(bot, mockSession, "$start", "org")
	send(bot, mockSession, "$report 2-0", "user1")

	send(bot, mockSession, "$standings", "user2")

	last := mockSession.GetLastMessage()
	assert.Contains(t, last.Content, "Standings after round 1")
	assert.Contains(t, last.Content, "OMW%")
}

func TestStandingsHandler_BeforeStart(t *testing.T) {
	bot := createTestBot(t)
	mockSession := NewMockDiscordSession()
	send(bot, mockSession, "$create \"Friday Swiss\"", "org")

	send(bot, mockSession, "$standings", "user1")

	assert.Contains(t, mockSession.GetLastMessage().Content, "not started")
}

func TestPairingsHandler(t *testing.T) {
	bot := createTestBot(t)
	mockSession := NewMockDiscordSession()
	createAndFill(bot, mockSession)
	send(bot, mockSession, "$start", "org")

	send(bot, mockSession, "$pairings", "user2")

	assert.Contains(t, mockSession.GetLastMessage().Content, "Round 1 pairings")
}

// endregion

// region advance tests

func TestAdvanceHandler_PairsNextRound(t *testing.T) {
	bot := createTestBot(t)
	mockSession := NewMockDiscordSession()
	createAndFill(bot, mockSession)
	send(bot, mockSession, "$start", "org")
	reportCurrentRound(t, bot, mockSession)

	send(bot, mockSession, "$advance", "org")

	assert.Contains(t, mockSession.GetLastMessage().Content, "Round 2 pairings")
}

func TestAdvanceHandler_GuardedDoubleClick(t *testing.T) {
	bot := createTestBot(t)
	mockSession := NewMockDiscordSession()
	createAndFill(bot, mockSession)
	send(bot, mockSession, "$start", "org")
	reportCurrentRound(t, bot, mockSession)

	send(bot, mockSession, "$advance 1", "org")
	assert.Contains(t, mockSession.GetLastMessage().Content, "Round 2 pairings")

	send(bot, mockSession, "$advance 1", "org")
	assert.Contains(t, mockSession.GetLastMessage().Content, "already been advanced")
}

func TestAdvanceHandler_UnfinishedRound(t *testing.T) {
	bot := createTestBot(t)
	mockSession := NewMockDiscordSession()
	createAndFill(bot, mockSession)
	send(bot, mockSession, "$start", "org")

	send(bot, mockSession, "$advance", "org")

	assert.Contains(t, mockSession.GetLastMessage().Content, "unfinished matches")
}

func TestAdvanceHandler_AnnouncesWinnerAfterFinalRound(t *testing.T) {
	bot := createTestBot(t)
	mockSession := NewMockDiscordSession()
	createAndFill(bot, mockSession)
	send(bot, mockSession, "$start", "org")

	ev := bot.APIPtr.EventByID(soleTournamentID(t, bot))
	for ev.Swiss.CurrentRound().Number < ev.Swiss.MaxRounds {
		reportCurrentRound(t, bot, mockSession)
		send(bot, mockSession, "$advance", "org")
	}
	reportCurrentRound(t, bot, mockSession)

	send(bot, mockSession, "$advance", "org")

	last := mockSession.GetLastMessage()
	assert.Contains(t, last.Content, "The tournament is over!")
	assert.Contains(t, last.Content, "Congratulations")
}

// endregion

// region drop, kick, cancel tests

func TestDropHandler(t *testing.T) {
	bot := createTestBot(t)
	mockSession := NewMockDiscordSession()
	createAndFill(bot, mockSession)
	send(bot, mockSession, "$start", "org")

	send(bot, mockSession, "$drop", "user3")

	assert.Contains(t, mockSession.GetLastMessage().Content, "dropped")
}

func TestKickHandler(t *testing.T) {
	bot := createTestBot(t)
	mockSession := NewMockDiscordSession()
	createAndFill(bot, mockSession)
	send(bot, mockSession, "$start", "org")

	send(bot, mockSession, "$kick", "org")
	assert.Contains(t, mockSession.GetLastMessage().Content, "Usage: $kick")

	send(bot, mockSession, "$kick \"Carol\"", "org")
	assert.Contains(t, mockSession.GetLastMessage().Content, "Carol")

	send(bot, mockSession, "$kick \"Dave\"", "user1")
	assert.Contains(t, mockSession.GetLastMessage().Content, "organizer")
}

func TestCancelHandler(t *testing.T) {
	bot := createTestBot(t)
	mockSession := NewMockDiscordSession()
	createAndFill(bot, mockSession)

	send(bot, mockSession, "$cancel rained out", "org")

	assert.Contains(t, mockSession.GetLastMessage().Content, "cancelled: rained out")

	// The channel is free again
	send(bot, mockSession, "$create \"Replacement\"", "org")
	assert.Contains(t, mockSession.GetLastMessage().Content, "open for registration")
}

// endregion

// region info tests

func TestInfoHandler(t *testing.T) {
	bot := createTestBot(t)
	mockSession := NewMockDiscordSession()
	createAndFill(bot, mockSession)

	send(bot, mockSession, "$info", "user1")

	last := mockSession.GetLastMessage()
	assert.Contains(t, last.Content, "Friday Swiss")
	assert.Contains(t, last.Content, "open for registration")
}

func TestInfoHandler_NoTournament(t *testing.T) {
	bot := createTestBot(t)
	mockSession := NewMockDiscordSession()

	send(bot, mockSession, "$info", "user1")

	assert.Contains(t, mockSession.GetLastMessage().Content, "no tournament")
}

// endregion

// reportCurrentRound self-reports a 2-0 for player1 of every open match
func reportCurrentRound(t *testing.T, bot *Bot, session *MockDiscordSession) {
	t.Helper()
	ev := bot.APIPtr.EventByID(soleTournamentID(t, bot))
	require.NotNil(t, ev)
	for _, m := range ev.Swiss.CurrentRound().Matches {
		if m.IsBye() || m.IsFinished() {
			continue
		}
		send(bot, session, "$report 2-0", m.Player1.ID)
		require.Contains(t, session.GetLastMessage().Content, "Result recorded")
	}
}

// soleTournamentID returns the id of the only registered tournament
func soleTournamentID(t *testing.T, bot *Bot) string {
	t.Helper()
	active := bot.APIPtr.ActiveTournaments()
	require.Len(t, active, 1)
	for id := range active {
		return id
	}
	return ""
}

// region argument parsing tests

func TestSplitArgs_QuotedNamesStayTogether(t *testing.T) {
	args := splitArgs("$create \"Mana Screwed Open\" 16")
	require.Len(t, args, 3)
	assert.Equal(t, "$create", args[0])
	assert.Equal(t, "\"Mana Screwed Open\"", args[1])
	assert.Equal(t, "16", args[2])
}

func TestSplitArgs_CurlyQuotes(t *testing.T) {
	args := splitArgs("$kick “Mana Screwed”")
	require.Len(t, args, 2)
	assert.Equal(t, "Mana Screwed", unquote(args[1]))
}

func TestUnquote(t *testing.T) {
	assert.Equal(t, "Friday Swiss", unquote("\"Friday Swiss\""))
	assert.Equal(t, "Friday Swiss", unquote("“Friday Swiss”"))
	assert.Equal(t, "plain", unquote("plain"))
}

func TestParseScore(t *testing.T) {
	wins, losses, draws, err := parseScore("2-1")
	require.NoError(t, err)
	assert.Equal(t, []int{2, 1, 0}, []int{wins, losses, draws})

	wins, losses, draws, err = parseScore("1-1-1")
	require.NoError(t, err)
	assert.Equal(t, []int{1, 1, 1}, []int{wins, losses, draws})

	for _, bad := range []string{"2", "2-1-0-0", "a-b", "2--1", "-1-2", ""} {
		_, _, _, err := parseScore(bad)
		assert.Error(t, err, "'%s' should not parse", bad)
	}
}

// endregion

// region bot construction tests

func TestNewBot(t *testing.T) {
	apiPtr, err := api.NewAPI(api.NewMockStore(), nil, nil)
	require.NoError(t, err)

	bot, err := NewBot("token", "guild123", apiPtr)
	require.NoError(t, err)
	assert.Equal(t, "token", bot.BotToken)

	_, err = NewBot("", "guild123", apiPtr)
	assert.Error(t, err)

	_, err = NewBot("token", "guild123", nil)
	assert.Error(t, err)
}

// endregion

// The dispatcher matches by prefix, so $standings must not be caught by the
// earlier $start case
func TestDispatch_StandingsNotShadowedByStart(t *testing.T) {
	assert.False(t, strings.HasPrefix("$standings", "$start"))

	bot := createTestBot(t)
	mockSession := NewMockDiscordSession()
	send(bot, mockSession, "$standings", "user1")
	assert.Contains(t, mockSession.GetLastMessage().Content, "no tournament")
}
