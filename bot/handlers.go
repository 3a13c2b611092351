/* handlers.go
 * Contains testable handler methods that accept the DiscordSession interface.
 * Each $-command maps to one handler; the runtime glue lives in bot_runtime.go
 * Authors: Zachary Bower
 */

package bot

import (
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"

	"tabletop-bot/tournament/event"
	"tabletop-bot/tournament/shared"

	"github.com/bwmarrin/discordgo"
	"github.com/go-andiamo/splitter"
)

// newMessageHandler dispatches a message to the matching command handler
func (b *Bot) newMessageHandler(session DiscordSession, message *discordgo.MessageCreate, botUserID string) {
	// To prevent the bot from responding to its own messages
	if message.Author.ID == botUserID {
		return
	}

	switch {
	case startsWith(message.Content, "$help"):
		b.helpMessageHandler(session, message)

	case startsWith(message.Content, "$create"):
		b.createHandler(session, message)

	case startsWith(message.Content, "$join"):
		b.registerHandler(session, message, event.StateParticipate)

	case startsWith(message.Content, "$tentative"):
		b.registerHandler(session, message, event.StateTentative)

	case startsWith(message.Content, "$decline"):
		b.registerHandler(session, message, event.StateDecline)

	case startsWith(message.Content, "$start"):
		b.startHandler(session, message)

	case startsWith(message.Content, "$report"):
		b.reportHandler(session, message)

	case startsWith(message.Content, "$standings"):
		b.standingsHandler(session, message)

	case startsWith(message.Content, "$pairings"):
		b.pairingsHandler(session, message)

	case startsWith(message.Content, "$advance"):
		b.advanceHandler(session, message)

	case startsWith(message.Content, "$drop"):
		b.dropHandler(session, message)

	case startsWith(message.Content, "$kick"):
		b.kickHandler(session, message)

	case startsWith(message.Content, "$cancel"):
		b.cancelHandler(session, message)

	case startsWith(message.Content, "$info"):
		b.infoHandler(session, message)
	}
}

// helpMessageHandler handles the $help command
// Preconditions: None
// Postconditions: Help message is sent to the discord channel
func (b *Bot) helpMessageHandler(session DiscordSession, message *discordgo.MessageCreate) {
	var res strings.Builder
	res.WriteString("Swiss Tournament Bot\n")
	res.WriteString("`$create \"Name\" [maxPlayers] [maxRounds]`: opens a tournament for registration in this channel. You become the organizer\n")
	res.WriteString("`$join` / `$tentative` / `$decline`: register for the channel's tournament, mark yourself tentative, or withdraw. If the tournament is full, `$join` puts you on the waitlist\n")
	res.WriteString("`$start`: (organizer) freezes registration and pairs round 1. Pairings are DMed to every player\n")
	res.WriteString("`$report w-l` or `$report w-l-d`: report your own match result, your wins first (e.g. `$report 2-1`). Reporting again with a corrected score overwrites\n")
	res.WriteString("`$report \"Player\" w-l-d`: (organizer) report on a player's behalf. Names are fuzzy matched\n")
	res.WriteString("`$standings` / `$pairings`: show the standings table or current round pairings\n")
	res.WriteString("`$advance`: (organizer) pairs the next round once every match is reported. After the final round this posts the winner and archives the tournament\n")
	res.WriteString("`$drop`: leave the tournament. Before it starts this frees your seat for the waitlist; after, you stay in the standings but get no further pairings\n")
	res.WriteString("`$kick \"Player\"`: (organizer) drop a player\n")
	res.WriteString("`$cancel [reason]`: (organizer) cancel the tournament\n")
	res.WriteString("`$info`: show tournament details\n")
	session.ChannelMessageSend(message.ChannelID, res.String())
}

// createHandler handles the $create command
// Preconditions: Receives the session and message; the name may be quoted
// Postconditions: A tournament is opened for the channel, or an error message is sent
func (b *Bot) createHandler(session DiscordSession, message *discordgo.MessageCreate) {
	args := splitArgs(message.Content)[1:]
	if len(args) == 0 {
		session.ChannelMessageSend(message.ChannelID, "Usage: $create \"Tournament Name\" [maxPlayers] [maxRounds]")
		return
	}
	name := unquote(args[0])

	maxParticipants, maxRounds := 0, 0
	var err error
	if len(args) > 1 {
		if maxParticipants, err = strconv.Atoi(args[1]); err != nil || maxParticipants < 0 {
			session.ChannelMessageSend(message.ChannelID, fmt.Sprintf("'%s' is not a valid player limit", args[1]))
			return
		}
	}
	if len(args) > 2 {
		if maxRounds, err = strconv.Atoi(args[2]); err != nil || maxRounds < 0 {
			session.ChannelMessageSend(message.ChannelID, fmt.Sprintf("'%s' is not a valid round limit", args[2]))
			return
		}
	}

	ev, err := b.APIPtr.CreateTournament(name, message.Author.ID, message.ChannelID, maxParticipants, maxRounds)
	if err != nil {
		session.ChannelMessageSend(message.ChannelID, err.Error())
		return
	}
	res := fmt.Sprintf("%s is open for registration! Use $join to enter.", ev.Name)
	if ev.MaxParticipants > 0 {
		res += fmt.Sprintf(" Capacity: %d players (overflow goes to a waitlist).", ev.MaxParticipants)
	}
	session.ChannelMessageSend(message.ChannelID, res)
}

// registerHandler handles $join, $tentative and $decline
// Preconditions: Receives the desired registration state
// Postconditions: The registration is applied and the outcome posted to the channel
func (b *Bot) registerHandler(session DiscordSession, message *discordgo.MessageCreate, state event.RegistrationState) {
	user := shared.User{UserID: message.Author.ID, Username: message.Author.Username}
	res, err := b.APIPtr.Register(message.ChannelID, user, state)
	if err != nil {
		res = err.Error()
	}
	session.ChannelMessageSend(message.ChannelID, res)
}

// startHandler handles the $start command
// Preconditions: The message author must be the organizer
// Postconditions: Round 1 is paired and posted, or an error message is sent
func (b *Bot) startHandler(session DiscordSession, message *discordgo.MessageCreate) {
	round, err := b.APIPtr.StartTournament(message.ChannelID, message.Author.ID)
	if err != nil {
		session.ChannelMessageSend(message.ChannelID, err.Error())
		return
	}
	b.postPairings(session, message.ChannelID, round.Number)
}

// reportHandler handles the $report command, both self reports ($report 2-1)
// and organizer reports on behalf of a named player ($report "Player" 2-1-0)
// Preconditions: Receives the session and message
// Postconditions: The result is recorded, or a rejection message is sent with state unchanged
func (b *Bot) reportHandler(session DiscordSession, message *discordgo.MessageCreate) {
	args := splitArgs(message.Content)[1:]

	var res string
	var err error
	switch len(args) {
	case 1:
		var wins, losses, draws int
		wins, losses, draws, err = parseScore(args[0])
		if err == nil {
			user := shared.User{UserID: message.Author.ID, Username: message.Author.Username}
			res, err = b.APIPtr.ReportResult(message.ChannelID, user, wins, losses, draws)
		}
	case 2:
		var wins, losses, draws int
		wins, losses, draws, err = parseScore(args[1])
		if err == nil {
			res, err = b.APIPtr.ReportResultFor(message.ChannelID, message.Author.ID, unquote(args[0]), wins, losses, draws)
		}
	default:
		err = errors.New("usage: $report w-l-d (your wins first), or $report \"Player\" w-l-d as the organizer")
	}

	if err != nil {
		session.ChannelMessageSend(message.ChannelID, err.Error())
		return
	}
	b.refreshAnnouncements(session, message.ChannelID)
	session.ChannelMessageSend(message.ChannelID, res)
}

// standingsHandler handles the $standings command
func (b *Bot) standingsHandler(session DiscordSession, message *discordgo.MessageCreate) {
	res, err := b.APIPtr.FormatStandings(message.ChannelID)
	if err != nil {
		res = err.Error()
	}
	session.ChannelMessageSend(message.ChannelID, res)
}

// pairingsHandler handles the $pairings command
func (b *Bot) pairingsHandler(session DiscordSession, message *discordgo.MessageCreate) {
	res, err := b.APIPtr.FormatPairings(message.ChannelID)
	if err != nil {
		res = err.Error()
	}
	session.ChannelMessageSend(message.ChannelID, res)
}

// advanceHandler handles the $advance command. An optional round number acts
// as the double-click guard: `$advance 2` advances from round 2 only
// Preconditions: The message author must be the organizer
// Postconditions: The next round is paired and posted, or the winner announced
// when the final round is done, or an error message is sent
func (b *Bot) advanceHandler(session DiscordSession, message *discordgo.MessageCreate) {
	args := splitArgs(message.Content)[1:]
	fromRound := 0
	if len(args) > 0 {
		var err error
		if fromRound, err = strconv.Atoi(args[0]); err != nil {
			session.ChannelMessageSend(message.ChannelID, fmt.Sprintf("'%s' is not a round number", args[0]))
			return
		}
	}

	round, winner, err := b.APIPtr.AdvanceRound(message.ChannelID, message.Author.ID, fromRound)
	if err != nil {
		session.ChannelMessageSend(message.ChannelID, err.Error())
		return
	}
	if winner != nil {
		session.ChannelMessageSend(message.ChannelID, fmt.Sprintf("The tournament is over! Congratulations to the winner, %s!", winner.Name))
		return
	}
	b.postPairings(session, message.ChannelID, round.Number)
}

// dropHandler handles the $drop command
func (b *Bot) dropHandler(session DiscordSession, message *discordgo.MessageCreate) {
	user := shared.User{UserID: message.Author.ID, Username: message.Author.Username}
	res, err := b.APIPtr.DropPlayer(message.ChannelID, user)
	if err != nil {
		res = err.Error()
	}
	session.ChannelMessageSend(message.ChannelID, res)
}

// kickHandler handles the $kick command
// Preconditions: The message author must be the organizer
func (b *Bot) kickHandler(session DiscordSession, message *discordgo.MessageCreate) {
	args := splitArgs(message.Content)[1:]
	if len(args) == 0 {
		session.ChannelMessageSend(message.ChannelID, "Usage: $kick \"Player\"")
		return
	}
	res, err := b.APIPtr.KickPlayer(message.ChannelID, message.Author.ID, unquote(args[0]))
	if err != nil {
		res = err.Error()
	}
	session.ChannelMessageSend(message.ChannelID, res)
}

// cancelHandler handles the $cancel command
// Preconditions: The message author must be the organizer
func (b *Bot) cancelHandler(session DiscordSession, message *discordgo.MessageCreate) {
	reason := strings.TrimSpace(strings.TrimPrefix(message.Content, "$cancel"))
	res, err := b.APIPtr.CancelTournament(message.ChannelID, message.Author.ID, reason)
	if err != nil {
		res = err.Error()
	}
	session.ChannelMessageSend(message.ChannelID, res)
}

// infoHandler handles the $info command
func (b *Bot) infoHandler(session DiscordSession, message *discordgo.MessageCreate) {
	info, err := b.APIPtr.GetTournamentInfo(message.ChannelID)
	if err != nil {
		log.Println(err)
		session.ChannelMessageSend(message.ChannelID, err.Error())
		return
	}
	var res strings.Builder
	for i := range info {
		res.WriteString(fmt.Sprintf("%s\n", info[i]))
	}
	session.ChannelMessageSend(message.ChannelID, res.String())
}

// postPairings posts the current round's pairing table to the channel and
// remembers the posted message so later reports can edit the scores in
// Preconditions: The round must already be paired
func (b *Bot) postPairings(session DiscordSession, channelID string, roundNumber int) {
	pairings, err := b.APIPtr.FormatPairings(channelID)
	if err != nil {
		log.Println(err)
		session.ChannelMessageSend(channelID, fmt.Sprintf("Round %d is paired, but the pairing table could not be rendered", roundNumber))
		return
	}
	msg, err := session.ChannelMessageSend(channelID, pairings)
	if err != nil || msg == nil {
		log.Println("failed to post pairings:", err)
		return
	}
	if err := b.APIPtr.RecordPairingsMessage(channelID, msg.ID); err != nil {
		log.Println(err)
	}
}

// refreshAnnouncements re-renders the round's pairing announcement after a
// result report and, once every match is in, posts or updates the standings
func (b *Bot) refreshAnnouncements(session DiscordSession, channelID string) {
	pairingsID, standingsID, concluded, err := b.APIPtr.CurrentAnnouncements(channelID)
	if err != nil {
		log.Println(err)
		return
	}
	if pairingsID != "" {
		if pairings, err := b.APIPtr.FormatPairings(channelID); err == nil {
			if _, err := session.ChannelMessageEdit(channelID, pairingsID, pairings); err != nil {
				log.Println("failed to update pairings message:", err)
			}
		}
	}
	if !concluded {
		return
	}
	standings, err := b.APIPtr.FormatStandings(channelID)
	if err != nil {
		log.Println(err)
		return
	}
	if standingsID != "" {
		if _, err := session.ChannelMessageEdit(channelID, standingsID, standings); err != nil {
			log.Println("failed to update standings message:", err)
		}
		return
	}
	msg, err := session.ChannelMessageSend(channelID, standings)
	if err != nil || msg == nil {
		log.Println("failed to post standings:", err)
		return
	}
	if err := b.APIPtr.RecordStandingsMessage(channelID, msg.ID); err != nil {
		log.Println(err)
	}
}

// splitArgs splits a command into arguments, keeping quoted names together.
// We use splitter here instead of strings.Fields so display names that contain
// spaces, e.g. "Mana Screwed", are recognised as one argument not two
func splitArgs(content string) []string {
	spaceSplitter, _ := splitter.NewSplitter(' ', splitter.DoubleQuotes, splitter.LeftRightDoubleDoubleQuotes)
	args, _ := spaceSplitter.Split(content)
	out := make([]string, 0, len(args))
	for _, a := range args {
		if trimmed := strings.TrimSpace(a); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// unquote strips straight and curly double quotes from an argument
func unquote(arg string) string {
	arg = strings.ReplaceAll(arg, "\"", "")
	arg = strings.ReplaceAll(arg, "“", "")
	arg = strings.ReplaceAll(arg, "”", "")
	return strings.TrimSpace(arg)
}

// parseScore parses a result argument like "2-1" or "2-0-1" into wins, losses
// and draws. Draws default to zero when omitted
// Preconditions: Receives the score argument
// Postconditions: Returns the three counts, or an error for malformed input
func parseScore(arg string) (wins int, losses int, draws int, err error) {
	parts := strings.Split(arg, "-")
	if len(parts) != 2 && len(parts) != 3 {
		return 0, 0, 0, fmt.Errorf("'%s' is not a score, expected w-l or w-l-d (e.g. 2-1 or 1-1-1)", arg)
	}
	nums := make([]int, len(parts))
	for i, part := range parts {
		n, convErr := strconv.Atoi(strings.TrimSpace(part))
		if convErr != nil || n < 0 {
			return 0, 0, 0, fmt.Errorf("'%s' is not a score, expected w-l or w-l-d (e.g. 2-1 or 1-1-1)", arg)
		}
		nums[i] = n
	}
	wins, losses = nums[0], nums[1]
	if len(nums) == 3 {
		draws = nums[2]
	}
	return wins, losses, draws, nil
}

// startsWith checks if a string starts with a given substring
// Preconditions: Receives an input string and a substring
// Postconditions: Returns true if the substring is at the start of the string
func startsWith(inputString string, substring string) bool {
	return strings.HasPrefix(inputString, substring)
}
