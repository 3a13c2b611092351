/* records.go
 * Contains the versioned serialization schema for persisted tournaments. These are plain
 * tagged structs so the same records round-trip through JSON files and Mongo documents
 * Authors: Zachary Bower
 */

package store

// SchemaVersion identifies the record layout. Bump when the shape changes so
// old records can be migrated on load
const SchemaVersion = 1

// EventRecord is the flat persisted form of one tournament
type EventRecord struct {
	Version     int    `json:"version" bson:"version"`
	ID          string `json:"id" bson:"_id"`
	Name        string `json:"name" bson:"name"`
	OrganizerID string `json:"organizer_id" bson:"organizer_id"`
	Description string `json:"description,omitempty" bson:"description,omitempty"`
	Time        string `json:"time,omitempty" bson:"time,omitempty"`
	ChannelID   string `json:"channel_id,omitempty" bson:"channel_id,omitempty"`

	// Users maps participant id to registration state ("participate",
	// "tentative"); declined users are absent
	Users    map[string]string `json:"users" bson:"users"`
	Waitlist []string          `json:"waitlist,omitempty" bson:"waitlist,omitempty"`

	MaxParticipants int `json:"max_participants,omitempty" bson:"max_participants,omitempty"`
	MaxRounds       int `json:"max_rounds,omitempty" bson:"max_rounds,omitempty"`
	DaysPerMatch    int `json:"days_per_match,omitempty" bson:"days_per_match,omitempty"`

	Cancelled string `json:"cancelled,omitempty" bson:"cancelled,omitempty"`
	Winner    string `json:"winner,omitempty" bson:"winner,omitempty"`

	Tournament *TournamentRecord `json:"tournament,omitempty" bson:"tournament,omitempty"`
}

// TournamentRecord is the started swiss tournament. Players are serialized
// before rounds because match records reference players by id
type TournamentRecord struct {
	MaxRounds int            `json:"max_rounds" bson:"max_rounds"`
	Players   []PlayerRecord `json:"players" bson:"players"`
	Rounds    []RoundRecord  `json:"rounds" bson:"rounds"`
}

type PlayerRecord struct {
	PlayerID string `json:"player_id" bson:"player_id"`
	Name     string `json:"name" bson:"name"`
	Dropped  bool   `json:"dropped,omitempty" bson:"dropped,omitempty"`
}

type RoundRecord struct {
	RoundNumber        int           `json:"round_number" bson:"round_number"`
	Matches            []MatchRecord `json:"matches" bson:"matches"`
	PairingsMessageID  string        `json:"pairings_message_id,omitempty" bson:"pairings_message_id,omitempty"`
	StandingsMessageID string        `json:"standings_message_id,omitempty" bson:"standings_message_id,omitempty"`
}

// MatchRecord references its players by id. An empty Player2ID is a bye
type MatchRecord struct {
	Player1ID   string `json:"player1_id" bson:"player1_id"`
	Player2ID   string `json:"player2_id,omitempty" bson:"player2_id,omitempty"`
	Player1Wins int    `json:"player1_wins" bson:"player1_wins"`
	Player2Wins int    `json:"player2_wins" bson:"player2_wins"`
	Draws       int    `json:"draws" bson:"draws"`
}

// Active reports whether the record represents a tournament that should be
// reloaded into the registry on restart
func (r *EventRecord) Active() bool {
	return r.Cancelled == "" && r.Winner == ""
}
