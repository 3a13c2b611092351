/* bot.go
 * Contains the Bot struct and its construction. Requires a discord bot token and
 * a pointer to the tournament API, both passed in from main.go
 * Authors: Zachary Bower
 */

package bot

import (
	"fmt"

	api "tabletop-bot/tournament/api"
)

type Bot struct {
	BotToken string
	GuildID  string
	APIPtr   *api.API
}

// NewBot creates a Bot instance
// Preconditions: Receives the bot token, the guild id the bot serves and a pointer to the API
// Postconditions: Returns a pointer to the Bot, or an error if the token is missing
func NewBot(botToken string, guildID string, apiPtr *api.API) (*Bot, error) {
	if botToken == "" {
		return nil, fmt.Errorf("botToken is required but none was provided")
	}
	if apiPtr == nil {
		return nil, fmt.Errorf("apiPtr is required but none was provided")
	}
	return &Bot{
		BotToken: botToken,
		GuildID:  guildID,
		APIPtr:   apiPtr,
	}, nil
}
