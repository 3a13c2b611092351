/* roster.go
 * Contains the Discord-backed roster lookup: participant id to display name.
 * A departed member is a soft failure; the tournament layer falls back to the id
 * Authors: Zachary Bower
 */

package bot

import "fmt"

// DiscordRoster resolves display names from guild membership
type DiscordRoster struct {
	Session DiscordSession
	GuildID string
}

// DisplayName returns the member's server nickname, falling back through their
// global display name to their username
// Preconditions: Receives the participant id
// Postconditions: Returns the display name, or an error for members that have left
func (r *DiscordRoster) DisplayName(userID string) (string, error) {
	member, err := r.Session.GuildMember(r.GuildID, userID)
	if err != nil {
		return "", fmt.Errorf("could not look up member %s: %w", userID, err)
	}
	if member.Nick != "" {
		return member.Nick, nil
	}
	if member.User != nil {
		if member.User.GlobalName != "" {
			return member.User.GlobalName, nil
		}
		return member.User.Username, nil
	}
	return "", fmt.Errorf("member %s has no resolvable name", userID)
}
