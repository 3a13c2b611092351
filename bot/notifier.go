/* notifier.go
 * Contains the Discord DM notifier used for pairing and waitlist notifications.
 * Deliveries are rate limited so a large round's fan-out does not trip Discord's
 * per-bot DM limits
 * Authors: Zachary Bower
 */

package bot

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"
)

// DiscordNotifier delivers direct messages through a Discord session
type DiscordNotifier struct {
	Session DiscordSession
	limiter *rate.Limiter
}

// NewDiscordNotifier creates a notifier over the given session, limited to one
// DM per second with a small burst
func NewDiscordNotifier(session DiscordSession) *DiscordNotifier {
	return &DiscordNotifier{
		Session: session,
		limiter: rate.NewLimiter(rate.Limit(1), 5),
	}
}

// Notify opens (or reuses) the DM channel with the user and sends the message
// Preconditions: Receives the recipient's user id and the message text
// Postconditions: Returns an error if the DM could not be delivered, e.g. the
// user has DMs disabled. Callers treat that as non-fatal
func (n *DiscordNotifier) Notify(userID string, message string) error {
	if err := n.limiter.Wait(context.Background()); err != nil {
		return err
	}
	channel, err := n.Session.UserChannelCreate(userID)
	if err != nil {
		return fmt.Errorf("could not open a DM channel with %s: %w", userID, err)
	}
	if _, err := n.Session.ChannelMessageSend(channel.ID, message); err != nil {
		return fmt.Errorf("could not DM %s: %w", userID, err)
	}
	return nil
}
