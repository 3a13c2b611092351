/* mock_session.go
 * Contains mock implementation of DiscordSession for testing
 * Authors: Zachary Bower
 */

package bot

import "github.com/bwmarrin/discordgo"

// MockDiscordSession implements DiscordSession for testing purposes
type MockDiscordSession struct {
	// SentMessages stores all messages sent during tests
	SentMessages []MockMessage
	// EditedMessages stores all in-place edits made during tests
	EditedMessages []MockEdit
	// Members maps user id to the member returned by GuildMember
	Members map[string]*discordgo.Member
	// ErrorToReturn allows tests to simulate errors
	ErrorToReturn error
}

// MockMessage represents a message sent to a channel
type MockMessage struct {
	ChannelID string
	Content   string
}

// MockEdit represents an in-place edit of a previously sent message
type MockEdit struct {
	ChannelID string
	MessageID string
	Content   string
}

// ChannelMessageSend implements DiscordSession.ChannelMessageSend
func (m *MockDiscordSession) ChannelMessageSend(channelID string, content string, options ...discordgo.RequestOption) (*discordgo.Message, error) {
	if m.ErrorToReturn != nil {
		return nil, m.ErrorToReturn
	}

	m.SentMessages = append(m.SentMessages, MockMessage{
		ChannelID: channelID,
		Content:   content,
	})

	return &discordgo.Message{
		ID:        "mock_message_id",
		ChannelID: channelID,
		Content:   content,
	}, nil
}

// ChannelMessageEdit implements DiscordSession.ChannelMessageEdit
func (m *MockDiscordSession) ChannelMessageEdit(channelID string, messageID string, content string, options ...discordgo.RequestOption) (*discordgo.Message, error) {
	if m.ErrorToReturn != nil {
		return nil, m.ErrorToReturn
	}

	m.EditedMessages = append(m.EditedMessages, MockEdit{
		ChannelID: channelID,
		MessageID: messageID,
		Content:   content,
	})

	return &discordgo.Message{
		ID:        messageID,
		ChannelID: channelID,
		Content:   content,
	}, nil
}

// UserChannelCreate implements DiscordSession.UserChannelCreate. The mock DM
// channel id is "dm_" plus the recipient id so tests can assert deliveries
func (m *MockDiscordSession) UserChannelCreate(recipientID string, options ...discordgo.RequestOption) (*discordgo.Channel, error) {
	if m.ErrorToReturn != nil {
		return nil, m.ErrorToReturn
	}
	return &discordgo.Channel{ID: "dm_" + recipientID}, nil
}

// GuildMember implements DiscordSession.GuildMember
func (m *MockDiscordSession) GuildMember(guildID string, userID string, options ...discordgo.RequestOption) (*discordgo.Member, error) {
	if m.ErrorToReturn != nil {
		return nil, m.ErrorToReturn
	}
	if member, ok := m.Members[userID]; ok {
		return member, nil
	}
	return &discordgo.Member{User: &discordgo.User{ID: userID, Username: "user_" + userID}}, nil
}

// GetLastMessage returns the last message sent, or empty MockMessage if none
func (m *MockDiscordSession) GetLastMessage() MockMessage {
	if len(m.SentMessages) == 0 {
		return MockMessage{}
	}
	return m.SentMessages[len(m.SentMessages)-1]
}

// ClearMessages clears all stored messages and edits
func (m *MockDiscordSession) ClearMessages() {
	m.SentMessages = nil
	m.EditedMessages = nil
}

// NewMockDiscordSession creates a new MockDiscordSession for testing
func NewMockDiscordSession() *MockDiscordSession {
	return &MockDiscordSession{
		SentMessages: make([]MockMessage, 0),
	}
}
