// Package unpack resolves links to paste and text hosting sites and relays
// their raw content back into a chat conversation.
package unpack

import "context"

// DefaultMessageLimit is the largest message, in characters, most chat
// platforms accept in one post.
const DefaultMessageLimit = 2000

// Logger is the logging surface used by this package. It matches the
// Mattermost plugin API so the plugin can pass its API directly.
type Logger interface {
	LogDebug(msg string, keyValuePairs ...any)
	LogInfo(msg string, keyValuePairs ...any)
	LogWarn(msg string, keyValuePairs ...any)
	LogError(msg string, keyValuePairs ...any)
}

// Attachment is a file attached to an incoming message.
type Attachment struct {
	URL      string
	Filename string
}

// Message is an incoming chat message as seen by the dispatcher.
type Message struct {
	AuthorID    string
	AuthorIsBot bool
	ChannelID   string
	Text        string
	Attachments []Attachment
}

//go:generate mockgen -destination=mocks/mock_conversation.go -package=mocks github.com/fmartingr/mattermost-plugin-text-unpacker/server/unpack Conversation

// Conversation is the channel a message arrived in, seen from the bot.
// Implementations are created per message by the hosting platform.
type Conversation interface {
	// BotCanSend reports whether the bot may post in the channel.
	BotCanSend(ctx context.Context) bool
	// AuthorCanManageMessages reports whether the message author may manage
	// other users' messages in the channel.
	AuthorCanManageMessages(ctx context.Context) bool
	// Send posts text to the channel.
	Send(ctx context.Context, text string) error
}

// Limits holds the per-user character limits applied to relayed content.
type Limits struct {
	Normal         int
	ManageMessages int
}

// For returns the limit that applies to a user.
func (l Limits) For(canManageMessages bool) int {
	if canManageMessages {
		return l.ManageMessages
	}
	return l.Normal
}

// Valid reports whether the elevated limit is at least the normal one.
func (l Limits) Valid() bool {
	return l.ManageMessages >= l.Normal
}

// Settings is the configuration the dispatcher needs for one message.
type Settings struct {
	Prefix       string
	Limits       Limits
	Mentions     MentionSyntax
	MessageLimit int
}

// Outcome is the text produced for a URL. Failed is set when Text is a
// rendered fetch error rather than fetched content.
type Outcome struct {
	Text   string
	Failed bool
}
