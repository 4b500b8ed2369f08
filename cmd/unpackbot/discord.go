package main

import (
	"context"

	"github.com/bwmarrin/discordgo"
	"github.com/pkg/errors"

	"github.com/fmartingr/mattermost-plugin-text-unpacker/server/unpack"
)

// channelAPI is the part of a Discord session a conversation needs.
type channelAPI interface {
	BotPermissions(channelID string) (int64, error)
	AuthorPermissions(m *discordgo.Message) (int64, error)
	SendMessage(channelID, content string) error
}

// sessionAPI implements channelAPI on a live session.
type sessionAPI struct {
	session *discordgo.Session
}

// BotPermissions reads the state cache and falls back to the REST API.
func (s sessionAPI) BotPermissions(channelID string) (int64, error) {
	if s.session.State == nil || s.session.State.User == nil {
		return 0, errors.New("session is not ready")
	}
	return s.session.UserChannelPermissions(s.session.State.User.ID, channelID)
}

// AuthorPermissions uses the member data sent along with the message. Other
// members are not cached without the privileged guild members intent.
func (s sessionAPI) AuthorPermissions(m *discordgo.Message) (int64, error) {
	perms, err := s.session.State.MessagePermissions(m)
	if err == nil {
		return perms, nil
	}
	return s.session.UserChannelPermissions(m.Author.ID, m.ChannelID)
}

func (s sessionAPI) SendMessage(channelID, content string) error {
	_, err := s.session.ChannelMessageSend(channelID, content)
	return err
}

// intents lets the state cache the guilds, channels and roles that channel
// permissions are computed from.
const intents = discordgo.IntentsGuilds |
	discordgo.IntentsGuildMessages |
	discordgo.IntentsDirectMessages |
	discordgo.IntentsMessageContent

// Bot relays unpack commands posted in Discord channels.
type Bot struct {
	session    *discordgo.Session
	dispatcher *unpack.Dispatcher
	settings   unpack.Settings
	logger     unpack.Logger
}

// NewBot creates a Discord session for token. The session is not opened.
func NewBot(token string, dispatcher *unpack.Dispatcher, settings unpack.Settings, logger unpack.Logger) (*Bot, error) {
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create discord session")
	}

	session.Identify.Intents = intents

	b := &Bot{
		session:    session,
		dispatcher: dispatcher,
		settings:   settings,
		logger:     logger,
	}
	session.AddHandler(b.onMessageCreate)

	return b, nil
}

// Run connects to Discord and handles messages until ctx is done.
func (b *Bot) Run(ctx context.Context) error {
	if err := b.session.Open(); err != nil {
		return errors.Wrap(err, "failed to connect to discord")
	}

	user := b.session.State.User
	b.logger.LogInfo("Connected to discord", "user", user.Username, "userID", user.ID)

	<-ctx.Done()

	b.logger.LogInfo("Disconnecting from discord")
	return b.session.Close()
}

func (b *Bot) onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil {
		return
	}

	msg := messageFromDiscord(m.Message)
	conv := newConversation(sessionAPI{session: s}, m.Message)

	if err := b.dispatcher.Handle(context.Background(), b.settings, msg, conv); err != nil {
		b.logger.LogError("Failed to unpack message", "channelID", m.ChannelID, "messageID", m.ID, "error", err.Error())
	}
}

// messageFromDiscord converts a Discord message into the dispatcher's message type.
func messageFromDiscord(m *discordgo.Message) *unpack.Message {
	msg := &unpack.Message{
		AuthorID:    m.Author.ID,
		AuthorIsBot: m.Author.Bot,
		ChannelID:   m.ChannelID,
		Text:        m.Content,
	}
	for _, a := range m.Attachments {
		msg.Attachments = append(msg.Attachments, unpack.Attachment{
			URL:      a.URL,
			Filename: a.Filename,
		})
	}
	return msg
}

// conversation is the channel a message was posted in. Direct messages have
// no guild: the bot may always answer and the author manages nothing.
type conversation struct {
	api     channelAPI
	message *discordgo.Message
}

func newConversation(api channelAPI, message *discordgo.Message) *conversation {
	return &conversation{
		api:     api,
		message: message,
	}
}

func (c *conversation) isDirect() bool {
	return c.message.GuildID == ""
}

func (c *conversation) BotCanSend(_ context.Context) bool {
	if c.isDirect() {
		return true
	}
	perms, err := c.api.BotPermissions(c.message.ChannelID)
	return err == nil && perms&discordgo.PermissionSendMessages != 0
}

func (c *conversation) AuthorCanManageMessages(_ context.Context) bool {
	if c.isDirect() {
		return false
	}
	perms, err := c.api.AuthorPermissions(c.message)
	return err == nil && perms&discordgo.PermissionManageMessages != 0
}

func (c *conversation) Send(_ context.Context, text string) error {
	if err := c.api.SendMessage(c.message.ChannelID, text); err != nil {
		return errors.Wrap(err, "failed to send discord message")
	}
	return nil
}
