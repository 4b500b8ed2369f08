package main

import (
	"context"

	"github.com/mattermost/mattermost/server/public/model"
	"github.com/mattermost/mattermost/server/public/plugin"
	"github.com/pkg/errors"

	"github.com/fmartingr/mattermost-plugin-text-unpacker/server/unpack"
)

// ChannelPoster posts unpacked content as the bot user
type ChannelPoster struct {
	api   plugin.API
	botID string
}

// NewChannelPoster creates a new channel poster
func NewChannelPoster(api plugin.API, botID string) *ChannelPoster {
	return &ChannelPoster{
		api:   api,
		botID: botID,
	}
}

// Conversation returns the conversation a message was posted in. rootID keeps
// replies in the thread the command was posted in and is empty for top-level
// posts.
func (c *ChannelPoster) Conversation(channelID, rootID, authorID string) unpack.Conversation {
	return &postConversation{
		poster:    c,
		channelID: channelID,
		rootID:    rootID,
		authorID:  authorID,
	}
}

type postConversation struct {
	poster    *ChannelPoster
	channelID string
	rootID    string
	authorID  string
}

func (c *postConversation) BotCanSend(_ context.Context) bool {
	return c.poster.api.HasPermissionToChannel(c.poster.botID, c.channelID, model.PermissionCreatePost)
}

func (c *postConversation) AuthorCanManageMessages(_ context.Context) bool {
	return c.poster.api.HasPermissionToChannel(c.authorID, c.channelID, model.PermissionDeleteOthersPosts)
}

func (c *postConversation) Send(_ context.Context, text string) error {
	post := &model.Post{
		UserId:    c.poster.botID,
		ChannelId: c.channelID,
		RootId:    c.rootID,
		Message:   text,
	}

	if _, appErr := c.poster.api.CreatePost(post); appErr != nil {
		return errors.Wrap(appErr, "failed to create post")
	}

	return nil
}
