package main

import (
	"context"
	"strings"

	"github.com/mattermost/mattermost/server/public/model"

	"github.com/fmartingr/mattermost-plugin-text-unpacker/server/unpack"
)

// handlePost runs the unpack dispatcher for a newly created post.
func (p *Plugin) handlePost(ctx context.Context, post *model.Post, config *configuration) error {
	// Cheap pre-filter so ordinary chatter never reaches the plugin API.
	if post.IsSystemMessage() || !strings.HasPrefix(post.Message, config.Prefix) {
		return nil
	}

	msg := p.messageFromPost(post)
	conv := p.channelPoster.Conversation(post.ChannelId, post.RootId, post.UserId)

	return p.dispatcher.Handle(ctx, config.settings(), msg, conv)
}

// messageFromPost converts a post into the dispatcher's message type.
func (p *Plugin) messageFromPost(post *model.Post) *unpack.Message {
	msg := &unpack.Message{
		AuthorID:    post.UserId,
		AuthorIsBot: p.isBotPost(post),
		ChannelID:   post.ChannelId,
		Text:        post.Message,
	}

	// Only the first attachment is ever used.
	if len(post.FileIds) > 0 {
		if attachment, ok := p.attachmentFromFile(post.FileIds[0]); ok {
			msg.Attachments = append(msg.Attachments, attachment)
		}
	}

	return msg
}

// isBotPost reports whether a post was made by a bot account, a webhook or
// this plugin.
func (p *Plugin) isBotPost(post *model.Post) bool {
	if p.botService != nil && post.UserId == p.botService.GetBotID() {
		return true
	}
	if post.GetProp(model.PostPropsFromBot) == "true" || post.GetProp(model.PostPropsFromWebhook) == "true" {
		return true
	}

	user, appErr := p.API.GetUser(post.UserId)
	if appErr != nil {
		p.API.LogWarn("Failed to get post author", "userID", post.UserId, "error", appErr.Error())
		return false
	}
	return user.IsBot
}

// attachmentFromFile resolves a public link for an uploaded file.
func (p *Plugin) attachmentFromFile(fileID string) (unpack.Attachment, bool) {
	info, appErr := p.API.GetFileInfo(fileID)
	if appErr != nil {
		p.API.LogWarn("Failed to get file info", "fileID", fileID, "error", appErr.Error())
		return unpack.Attachment{}, false
	}

	link, appErr := p.API.GetFileLink(fileID)
	if appErr != nil {
		p.API.LogDebug("No public link for attachment, public links may be disabled", "fileID", fileID, "error", appErr.Error())
		return unpack.Attachment{}, false
	}

	return unpack.Attachment{
		URL:      link,
		Filename: info.Name,
	}, true
}
