package main

import (
	"context"
	"net/http"
	"sync"

	"github.com/mattermost/mattermost/server/public/model"
	"github.com/mattermost/mattermost/server/public/plugin"
	"github.com/mattermost/mattermost/server/public/pluginapi"
	"github.com/pkg/errors"

	"github.com/fmartingr/mattermost-plugin-text-unpacker/server/command"
	"github.com/fmartingr/mattermost-plugin-text-unpacker/server/store/kvstore"
	"github.com/fmartingr/mattermost-plugin-text-unpacker/server/unpack"
)

// Plugin implements the interface expected by the Mattermost server to communicate between the server and plugin processes.
type Plugin struct {
	plugin.MattermostPlugin

	// kvstore is the client used to read/write KV records for this plugin.
	kvstore kvstore.KVStore

	// client is the Mattermost server API client.
	client *pluginapi.Client

	// commandClient is the client used to register and execute slash commands.
	commandClient command.Command

	// configurationLock synchronizes access to the configuration.
	configurationLock sync.RWMutex

	// configuration is the active plugin configuration. Consult getConfiguration and
	// setConfiguration for usage.
	configuration *configuration

	// dispatcher turns unpack commands into posts. It owns the shared HTTP client.
	dispatcher *unpack.Dispatcher

	// botService manages the unpacker bot account
	botService *BotService

	// channelPoster posts unpacked content as the bot
	channelPoster *ChannelPoster
}

// OnActivate is invoked when the plugin is activated. If an error is returned, the plugin will be deactivated.
func (p *Plugin) OnActivate() error {
	p.client = pluginapi.NewClient(p.API, p.Driver)

	p.kvstore = kvstore.NewKVStore(p.client)

	// Settings were loaded before activation without the KV override.
	if err := p.OnConfigurationChange(); err != nil {
		return errors.Wrap(err, "failed to load configuration")
	}

	p.botService = NewBotService(p.API)
	if err := p.botService.EnsureBotExists(); err != nil {
		return errors.Wrap(err, "failed to ensure bot account exists")
	}

	p.channelPoster = NewChannelPoster(p.API, p.botService.GetBotID())

	fetcher := unpack.NewFetcher(unpack.NewHTTPClient(unpack.DefaultTimeout))
	p.dispatcher = unpack.NewDispatcher(fetcher, p.API)

	p.commandClient = command.NewCommandHandler(p.client, p)

	return nil
}

// This will execute the commands that were registered in the NewCommandHandler function.
func (p *Plugin) ExecuteCommand(c *plugin.Context, args *model.CommandArgs) (*model.CommandResponse, *model.AppError) {
	response, err := p.commandClient.Handle(args)
	if err != nil {
		return nil, model.NewAppError("ExecuteCommand", "plugin.command.execute_command.app_error", nil, err.Error(), http.StatusInternalServerError)
	}
	return response, nil
}

// MessageHasBeenPosted is invoked when a message has been posted by a user.
// This hook is called after the message has been committed to the database.
func (p *Plugin) MessageHasBeenPosted(c *plugin.Context, post *model.Post) {
	if p.dispatcher == nil {
		return
	}

	config := p.getConfiguration()

	// Fetching may take a while, don't hold up the hook.
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*unpack.DefaultTimeout)
		defer cancel()

		if err := p.handlePost(ctx, post, config); err != nil {
			p.API.LogError("Failed to unpack post", "postID", post.Id, "error", err.Error())
		}
	}()
}

// UnpackToChannel resolves a URL and posts the result to a channel on behalf
// of a user. posted is false when there was nothing to post.
func (p *Plugin) UnpackToChannel(ctx context.Context, userID, channelID, rootID, rawURL string) (bool, error) {
	conv := p.channelPoster.Conversation(channelID, rootID, userID)
	if !conv.BotCanSend(ctx) {
		return false, nil
	}

	outcome, err := p.dispatcher.Resolve(ctx, unpack.NormalizeURL(rawURL))
	if err != nil {
		return false, err
	}
	if outcome == nil {
		return false, nil
	}

	if err := p.dispatcher.Emit(ctx, p.getConfiguration().settings(), outcome, conv); err != nil {
		return false, err
	}
	return true, nil
}

// See https://developers.mattermost.com/extend/plugins/server/reference/
