package command

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mattermost/mattermost/server/public/model"
	"github.com/mattermost/mattermost/server/public/pluginapi"
)

const (
	unpackCommandTrigger = "unpack"

	// unpackTimeout bounds a slash command so the client gets an answer.
	unpackTimeout = 45 * time.Second
)

// Unpacker posts the content behind a URL into a channel.
type Unpacker interface {
	UnpackToChannel(ctx context.Context, userID, channelID, rootID, rawURL string) (bool, error)
}

type Handler struct {
	client   *pluginapi.Client
	unpacker Unpacker
}

type Command interface {
	Handle(args *model.CommandArgs) (*model.CommandResponse, error)
	executeUnpackCommand(args *model.CommandArgs) *model.CommandResponse
}

// Register all your slash commands in the NewCommandHandler function.
func NewCommandHandler(client *pluginapi.Client, unpacker Unpacker) Command {
	err := client.SlashCommand.Register(&model.Command{
		Trigger:          unpackCommandTrigger,
		AutoComplete:     true,
		AutoCompleteDesc: "Post the raw text behind a paste, gist or text file link",
		AutoCompleteHint: "[url]",
		AutocompleteData: model.NewAutocompleteData(unpackCommandTrigger, "[url]", "Link to a paste, gist or text file"),
	})
	if err != nil {
		client.Log.Error("Failed to register command", "error", err)
	}
	return &Handler{
		client:   client,
		unpacker: unpacker,
	}
}

// ExecuteCommand hook calls this method to execute the commands that were registered in the NewCommandHandler function.
func (c *Handler) Handle(args *model.CommandArgs) (*model.CommandResponse, error) {
	fields := strings.Fields(args.Command)
	if len(fields) == 0 {
		return ephemeral(fmt.Sprintf("Unknown command: %s", args.Command)), nil
	}

	trigger := strings.TrimPrefix(fields[0], "/")
	switch trigger {
	case unpackCommandTrigger:
		return c.executeUnpackCommand(args), nil
	default:
		return ephemeral(fmt.Sprintf("Unknown command: %s", args.Command)), nil
	}
}

func (c *Handler) executeUnpackCommand(args *model.CommandArgs) *model.CommandResponse {
	fields := strings.Fields(args.Command)
	if len(fields) < 2 {
		return ephemeral("Usage: /unpack <url>")
	}
	target := fields[1]

	ctx, cancel := context.WithTimeout(context.Background(), unpackTimeout)
	defer cancel()

	posted, err := c.unpacker.UnpackToChannel(ctx, args.UserId, args.ChannelId, args.RootId, target)
	if err != nil {
		c.client.Log.Error("Failed to unpack URL", "url", target, "error", err.Error())
		return ephemeral("Something went wrong while unpacking that link.")
	}
	if !posted {
		return ephemeral(fmt.Sprintf("Nothing to unpack at %s", target))
	}

	return &model.CommandResponse{}
}

func ephemeral(text string) *model.CommandResponse {
	return &model.CommandResponse{
		ResponseType: model.CommandResponseTypeEphemeral,
		Text:         text,
	}
}
