package unpack

import (
	"context"

	"github.com/pkg/errors"
)

// Dispatcher turns unpack commands into relayed content.
type Dispatcher struct {
	fetcher *Fetcher
	logger  Logger
}

// NewDispatcher creates a dispatcher. The fetcher is shared by all messages.
func NewDispatcher(fetcher *Fetcher, logger Logger) *Dispatcher {
	return &Dispatcher{
		fetcher: fetcher,
		logger:  logger,
	}
}

// Handle processes one incoming message. Messages that are not unpack
// commands, or whose URL is not recognised, are ignored without reply.
func (d *Dispatcher) Handle(ctx context.Context, settings Settings, msg *Message, conv Conversation) error {
	if msg.AuthorIsBot || msg.Text == "" {
		return nil
	}
	if !conv.BotCanSend(ctx) {
		return nil
	}

	target, ok := ParseCommand(settings.Prefix, msg)
	if !ok {
		return nil
	}

	d.logger.LogInfo("Unpack requested", "channelID", msg.ChannelID, "userID", msg.AuthorID, "url", target)

	var outcome *Outcome
	var err error
	if len(msg.Attachments) > 0 {
		// ParseCommand picked the first attachment.
		outcome, err = d.ResolveAttachment(ctx, msg.Attachments[0])
	} else {
		outcome, err = d.Resolve(ctx, target)
	}
	if err != nil {
		return errors.Wrapf(err, "failed to unpack %s", target)
	}
	if outcome == nil {
		d.logger.LogDebug("URL not recognised, ignoring", "url", target)
		return nil
	}

	return d.Emit(ctx, settings, outcome, conv)
}

// Resolve retrieves the content behind rawURL. It returns nil when the URL is
// not recognised or the content is empty. Fetch errors meant for the user are
// returned as a failed outcome; any other error is returned as is.
func (d *Dispatcher) Resolve(ctx context.Context, rawURL string) (*Outcome, error) {
	if m, ok := MatchURL(rawURL); ok {
		text, err := d.fetcher.Fetch(ctx, m)
		return d.outcome(rawURL, text, err)
	}

	text, matched, err := d.fetcher.Resolve(ctx, rawURL)
	if err == nil && !matched {
		return nil, nil
	}
	return d.outcome(rawURL, text, err)
}

// ResolveAttachment is Resolve for an uploaded file, which is also
// recognised by its file name.
func (d *Dispatcher) ResolveAttachment(ctx context.Context, a Attachment) (*Outcome, error) {
	m, ok := MatchAttachment(a)
	if !ok {
		return d.Resolve(ctx, NormalizeURL(a.URL))
	}
	text, err := d.fetcher.Fetch(ctx, m)
	return d.outcome(m.URL, text, err)
}

func (d *Dispatcher) outcome(rawURL, text string, err error) (*Outcome, error) {
	var fetchErr *FetchError
	if errors.As(err, &fetchErr) {
		d.logger.LogWarn("Fetch failed", "url", rawURL, "error", fetchErr.Error())
		return &Outcome{Text: CodeBlock(fetchErr.Error()), Failed: true}, nil
	}
	if err != nil {
		return nil, err
	}
	if text == "" {
		return nil, nil
	}

	return &Outcome{Text: text}, nil
}

// Emit formats an outcome for the conversation and sends it.
func (d *Dispatcher) Emit(ctx context.Context, settings Settings, outcome *Outcome, conv Conversation) error {
	limit := settings.Limits.For(conv.AuthorCanManageMessages(ctx))
	text := Format(outcome, limit, settings.Mentions)
	if text == "" {
		return nil
	}

	size := settings.MessageLimit
	if size <= 0 {
		size = DefaultMessageLimit
	}
	return SendChunked(ctx, conv, text, size, d.logger)
}
