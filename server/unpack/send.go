package unpack

import (
	"context"

	"github.com/pkg/errors"
)

// SendChunked posts text to the conversation in consecutive pieces of at most
// size characters. On the first failed post an error notice is sent to the
// same conversation and no further pieces are posted.
func SendChunked(ctx context.Context, conv Conversation, text string, size int, logger Logger) error {
	chunks := SplitChunks(text, size)
	for i, chunk := range chunks {
		err := conv.Send(ctx, chunk)
		if err == nil {
			continue
		}

		logger.LogError("Failed to send message", "chunk", i+1, "chunks", len(chunks), "content", text, "error", err.Error())
		if noticeErr := conv.Send(ctx, CodeBlock(err.Error())); noticeErr != nil {
			logger.LogError("Failed to send error notice", "error", noticeErr.Error())
		}
		return errors.Wrapf(err, "failed to send chunk %d of %d", i+1, len(chunks))
	}
	return nil
}
