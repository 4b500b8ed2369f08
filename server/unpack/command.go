package unpack

import "strings"

// Keywords are the subcommands that trigger an unpack, matched
// case-insensitively.
var Keywords = []string{"extract", "unpack"}

// ParseCommand extracts the target URL from a message addressed to the bot.
// ok is false when the message is not an unpack command or names no target.
func ParseCommand(prefix string, msg *Message) (target string, ok bool) {
	if msg.Text == "" || !strings.HasPrefix(msg.Text, prefix) {
		return "", false
	}

	fields := strings.Fields(msg.Text[len(prefix):])
	if len(fields) == 0 || !IsKeyword(fields[0]) {
		return "", false
	}

	switch {
	case len(msg.Attachments) > 0:
		target = msg.Attachments[0].URL
	case len(fields) > 1:
		target = fields[1]
	}

	target = NormalizeURL(target)
	if target == "" {
		return "", false
	}
	return target, true
}

// IsKeyword reports whether word is one of the unpack subcommands.
func IsKeyword(word string) bool {
	for _, k := range Keywords {
		if strings.EqualFold(word, k) {
			return true
		}
	}
	return false
}

// NormalizeURL strips the angle brackets used to suppress link previews.
func NormalizeURL(rawURL string) string {
	return strings.Trim(rawURL, "<>")
}
