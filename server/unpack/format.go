package unpack

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const zeroWidthSpace = "\u200b"

var markdownRegexp = regexp.MustCompile(
	`(?m)(?P<url><[^: >]+:/[^ >]+>|(?:https?|steam)://[^\s<]+[^<.,:;"'\]\s])` +
		`|(?P<markdown>[_\\~|*` + "`" + `]|^>(?:>>)?\s|\[.+\]\(.+\))`,
)

// MentionSyntax describes how a chat platform writes mentions that notify
// users.
type MentionSyntax struct {
	re *regexp.Regexp
	// wordBoundary skips matches glued to a preceding word, as in an email
	// address, unless that word is itself a mention.
	wordBoundary bool
}

var (
	// DiscordMentions covers @everyone, @here and user, nickname and role ids.
	DiscordMentions = MentionSyntax{
		re: regexp.MustCompile(`@(?:everyone|here|[!&]?[0-9]{17,20})`),
	}
	// MattermostMentions covers @channel, @all, @here and @username.
	MattermostMentions = MentionSyntax{
		re:           regexp.MustCompile(`(?i)@[a-z0-9][a-z0-9._-]*`),
		wordBoundary: true,
	}
)

// Escape breaks every mention in text so it no longer notifies anyone.
func (s MentionSyntax) Escape(text string) string {
	if s.re == nil {
		s = DiscordMentions
	}

	matches := s.re.FindAllStringIndex(text, -1)
	if matches == nil {
		return text
	}

	var b strings.Builder
	b.Grow(len(text) + len(matches)*len(zeroWidthSpace))
	last, prevEnd := 0, -1
	for _, loc := range matches {
		start := loc[0]
		if s.wordBoundary && start > 0 && start != prevEnd && isWordByte(text[start-1]) {
			continue
		}
		b.WriteString(text[last : start+1])
		b.WriteString(zeroWidthSpace)
		last = start + 1
		prevEnd = loc[1]
	}
	b.WriteString(text[last:])
	return b.String()
}

func isWordByte(c byte) bool {
	return c == '_' || ('0' <= c && c <= '9') || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

// EscapeMarkdown backslash-escapes markdown formatting characters, block
// quotes and inline links. Bare URLs are left untouched so they still link.
func EscapeMarkdown(text string) string {
	matches := markdownRegexp.FindAllStringSubmatchIndex(text, -1)
	if matches == nil {
		return text
	}

	var b strings.Builder
	b.Grow(len(text) + len(matches))
	last := 0
	for _, loc := range matches {
		b.WriteString(text[last:loc[0]])
		if loc[2] < 0 {
			b.WriteByte('\\')
		}
		b.WriteString(text[loc[0]:loc[1]])
		last = loc[1]
	}
	b.WriteString(text[last:])
	return b.String()
}

// Truncate returns at most limit characters from the start of text.
func Truncate(text string, limit int) string {
	if limit <= 0 {
		return ""
	}
	if utf8.RuneCountInString(text) <= limit {
		return text
	}

	n := 0
	for i := range text {
		if n == limit {
			return text[:i]
		}
		n++
	}
	return text
}

// SplitChunks splits text into consecutive pieces of at most size characters.
func SplitChunks(text string, size int) []string {
	if size <= 0 || utf8.RuneCountInString(text) <= size {
		return []string{text}
	}

	var chunks []string
	for text != "" {
		head := Truncate(text, size)
		chunks = append(chunks, head)
		text = text[len(head):]
	}
	return chunks
}

// CodeBlock wraps text in a fenced code block.
func CodeBlock(text string) string {
	return "```\n" + text + "\n```"
}

// Format applies the character limit and escaping rules to an outcome.
// Markdown escaping is skipped for failures so the code block renders.
func Format(o *Outcome, limit int, mentions MentionSyntax) string {
	text := Truncate(o.Text, limit)
	if !o.Failed {
		text = EscapeMarkdown(text)
	}
	return mentions.Escape(text)
}
