package unpack

import (
	"path"
	"regexp"
	"strings"
)

// Strategy selects how the content behind a matched URL is retrieved.
type Strategy int

const (
	// StrategyRaw fetches the matched URL as-is.
	StrategyRaw Strategy = iota
	// StrategyPaste rewrites a paste page URL to its raw endpoint.
	StrategyPaste
	// StrategyGist reads every file of a gist through the GitHub API.
	StrategyGist
	// StrategyGitHub rewrites a GitHub blob view to raw.githubusercontent.com.
	StrategyGitHub
)

func (s Strategy) String() string {
	switch s {
	case StrategyRaw:
		return "raw"
	case StrategyPaste:
		return "paste"
	case StrategyGist:
		return "gist"
	case StrategyGitHub:
		return "github"
	default:
		return "unknown"
	}
}

// Pattern binds a URL shape to a retrieval strategy.
type Pattern struct {
	Name     string
	Regexp   *regexp.Regexp
	Strategy Strategy
}

const textFilePattern = "text_file"

// Order matters: the first matching pattern wins.
var patterns = []Pattern{
	{
		Name:     "gist",
		Regexp:   regexp.MustCompile(`^https?://gist\.github\.com/.+/([a-f0-9]+)$`),
		Strategy: StrategyGist,
	},
	{
		Name:     "pastebin",
		Regexp:   regexp.MustCompile(`^(https?://(?:h|p)astebin\.com/)(\w+)$`),
		Strategy: StrategyPaste,
	},
	{
		Name:     "pastebin_raw",
		Regexp:   regexp.MustCompile(`^(https?://(?:h|p)astebin\.com/raw/\w+)$`),
		Strategy: StrategyRaw,
	},
	{
		Name:     "github_blob",
		Regexp:   regexp.MustCompile(`^https?://github\.com/([^/]+/[^/]+)/blob(/.+/.+)$`),
		Strategy: StrategyGitHub,
	},
	{
		Name:     "github_raw",
		Regexp:   regexp.MustCompile(`^(https?://raw\.githubusercontent\.com/.+)$`),
		Strategy: StrategyRaw,
	},
	{
		Name:     textFilePattern,
		Regexp:   regexp.MustCompile(`^(https?://.+\.txt)$`),
		Strategy: StrategyRaw,
	},
}

// Patterns returns a copy of the URL shapes in match order.
func Patterns() []Pattern {
	out := make([]Pattern, len(patterns))
	copy(out, patterns)
	return out
}

// Match is a URL that matched one of the known shapes.
type Match struct {
	URL      string
	Pattern  string
	Captures []string
	Strategy Strategy
}

// MatchURL returns the first known shape rawURL matches.
func MatchURL(rawURL string) (Match, bool) {
	for _, p := range patterns {
		groups := p.Regexp.FindStringSubmatch(rawURL)
		if groups == nil {
			continue
		}
		return Match{
			URL:      rawURL,
			Pattern:  p.Name,
			Captures: groups[1:],
			Strategy: p.Strategy,
		}, true
	}
	return Match{}, false
}

// MatchAttachment matches an uploaded file. Hosts often serve uploads from
// URLs that do not end in the file name, so a file named *.txt is fetched as
// raw text whatever its URL looks like.
func MatchAttachment(a Attachment) (Match, bool) {
	url := NormalizeURL(a.URL)
	if m, ok := MatchURL(url); ok {
		return m, true
	}
	if url == "" || !strings.EqualFold(path.Ext(a.Filename), ".txt") {
		return Match{}, false
	}
	return Match{
		URL:      url,
		Pattern:  textFilePattern,
		Captures: []string{url},
		Strategy: StrategyRaw,
	}, true
}
