package unpack

import (
	"context"
	"net/http"
	"strings"

	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
)

// GistAPIURL is the GitHub endpoint gists are read from.
const GistAPIURL = "https://api.github.com/gists/"

// Fetcher retrieves the text behind matched URLs. It is safe for concurrent
// use as long as the underlying client is.
type Fetcher struct {
	client *http.Client
}

// NewFetcher creates a fetcher on top of a shared HTTP client.
func NewFetcher(client *http.Client) *Fetcher {
	if client == nil {
		client = NewHTTPClient(DefaultTimeout)
	}
	return &Fetcher{client: client}
}

// Fetch retrieves the text for a match using its strategy.
func (f *Fetcher) Fetch(ctx context.Context, m Match) (string, error) {
	switch m.Strategy {
	case StrategyRaw:
		return f.getText(ctx, m.Captures[0])
	case StrategyPaste:
		return f.getText(ctx, PasteRawURL(m.Captures[0], m.Captures[1]))
	case StrategyGitHub:
		return f.getText(ctx, GitHubRawURL(m.Captures[0], m.Captures[1]))
	case StrategyGist:
		return f.fetchGist(ctx, m.Captures[0])
	default:
		return "", errors.Errorf("unknown strategy %d", m.Strategy)
	}
}

// PasteRawURL returns the raw endpoint of a paste. base ends with a slash.
func PasteRawURL(base, id string) string {
	return base + "raw/" + id
}

// GitHubRawURL returns the raw.githubusercontent.com location of a blob.
// path starts with a slash and includes the ref.
func GitHubRawURL(repo, path string) string {
	return "https://raw.githubusercontent.com/" + repo + path
}

func (f *Fetcher) fetchGist(ctx context.Context, id string) (string, error) {
	header := http.Header{}
	header.Set("Accept", "application/vnd.github+json")

	resp, err := f.get(ctx, GistAPIURL+id, header)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", &FetchError{StatusCode: resp.StatusCode, Detail: resp.Body}
	}

	return JoinGistFiles(resp.Body)
}

// JoinGistFiles concatenates the content of every file in a gist API payload,
// in document order, separated by a blank line.
func JoinGistFiles(payload string) (string, error) {
	if !gjson.Valid(payload) {
		return "", errors.New("gist response is not valid JSON")
	}

	files := gjson.Get(payload, "files")
	if !files.IsObject() {
		return "", errors.New("gist response has no files")
	}

	var contents []string
	files.ForEach(func(_, file gjson.Result) bool {
		contents = append(contents, file.Get("content").String())
		return true
	})

	return strings.Join(contents, "\n\n"), nil
}
