package unpack

import (
	"context"
	"net/http"
	"strings"
)

// Resolve follows a URL that matched no known shape and retries the match
// against where it ends up, so shortened links to known hosts still work.
// Only one resolution is attempted. matched is false when the final URL is
// not recognised either.
func (f *Fetcher) Resolve(ctx context.Context, rawURL string) (text string, matched bool, err error) {
	if !isHTTPURL(rawURL) {
		return "", false, nil
	}

	resp, err := f.get(ctx, rawURL, nil)
	if err != nil {
		return "", false, err
	}

	m, ok := MatchURL(resp.FinalURL)
	if !ok {
		return "", false, nil
	}

	// The redirect request already holds the body a raw fetch would request again.
	if m.Strategy == StrategyRaw {
		if resp.StatusCode != http.StatusOK {
			return "", true, &FetchError{StatusCode: resp.StatusCode}
		}
		return resp.Body, true, nil
	}

	text, err = f.Fetch(ctx, m)
	return text, true, err
}

func isHTTPURL(rawURL string) bool {
	return strings.HasPrefix(rawURL, "http://") || strings.HasPrefix(rawURL, "https://")
}
