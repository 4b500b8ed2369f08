package unpack

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchPasteRequestsRawEndpoint(t *testing.T) {
	for _, id := range []string{"abc123", "Z9", "under_score"} {
		t.Run(id, func(t *testing.T) {
			transport := newFakeTransport(map[string]route{
				"https://pastebin.com/raw/" + id: {status: http.StatusOK, body: "paste " + id},
			})
			f := newTestFetcher(transport)

			m, ok := MatchURL("https://pastebin.com/" + id)
			require.True(t, ok)

			text, err := f.Fetch(context.Background(), m)
			require.NoError(t, err)
			assert.Equal(t, "paste "+id, text)
			assert.Equal(t, []string{"https://pastebin.com/raw/" + id}, transport.Requests())
		})
	}
}

func TestFetchGitHubBlobRewritesToRaw(t *testing.T) {
	transport := newFakeTransport(map[string]route{
		"https://raw.githubusercontent.com/owner/repo/main/cmd/main.go": {status: http.StatusOK, body: "package main"},
	})
	f := newTestFetcher(transport)

	m, ok := MatchURL("https://github.com/owner/repo/blob/main/cmd/main.go")
	require.True(t, ok)

	text, err := f.Fetch(context.Background(), m)
	require.NoError(t, err)
	assert.Equal(t, "package main", text)
	assert.Equal(t, []string{"https://raw.githubusercontent.com/owner/repo/main/cmd/main.go"}, transport.Requests())
}

func TestGitHubRawURL(t *testing.T) {
	assert.Equal(t, "https://raw.githubusercontent.com/a/b/v1.0/x/y.txt", GitHubRawURL("a/b", "/v1.0/x/y.txt"))
}

func TestPasteRawURL(t *testing.T) {
	assert.Equal(t, "https://hastebin.com/raw/q1", PasteRawURL("https://hastebin.com/", "q1"))
}

func TestFetchRawNon200IsFetchError(t *testing.T) {
	transport := newFakeTransport(map[string]route{
		"https://example.com/gone.txt": {status: http.StatusNotFound, body: "<html>gone</html>"},
	})
	f := newTestFetcher(transport)

	m, ok := MatchURL("https://example.com/gone.txt")
	require.True(t, ok)

	_, err := f.Fetch(context.Background(), m)
	var fetchErr *FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, http.StatusNotFound, fetchErr.StatusCode)
	assert.Equal(t, "Error: 404", err.Error())
}

func TestFetchGistJoinsFilesInDocumentOrder(t *testing.T) {
	payload := `{"id":"abc","files":{` +
		`"zeta.txt":{"filename":"zeta.txt","content":"last letter"},` +
		`"alpha.txt":{"filename":"alpha.txt","content":"first letter"},` +
		`"mid.md":{"filename":"mid.md","content":"# middle\n"}}}`
	transport := newFakeTransport(map[string]route{
		GistAPIURL + "abc": {status: http.StatusOK, body: payload, contentType: "application/json; charset=utf-8"},
	})
	f := newTestFetcher(transport)

	m, ok := MatchURL("https://gist.github.com/someone/abc")
	require.True(t, ok)

	text, err := f.Fetch(context.Background(), m)
	require.NoError(t, err)
	assert.Equal(t, "last letter\n\nfirst letter\n\n# middle\n", text)
	assert.Equal(t, []string{"https://api.github.com/gists/abc"}, transport.Requests())
}

func TestFetchGistErrorCarriesPayload(t *testing.T) {
	payload := `{"message":"Not Found","documentation_url":"https://docs.github.com/rest"}`
	transport := newFakeTransport(map[string]route{
		GistAPIURL + "dead": {status: http.StatusNotFound, body: payload},
	})
	f := newTestFetcher(transport)

	m, ok := MatchURL("https://gist.github.com/someone/dead")
	require.True(t, ok)

	_, err := f.Fetch(context.Background(), m)
	var fetchErr *FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, payload, fetchErr.Error())
}

func TestJoinGistFiles(t *testing.T) {
	t.Run("single file", func(t *testing.T) {
		text, err := JoinGistFiles(`{"files":{"a":{"content":"only"}}}`)
		require.NoError(t, err)
		assert.Equal(t, "only", text)
	})

	t.Run("no files", func(t *testing.T) {
		text, err := JoinGistFiles(`{"files":{}}`)
		require.NoError(t, err)
		assert.Equal(t, "", text)
	})

	t.Run("invalid json", func(t *testing.T) {
		_, err := JoinGistFiles(`<html>`)
		assert.Error(t, err)
	})

	t.Run("missing files", func(t *testing.T) {
		_, err := JoinGistFiles(`{"id":"x"}`)
		assert.Error(t, err)
	})
}

func TestFetchDecodesDeclaredCharset(t *testing.T) {
	transport := newFakeTransport(map[string]route{
		"https://example.com/latin.txt": {
			status:      http.StatusOK,
			body:        "caf\xe9",
			contentType: "text/plain; charset=ISO-8859-1",
		},
		"https://example.com/utf8.txt": {
			status:      http.StatusOK,
			body:        "café",
			contentType: "text/plain",
		},
	})
	f := newTestFetcher(transport)

	for _, u := range []string{"https://example.com/latin.txt", "https://example.com/utf8.txt"} {
		m, ok := MatchURL(u)
		require.True(t, ok)

		text, err := f.Fetch(context.Background(), m)
		require.NoError(t, err)
		assert.Equal(t, "café", text)
	}
}

func TestFetchSendsUserAgent(t *testing.T) {
	var seen string
	transport := roundTripFunc(func(req *http.Request) (*http.Response, error) {
		seen = req.Header.Get("User-Agent")
		return newFakeTransport(map[string]route{
			req.URL.String(): {status: http.StatusOK, body: "ok"},
		}).RoundTrip(req)
	})
	f := newTestFetcher(transport)

	m, _ := MatchURL("https://example.com/a.txt")
	_, err := f.Fetch(context.Background(), m)
	require.NoError(t, err)
	assert.Equal(t, UserAgent, seen)
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}
