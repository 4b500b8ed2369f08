package unpack

import (
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"
)

// route is a canned response served by fakeTransport.
type route struct {
	status      int
	body        string
	contentType string
	location    string
}

// fakeTransport serves canned responses keyed by full URL and records every
// request it sees. Unknown URLs get a 404.
type fakeTransport struct {
	mu       sync.Mutex
	routes   map[string]route
	requests []string
}

func newFakeTransport(routes map[string]route) *fakeTransport {
	return &fakeTransport{routes: routes}
}

func (t *fakeTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	t.mu.Lock()
	t.requests = append(t.requests, req.URL.String())
	r, ok := t.routes[req.URL.String()]
	t.mu.Unlock()

	if !ok {
		r = route{status: http.StatusNotFound, body: "not found"}
	}

	header := http.Header{}
	if r.contentType != "" {
		header.Set("Content-Type", r.contentType)
	}
	if r.location != "" {
		header.Set("Location", r.location)
	}

	return &http.Response{
		StatusCode: r.status,
		Header:     header,
		Body:       io.NopCloser(strings.NewReader(r.body)),
		Request:    req,
	}, nil
}

func (t *fakeTransport) Requests() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]string, len(t.requests))
	copy(out, t.requests)
	return out
}

func newTestFetcher(transport http.RoundTripper) *Fetcher {
	client := NewHTTPClient(0)
	client.Transport = transport
	return NewFetcher(client)
}

// testLogger writes log calls to the test output.
type testLogger struct {
	t *testing.T
}

func (l testLogger) LogDebug(msg string, keyValuePairs ...any) { l.t.Log("DEBUG", msg, keyValuePairs) }
func (l testLogger) LogInfo(msg string, keyValuePairs ...any)  { l.t.Log("INFO", msg, keyValuePairs) }
func (l testLogger) LogWarn(msg string, keyValuePairs ...any)  { l.t.Log("WARN", msg, keyValuePairs) }
func (l testLogger) LogError(msg string, keyValuePairs ...any) { l.t.Log("ERROR", msg, keyValuePairs) }
