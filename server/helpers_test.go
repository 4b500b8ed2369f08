package main

import (
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"

	"github.com/mattermost/mattermost/server/public/plugin/plugintest"
	"github.com/stretchr/testify/mock"

	"github.com/fmartingr/mattermost-plugin-text-unpacker/server/unpack"
)

const (
	testBotID     = "bot-user-id"
	testUserID    = "user-id"
	testChannelID = "channel-id"
)

// stubTransport serves canned bodies keyed by the URL that goes on the wire,
// so fragments are not part of the key. Unknown URLs get a 404.
type stubTransport struct {
	mu       sync.Mutex
	bodies   map[string]string
	requests []string
}

func (s *stubTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	key := req.URL.Scheme + "://" + req.URL.Host + req.URL.RequestURI()

	s.mu.Lock()
	s.requests = append(s.requests, key)
	body, ok := s.bodies[key]
	s.mu.Unlock()

	status := http.StatusOK
	if !ok {
		status = http.StatusNotFound
		body = "not found"
	}

	return &http.Response{
		StatusCode: status,
		Header:     http.Header{"Content-Type": []string{"text/plain; charset=utf-8"}},
		Body:       io.NopCloser(strings.NewReader(body)),
		Request:    req,
	}, nil
}

// allowLogs lets the plugin log freely; log calls are not under test.
func allowLogs(api *plugintest.API) {
	for _, method := range []string{"LogDebug", "LogInfo", "LogWarn", "LogError"} {
		args := []any{mock.Anything}
		for i := 0; i < 6; i++ {
			api.On(method, args...).Return().Maybe()
			args = append(args, mock.Anything, mock.Anything)
		}
	}
}

// newTestPlugin builds an activated plugin without going through OnActivate.
func newTestPlugin(t *testing.T, api *plugintest.API, transport http.RoundTripper) *Plugin {
	t.Helper()

	client := unpack.NewHTTPClient(0)
	client.Transport = transport

	p := &Plugin{}
	p.SetAPI(api)
	p.botService = &BotService{api: api, botID: testBotID}
	p.channelPoster = NewChannelPoster(api, testBotID)
	p.dispatcher = unpack.NewDispatcher(unpack.NewFetcher(client), api)

	config := &configuration{}
	config.applyDefaults()
	p.setConfiguration(config)

	return p
}
