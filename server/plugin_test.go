package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mattermost/mattermost/server/public/plugin/plugintest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestServeHTTP(t *testing.T) {
	a := assert.New(t)
	plugin := Plugin{}
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/api/v1/patterns", http.NoBody)
	r.Header.Set("Mattermost-User-ID", "test-user-id")

	plugin.ServeHTTP(nil, w, r)

	result := w.Result()
	a.NotNil(result)
	defer result.Body.Close()
	a.Equal(http.StatusOK, result.StatusCode)

	var patterns []patternResponse
	a.Nil(json.NewDecoder(result.Body).Decode(&patterns))
	a.Len(patterns, 6)
	a.Equal("gist", patterns[0].Name)
	a.Equal("gist", patterns[0].Strategy)
	a.Equal("text_file", patterns[5].Name)
}

func TestUnpackToChannel(t *testing.T) {
	t.Run("posts in the channel", func(t *testing.T) {
		api := &plugintest.API{}
		allowLogs(api)
		allowPosting(api, false)
		posts := capturePosts(api)
		p := newTestPlugin(t, api, &stubTransport{bodies: map[string]string{
			"https://raw.githubusercontent.com/owner/repo/main/README": "readme",
		}})

		posted, err := p.UnpackToChannel(context.Background(), testUserID, testChannelID, "", "https://github.com/owner/repo/blob/main/README")
		require.NoError(t, err)
		assert.True(t, posted)
		require.Len(t, *posts, 1)
		assert.Equal(t, "readme", (*posts)[0].Message)
	})

	t.Run("unrecognised link", func(t *testing.T) {
		api := &plugintest.API{}
		allowLogs(api)
		allowPosting(api, false)
		p := newTestPlugin(t, api, &stubTransport{})

		posted, err := p.UnpackToChannel(context.Background(), testUserID, testChannelID, "", "not a link")
		require.NoError(t, err)
		assert.False(t, posted)
		api.AssertNotCalled(t, "CreatePost", mock.Anything)
	})
}
