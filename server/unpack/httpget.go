package unpack

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/net/html/charset"
)

const (
	// DefaultTimeout bounds a single request including redirects.
	DefaultTimeout = 30 * time.Second
	// MaxBodySize is the most that is read from any response (8MB).
	MaxBodySize = 8 * 1024 * 1024
	// UserAgent is sent with every request.
	UserAgent = "Mattermost-Text-Unpacker/1.0"
)

// FetchError is a failed retrieval that is reported back to the user.
type FetchError struct {
	StatusCode int
	// Detail replaces the default message when set, e.g. an API error payload.
	Detail string
}

func (e *FetchError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("Error: %d", e.StatusCode)
}

// Response is a fully read HTTP response.
type Response struct {
	StatusCode int
	// FinalURL is the request URL after any redirects were followed.
	FinalURL string
	Body     string
}

// NewHTTPClient creates the client shared by all fetches. Redirects are
// followed.
func NewHTTPClient(timeout time.Duration) *http.Client {
	if timeout == 0 {
		timeout = DefaultTimeout
	}

	return &http.Client{
		Timeout: timeout,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= 10 {
				return errors.New("stopped after 10 redirects")
			}
			return nil
		},
	}
}

// get issues a GET and reads the body regardless of status.
func (f *Fetcher) get(ctx context.Context, url string, header http.Header) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create GET request")
	}

	req.Header.Set("User-Agent", UserAgent)
	for k, v := range header {
		req.Header[k] = v
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "GET %s failed", url)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(decodeBody(io.LimitReader(resp.Body, MaxBodySize), resp.Header.Get("Content-Type")))
	if err != nil {
		return nil, errors.Wrap(err, "failed to read response body")
	}

	return &Response{
		StatusCode: resp.StatusCode,
		FinalURL:   resp.Request.URL.String(),
		Body:       string(data),
	}, nil
}

// decodeBody converts a body in a declared non-UTF-8 charset to UTF-8.
// Bodies without a declared charset are passed through.
func decodeBody(body io.Reader, contentType string) io.Reader {
	_, params, err := mime.ParseMediaType(contentType)
	if err != nil || params["charset"] == "" {
		return body
	}
	enc, name := charset.Lookup(params["charset"])
	if enc == nil || name == "utf-8" {
		return body
	}
	return enc.NewDecoder().Reader(body)
}

// getText fetches url and fails with a FetchError unless the status is 200.
func (f *Fetcher) getText(ctx context.Context, url string) (string, error) {
	resp, err := f.get(ctx, url, nil)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", &FetchError{StatusCode: resp.StatusCode}
	}
	return resp.Body, nil
}
