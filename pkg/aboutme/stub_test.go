package aboutme

import (
	"context"
	"testing"

	"github.com/samvad-hq/aboutme-client/pkg/httpclient"
)

type stubResponse struct {
	body   []byte
	status int
}

func (r stubResponse) Body() []byte    { return r.body }
func (r stubResponse) StatusCode() int { return r.status }

type stubCall struct {
	method  string
	url     string
	headers map[string]string
}

// stubTransport records every call and replies with a canned body.
type stubTransport struct {
	body  string
	err   error
	calls []stubCall
}

func (s *stubTransport) Get(_ context.Context, url string, headers map[string]string) (httpclient.Response, error) {
	return s.reply("GET", url, headers)
}

func (s *stubTransport) Post(_ context.Context, url string, headers map[string]string) (httpclient.Response, error) {
	return s.reply("POST", url, headers)
}

func (s *stubTransport) reply(method, url string, headers map[string]string) (httpclient.Response, error) {
	s.calls = append(s.calls, stubCall{method: method, url: url, headers: headers})
	if s.err != nil {
		return nil, s.err
	}
	return stubResponse{body: []byte(s.body), status: 200}, nil
}

func newStubClient(t testing.TB, body string) (*Client, *stubTransport) {
	t.Helper()
	transport := &stubTransport{body: body}
	client, err := New(Config{Key: "dev-key"}, transport, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return client, transport
}
