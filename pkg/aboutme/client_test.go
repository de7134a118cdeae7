package aboutme

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"
)

func TestNewRequiresKey(t *testing.T) {
	for _, key := range []string{"", "   "} {
		_, err := New(Config{Key: key}, &stubTransport{}, nil)
		if !errors.Is(err, ErrConfiguration) {
			t.Fatalf("key %q: expected ErrConfiguration, got %v", key, err)
		}
	}
}

func TestNewAppliesDefaults(t *testing.T) {
	client, err := New(Config{Key: "k"}, &stubTransport{}, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	cfg := client.Config()
	if cfg.Version != "v2" || cfg.Format != "json" || cfg.TimeoutSeconds != 2 {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.BaseURL != DefaultBaseURL {
		t.Fatalf("BaseURL = %s", cfg.BaseURL)
	}
}

func TestNewKeepsOverrides(t *testing.T) {
	client, err := New(Config{Key: "k", Version: "v1", Format: "xml", TimeoutSeconds: 9}, &stubTransport{}, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	cfg := client.Config()
	if cfg.Version != "v1" || cfg.Format != "xml" || cfg.TimeoutSeconds != 9 {
		t.Fatalf("overrides lost: %+v", cfg)
	}
}

func TestDoSendsLiteralBasicKey(t *testing.T) {
	client, transport := newStubClient(t, `{"status":200}`)
	if _, err := client.UserView(context.Background(), "bob", false); err != nil {
		t.Fatalf("UserView: %v", err)
	}
	if len(transport.calls) != 1 {
		t.Fatalf("expected 1 call, got %d", len(transport.calls))
	}
	if got := transport.calls[0].headers["Authorization"]; got != "Basic dev-key" {
		t.Fatalf("Authorization = %q", got)
	}
}

func TestDoSendsKeyWithoutTrimming(t *testing.T) {
	transport := &stubTransport{body: `{"status":200}`}
	client, err := New(Config{Key: " spaced-key\t"}, transport, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := client.UsersViewRandom(context.Background(), false); err != nil {
		t.Fatalf("UsersViewRandom: %v", err)
	}
	if got := transport.calls[0].headers["Authorization"]; got != "Basic  spaced-key\t" {
		t.Fatalf("Authorization = %q", got)
	}
}

func TestUserViewReturnsPayloadUnchanged(t *testing.T) {
	body := `{"status":200,"data":{"name":"x"}}`
	client, transport := newStubClient(t, body)

	resp, err := client.UserView(context.Background(), "x", false)
	if err != nil {
		t.Fatalf("UserView: %v", err)
	}
	if transport.calls[0].method != http.MethodGet {
		t.Fatalf("method = %s", transport.calls[0].method)
	}
	if !strings.HasSuffix(transport.calls[0].url, "/user/view/x") {
		t.Fatalf("url = %s", transport.calls[0].url)
	}
	if string(resp.Raw) != body {
		t.Fatalf("Raw = %s", resp.Raw)
	}
	if resp.Status != 200 {
		t.Fatalf("Status = %d", resp.Status)
	}
	data, ok := resp.Field("data")
	if !ok || !reflect.DeepEqual(data, map[string]any{"name": "x"}) {
		t.Fatalf("data = %#v", data)
	}

	var decoded struct {
		Data struct {
			Name string `json:"name"`
		} `json:"data"`
	}
	if err := resp.Decode(&decoded); err != nil || decoded.Data.Name != "x" {
		t.Fatalf("Decode: %v %+v", err, decoded)
	}
}

func TestUserViewAPIError(t *testing.T) {
	client, _ := newStubClient(t, `{"status":404,"error_message":"not found"}`)

	_, err := client.UserView(context.Background(), "ghost", false)
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %v", err)
	}
	if apiErr.Message != "not found" || apiErr.Status != 404 {
		t.Fatalf("unexpected api error: %+v", apiErr)
	}
}

func TestUserViewEmptyResponse(t *testing.T) {
	client, _ := newStubClient(t, `{}`)

	if _, err := client.UserView(context.Background(), "x", false); !errors.Is(err, ErrEmptyResponse) {
		t.Fatalf("expected ErrEmptyResponse, got %v", err)
	}
}

func TestUsersViewDirectoryRejectsUnknownType(t *testing.T) {
	client, transport := newStubClient(t, `{"status":200}`)

	_, err := client.UsersViewDirectory(context.Background(), "bogus", false)
	var argErr *InvalidArgumentError
	if !errors.As(err, &argErr) {
		t.Fatalf("expected *InvalidArgumentError, got %v", err)
	}
	if len(transport.calls) != 0 {
		t.Fatalf("expected no network calls, got %d", len(transport.calls))
	}
	for _, typ := range DirectoryTypes() {
		if !strings.Contains(err.Error(), typ) {
			t.Fatalf("error %q does not list %q", err, typ)
		}
	}
}

func TestUsersViewDirectoryFeaturedExtended(t *testing.T) {
	req, err := UsersViewDirectoryRequest("featured", true)
	if err != nil {
		t.Fatalf("UsersViewDirectoryRequest: %v", err)
	}
	if req.Object != "directory" || req.SubType != "featured" {
		t.Fatalf("unexpected request: %+v", req)
	}
	if !reflect.DeepEqual(req.Query, map[string]string{"extended": "true"}) {
		t.Fatalf("query = %v", req.Query)
	}

	client, transport := newStubClient(t, `{"status":200}`)
	if _, err := client.UsersViewDirectory(context.Background(), "featured", true); err != nil {
		t.Fatalf("UsersViewDirectory: %v", err)
	}
	want := DefaultBaseURL + "/v2/json/users/view/directory/featured?extended=true"
	if got := transport.calls[0].url; got != want {
		t.Fatalf("url = %s, want %s", got, want)
	}
}

func TestUsersViewRandom(t *testing.T) {
	client, transport := newStubClient(t, `{"status":200}`)
	if _, err := client.UsersViewRandom(context.Background(), false); err != nil {
		t.Fatalf("UsersViewRandom: %v", err)
	}
	want := DefaultBaseURL + "/v2/json/users/view/random"
	if got := transport.calls[0].url; got != want {
		t.Fatalf("url = %s, want %s", got, want)
	}
}

func TestPostUsesPOSTAndValidatesStatus(t *testing.T) {
	client, transport := newStubClient(t, `{"status":401,"error_message":"bad key"}`)

	_, err := client.Post(context.Background(), "user", "logout", "bob")
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Message != "bad key" {
		t.Fatalf("expected api error, got %v", err)
	}
	call := transport.calls[0]
	if call.method != http.MethodPost {
		t.Fatalf("method = %s", call.method)
	}
	if want := DefaultBaseURL + "/v2/json/user/logout/bob"; call.url != want {
		t.Fatalf("url = %s, want %s", call.url, want)
	}
}

func TestDoWrapsTransportError(t *testing.T) {
	boom := errors.New("dial tcp: timeout")
	transport := &stubTransport{err: boom}
	client, err := New(Config{Key: "k"}, transport, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	_, err = client.UsersViewRandom(context.Background(), false)
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped transport error, got %v", err)
	}
	if errors.Is(err, ErrEmptyResponse) {
		t.Fatalf("transport error must not be classified as empty response")
	}
}

func TestDoRejectsUnknownMethod(t *testing.T) {
	client, transport := newStubClient(t, `{"status":200}`)
	if _, err := client.Do(context.Background(), Request{Method: "DELETE", ObjectType: "user"}); err == nil {
		t.Fatalf("expected error for DELETE")
	}
	if len(transport.calls) != 0 {
		t.Fatalf("expected no calls, got %d", len(transport.calls))
	}
}

func TestClientAgainstHTTPServer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v2/json/user/view/alice" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if r.URL.RawQuery != "extended=true" {
			t.Errorf("query = %s", r.URL.RawQuery)
		}
		if got := r.Header.Get("Authorization"); got != "Basic secret" {
			t.Errorf("Authorization = %q", got)
		}
		// The HTTP status is ignored; the body status decides.
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]any{"status": 200, "user_name": "alice"})
	}))
	defer srv.Close()

	client, err := New(Config{Key: "secret", BaseURL: srv.URL + "/api/"}, nil, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	resp, err := client.UserView(context.Background(), "alice", true)
	if err != nil {
		t.Fatalf("UserView: %v", err)
	}
	if name, _ := resp.Field("user_name"); name != "alice" {
		t.Fatalf("user_name = %v", name)
	}
}
