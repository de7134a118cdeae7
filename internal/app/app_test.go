package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/samvad-hq/aboutme-client/internal/config"
	"github.com/samvad-hq/aboutme-client/internal/domain"
	"github.com/samvad-hq/aboutme-client/internal/storage"
	"github.com/samvad-hq/aboutme-client/pkg/aboutme"
	"github.com/samvad-hq/aboutme-client/pkg/publishers"
)

type fakeClient struct {
	resp  *aboutme.Response
	err   error
	calls []string
}

func (f *fakeClient) record(call string) (*aboutme.Response, error) {
	f.calls = append(f.calls, call)
	return f.resp, f.err
}

func (f *fakeClient) UserView(_ context.Context, username string, extended bool) (*aboutme.Response, error) {
	if extended {
		return f.record("user:" + username + ":extended")
	}
	return f.record("user:" + username)
}

func (f *fakeClient) UsersViewDirectory(_ context.Context, typ string, _ bool) (*aboutme.Response, error) {
	return f.record("directory:" + typ)
}

func (f *fakeClient) UsersViewRandom(context.Context, bool) (*aboutme.Response, error) {
	return f.record("random")
}

func (f *fakeClient) Post(_ context.Context, objectType, action, object string) (*aboutme.Response, error) {
	return f.record("post:" + objectType + "/" + action + "/" + object)
}

type fakeFanout struct {
	events []publishers.Event
	err    error
	closed bool
}

func (f *fakeFanout) Publish(_ context.Context, evt publishers.Event) (int, error) {
	f.events = append(f.events, evt)
	if f.err != nil {
		return 0, f.err
	}
	return 1, nil
}
func (f *fakeFanout) Size() int { return 1 }

func (f *fakeFanout) Close() error {
	f.closed = true
	return nil
}

func newTestStore(t *testing.T) storage.Store {
	t.Helper()
	store, err := storage.NewStore("bbolt", filepath.Join(t.TempDir(), "snapshots.db"), storage.Options{})
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	return store
}

func okResponse() *aboutme.Response {
	return &aboutme.Response{Status: 200, Raw: []byte(`{"status":200,"user_name":"bob"}`)}
}

func TestLookupArchivesAndPublishes(t *testing.T) {
	client := &fakeClient{resp: okResponse()}
	fanout := &fakeFanout{}
	a := NewWithDeps(client, newTestStore(t), fanout, nil)
	defer a.Close()

	lookup := domain.Lookup{Operation: domain.OpUserView, Subject: "bob", Extended: true}
	resp, err := a.Lookup(context.Background(), lookup)
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if resp.Status != 200 {
		t.Fatalf("Status = %d", resp.Status)
	}
	if len(client.calls) != 1 || client.calls[0] != "user:bob:extended" {
		t.Fatalf("calls = %v", client.calls)
	}

	got, ok, err := a.Snapshot(lookup.Key())
	if err != nil || !ok {
		t.Fatalf("Snapshot ok=%v err=%v", ok, err)
	}
	if string(got) != string(okResponse().Raw) {
		t.Fatalf("snapshot = %s", got)
	}

	if len(fanout.events) != 1 || fanout.events[0].Subject != "bob" || !fanout.events[0].Extended {
		t.Fatalf("events = %+v", fanout.events)
	}
}

func TestLookupPublishFailureDoesNotFail(t *testing.T) {
	fanout := &fakeFanout{err: errors.New("queue down")}
	a := NewWithDeps(&fakeClient{resp: okResponse()}, nil, fanout, nil)

	if _, err := a.Lookup(context.Background(), domain.Lookup{Operation: domain.OpUsersViewRandom}); err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if err := a.Close(); err != nil || !fanout.closed {
		t.Fatalf("Close err=%v closed=%v", err, fanout.closed)
	}
}

func TestLookupClientErrorSkipsSideEffects(t *testing.T) {
	apiErr := &aboutme.APIError{Status: 404, Message: "not found"}
	fanout := &fakeFanout{}
	a := NewWithDeps(&fakeClient{err: apiErr}, newTestStore(t), fanout, nil)
	defer a.Close()

	lookup := domain.Lookup{Operation: domain.OpUsersViewDirectory, Subject: "team"}
	_, err := a.Lookup(context.Background(), lookup)
	if !errors.Is(err, apiErr) {
		t.Fatalf("expected api error, got %v", err)
	}
	if _, ok, _ := a.Snapshot(lookup.Key()); ok {
		t.Fatalf("failed lookup must not be archived")
	}
	if len(fanout.events) != 0 {
		t.Fatalf("failed lookup must not be published")
	}
}

func TestLookupPostPassesSegmentsThrough(t *testing.T) {
	client := &fakeClient{resp: okResponse()}
	a := NewWithDeps(client, nil, nil, nil)

	post := domain.Lookup{Operation: domain.OpPost, Subject: "a/b", Action: "c"}
	if _, err := a.Lookup(context.Background(), post); err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if client.calls[0] != "post:a/b/c/" {
		t.Fatalf("calls = %v", client.calls)
	}

	if _, err := a.Lookup(context.Background(), domain.Lookup{Operation: domain.OpPost, Subject: "user"}); err == nil {
		t.Fatalf("expected error for post lookup without action")
	}
	if _, err := a.Lookup(context.Background(), domain.Lookup{Operation: "delete"}); err == nil {
		t.Fatalf("expected error for unknown operation")
	}
	if len(client.calls) != 1 {
		t.Fatalf("invalid lookups must not reach the client, calls = %v", client.calls)
	}
}

func TestNewDefersKeyCheckToLookup(t *testing.T) {
	a, err := New(context.Background(), &config.Config{
		StorageType: "bbolt",
		BBoltPath:   filepath.Join(t.TempDir(), "snapshots.db"),
	}, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer a.Close()

	if _, ok, err := a.Snapshot("user_view:bob"); err != nil || ok {
		t.Fatalf("Snapshot ok=%v err=%v", ok, err)
	}
	_, err = a.Lookup(context.Background(), domain.Lookup{Operation: domain.OpUsersViewRandom})
	if !errors.Is(err, aboutme.ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration, got %v", err)
	}
}

func TestNewWithPublishersFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "publishers.yaml")
	content := `
publishers:
  - id: hook
    type: http
    http:
      url: https://example.com/hook
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write publishers file: %v", err)
	}

	a, err := New(context.Background(), &config.Config{
		APIKey:         "k",
		StorageType:    "none",
		PublishersFile: path,
	}, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer a.Close()
	if a.fanout.Size() != 1 {
		t.Fatalf("expected 1 publisher, got %d", a.fanout.Size())
	}
}
