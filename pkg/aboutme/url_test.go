package aboutme

import (
	"strings"
	"testing"
)

func TestBuildURLSkipsEmptySegments(t *testing.T) {
	client, _ := newStubClient(t, "")

	tests := []struct {
		name string
		req  Request
		want string
	}{
		{
			name: "object without subtype",
			req:  Request{ObjectType: "user", Action: "view", Object: "bob"},
			want: DefaultBaseURL + "/v2/json/user/view/bob",
		},
		{
			name: "object and subtype",
			req:  Request{ObjectType: "users", Action: "view", Object: "directory", SubType: "team"},
			want: DefaultBaseURL + "/v2/json/users/view/directory/team",
		},
		{
			name: "no object",
			req:  Request{ObjectType: "users", Action: "view"},
			want: DefaultBaseURL + "/v2/json/users/view",
		},
		{
			name: "empty middle segment",
			req:  Request{ObjectType: "users", Action: "view", SubType: "team"},
			want: DefaultBaseURL + "/v2/json/users/view/team",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := client.BuildURL(tt.req)
			if got != tt.want {
				t.Fatalf("BuildURL = %s, want %s", got, tt.want)
			}
			path := strings.TrimPrefix(got, "https://")
			if strings.Contains(path, "//") || strings.HasSuffix(path, "/") {
				t.Fatalf("malformed path separators in %s", got)
			}
		})
	}
}

func TestBuildURLQuery(t *testing.T) {
	client, _ := newStubClient(t, "")

	got := client.BuildURL(Request{ObjectType: "user", Action: "view", Object: "bob", Query: map[string]string{"extended": "true"}})
	if !strings.HasSuffix(got, "/bob?extended=true") {
		t.Fatalf("BuildURL = %s", got)
	}

	got = client.BuildURL(Request{ObjectType: "user", Action: "view", Object: "bob", Query: map[string]string{}})
	if strings.Contains(got, "?") {
		t.Fatalf("unexpected query marker in %s", got)
	}

	got = client.BuildURL(Request{ObjectType: "user", Action: "view", Query: map[string]string{"b": "x y", "a": "1&2"}})
	if !strings.HasSuffix(got, "?a=1%262&b=x+y") {
		t.Fatalf("query not encoded: %s", got)
	}
}

func TestBuildURLDoesNotResubstitute(t *testing.T) {
	client, _ := newStubClient(t, "")

	got := client.BuildURL(Request{ObjectType: "user", Action: "view", Object: "<type>", SubType: "<query>"})
	want := DefaultBaseURL + "/v2/json/user/view/%3Ctype%3E/%3Cquery%3E"
	if got != want {
		t.Fatalf("BuildURL = %s, want %s", got, want)
	}
}
