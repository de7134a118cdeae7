package aboutme

import (
	"context"
	"net/http"
	"slices"
)

const (
	DirectoryAll           = "all"
	DirectorySpotlight     = "spotlight"
	DirectoryFeatured      = "featured"
	DirectoryInspirational = "inspirational"
	DirectoryTeam          = "team"
	DirectoryFounder       = "founder"
)

var directoryTypes = []string{
	DirectoryAll,
	DirectorySpotlight,
	DirectoryFeatured,
	DirectoryInspirational,
	DirectoryTeam,
	DirectoryFounder,
}

// DirectoryTypes lists the directory types accepted by UsersViewDirectory.
func DirectoryTypes() []string {
	out := make([]string, len(directoryTypes))
	copy(out, directoryTypes)
	return out
}

func extendedQuery(extended bool) map[string]string {
	if !extended {
		return nil
	}
	return map[string]string{"extended": "true"}
}

// UserViewRequest describes the user/view call for username.
func UserViewRequest(username string, extended bool) Request {
	return Request{
		Method:     http.MethodGet,
		ObjectType: "user",
		Action:     "view",
		Object:     username,
		Query:      extendedQuery(extended),
	}
}

// UsersViewDirectoryRequest validates typ and describes the users/view/directory call.
func UsersViewDirectoryRequest(typ string, extended bool) (Request, error) {
	if !slices.Contains(directoryTypes, typ) {
		return Request{}, &InvalidArgumentError{
			Argument: "directory type",
			Value:    typ,
			Allowed:  DirectoryTypes(),
		}
	}
	return Request{
		Method:     http.MethodGet,
		ObjectType: "users",
		Action:     "view",
		Object:     "directory",
		SubType:    typ,
		Query:      extendedQuery(extended),
	}, nil
}

// UsersViewRandomRequest describes the users/view/random call.
func UsersViewRandomRequest(extended bool) Request {
	return Request{
		Method:     http.MethodGet,
		ObjectType: "users",
		Action:     "view",
		Object:     "random",
		Query:      extendedQuery(extended),
	}
}

// PostRequest describes an action-style call: no sub-type, no query, empty POST body.
func PostRequest(objectType, action, object string) Request {
	return Request{
		Method:     http.MethodPost,
		ObjectType: objectType,
		Action:     action,
		Object:     object,
	}
}

// UserView fetches a user profile.
func (c *Client) UserView(ctx context.Context, username string, extended bool) (*Response, error) {
	return c.Do(ctx, UserViewRequest(username, extended))
}

// UsersViewDirectory fetches one of the curated user directories. An unknown
// type fails before any request is sent.
func (c *Client) UsersViewDirectory(ctx context.Context, typ string, extended bool) (*Response, error) {
	req, err := UsersViewDirectoryRequest(typ, extended)
	if err != nil {
		return nil, err
	}
	return c.Do(ctx, req)
}

// UsersViewRandom fetches random user pages.
func (c *Client) UsersViewRandom(ctx context.Context, extended bool) (*Response, error) {
	return c.Do(ctx, UsersViewRandomRequest(extended))
}

// Post calls an action-style endpoint.
func (c *Client) Post(ctx context.Context, objectType, action, object string) (*Response, error) {
	return c.Do(ctx, PostRequest(objectType, action, object))
}
