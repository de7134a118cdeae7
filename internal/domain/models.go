package domain

import "strings"

// Operations a Lookup can run.
const (
	OpUserView           = "user_view"
	OpUsersViewDirectory = "users_view_directory"
	OpUsersViewRandom    = "users_view_random"
	OpPost               = "post"
)

// Lookup is one call made on behalf of a user of this tool.
type Lookup struct {
	Operation string
	// Subject is the username, the directory type, or for OpPost the object type.
	Subject string
	// Action and Object are only used by OpPost.
	Action   string
	Object   string
	Extended bool
}

// Key identifies the lookup in the snapshot archive.
func (l Lookup) Key() string {
	parts := []string{l.Operation}
	for _, p := range []string{l.Subject, l.Action, l.Object} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	if l.Extended {
		parts = append(parts, "extended")
	}
	return strings.Join(parts, ":")
}
