package aboutme

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrConfiguration is returned by New when the developer key is missing.
	ErrConfiguration = errors.New("aboutme: invalid configuration")
	// ErrEmptyResponse is returned when the body does not decode to an object with a status field.
	ErrEmptyResponse = errors.New("aboutme: empty response")
)

// InvalidArgumentError reports a caller-supplied value outside its allowed set.
type InvalidArgumentError struct {
	Argument string
	Value    string
	Allowed  []string
}

func (e *InvalidArgumentError) Error() string {
	return fmt.Sprintf("aboutme: invalid %s %q: only the following types are allowed: %s",
		e.Argument, e.Value, strings.Join(e.Allowed, ", "))
}

// APIError is a response whose status field is not 200.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("aboutme: api status %d", e.Status)
	}
	return fmt.Sprintf("aboutme: api status %d: %s", e.Status, e.Message)
}
