package aboutme

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

const statusOK = 200

// Response is a decoded API reply. Fields holds every top-level member of the
// body, status included; numbers are kept as json.Number.
type Response struct {
	Status int
	Fields map[string]any
	Raw    []byte
}

// Field returns a top-level member of the response body.
func (r *Response) Field(name string) (any, bool) {
	if r == nil || r.Fields == nil {
		return nil, false
	}
	v, ok := r.Fields[name]
	return v, ok
}

// Decode unmarshals the raw body into v.
func (r *Response) Decode(v any) error {
	if r == nil {
		return ErrEmptyResponse
	}
	return json.Unmarshal(r.Raw, v)
}

func decodeResponse(body []byte) (*Response, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, ErrEmptyResponse
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var fields map[string]any
	if err := dec.Decode(&fields); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEmptyResponse, err)
	}
	if rest := bytes.TrimSpace(body[dec.InputOffset():]); len(rest) != 0 {
		return nil, fmt.Errorf("%w: trailing data after object", ErrEmptyResponse)
	}
	if fields == nil {
		return nil, ErrEmptyResponse
	}

	rawStatus, ok := fields["status"]
	if !ok || rawStatus == nil {
		return nil, ErrEmptyResponse
	}
	status, ok := parseStatus(rawStatus)
	if !ok {
		return nil, fmt.Errorf("%w: unreadable status %v", ErrEmptyResponse, rawStatus)
	}

	if status != statusOK {
		msg, _ := fields["error_message"].(string)
		return nil, &APIError{Status: status, Message: msg}
	}

	return &Response{
		Status: status,
		Fields: fields,
		Raw:    append([]byte(nil), body...),
	}, nil
}

// parseStatus accepts integral numbers and integer strings. Fractional values
// such as 200.5 are unreadable rather than rounded.
func parseStatus(v any) (int, bool) {
	switch s := v.(type) {
	case json.Number:
		if n, err := s.Int64(); err == nil {
			return int(n), true
		}
		f, err := s.Float64()
		if err != nil || f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
			return 0, false
		}
		return int(f), true
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}
