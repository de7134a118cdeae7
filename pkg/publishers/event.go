package publishers

import (
	"encoding/json"
	"time"

	"github.com/samvad-hq/aboutme-client/internal/domain"
)

// AttrOperation is the message attribute carrying the lookup operation.
const AttrOperation = "operation"

// Event is the payload published for every successful lookup.
type Event struct {
	Operation string          `json:"operation"`
	Subject   string          `json:"subject,omitempty"`
	Action    string          `json:"action,omitempty"`
	Object    string          `json:"object,omitempty"`
	Extended  bool            `json:"extended"`
	Status    int             `json:"status"`
	Payload   json.RawMessage `json:"payload"`
	FetchedAt time.Time       `json:"fetched_at"`
}

// NewEvent builds an Event for a lookup and the raw response body.
func NewEvent(lookup domain.Lookup, status int, body []byte) Event {
	var payload json.RawMessage
	if json.Valid(body) {
		payload = append(json.RawMessage(nil), body...)
	}
	return Event{
		Operation: lookup.Operation,
		Subject:   lookup.Subject,
		Action:    lookup.Action,
		Object:    lookup.Object,
		Extended:  lookup.Extended,
		Status:    status,
		Payload:   payload,
		FetchedAt: time.Now().UTC(),
	}
}

func (e Event) attributes() map[string]string {
	return map[string]string{AttrOperation: e.Operation}
}
