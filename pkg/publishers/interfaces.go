package publishers

import "context"

// Publisher sends lookup events to a downstream sink (webhook, queue, topic).
type Publisher interface {
	ID() string
	Type() string
	Publish(ctx context.Context, evt Event) error
}

// Closer is implemented by publishers holding long-lived clients.
type Closer interface {
	Close() error
}
