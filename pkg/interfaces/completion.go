package interfaces

import (
	"context"
	"net/http"

	"tutorboard/pkg/types"
)

// Completer wraps one call to the external completion service. Exactly one
// upstream call per inbound message; implementations must not retry.
type Completer interface {
	Complete(ctx context.Context, topic, userMessage string) (string, error)
}

// TopicSource supplies the currently active topic. Re-evaluated on every
// message so a teacher can change the prompt between messages.
type TopicSource interface {
	CurrentTopic(ctx context.Context) (topic string, ok bool, err error)
}

// Ledger accrues points for a user.
type Ledger interface {
	Award(ctx context.Context, userID string, points int) error
}

// SessionStore resolves the authenticated identity attached to a connection
// attempt by the external login layer.
type SessionStore interface {
	Resolve(r *http.Request) (*types.SessionContext, error)
}
