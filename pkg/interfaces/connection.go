package interfaces

// Connection represents a client connection to the relay.
// Implementations must make WriteJSON safe for concurrent use; the websocket
// implementation serializes writes through a single writer goroutine.
type Connection interface {
	// WriteJSON sends a JSON message to the client (thread-safe).
	WriteJSON(v interface{}) error

	// Close closes the connection and cleans up resources.
	Close() error

	// GetUserID returns the authenticated user's identifier.
	GetUserID() string

	// GetRole returns the user's role ("student" or "teacher").
	GetRole() string

	// IsAuthenticated reports whether credentials have been set. A connection
	// that never authenticated must never be registered or receive dispatch
	// events.
	IsAuthenticated() bool

	// SetCredentials records the identity resolved at admission.
	SetCredentials(userID, role string) error
}
