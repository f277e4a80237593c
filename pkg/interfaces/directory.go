package interfaces

import (
	"context"

	"tutorboard/pkg/types"
)

// UserDirectory is the key-value store of user records the relay reads and
// increments. The record schema itself is owned by the account layer; the
// relay only depends on role, prompt and points.
type UserDirectory interface {
	// GetUser retrieves a user record by identifier.
	GetUser(ctx context.Context, userID string) (*types.User, error)

	// FindTeacherPrompt returns the current topic from the single teacher
	// record. ok is false when no teacher exists or no prompt is set; that is
	// an expected state, distinct from a lookup error.
	FindTeacherPrompt(ctx context.Context) (prompt string, ok bool, err error)

	// IncrementPoints atomically adds by to a user's point total. The
	// increment happens in the store, never read-modify-write, so concurrent
	// awards to the same user cannot lose updates.
	IncrementPoints(ctx context.Context, userID string, by int) error

	// UpsertUser creates or updates a user record, preserving points.
	UpsertUser(ctx context.Context, user *types.User) error

	// SetPrompt sets or clears (nil) the topic on a user record.
	SetPrompt(ctx context.Context, userID string, prompt *string) error

	// HealthCheck verifies store connectivity.
	HealthCheck(ctx context.Context) error

	// Close releases the store.
	Close() error
}
