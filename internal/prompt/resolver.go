package prompt

import (
	"context"

	"tutorboard/pkg/interfaces"
)

// Resolver supplies the active topic from the user directory.
//
// The lookup is repeated on every message, never cached, so a teacher can
// change the prompt between a student's messages and the very next reply
// follows the new topic. Only a single teacher record is ever consulted;
// multi-teacher routing is an accepted limitation of the deployment model.
type Resolver struct {
	dir interfaces.UserDirectory
}

// NewResolver creates a resolver over the given directory.
func NewResolver(dir interfaces.UserDirectory) *Resolver {
	return &Resolver{dir: dir}
}

// CurrentTopic returns the teacher's prompt. ok is false when no topic is
// configured yet, which is an expected state, not an error.
func (r *Resolver) CurrentTopic(ctx context.Context) (string, bool, error) {
	return r.dir.FindTeacherPrompt(ctx)
}
