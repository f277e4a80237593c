package completion

import "errors"

// Completion failure categories. The dispatcher maps both to a single
// generic user-facing error notice; the wrapped detail goes to the log only.
var (
	ErrUpstream       = errors.New("completion service error")
	ErrMalformedReply = errors.New("malformed completion reply")
)
