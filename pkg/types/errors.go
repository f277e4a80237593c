package types

import "errors"

// Validation errors shared across components.
var (
	ErrUnknownEvent  = errors.New("unknown event")
	ErrInvalidRoom   = errors.New("room name must be 1-100 characters")
	ErrInvalidUserID = errors.New("invalid user id")
	ErrEmptyMessage  = errors.New("message body cannot be empty")
	ErrMissingRoom   = errors.New("join and leave events require a room")
)
