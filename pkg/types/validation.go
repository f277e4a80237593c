package types

import (
	"regexp"
	"strings"
)

// Compiled once at package initialization; validation runs on every inbound
// frame.
var roomRegex = regexp.MustCompile(`^[a-zA-Z0-9_.-]+$`)

// IsValidUserID checks that a user identifier is usable as a directory key.
// Identifiers are emails issued by the login service, so the format check is
// deliberately loose: non-empty, bounded, no whitespace.
func IsValidUserID(userID string) bool {
	if len(userID) < 1 || len(userID) > 254 {
		return false
	}
	return !strings.ContainsAny(userID, " \t\r\n")
}

// IsValidRoom checks that a room name is an acceptable opaque key. Rooms have
// no hierarchy; the character restriction only keeps names log- and URL-safe.
func IsValidRoom(room string) bool {
	if len(room) < 1 || len(room) > 100 {
		return false
	}
	return roomRegex.MatchString(room)
}

// Validate ensures the envelope is well-formed for its event. Message-body
// emptiness is checked at dispatch, not here, so that the sender still gets a
// per-message error notice rather than a dropped frame.
func (e *Envelope) Validate() error {
	switch e.Event {
	case EventJoin, EventLeave:
		if e.Room == "" {
			return ErrMissingRoom
		}
		if !IsValidRoom(e.Room) {
			return ErrInvalidRoom
		}
		return nil
	case EventMessage:
		return nil
	default:
		return ErrUnknownEvent
	}
}
