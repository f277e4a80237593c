package types

// User roles as stored in the user directory. A deployment has exactly one
// teacher record; its prompt field is the active topic for every student.
const (
	RoleStudent = "student"
	RoleTeacher = "teacher"
)

// Inbound envelope event names.
const (
	EventJoin    = "join"
	EventLeave   = "leave"
	EventMessage = "message"
)

// Outbound event discriminants.
const (
	EventTypeStatus   = "status"
	EventTypeResponse = "response"
	EventTypeError    = "error"
)

// FromAssistant tags assistant replies so clients can distinguish them from
// peer traffic on the same connection.
const FromAssistant = "assistant"

// User is a record in the user directory. Prompt is nil until the teacher
// configures a topic; Points only ever grows through the ledger.
type User struct {
	ID       string  `json:"id" db:"id"`
	FullName string  `json:"full_name" db:"full_name"`
	Role     string  `json:"role" db:"role"`
	Prompt   *string `json:"prompt,omitempty" db:"prompt"`
	Points   int     `json:"points" db:"points"`
}

// SessionContext is the identity capability handed to the relay at connection
// time by the external authenticator. The relay trusts it as given and never
// re-validates credentials itself.
type SessionContext struct {
	UserID string
}

// Authenticated reports whether the context carries an identity.
func (s *SessionContext) Authenticated() bool {
	return s != nil && s.UserID != ""
}

// Envelope is a single inbound client frame.
type Envelope struct {
	Event   string `json:"event"`
	Room    string `json:"room,omitempty"`
	Message string `json:"message,omitempty"`
	// LegacyUserID is accepted for wire compatibility with older clients and
	// ignored; identity always comes from the session context.
	LegacyUserID string `json:"user_id,omitempty"`
}

// Event is a single outbound frame. Status and response events carry their
// payload in Message; error events use Msg, matching the historical wire
// format clients already parse.
type Event struct {
	Type    string `json:"type"`
	Message string `json:"message,omitempty"`
	From    string `json:"from,omitempty"`
	Msg     string `json:"msg,omitempty"`
}

// StatusEvent builds a status notice.
func StatusEvent(message string) Event {
	return Event{Type: EventTypeStatus, Message: message}
}

// ReplyEvent builds an assistant reply.
func ReplyEvent(message string) Event {
	return Event{Type: EventTypeResponse, Message: message, From: FromAssistant}
}

// ErrorEvent builds an error notice.
func ErrorEvent(msg string) Event {
	return Event{Type: EventTypeError, Msg: msg}
}

// Result is the parsed outcome of one completion call. Points is only
// meaningful when Scored is true.
type Result struct {
	Reply  string
	Points int
	Scored bool
}
