package websocket

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"tutorboard/internal/room"
	"tutorboard/pkg/interfaces"
	"tutorboard/pkg/types"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// Origin enforcement belongs to the reverse proxy in this deployment.
		return true
	},
	HandshakeTimeout: 10 * time.Second,
}

// Dispatcher consumes inbound chat messages. Implemented by the dispatch
// package; an interface here keeps the handler testable without a completion
// backend.
type Dispatcher interface {
	Dispatch(ctx context.Context, senderID, text string)
}

// Options tunes per-connection behavior.
type Options struct {
	PingInterval time.Duration
	ReadTimeout  time.Duration
	BufferSize   int
}

// DefaultOptions match classroom-scale heartbeat settings.
func DefaultOptions() Options {
	return Options{
		PingInterval: 30 * time.Second,
		ReadTimeout:  60 * time.Second,
		BufferSize:   100,
	}
}

// Handler admits websocket connections and pumps their events.
//
// Admission order: session context -> directory lookup -> upgrade ->
// credentials -> registration -> welcome. A request with no authenticated
// identity is rejected with 401 before the upgrade, so a rejected connection
// never joins a room and never receives an event.
type Handler struct {
	registry   *Registry
	rooms      *room.Manager
	directory  interfaces.UserDirectory
	sessions   interfaces.SessionStore
	topics     interfaces.TopicSource
	dispatcher Dispatcher
	opts       Options
}

// NewHandler creates a websocket handler with injected dependencies.
func NewHandler(registry *Registry, rooms *room.Manager, directory interfaces.UserDirectory, sessions interfaces.SessionStore, topics interfaces.TopicSource, dispatcher Dispatcher, opts Options) *Handler {
	if opts.PingInterval <= 0 {
		opts = DefaultOptions()
	}
	return &Handler{
		registry:   registry,
		rooms:      rooms,
		directory:  directory,
		sessions:   sessions,
		topics:     topics,
		dispatcher: dispatcher,
		opts:       opts,
	}
}

// HandleWebSocket handles a connection attempt.
func (h *Handler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	// Authentication is checked exactly once, here. The session context is
	// whatever the login layer validated; the relay never re-checks
	// credentials.
	sc, err := h.sessions.Resolve(r)
	if err != nil || !sc.Authenticated() {
		http.Error(w, "Not authenticated - please log in first", http.StatusUnauthorized)
		return
	}

	user, err := h.directory.GetUser(r.Context(), sc.UserID)
	if err != nil {
		if err == interfaces.ErrUserNotFound {
			http.Error(w, "User not found - please log in again", http.StatusUnauthorized)
			return
		}
		http.Error(w, "Authentication error - please try again", http.StatusInternalServerError)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	wsConn := NewConnection(conn, h.opts.BufferSize)

	if err := wsConn.SetCredentials(user.ID, user.Role); err != nil {
		log.Printf("Failed to set credentials: %v", err)
		_ = wsConn.Close()
		return
	}

	if err := h.registry.Register(wsConn); err != nil {
		log.Printf("Failed to register connection: %v", err)
		_ = wsConn.Close()
		return
	}

	log.Printf("Client connected: %s (%s)", user.ID, user.Role)

	h.sendWelcome(wsConn, user)

	go h.handleConnection(wsConn)
}

// sendWelcome emits a single status notice announcing the active topic.
// Nothing is sent when no topic is set; the student finds out on first
// message instead.
func (h *Handler) sendWelcome(conn *Connection, user *types.User) {
	topic, ok, err := h.topics.CurrentTopic(conn.Context())
	if err != nil {
		log.Printf("Welcome topic lookup failed for %s: %v", user.ID, err)
		return
	}
	if !ok {
		return
	}

	notice := fmt.Sprintf("Welcome, %s! Your teacher has set the prompt to be: %s", user.FullName, topic)
	if err := conn.WriteJSON(types.StatusEvent(notice)); err != nil {
		log.Printf("Failed to send welcome notice to %s: %v", user.ID, err)
	}
}

// handleConnection owns the connection lifecycle: heartbeat plus the read
// pump. Events from one client are processed in arrival order on this
// goroutine; a blocking completion call therefore stalls only this client's
// stream, never another connection's.
func (h *Handler) handleConnection(conn *Connection) {
	defer func() {
		h.rooms.RemoveAll(conn)
		h.registry.Unregister(conn)
		_ = conn.Close()
		log.Printf("Client disconnected: %s (%s)", conn.GetUserID(), conn.GetRole())
	}()

	if err := conn.conn.SetReadDeadline(time.Now().Add(h.opts.ReadTimeout)); err != nil {
		log.Printf("Failed to set read deadline: %v", err)
		return
	}
	conn.conn.SetPongHandler(func(string) error {
		return conn.conn.SetReadDeadline(time.Now().Add(h.opts.ReadTimeout))
	})

	ticker := time.NewTicker(h.opts.PingInterval)
	defer ticker.Stop()

	go func() {
		for {
			select {
			case <-ticker.C:
				if err := conn.conn.WriteControl(websocket.PingMessage, []byte{}, time.Now().Add(10*time.Second)); err != nil {
					return
				}
			case <-conn.ctx.Done():
				return
			}
		}
	}()

	for {
		messageType, data, err := conn.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error for %s: %v", conn.GetUserID(), err)
			}
			return
		}

		if messageType == websocket.TextMessage {
			h.handleFrame(conn, data)
		}
	}
}

// handleFrame decodes one inbound envelope and routes it to the room manager
// or the dispatcher. Frame-level problems answer the sender directly; they
// never terminate the connection.
func (h *Handler) handleFrame(conn *Connection, data []byte) {
	var env types.Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		h.sendError(conn, "Invalid message format")
		return
	}

	if err := env.Validate(); err != nil {
		h.sendError(conn, err.Error())
		return
	}

	switch env.Event {
	case types.EventJoin:
		if err := h.rooms.Join(conn, env.Room); err != nil {
			h.sendError(conn, err.Error())
		}
	case types.EventLeave:
		if err := h.rooms.Leave(conn, env.Room); err != nil {
			h.sendError(conn, err.Error())
		}
	case types.EventMessage:
		// Identity comes from the session context set at admission. The
		// legacy user_id field in the envelope is ignored.
		h.dispatcher.Dispatch(conn.Context(), conn.GetUserID(), env.Message)
	}
}

func (h *Handler) sendError(conn *Connection, msg string) {
	if err := conn.WriteJSON(types.ErrorEvent(msg)); err != nil {
		log.Printf("Failed to send error notice to %s: %v", conn.GetUserID(), err)
	}
}
