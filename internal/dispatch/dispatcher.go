package dispatch

import (
	"context"
	"log"
	"strings"
	"time"

	"tutorboard/internal/completion"
	"tutorboard/pkg/interfaces"
	"tutorboard/pkg/types"
)

// User-facing notice texts. Per-message failures surface as exactly one of
// these; internal error detail stays in the log.
const (
	noticeThinking     = "Assistant is thinking..."
	noticePromptNotSet = "Your teacher hasn't set a prompt yet."
	noticeEmptyMessage = "Message cannot be empty."
	noticeGenericError = "Error processing your request"
)

// ConnectionSource resolves a live connection by user ID. Satisfied by the
// websocket registry; tests inject fakes.
type ConnectionSource interface {
	Get(userID string) (interfaces.Connection, bool)
}

// Dispatcher runs the per-message cycle: validate, resolve topic, call the
// completion service, parse, emit, award. It runs inline on the sender's
// reader goroutine, so one connection's in-flight completion call never
// blocks another connection's events, while each client's own messages stay
// in arrival order.
type Dispatcher struct {
	conns     ConnectionSource
	topics    interfaces.TopicSource
	completer interfaces.Completer
	ledger    interfaces.Ledger
	scored    bool
	timeout   time.Duration
}

// NewDispatcher creates a dispatcher. scored selects the deployment's
// response mode; timeout bounds each completion call.
func NewDispatcher(conns ConnectionSource, topics interfaces.TopicSource, completer interfaces.Completer, ledger interfaces.Ledger, scored bool, timeout time.Duration) *Dispatcher {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Dispatcher{
		conns:     conns,
		topics:    topics,
		completer: completer,
		ledger:    ledger,
		scored:    scored,
		timeout:   timeout,
	}
}

// Dispatch processes one inbound message from senderID. Every failure path
// emits exactly one error notice to the sender and returns; nothing here can
// take down the connection or the process.
func (d *Dispatcher) Dispatch(ctx context.Context, senderID, text string) {
	if strings.TrimSpace(text) == "" {
		d.emit(senderID, types.ErrorEvent(noticeEmptyMessage))
		return
	}

	topic, ok, err := d.topics.CurrentTopic(ctx)
	if err != nil {
		log.Printf("Topic lookup failed for %s: %v", senderID, err)
		d.emit(senderID, types.ErrorEvent(noticeGenericError))
		return
	}
	if !ok {
		d.emit(senderID, types.ErrorEvent(noticePromptNotSet))
		return
	}

	// Acknowledge before the upstream call; it can take seconds.
	d.emit(senderID, types.StatusEvent(noticeThinking))

	callCtx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	raw, err := d.completer.Complete(callCtx, topic, text)
	if err != nil {
		log.Printf("Completion call failed for %s: %v", senderID, err)
		d.emit(senderID, types.ErrorEvent(noticeGenericError))
		return
	}

	result, err := completion.Parse(raw, d.scored)
	if err != nil {
		log.Printf("Completion reply unparsable for %s: %v", senderID, err)
		d.emit(senderID, types.ErrorEvent(noticeGenericError))
		return
	}

	d.emit(senderID, types.ReplyEvent(result.Reply))

	// The reply is user-visible and irrevocable; a failed award is logged,
	// never retried, and never revokes the reply.
	if result.Scored {
		if err := d.ledger.Award(ctx, senderID, result.Points); err != nil {
			log.Printf("Points award failed for %s (+%d): %v", senderID, result.Points, err)
		}
	}
}

// emit resolves the sender through the registry at delivery time. A sender
// that disconnected while the completion call was in flight simply misses
// the reply; the event is discarded, not an error.
func (d *Dispatcher) emit(userID string, event types.Event) {
	conn, ok := d.conns.Get(userID)
	if !ok {
		return
	}

	if err := conn.WriteJSON(event); err != nil {
		log.Printf("Failed to deliver %s event to %s: %v", event.Type, userID, err)
	}
}
