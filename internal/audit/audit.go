package audit

import (
	"encoding/json"
	"io"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ActorType represents the kind of principal performing an action
type ActorType string

const (
	ActorTypeUser           ActorType = "user"
	ActorTypeServiceAccount ActorType = "service_account"
)

// Action represents the file operation being audited
type Action string

const (
	ActionUpload   Action = "upload"
	ActionList     Action = "list"
	ActionDownload Action = "download"
	ActionDelete   Action = "delete"
)

// Status represents the outcome of an action
type Status string

const (
	StatusSuccess Status = "success"
	StatusFailure Status = "failure"
	StatusDenied  Status = "denied"
)

// Event is one audit record. Events are emitted as JSON lines on the
// configured sink; there is no database behind them.
type Event struct {
	ID         uuid.UUID `json:"id"`
	Timestamp  time.Time `json:"timestamp"`
	Actor      string    `json:"actor"`
	ActorType  ActorType `json:"actor_type"`
	Action     Action    `json:"action"`
	Collection string    `json:"collection"`
	ObjectName string    `json:"object_name,omitempty"`
	Status     Status    `json:"status"`
	RequestID  string    `json:"request_id,omitempty"`
}

// Logger writes audit events. A nil Logger is safe to call and drops
// everything, so wiring it stays optional. Record is safe for
// concurrent use; the mutex keeps each JSON line intact on the sink.
type Logger struct {
	mu  sync.Mutex
	out io.Writer
}

func NewLogger(out io.Writer) *Logger {
	return &Logger{out: out}
}

func (l *Logger) Record(event Event) {
	if l == nil || l.out == nil {
		return
	}

	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	line, err := json.Marshal(event)
	if err != nil {
		log.Printf("failed to encode audit event: %v", err)
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if _, err := l.out.Write(append(line, '\n')); err != nil {
		log.Printf("failed to write audit event: %v", err)
	}
}
