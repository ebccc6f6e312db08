package events

import (
	"context"
	"encoding/json"
	"time"
)

const (
	UserRegistered  = "user.registered"
	UserLoggedIn    = "user.logged_in"
	UserLoggedOut   = "user.logged_out"
	UserRoleChanged = "user.role_changed"
)

// Event is an audit notification about an account.
type Event struct {
	Type      string            `json:"type"`
	UserID    int64             `json:"user_id"`
	ActorID   int64             `json:"actor_id,omitempty"`
	Attrs     map[string]string `json:"attrs,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
}

func New(typ string, userID int64) Event {
	return Event{Type: typ, UserID: userID, Timestamp: time.Now().UTC()}
}

func (e Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

func FromJSON(data []byte) (Event, error) {
	var e Event
	err := json.Unmarshal(data, &e)
	return e, err
}

// Publisher delivers events. Implementations must not block a request for long.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
	Close() error
}

// Nop discards every event.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }
func (Nop) Close() error                         { return nil }
