// Package notify publishes countdown lifecycle events to MQTT.
package notify

import (
	"encoding/json"
	"errors"
	"time"

	"gitlab.com/tinyland/lab/ringdown/pkg/countdown"
)

// ErrClosed is returned when publishing after Close.
var ErrClosed = errors.New("notify: publisher closed")

// DefaultTopic is the MQTT topic for countdown events.
const DefaultTopic = "ringdown/events"

// EventType names a countdown lifecycle event.
type EventType string

const (
	EventStarted   EventType = "STARTED"
	EventTick      EventType = "TICK"
	EventFinished  EventType = "FINISHED"
	EventCancelled EventType = "CANCELLED"
)

// Event is one countdown notification.
type Event struct {
	Timestamp time.Time
	Type      EventType
	Remaining int
	Total     int
	Label     string
}

// NewEvent builds an event from a render state.
func NewEvent(typ EventType, st countdown.RenderState, at time.Time) Event {
	return Event{
		Timestamp: at,
		Type:      typ,
		Remaining: st.Remaining,
		Total:     st.Total,
		Label:     st.Label,
	}
}

// Publisher publishes countdown events.
type Publisher interface {
	// Publish sends an event. Failures are returned, never fatal.
	Publish(event Event) error

	// Close disconnects from the broker.
	Close() error
}

// Payload is the JSON message body.
type Payload struct {
	Countdown CountdownPayload `json:"countdown"`
}

// CountdownPayload carries the event details.
type CountdownPayload struct {
	Timestamp string `json:"timestamp"`
	Event     string `json:"event"`
	Remaining int    `json:"remaining"`
	Total     int    `json:"total"`
	Label     string `json:"label"`
}

// FormatPayload creates the JSON payload for an event.
func FormatPayload(event Event) ([]byte, error) {
	return json.Marshal(Payload{
		Countdown: CountdownPayload{
			Timestamp: event.Timestamp.UTC().Format(time.RFC3339),
			Event:     string(event.Type),
			Remaining: event.Remaining,
			Total:     event.Total,
			Label:     event.Label,
		},
	})
}

// qosFor picks at-least-once delivery for lifecycle edges and
// at-most-once for ticks.
func qosFor(t EventType) byte {
	if t == EventTick {
		return 0
	}
	return 1
}
