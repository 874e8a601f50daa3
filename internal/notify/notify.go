// Package notify publishes bedtime calculations to MQTT so other systems (home
// automation, dashboards) can react to them.
package notify

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"betterrest/internal/bedtime"
)

// Publisher publishes calculation outcomes.
type Publisher interface {
	// Publish sends one calculation. Errors must not change the calculation result.
	Publish(event Event) error

	// Close disconnects from the broker.
	Close() error
}

// Event is a single calculation outcome.
type Event struct {
	ID        uuid.UUID
	Timestamp time.Time
	Wake      time.Time
	Bedtime   time.Time // zero on failure
	Sleep     float64
	Coffee    int
	OK        bool
}

// NewEvent builds an Event with a fresh ID.
func NewEvent(now, wake, bed time.Time, sleep float64, coffee int, ok bool) Event {
	return Event{
		ID:        uuid.New(),
		Timestamp: now,
		Wake:      wake,
		Bedtime:   bed,
		Sleep:     sleep,
		Coffee:    coffee,
		OK:        ok,
	}
}

// Payload is the MQTT message body.
type Payload struct {
	Bedtime BedtimePayload `json:"bedtime"`
}

// BedtimePayload contains the calculation details.
type BedtimePayload struct {
	ID        string  `json:"id"`
	Timestamp string  `json:"timestamp"`
	OK        bool    `json:"ok"`
	Bedtime   string  `json:"bedtime,omitempty"`
	Wake      string  `json:"wake"`
	Sleep     float64 `json:"sleep"`
	Coffee    int     `json:"coffee"`
}

// FormatPayload creates the JSON payload for an event.
func FormatPayload(event Event) ([]byte, error) {
	p := Payload{
		Bedtime: BedtimePayload{
			ID:        event.ID.String(),
			Timestamp: event.Timestamp.UTC().Format(time.RFC3339),
			OK:        event.OK,
			Wake:      bedtime.FormatClock(event.Wake),
			Sleep:     event.Sleep,
			Coffee:    event.Coffee,
		},
	}
	if event.OK {
		p.Bedtime.Bedtime = bedtime.FormatClock(event.Bedtime)
	}
	return json.Marshal(p)
}

// Nop discards every event. Used when no broker is configured.
type Nop struct{}

func (Nop) Publish(Event) error { return nil }
func (Nop) Close() error        { return nil }
