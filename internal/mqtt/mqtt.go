// Package mqtt provides MQTT publishing with abstraction for testing.
package mqtt

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/sweeney/wake-clock/internal/logic"
)

// Topic is the MQTT topic for alarm clock events.
const Topic = "home/wakeclock/events"

// TopicSystem is the MQTT topic for system lifecycle events.
const TopicSystem = "home/wakeclock/system"

// Publisher publishes events to MQTT.
type Publisher interface {
	// Publish sends a clock event to the broker.
	// Returns error if publishing fails (should not crash the process).
	Publish(event logic.Event) error

	// PublishSystem sends a system lifecycle event to the broker.
	PublishSystem(event SystemEvent) error

	// Close disconnects from the broker.
	Close() error
}

// ConnectionStatus reports whether the MQTT connection is active.
type ConnectionStatus interface {
	IsConnected() bool
}

// SystemEvent represents a system lifecycle event (e.g., startup, shutdown, heartbeat).
type SystemEvent struct {
	Timestamp  time.Time
	Event      string // e.g., "STARTUP", "SHUTDOWN", "HEARTBEAT"
	Reason     string // e.g., "SIGTERM", "SIGINT" (shutdown only)
	RawPayload []byte // Pre-formatted JSON payload; if set, FormatSystemPayload returns it directly
	Retained   bool   // Whether the message should be retained by the broker
}

// Payload represents the MQTT message payload structure.
type Payload struct {
	WakeClock EventPayload `json:"wakeclock"`
}

// EventPayload contains the clock event details.
type EventPayload struct {
	Timestamp string       `json:"timestamp"`
	Event     string       `json:"event"`
	Wall      string       `json:"wall_time"`
	Alarm     AlarmPayload `json:"alarm"`
}

// AlarmPayload describes the armed alarm at the time of the event.
type AlarmPayload struct {
	Hour        int  `json:"hour"`
	Minute      int  `json:"minute"`
	RampSeconds int  `json:"ramp_seconds"`
	Armed       bool `json:"armed"`
	Confirmed   bool `json:"confirmed"`
}

// FormatPayload creates the JSON payload for a clock event.
func FormatPayload(event logic.Event) ([]byte, error) {
	w := event.Wall
	payload := Payload{
		WakeClock: EventPayload{
			Timestamp: event.Timestamp.UTC().Format(time.RFC3339),
			Event:     string(event.Type),
			Wall: fmt.Sprintf("%04d-%02d-%02dT%02d:%02d",
				w.Year, w.Month, w.Day, w.Hour, w.Minute),
			Alarm: AlarmPayload{
				Hour:        event.Alarm.Hour,
				Minute:      event.Alarm.Minute,
				RampSeconds: event.Alarm.RampSeconds,
				Armed:       event.Alarm.Armed,
				Confirmed:   event.Alarm.Confirmed,
			},
		},
	}
	return json.Marshal(payload)
}

// SystemPayload represents the MQTT message payload for system events.
// Used for simple events that don't carry a full status snapshot.
type SystemPayload struct {
	System SystemPayloadInner `json:"system"`
}

// SystemPayloadInner contains the system event details.
type SystemPayloadInner struct {
	Timestamp string `json:"timestamp"`
	Event     string `json:"event"`
	Reason    string `json:"reason,omitempty"`
}

// FormatSystemPayload creates the JSON payload for a system event.
// If event.RawPayload is set, it is returned directly (used for full status snapshots).
func FormatSystemPayload(event SystemEvent) ([]byte, error) {
	if event.RawPayload != nil {
		return event.RawPayload, nil
	}

	payload := SystemPayload{
		System: SystemPayloadInner{
			Timestamp: event.Timestamp.UTC().Format(time.RFC3339),
			Event:     event.Event,
			Reason:    event.Reason,
		},
	}
	return json.Marshal(payload)
}
