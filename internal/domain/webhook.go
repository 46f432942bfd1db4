package domain

import (
	"encoding/json"
	"fmt"
)

// EventType enumerates the webhook event types the processor dispatches.
// Dispatch is exhaustive with an explicit unknown arm; unrecognized types
// are acknowledged, never dropped silently.
type EventType string

const (
	EventPaymentCompleted EventType = "payment.completed"
	EventPaymentCaptured  EventType = "payment.captured"
	EventPaymentFailed    EventType = "payment.failed"
	EventRefundCompleted  EventType = "refund.completed"
	EventUnknown          EventType = ""
)

// ParseEventType maps a wire event-type string onto the enumerated set.
// Unmatched values map to EventUnknown; callers keep the raw string for
// logging.
func ParseEventType(s string) EventType {
	switch EventType(s) {
	case EventPaymentCompleted, EventPaymentCaptured, EventPaymentFailed, EventRefundCompleted:
		return EventType(s)
	default:
		return EventUnknown
	}
}

// Event is the webhook envelope: {type, data}, where data carries the
// same shape as a payment response plus metadata.order_id.
type Event struct {
	Type    EventType
	RawType string
	Data    Payment
}

// UnmarshalEvent decodes a raw webhook body into an Event. A body that is
// not a JSON object with a type string is an error; the caller decides
// whether to acknowledge it anyway.
func UnmarshalEvent(body []byte) (*Event, error) {
	var wire struct {
		Type string  `json:"type"`
		Data Payment `json:"data"`
	}
	if err := json.Unmarshal(body, &wire); err != nil {
		return nil, fmt.Errorf("decode webhook envelope: %w", err)
	}
	if wire.Type == "" {
		return nil, fmt.Errorf("webhook envelope missing type")
	}
	return &Event{
		Type:    ParseEventType(wire.Type),
		RawType: wire.Type,
		Data:    wire.Data,
	}, nil
}
