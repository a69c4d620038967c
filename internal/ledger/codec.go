package ledger

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// baseFields is the flat set of keys every event's JSON encoding carries.
type baseFields struct {
	Type      Kind   `json:"type"`
	UUID      string `json:"uuid"`
	Timestamp string `json:"timestamp"`
	Integrity string `json:"integrity,omitempty"`
	Author    string `json:"author"`
}

func (b *EventBase) toFields(kind Kind) baseFields {
	integrity := ""
	if b.Integrity != nil {
		integrity = hex.EncodeToString(b.Integrity)
	}
	return baseFields{
		Type:      kind,
		UUID:      b.UUID.String(),
		Timestamp: b.Timestamp.UTC().Format(timestampLayout),
		Integrity: integrity,
		Author:    b.Author,
	}
}

func baseFromFields(f baseFields) (EventBase, error) {
	u, err := uuid.Parse(f.UUID)
	if err != nil {
		return EventBase{}, fmt.Errorf("event uuid: %w", err)
	}
	ts, err := time.Parse(timestampLayout, f.Timestamp)
	if err != nil {
		return EventBase{}, fmt.Errorf("event timestamp: %w", err)
	}
	var integrity []byte
	if f.Integrity != "" {
		integrity, err = hex.DecodeString(f.Integrity)
		if err != nil {
			return EventBase{}, fmt.Errorf("event integrity: %w", err)
		}
	}
	return EventBase{UUID: u, Timestamp: ts, Integrity: integrity, Author: f.Author}, nil
}

// kindProbe reads only the "type" discriminator from an encoded event.
type kindProbe struct {
	Type Kind `json:"type"`
}

// DecodeEvent parses a JSON-encoded event, dispatching on its "type"
// discriminator to the correct concrete Go type.
func DecodeEvent(data []byte) (Event, error) {
	var probe kindProbe
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("decode event envelope: %w", err)
	}

	switch probe.Type {
	case KindObjectCreate:
		var e ObjectCreateEvent
		return decodeInto(&e, data)
	case KindObjectUpdate:
		var e ObjectUpdateEvent
		return decodeInto(&e, data)
	case KindObjectDelete:
		var e ObjectDeleteEvent
		return decodeInto(&e, data)
	case KindAnnotationCreate:
		var e AnnotationCreateEvent
		return decodeInto(&e, data)
	case KindAnnotationUpdate:
		var e AnnotationUpdateEvent
		return decodeInto(&e, data)
	case KindAnnotationDelete:
		var e AnnotationDeleteEvent
		return decodeInto(&e, data)
	case KindReviewAccept:
		var e ReviewAcceptEvent
		return decodeInto(&e, data)
	case KindReviewReject:
		var e ReviewRejectEvent
		return decodeInto(&e, data)
	case KindOwnerAdd:
		var e OwnerAddEvent
		return decodeInto(&e, data)
	case KindOwnerRemove:
		var e OwnerRemoveEvent
		return decodeInto(&e, data)
	default:
		return nil, fmt.Errorf("unknown event type %q", probe.Type)
	}
}

type jsonUnmarshaler interface {
	UnmarshalJSON([]byte) error
}

func decodeInto[T jsonUnmarshaler](e T, data []byte) (Event, error) {
	if err := e.UnmarshalJSON(data); err != nil {
		return nil, err
	}
	ev, ok := any(e).(Event)
	if !ok {
		return nil, fmt.Errorf("decoded type does not implement Event")
	}
	return ev, nil
}
