package ledger

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// ReviewAcceptEvent accepts a pending object or annotation event, moving
// its target out of the pending set and into the accepted state.
type ReviewAcceptEvent struct {
	EventBase
	EventUUID uuid.UUID
}

// NewReviewAcceptEvent builds a ReviewAcceptEvent authored by author.
func NewReviewAcceptEvent(targetEventUUID uuid.UUID, author string) *ReviewAcceptEvent {
	return &ReviewAcceptEvent{EventBase: newBase(author), EventUUID: targetEventUUID}
}

func (e *ReviewAcceptEvent) Kind() Kind { return KindReviewAccept }

// SigningBytes implements Event.
func (e *ReviewAcceptEvent) SigningBytes() ([]byte, error) {
	buf := e.signingBytes()
	buf = appendU8(buf, uint8(DecisionAccept))
	buf = append(buf, e.EventUUID[:]...)
	return buf, nil
}

type reviewAcceptJSON struct {
	baseFields
	Decision  uint8  `json:"decision"`
	EventUUID string `json:"event_uuid"`
}

// MarshalJSON implements json.Marshaler.
func (e ReviewAcceptEvent) MarshalJSON() ([]byte, error) {
	return json.Marshal(reviewAcceptJSON{
		baseFields: e.toFields(KindReviewAccept),
		Decision:   uint8(DecisionAccept),
		EventUUID:  e.EventUUID.String(),
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (e *ReviewAcceptEvent) UnmarshalJSON(data []byte) error {
	var raw reviewAcceptJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	base, err := baseFromFields(raw.baseFields)
	if err != nil {
		return err
	}
	target, err := uuid.Parse(raw.EventUUID)
	if err != nil {
		return fmt.Errorf("review accept event_uuid: %w", err)
	}
	e.EventBase = base
	e.EventUUID = target
	return nil
}

// ReviewRejectEvent rejects a pending object or annotation event, removing
// its target from the pending set without applying it.
type ReviewRejectEvent struct {
	EventBase
	EventUUID uuid.UUID
}

// NewReviewRejectEvent builds a ReviewRejectEvent authored by author.
func NewReviewRejectEvent(targetEventUUID uuid.UUID, author string) *ReviewRejectEvent {
	return &ReviewRejectEvent{EventBase: newBase(author), EventUUID: targetEventUUID}
}

func (e *ReviewRejectEvent) Kind() Kind { return KindReviewReject }

// SigningBytes implements Event.
func (e *ReviewRejectEvent) SigningBytes() ([]byte, error) {
	buf := e.signingBytes()
	buf = appendU8(buf, uint8(DecisionReject))
	buf = append(buf, e.EventUUID[:]...)
	return buf, nil
}

type reviewRejectJSON struct {
	baseFields
	Decision  uint8  `json:"decision"`
	EventUUID string `json:"event_uuid"`
}

// MarshalJSON implements json.Marshaler.
func (e ReviewRejectEvent) MarshalJSON() ([]byte, error) {
	return json.Marshal(reviewRejectJSON{
		baseFields: e.toFields(KindReviewReject),
		Decision:   uint8(DecisionReject),
		EventUUID:  e.EventUUID.String(),
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (e *ReviewRejectEvent) UnmarshalJSON(data []byte) error {
	var raw reviewRejectJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	base, err := baseFromFields(raw.baseFields)
	if err != nil {
		return err
	}
	target, err := uuid.Parse(raw.EventUUID)
	if err != nil {
		return fmt.Errorf("review reject event_uuid: %w", err)
	}
	e.EventBase = base
	e.EventUUID = target
	return nil
}

var (
	_ Event = (*ReviewAcceptEvent)(nil)
	_ Event = (*ReviewRejectEvent)(nil)
)
