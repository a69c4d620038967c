package ledger

import (
	"encoding/json"
)

// ObjectCreateEvent registers a new Object (always at version 0).
type ObjectCreateEvent struct {
	EventBase
	Object Object
}

// NewObjectCreateEvent builds an ObjectCreateEvent authored by author.
func NewObjectCreateEvent(object Object, author string) *ObjectCreateEvent {
	return &ObjectCreateEvent{EventBase: newBase(author), Object: object}
}

func (e *ObjectCreateEvent) Kind() Kind { return KindObjectCreate }

// SigningBytes implements Event.
func (e *ObjectCreateEvent) SigningBytes() ([]byte, error) {
	objBytes, err := e.Object.SigningBytes()
	if err != nil {
		return nil, err
	}
	buf := e.signingBytes()
	buf = appendU8(buf, uint8(ActionCreate))
	buf = append(buf, objBytes...)
	return buf, nil
}

type objectCreateJSON struct {
	baseFields
	Action uint8  `json:"action"`
	Object Object `json:"object"`
}

// MarshalJSON implements json.Marshaler.
func (e ObjectCreateEvent) MarshalJSON() ([]byte, error) {
	return json.Marshal(objectCreateJSON{
		baseFields: e.toFields(KindObjectCreate),
		Action:     uint8(ActionCreate),
		Object:     e.Object,
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (e *ObjectCreateEvent) UnmarshalJSON(data []byte) error {
	var raw objectCreateJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	base, err := baseFromFields(raw.baseFields)
	if err != nil {
		return err
	}
	e.EventBase = base
	e.Object = raw.Object
	return nil
}

// ObjectUpdateEvent publishes a new version of an existing Object.
type ObjectUpdateEvent struct {
	EventBase
	Object Object
}

// NewObjectUpdateEvent builds an ObjectUpdateEvent authored by author.
func NewObjectUpdateEvent(object Object, author string) *ObjectUpdateEvent {
	return &ObjectUpdateEvent{EventBase: newBase(author), Object: object}
}

func (e *ObjectUpdateEvent) Kind() Kind { return KindObjectUpdate }

// SigningBytes implements Event.
func (e *ObjectUpdateEvent) SigningBytes() ([]byte, error) {
	objBytes, err := e.Object.SigningBytes()
	if err != nil {
		return nil, err
	}
	buf := e.signingBytes()
	buf = appendU8(buf, uint8(ActionUpdate))
	buf = append(buf, objBytes...)
	return buf, nil
}

type objectUpdateJSON struct {
	baseFields
	Action uint8  `json:"action"`
	Object Object `json:"object"`
}

// MarshalJSON implements json.Marshaler.
func (e ObjectUpdateEvent) MarshalJSON() ([]byte, error) {
	return json.Marshal(objectUpdateJSON{
		baseFields: e.toFields(KindObjectUpdate),
		Action:     uint8(ActionUpdate),
		Object:     e.Object,
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (e *ObjectUpdateEvent) UnmarshalJSON(data []byte) error {
	var raw objectUpdateJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	base, err := baseFromFields(raw.baseFields)
	if err != nil {
		return err
	}
	e.EventBase = base
	e.Object = raw.Object
	return nil
}

// ObjectDeleteEvent retires an Object version (tombstone; does not purge the
// blob immediately — spec.md's explicit purge remains a separate operation).
type ObjectDeleteEvent struct {
	EventBase
	ObjectIdentifier Identifier
}

// NewObjectDeleteEvent builds an ObjectDeleteEvent authored by author.
func NewObjectDeleteEvent(id Identifier, author string) *ObjectDeleteEvent {
	return &ObjectDeleteEvent{EventBase: newBase(author), ObjectIdentifier: id}
}

func (e *ObjectDeleteEvent) Kind() Kind { return KindObjectDelete }

// SigningBytes implements Event.
func (e *ObjectDeleteEvent) SigningBytes() ([]byte, error) {
	buf := e.signingBytes()
	buf = appendU8(buf, uint8(ActionDelete))
	buf = append(buf, e.ObjectIdentifier.SigningBytes()...)
	return buf, nil
}

type objectDeleteJSON struct {
	baseFields
	Action           uint8      `json:"action"`
	ObjectIdentifier Identifier `json:"object_identifier"`
}

// MarshalJSON implements json.Marshaler.
func (e ObjectDeleteEvent) MarshalJSON() ([]byte, error) {
	return json.Marshal(objectDeleteJSON{
		baseFields:       e.toFields(KindObjectDelete),
		Action:           uint8(ActionDelete),
		ObjectIdentifier: e.ObjectIdentifier,
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (e *ObjectDeleteEvent) UnmarshalJSON(data []byte) error {
	var raw objectDeleteJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	base, err := baseFromFields(raw.baseFields)
	if err != nil {
		return err
	}
	e.EventBase = base
	e.ObjectIdentifier = raw.ObjectIdentifier
	return nil
}

var (
	_ Event = (*ObjectCreateEvent)(nil)
	_ Event = (*ObjectUpdateEvent)(nil)
	_ Event = (*ObjectDeleteEvent)(nil)
)
