package ledger

import "encoding/json"

// AnnotationCreateEvent registers a new Annotation (always at version 0),
// attached to one or more objects.
type AnnotationCreateEvent struct {
	EventBase
	ObjectIdentifiers []Identifier
	Annotation        Annotation
}

// NewAnnotationCreateEvent builds an AnnotationCreateEvent authored by author.
func NewAnnotationCreateEvent(objectIDs []Identifier, annotation Annotation, author string) *AnnotationCreateEvent {
	return &AnnotationCreateEvent{
		EventBase:         newBase(author),
		ObjectIdentifiers: objectIDs,
		Annotation:        annotation,
	}
}

func (e *AnnotationCreateEvent) Kind() Kind { return KindAnnotationCreate }

// SigningBytes implements Event.
func (e *AnnotationCreateEvent) SigningBytes() ([]byte, error) {
	buf := e.signingBytes()
	buf = appendU8(buf, uint8(ActionCreate))
	for _, id := range e.ObjectIdentifiers {
		buf = append(buf, id.SigningBytes()...)
	}
	annBytes, err := e.Annotation.SigningBytes()
	if err != nil {
		return nil, err
	}
	buf = append(buf, annBytes...)
	return buf, nil
}

type annotationCreateJSON struct {
	baseFields
	Action            uint8        `json:"action"`
	ObjectIdentifiers []Identifier `json:"object_identifiers"`
	Annotation        Annotation   `json:"annotation"`
}

// MarshalJSON implements json.Marshaler.
func (e AnnotationCreateEvent) MarshalJSON() ([]byte, error) {
	return json.Marshal(annotationCreateJSON{
		baseFields:        e.toFields(KindAnnotationCreate),
		Action:            uint8(ActionCreate),
		ObjectIdentifiers: e.ObjectIdentifiers,
		Annotation:        e.Annotation,
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (e *AnnotationCreateEvent) UnmarshalJSON(data []byte) error {
	var raw annotationCreateJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	base, err := baseFromFields(raw.baseFields)
	if err != nil {
		return err
	}
	e.EventBase = base
	e.ObjectIdentifiers = raw.ObjectIdentifiers
	e.Annotation = raw.Annotation
	return nil
}

// AnnotationUpdateEvent publishes a new version of an existing Annotation.
// As with ObjectUpdateEvent, a version other than the current version count
// is rejected by the state validator (KindVersionMismatch).
type AnnotationUpdateEvent struct {
	EventBase
	Annotation Annotation
}

// NewAnnotationUpdateEvent builds an AnnotationUpdateEvent authored by author.
func NewAnnotationUpdateEvent(annotation Annotation, author string) *AnnotationUpdateEvent {
	return &AnnotationUpdateEvent{EventBase: newBase(author), Annotation: annotation}
}

func (e *AnnotationUpdateEvent) Kind() Kind { return KindAnnotationUpdate }

// SigningBytes implements Event.
func (e *AnnotationUpdateEvent) SigningBytes() ([]byte, error) {
	annBytes, err := e.Annotation.SigningBytes()
	if err != nil {
		return nil, err
	}
	buf := e.signingBytes()
	buf = appendU8(buf, uint8(ActionUpdate))
	buf = append(buf, annBytes...)
	return buf, nil
}

type annotationUpdateJSON struct {
	baseFields
	Action     uint8      `json:"action"`
	Annotation Annotation `json:"annotation"`
}

// MarshalJSON implements json.Marshaler.
func (e AnnotationUpdateEvent) MarshalJSON() ([]byte, error) {
	return json.Marshal(annotationUpdateJSON{
		baseFields: e.toFields(KindAnnotationUpdate),
		Action:     uint8(ActionUpdate),
		Annotation: e.Annotation,
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (e *AnnotationUpdateEvent) UnmarshalJSON(data []byte) error {
	var raw annotationUpdateJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	base, err := baseFromFields(raw.baseFields)
	if err != nil {
		return err
	}
	e.EventBase = base
	e.Annotation = raw.Annotation
	return nil
}

// AnnotationDeleteEvent retires an Annotation version.
type AnnotationDeleteEvent struct {
	EventBase
	AnnotationIdentifier Identifier
}

// NewAnnotationDeleteEvent builds an AnnotationDeleteEvent authored by author.
func NewAnnotationDeleteEvent(id Identifier, author string) *AnnotationDeleteEvent {
	return &AnnotationDeleteEvent{EventBase: newBase(author), AnnotationIdentifier: id}
}

func (e *AnnotationDeleteEvent) Kind() Kind { return KindAnnotationDelete }

// SigningBytes implements Event.
func (e *AnnotationDeleteEvent) SigningBytes() ([]byte, error) {
	buf := e.signingBytes()
	buf = appendU8(buf, uint8(ActionDelete))
	buf = append(buf, e.AnnotationIdentifier.SigningBytes()...)
	return buf, nil
}

type annotationDeleteJSON struct {
	baseFields
	Action               uint8      `json:"action"`
	AnnotationIdentifier Identifier `json:"annotation_identifier"`
}

// MarshalJSON implements json.Marshaler.
func (e AnnotationDeleteEvent) MarshalJSON() ([]byte, error) {
	return json.Marshal(annotationDeleteJSON{
		baseFields:           e.toFields(KindAnnotationDelete),
		Action:               uint8(ActionDelete),
		AnnotationIdentifier: e.AnnotationIdentifier,
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (e *AnnotationDeleteEvent) UnmarshalJSON(data []byte) error {
	var raw annotationDeleteJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	base, err := baseFromFields(raw.baseFields)
	if err != nil {
		return err
	}
	e.EventBase = base
	e.AnnotationIdentifier = raw.AnnotationIdentifier
	return nil
}

var (
	_ Event = (*AnnotationCreateEvent)(nil)
	_ Event = (*AnnotationUpdateEvent)(nil)
	_ Event = (*AnnotationDeleteEvent)(nil)
)
