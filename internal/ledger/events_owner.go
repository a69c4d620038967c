package ledger

import "encoding/json"

// OwnerAddEvent adds an owner to the dataset's owner roster. The owner's
// rank is its insertion order: the first OwnerAddEvent to succeed names the
// highest-ranked (rank 0) owner.
type OwnerAddEvent struct {
	EventBase
	Owner string
}

// NewOwnerAddEvent builds an OwnerAddEvent authored by author.
func NewOwnerAddEvent(owner, author string) *OwnerAddEvent {
	return &OwnerAddEvent{EventBase: newBase(author), Owner: owner}
}

func (e *OwnerAddEvent) Kind() Kind { return KindOwnerAdd }

// SigningBytes implements Event.
func (e *OwnerAddEvent) SigningBytes() ([]byte, error) {
	buf := e.signingBytes()
	buf = append(buf, []byte(e.Owner)...)
	buf = appendU8(buf, uint8(OwnerActionAdd))
	return buf, nil
}

type ownerAddJSON struct {
	baseFields
	Owner       string `json:"owner"`
	OwnerAction uint8  `json:"owner_action"`
}

// MarshalJSON implements json.Marshaler.
func (e OwnerAddEvent) MarshalJSON() ([]byte, error) {
	return json.Marshal(ownerAddJSON{
		baseFields:  e.toFields(KindOwnerAdd),
		Owner:       e.Owner,
		OwnerAction: uint8(OwnerActionAdd),
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (e *OwnerAddEvent) UnmarshalJSON(data []byte) error {
	var raw ownerAddJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	base, err := baseFromFields(raw.baseFields)
	if err != nil {
		return err
	}
	e.EventBase = base
	e.Owner = raw.Owner
	return nil
}

// OwnerRemoveEvent removes an owner from the dataset's owner roster. A
// lower-ranked owner (larger rank index) cannot remove a higher-ranked one
// (smaller rank index); the state validator enforces this.
type OwnerRemoveEvent struct {
	EventBase
	Owner string
}

// NewOwnerRemoveEvent builds an OwnerRemoveEvent authored by author.
func NewOwnerRemoveEvent(owner, author string) *OwnerRemoveEvent {
	return &OwnerRemoveEvent{EventBase: newBase(author), Owner: owner}
}

func (e *OwnerRemoveEvent) Kind() Kind { return KindOwnerRemove }

// SigningBytes implements Event.
func (e *OwnerRemoveEvent) SigningBytes() ([]byte, error) {
	buf := e.signingBytes()
	buf = append(buf, []byte(e.Owner)...)
	buf = appendU8(buf, uint8(OwnerActionRemove))
	return buf, nil
}

type ownerRemoveJSON struct {
	baseFields
	Owner       string `json:"owner"`
	OwnerAction uint8  `json:"owner_action"`
}

// MarshalJSON implements json.Marshaler.
func (e OwnerRemoveEvent) MarshalJSON() ([]byte, error) {
	return json.Marshal(ownerRemoveJSON{
		baseFields:  e.toFields(KindOwnerRemove),
		Owner:       e.Owner,
		OwnerAction: uint8(OwnerActionRemove),
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (e *OwnerRemoveEvent) UnmarshalJSON(data []byte) error {
	var raw ownerRemoveJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	base, err := baseFromFields(raw.baseFields)
	if err != nil {
		return err
	}
	e.EventBase = base
	e.Owner = raw.Owner
	return nil
}

var (
	_ Event = (*OwnerAddEvent)(nil)
	_ Event = (*OwnerRemoveEvent)(nil)
)
