package ledger

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Action distinguishes create/update/delete for object and annotation
// events. Bitmask-valued so a future event could reference a combination,
// though no event kind currently does.
type Action uint8

// Supported actions.
const (
	ActionCreate Action = 1 << 0
	ActionUpdate Action = 1 << 1
	ActionDelete Action = 1 << 2
)

func (a Action) String() string {
	switch a {
	case ActionCreate:
		return "CREATE"
	case ActionUpdate:
		return "UPDATE"
	case ActionDelete:
		return "DELETE"
	default:
		return fmt.Sprintf("Action(%d)", uint8(a))
	}
}

// Decision distinguishes accept/reject for review events.
type Decision uint8

// Supported decisions.
const (
	DecisionAccept Decision = 1 << 0
	DecisionReject Decision = 1 << 1
)

func (d Decision) String() string {
	switch d {
	case DecisionAccept:
		return "ACCEPT"
	case DecisionReject:
		return "REJECT"
	default:
		return fmt.Sprintf("Decision(%d)", uint8(d))
	}
}

// OwnerAction distinguishes add/remove for owner events.
type OwnerAction uint8

// Supported owner actions.
const (
	OwnerActionAdd    OwnerAction = 1 << 0
	OwnerActionRemove OwnerAction = 1 << 1
)

func (o OwnerAction) String() string {
	switch o {
	case OwnerActionAdd:
		return "ADD"
	case OwnerActionRemove:
		return "REMOVE"
	default:
		return fmt.Sprintf("OwnerAction(%d)", uint8(o))
	}
}

// Kind discriminates the ten concrete event types. It is the JSON "type"
// tag and the switch key every validator/consumer dispatches on.
type Kind string

// Event kinds.
const (
	KindObjectCreate     Kind = "object_create"
	KindObjectUpdate     Kind = "object_update"
	KindObjectDelete     Kind = "object_delete"
	KindAnnotationCreate Kind = "annotation_create"
	KindAnnotationUpdate Kind = "annotation_update"
	KindAnnotationDelete Kind = "annotation_delete"
	KindReviewAccept     Kind = "review_accept"
	KindReviewReject     Kind = "review_reject"
	KindOwnerAdd         Kind = "owner_add"
	KindOwnerRemove      Kind = "owner_remove"
)

// Event is the common interface implemented by all ten event kinds. Every
// stage of the pipeline (field validation, record keeping, integrity,
// schema validation, state projection) type-switches on Kind() rather than
// using a runtime dispatch table.
type Event interface {
	// Kind identifies the concrete event type.
	Kind() Kind
	// Base returns the fields common to every event.
	Base() *EventBase
	// SigningBytes returns the canonical byte representation covered by a
	// signature or hash chain link.
	SigningBytes() ([]byte, error)
}

// EventBase holds the fields every event carries: its own identity, when it
// was recorded, the integrity bytes (signature or hash chain link), and who
// authored it.
type EventBase struct {
	UUID      uuid.UUID
	Timestamp time.Time
	Integrity []byte // nil until a HashChainLinker or Signer fills it in
	Author    string
}

// Base implements part of Event for embedders.
func (b *EventBase) Base() *EventBase { return b }

// signingBytes returns the bytes shared by every event: uuid ++ timestamp
// text formatted with timestampLayout (microsecond precision).
func (b *EventBase) signingBytes() []byte {
	ts := []byte(b.Timestamp.UTC().Format(timestampLayout))
	buf := make([]byte, 0, 16+len(ts))
	buf = append(buf, b.UUID[:]...)
	buf = append(buf, ts...)
	return buf
}

// timestampLayout matches the original implementation's ISO-8601 UTC
// "...Z" timestamp text so signing bytes are stable across re-encoding.
const timestampLayout = "2006-01-02T15:04:05.000000Z"

func newBase(author string) EventBase {
	return EventBase{
		UUID:      uuid.New(),
		Timestamp: time.Now().UTC(),
		Author:    author,
	}
}

func appendU8(buf []byte, v uint8) []byte {
	return append(buf, v)
}
