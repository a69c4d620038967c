package state

import (
	"github.com/google/uuid"

	"github.com/kvshepherd-labs/ledgerkeep/internal/ledger"
)

// SchemaInfo is a lightweight summary of a schema object, ported from
// interfaces.py's SchemaInfo: enough to list a dataset's schemas without
// paying for the full Object payload on every entry.
type SchemaInfo struct {
	Name     string
	UUID     uuid.UUID
	Versions int
}

// ObjectInfo is a lightweight summary of an object's version history,
// ported from interfaces.py's ObjectInfo.
type ObjectInfo struct {
	UUID     uuid.UUID
	Versions int
}

// AnnotationInfo is a lightweight summary of an annotation's version
// history, ported from interfaces.py's AnnotationInfo.
type AnnotationInfo struct {
	UUID     uuid.UUID
	Versions int
}

// EventInfo is a lightweight summary of a logged event, ported from
// interfaces.py's EventInfo. Review is nil while the event is still
// pending, "accepted" or "rejected" once a review event resolves it.
type EventInfo struct {
	UUID   uuid.UUID
	Kind   ledger.Kind
	Review *string
}

// ReviewAccepted and ReviewRejected are the two resolved EventInfo.Review
// values; a nil Review means the event is still pending.
const (
	ReviewAccepted = "accepted"
	ReviewRejected = "rejected"
)
