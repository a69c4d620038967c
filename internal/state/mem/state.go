// Package mem implements state.State in memory: the full set of derived
// indexes spec.md §4.5 names (version lists, schema registry, status
// tracking, the object/annotation link graph, the owner roster) plus the
// business-rule Validator that reads them.
//
// Grounded on _examples/original_source/memstate.py (IdentifierUUIDLink,
// State, StateConsumer) and _examples/original_source/core.py's
// StateValidator, restated as a single Go type implementing the
// state.State interface — the Python split between a read-only State and
// a separate StateConsumer collapses naturally here since both sides share
// one mutex-guarded struct.
package mem

import (
	"sync"

	"github.com/google/uuid"

	"github.com/kvshepherd-labs/ledgerkeep/internal/ledger"
	"github.com/kvshepherd-labs/ledgerkeep/internal/pkg/errors"
	"github.com/kvshepherd-labs/ledgerkeep/internal/recordkeeper"
	"github.com/kvshepherd-labs/ledgerkeep/internal/state"
)

type reviewLink struct {
	reviewUUID uuid.UUID
	accepted   bool
}

// State is an in-memory state.State.
type State struct {
	mu sync.Mutex

	recordKeeper recordkeeper.RecordKeeper

	objectVersions  map[uuid.UUID][]ledger.Object
	objectOrder     []uuid.UUID
	objectOrderIdx  map[uuid.UUID]int
	objectHashOwner map[string]uuid.UUID

	annotationVersions map[uuid.UUID][]ledger.Annotation
	annotationOrder    []uuid.UUID
	annotationOrderIdx map[uuid.UUID]int

	schemaNames map[string]uuid.UUID
	schemaUUIDs map[uuid.UUID]string

	entityStatus map[ledger.Identifier]state.StatusSet
	pendingEvents map[uuid.UUID]struct{}

	objectAnnotationLink *link[ledger.Identifier, uuid.UUID]
	entityEventLink       *link[ledger.Identifier, uuid.UUID]
	eventReviewLink       map[uuid.UUID]reviewLink

	owners    []string
	ownerRank map[string]int
}

var _ state.State = (*State)(nil)

// New constructs an empty in-memory State. rk is used to read back the
// target event of a ReviewAccept/ReviewReject — the projection needs the
// target's entity identifier and action, which only the log itself holds.
func New(rk recordkeeper.RecordKeeper) *State {
	return &State{
		recordKeeper:       rk,
		objectVersions:     make(map[uuid.UUID][]ledger.Object),
		objectOrderIdx:     make(map[uuid.UUID]int),
		objectHashOwner:    make(map[string]uuid.UUID),
		annotationVersions: make(map[uuid.UUID][]ledger.Annotation),
		annotationOrderIdx: make(map[uuid.UUID]int),
		schemaNames:        make(map[string]uuid.UUID),
		schemaUUIDs:        make(map[uuid.UUID]string),
		entityStatus:       make(map[ledger.Identifier]state.StatusSet),
		pendingEvents:      make(map[uuid.UUID]struct{}),
		objectAnnotationLink: newLink[ledger.Identifier, uuid.UUID](),
		entityEventLink:      newLink[ledger.Identifier, uuid.UUID](),
		eventReviewLink:      make(map[uuid.UUID]reviewLink),
		ownerRank:            make(map[string]int),
	}
}

// Validate implements state.State.
func (s *State) Validate(event ledger.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch e := event.(type) {
	case *ledger.ObjectCreateEvent:
		return s.validateObjectCreate(e)
	case *ledger.ObjectUpdateEvent:
		return s.validateObjectUpdate(e)
	case *ledger.ObjectDeleteEvent:
		return s.validateObjectDelete(e)
	case *ledger.AnnotationCreateEvent:
		return s.validateAnnotationCreate(e)
	case *ledger.AnnotationUpdateEvent:
		return s.validateAnnotationUpdate(e)
	case *ledger.AnnotationDeleteEvent:
		return s.validateAnnotationDelete(e)
	case *ledger.ReviewAcceptEvent:
		return s.validateReview(e.EventBase, e.EventUUID)
	case *ledger.ReviewRejectEvent:
		return s.validateReview(e.EventBase, e.EventUUID)
	case *ledger.OwnerAddEvent:
		return s.validateOwnerAdd(e)
	case *ledger.OwnerRemoveEvent:
		return s.validateOwnerRemove(e)
	default:
		return errors.NewValidation(errors.KindUnreachable, "unhandled event kind in state validator")
	}
}

func (s *State) validateObjectCreate(e *ledger.ObjectCreateEvent) error {
	obj := e.Object
	if ledger.IsSchemaName(obj.Name) && s.schemaExistsLocked(obj.Name) {
		return errors.NewValidation(errors.KindDuplicateName, "schema name already in use")
	}
	if _, ok := s.objectVersions[obj.UUID]; ok {
		return errors.NewValidation(errors.KindDuplicateUUID, "UUID already exists in object store")
	}
	if obj.Version != 0 {
		return errors.NewValidation(errors.KindVersionMismatch, "object version must be zero in create event")
	}
	if owner, ok := s.objectHashOwner[obj.Hash]; ok && owner != obj.UUID {
		return errors.NewValidation(errors.KindDuplicateHash, "hash already used by another object")
	}
	return nil
}

func (s *State) validateObjectUpdate(e *ledger.ObjectUpdateEvent) error {
	obj := e.Object
	versions, ok := s.objectVersions[obj.UUID]
	if !ok {
		return errors.NewValidation(errors.KindNotFound, "UUID not found in object store")
	}
	if obj.Version != uint64(len(versions)) {
		return errors.NewValidation(errors.KindVersionMismatch, "object version should be %d", len(versions))
	}

	tail := versions[len(versions)-1]
	if ledger.IsSchemaName(tail.Name) {
		if !ledger.IsSchemaName(obj.Name) || obj.Name != tail.Name {
			return errors.NewValidation(errors.KindSchemaImmutable, "schema names may not change")
		}
	} else if ledger.IsSchemaName(obj.Name) {
		return errors.NewValidation(errors.KindSchemaImmutable, "a non-schema object may not become a schema")
	}

	if obj.Hash == tail.Hash {
		return errors.NewValidation(errors.KindDuplicateHash, "hash unchanged from prior version")
	}
	if owner, ok := s.objectHashOwner[obj.Hash]; ok && owner != obj.UUID {
		return errors.NewValidation(errors.KindDuplicateHash, "hash already used by another object")
	}
	return nil
}

func (s *State) validateObjectDelete(e *ledger.ObjectDeleteEvent) error {
	id := e.ObjectIdentifier
	if s.schemaExistsByUUIDLocked(id.UUID) {
		return errors.NewValidation(errors.KindSchemaImmutable, "schemas can not be deleted")
	}

	versions, ok := s.objectVersions[id.UUID]
	if !ok || id.Version >= uint64(len(versions)) {
		return errors.NewValidation(errors.KindNotFound, "object identifier not found")
	}

	status := s.entityStatus[id]
	switch {
	case status.Has(state.StatusCreateRejected):
		return errors.NewValidation(errors.KindStatus, "cannot delete a rejected object")
	case status.Has(state.StatusDeletePending):
		return errors.NewValidation(errors.KindStatus, "object version pending deletion")
	case status.Has(state.StatusDeleteAccepted):
		return errors.NewValidation(errors.KindStatus, "object version already deleted")
	}
	return nil
}

func (s *State) validateAnnotationCreate(e *ledger.AnnotationCreateEvent) error {
	ann := e.Annotation
	if _, ok := s.annotationVersions[ann.UUID]; ok {
		return errors.NewValidation(errors.KindDuplicateUUID, "UUID already exists in annotation store")
	}
	if ann.Version != 0 {
		return errors.NewValidation(errors.KindVersionMismatch, "annotation version must be zero in create event")
	}

	for _, objID := range e.ObjectIdentifiers {
		obj, ok := s.objectLocked(objID)
		if !ok {
			return errors.NewValidation(errors.KindNotFound, "object identifier not found in object store")
		}
		status := s.entityStatus[objID]
		switch {
		case status.Has(state.StatusCreateRejected):
			return errors.NewValidation(errors.KindStatus, "rejected objects cannot be annotated")
		case status.Has(state.StatusDeleteAccepted):
			return errors.NewValidation(errors.KindStatus, "deleted objects cannot be annotated")
		}
		if obj.IsSchema() {
			return errors.NewValidation(errors.KindStatus, "schemas can not be annotated")
		}
	}
	return nil
}

func (s *State) validateAnnotationUpdate(e *ledger.AnnotationUpdateEvent) error {
	ann := e.Annotation
	versions, ok := s.annotationVersions[ann.UUID]
	if !ok {
		return errors.NewValidation(errors.KindNotFound, "UUID not found in annotation store")
	}
	if ann.Version != uint64(len(versions)) {
		return errors.NewValidation(errors.KindVersionMismatch, "annotation version should be %d", len(versions))
	}
	return s.validateLinkedObjectsLive(ann.UUID)
}

func (s *State) validateAnnotationDelete(e *ledger.AnnotationDeleteEvent) error {
	id := e.AnnotationIdentifier
	versions, ok := s.annotationVersions[id.UUID]
	if !ok || id.Version >= uint64(len(versions)) {
		return errors.NewValidation(errors.KindNotFound, "annotation identifier not found")
	}

	status := s.entityStatus[id]
	switch {
	case status.Has(state.StatusCreateRejected):
		return errors.NewValidation(errors.KindStatus, "cannot delete a rejected annotation")
	case status.Has(state.StatusDeletePending):
		return errors.NewValidation(errors.KindStatus, "annotation already pending deletion")
	case status.Has(state.StatusDeleteAccepted):
		return errors.NewValidation(errors.KindStatus, "annotation already deleted")
	}
	return s.validateLinkedObjectsLive(id.UUID)
}

// validateLinkedObjectsLive re-checks the objects an annotation was frozen
// to at creation time, rejecting if any has since been rejected or deleted.
func (s *State) validateLinkedObjectsLive(annotationUUID uuid.UUID) error {
	for _, objID := range s.objectAnnotationLink.byValue(annotationUUID) {
		status := s.entityStatus[objID]
		switch {
		case status.Has(state.StatusCreateRejected):
			return errors.NewValidation(errors.KindStatus, "rejected objects cannot be annotated")
		case status.Has(state.StatusDeleteAccepted):
			return errors.NewValidation(errors.KindStatus, "deleted objects cannot be annotated")
		}
	}
	return nil
}

func (s *State) validateReview(base ledger.EventBase, targetUUID uuid.UUID) error {
	if _, pending := s.pendingEvents[targetUUID]; !pending {
		return errors.NewValidation(errors.KindAlreadyReviewed, "target event not pending")
	}
	if _, linked := s.eventReviewLink[targetUUID]; linked {
		return errors.NewValidation(errors.KindAlreadyReviewed, "target event already has a review")
	}

	target, err := s.recordKeeper.Read(targetUUID)
	if err != nil {
		return err
	}
	switch target.Kind() {
	case ledger.KindObjectCreate, ledger.KindObjectUpdate, ledger.KindObjectDelete,
		ledger.KindAnnotationCreate, ledger.KindAnnotationUpdate, ledger.KindAnnotationDelete:
	default:
		return errors.NewValidation(errors.KindStatus, "target event is not an object or annotation event")
	}

	if _, ok := s.ownerRank[base.Author]; !ok {
		return errors.NewValidation(errors.KindNotAnOwner, "review event from non-owner")
	}
	return nil
}

func (s *State) validateOwnerAdd(e *ledger.OwnerAddEvent) error {
	if _, ok := s.ownerRank[e.Owner]; ok {
		return errors.NewValidation(errors.KindOwnerRoster, "owner already present")
	}
	if len(s.owners) > 0 {
		if _, ok := s.ownerRank[e.Author]; !ok {
			return errors.NewValidation(errors.KindNotAnOwner, "only owners can add owners")
		}
	} else if e.Owner != e.Author {
		return errors.NewValidation(errors.KindOwnerRoster, "first owner add event must be self signed")
	}
	return nil
}

func (s *State) validateOwnerRemove(e *ledger.OwnerRemoveEvent) error {
	if _, ok := s.ownerRank[e.Owner]; !ok {
		return errors.NewValidation(errors.KindOwnerRoster, "owner not present")
	}
	if _, ok := s.ownerRank[e.Author]; !ok {
		return errors.NewValidation(errors.KindNotAnOwner, "only owners can remove owners")
	}
	if len(s.owners) == 1 {
		return errors.NewValidation(errors.KindOwnerRoster, "removing owner would leave the dataset ownerless")
	}
	if s.ownerRank[e.Author] > s.ownerRank[e.Owner] {
		return errors.NewValidation(errors.KindOwnerRank, "cannot remove a higher ranking owner")
	}
	return nil
}

// Consume implements state.State.
func (s *State) Consume(event ledger.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch e := event.(type) {
	case *ledger.ObjectCreateEvent:
		s.consumeObjectCreate(e)
	case *ledger.ObjectUpdateEvent:
		s.consumeObjectUpdate(e)
	case *ledger.ObjectDeleteEvent:
		s.consumeObjectDelete(e)
	case *ledger.AnnotationCreateEvent:
		s.consumeAnnotationCreate(e)
	case *ledger.AnnotationUpdateEvent:
		s.consumeAnnotationUpdate(e)
	case *ledger.AnnotationDeleteEvent:
		s.consumeAnnotationDelete(e)
	case *ledger.ReviewAcceptEvent:
		return s.consumeReview(e.EventBase, e.EventUUID, true)
	case *ledger.ReviewRejectEvent:
		return s.consumeReview(e.EventBase, e.EventUUID, false)
	case *ledger.OwnerAddEvent:
		s.consumeOwnerAdd(e)
	case *ledger.OwnerRemoveEvent:
		s.consumeOwnerRemove(e)
	default:
		return errors.NewValidation(errors.KindUnreachable, "unhandled event kind in state consumer")
	}
	return nil
}

func (s *State) consumeObjectCreate(e *ledger.ObjectCreateEvent) {
	obj := e.Object
	s.objectVersions[obj.UUID] = []ledger.Object{obj}
	s.objectOrderIdx[obj.UUID] = len(s.objectOrder)
	s.objectOrder = append(s.objectOrder, obj.UUID)
	s.objectHashOwner[obj.Hash] = obj.UUID
	if obj.IsSchema() {
		s.schemaNames[obj.Name] = obj.UUID
		s.schemaUUIDs[obj.UUID] = obj.Name
	}

	id := obj.Identifier()
	s.entityStatus[id] = state.NewStatusSet(state.StatusCreatePending)
	s.pendingEvents[e.UUID] = struct{}{}
	s.entityEventLink.add(id, e.UUID)
}

func (s *State) consumeObjectUpdate(e *ledger.ObjectUpdateEvent) {
	obj := e.Object
	s.objectVersions[obj.UUID] = append(s.objectVersions[obj.UUID], obj)
	s.objectHashOwner[obj.Hash] = obj.UUID
	if obj.IsSchema() {
		s.schemaNames[obj.Name] = obj.UUID
	}

	id := obj.Identifier()
	s.entityStatus[id] = state.NewStatusSet(state.StatusCreatePending)
	s.pendingEvents[e.UUID] = struct{}{}
	s.entityEventLink.add(id, e.UUID)
}

func (s *State) consumeObjectDelete(e *ledger.ObjectDeleteEvent) {
	id := e.ObjectIdentifier
	status, ok := s.entityStatus[id]
	if !ok {
		status = state.NewStatusSet()
		s.entityStatus[id] = status
	}
	status.Add(state.StatusDeletePending)
	s.pendingEvents[e.UUID] = struct{}{}
	s.entityEventLink.add(id, e.UUID)
}

func (s *State) consumeAnnotationCreate(e *ledger.AnnotationCreateEvent) {
	ann := e.Annotation
	s.annotationVersions[ann.UUID] = []ledger.Annotation{ann}
	s.annotationOrderIdx[ann.UUID] = len(s.annotationOrder)
	s.annotationOrder = append(s.annotationOrder, ann.UUID)

	for _, objID := range e.ObjectIdentifiers {
		s.objectAnnotationLink.add(objID, ann.UUID)
	}

	id := ann.Identifier()
	s.entityStatus[id] = state.NewStatusSet(state.StatusCreatePending)
	s.pendingEvents[e.UUID] = struct{}{}
	s.entityEventLink.add(id, e.UUID)
}

func (s *State) consumeAnnotationUpdate(e *ledger.AnnotationUpdateEvent) {
	ann := e.Annotation
	s.annotationVersions[ann.UUID] = append(s.annotationVersions[ann.UUID], ann)

	id := ann.Identifier()
	s.entityStatus[id] = state.NewStatusSet(state.StatusCreatePending)
	s.pendingEvents[e.UUID] = struct{}{}
	s.entityEventLink.add(id, e.UUID)
}

func (s *State) consumeAnnotationDelete(e *ledger.AnnotationDeleteEvent) {
	id := e.AnnotationIdentifier
	status, ok := s.entityStatus[id]
	if !ok {
		status = state.NewStatusSet()
		s.entityStatus[id] = status
	}
	status.Add(state.StatusDeletePending)
	s.pendingEvents[e.UUID] = struct{}{}
	s.entityEventLink.add(id, e.UUID)
}

// consumeReview resolves the pending target event identified by targetUUID.
// It reads the target event back from the RecordKeeper to recover which
// entity identifier it named and whether it was a create/update or a
// delete, mirroring memstate.py's StateConsumer._consume_review_accept.
func (s *State) consumeReview(base ledger.EventBase, targetUUID uuid.UUID, accepted bool) error {
	target, err := s.recordKeeper.Read(targetUUID)
	if err != nil {
		return err
	}

	var id ledger.Identifier
	isDelete := false
	switch t := target.(type) {
	case *ledger.ObjectCreateEvent:
		id = t.Object.Identifier()
	case *ledger.ObjectUpdateEvent:
		id = t.Object.Identifier()
	case *ledger.ObjectDeleteEvent:
		id = t.ObjectIdentifier
		isDelete = true
	case *ledger.AnnotationCreateEvent:
		id = t.Annotation.Identifier()
	case *ledger.AnnotationUpdateEvent:
		id = t.Annotation.Identifier()
	case *ledger.AnnotationDeleteEvent:
		id = t.AnnotationIdentifier
		isDelete = true
	default:
		return errors.NewValidation(errors.KindUnreachable, "review target has unexpected event kind")
	}

	status := s.entityStatus[id]
	if status == nil {
		status = state.NewStatusSet()
		s.entityStatus[id] = status
	}

	if isDelete {
		status.Remove(state.StatusDeletePending)
		if accepted {
			status.Add(state.StatusDeleteAccepted)
		}
	} else {
		status.Remove(state.StatusCreatePending)
		if !accepted {
			status.Add(state.StatusCreateRejected)
		}
	}

	delete(s.pendingEvents, targetUUID)
	s.eventReviewLink[targetUUID] = reviewLink{reviewUUID: base.UUID, accepted: accepted}
	s.entityEventLink.add(id, base.UUID)
	return nil
}

func (s *State) consumeOwnerAdd(e *ledger.OwnerAddEvent) {
	s.ownerRank[e.Owner] = len(s.owners)
	s.owners = append(s.owners, e.Owner)
}

func (s *State) consumeOwnerRemove(e *ledger.OwnerRemoveEvent) {
	idx, ok := s.ownerRank[e.Owner]
	if !ok {
		return
	}
	s.owners = append(s.owners[:idx], s.owners[idx+1:]...)
	delete(s.ownerRank, e.Owner)
	for i := idx; i < len(s.owners); i++ {
		s.ownerRank[s.owners[i]] = i
	}
}

func (s *State) schemaExistsLocked(name string) bool {
	_, ok := s.schemaNames[name]
	return ok
}

func (s *State) schemaExistsByUUIDLocked(u uuid.UUID) bool {
	_, ok := s.schemaUUIDs[u]
	return ok
}

func (s *State) objectLocked(id ledger.Identifier) (ledger.Object, bool) {
	versions, ok := s.objectVersions[id.UUID]
	if !ok || id.Version >= uint64(len(versions)) {
		return ledger.Object{}, false
	}
	return versions[id.Version], true
}

// ObjectExists implements state.State.
func (s *State) ObjectExists(id ledger.Identifier) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.objectLocked(id)
	return ok
}

// ObjectVersions implements state.State.
func (s *State) ObjectVersions(id uuid.UUID) ([]ledger.Object, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	versions, ok := s.objectVersions[id]
	if !ok {
		return nil, false
	}
	out := make([]ledger.Object, len(versions))
	copy(out, versions)
	return out, true
}

// Object implements state.State.
func (s *State) Object(id ledger.Identifier) (ledger.Object, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.objectLocked(id)
}

func cursorStart(order []uuid.UUID, index map[uuid.UUID]int, after *uuid.UUID) int {
	if after == nil {
		return 0
	}
	idx, ok := index[*after]
	if !ok {
		return len(order)
	}
	return idx + 1
}

// ObjectsAll implements state.State.
func (s *State) ObjectsAll(after *uuid.UUID) []ledger.Object {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := cursorStart(s.objectOrder, s.objectOrderIdx, after)
	end := start + state.PageSize
	if end > len(s.objectOrder) {
		end = len(s.objectOrder)
	}

	out := make([]ledger.Object, 0, end-start)
	for _, u := range s.objectOrder[start:end] {
		versions := s.objectVersions[u]
		out = append(out, versions[len(versions)-1])
	}
	return out
}

// ObjectsByStatus implements state.State.
func (s *State) ObjectsByStatus(status state.Status, after *uuid.UUID) []ledger.Object {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := cursorStart(s.objectOrder, s.objectOrderIdx, after)
	var out []ledger.Object
	for i := start; i < len(s.objectOrder) && len(out) < state.PageSize; i++ {
		versions := s.objectVersions[s.objectOrder[i]]
		if status == state.StatusDeprecated {
			for vi := 0; vi < len(versions)-1 && len(out) < state.PageSize; vi++ {
				if len(s.entityStatus[versions[vi].Identifier()]) == 0 {
					out = append(out, versions[vi])
				}
			}
			continue
		}

		latest := versions[len(versions)-1]
		st := s.entityStatus[latest.Identifier()]
		if status == state.StatusAccepted {
			if len(st) == 0 {
				out = append(out, latest)
			}
			continue
		}
		if st.Has(status) {
			out = append(out, latest)
		}
	}
	return out
}

// ObjectsByAnnotation implements state.State.
func (s *State) ObjectsByAnnotation(annotationUUID uuid.UUID) []ledger.Object {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []ledger.Object
	seen := make(map[uuid.UUID]struct{})
	for _, objID := range s.objectAnnotationLink.byValue(annotationUUID) {
		if _, ok := seen[objID.UUID]; ok {
			continue
		}
		seen[objID.UUID] = struct{}{}
		out = append(out, s.objectVersions[objID.UUID]...)
	}
	return out
}

// ObjectStatus implements state.State.
func (s *State) ObjectStatus(id ledger.Identifier) (state.StatusSet, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.entityStatus[id]
	if !ok {
		return nil, false
	}
	return st.Clone(), true
}

func (s *State) annotationLocked(id ledger.Identifier) (ledger.Annotation, bool) {
	versions, ok := s.annotationVersions[id.UUID]
	if !ok || id.Version >= uint64(len(versions)) {
		return ledger.Annotation{}, false
	}
	return versions[id.Version], true
}

// AnnotationExists implements state.State.
func (s *State) AnnotationExists(id ledger.Identifier) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.annotationLocked(id)
	return ok
}

// AnnotationVersions implements state.State.
func (s *State) AnnotationVersions(id uuid.UUID) ([]ledger.Annotation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	versions, ok := s.annotationVersions[id]
	if !ok {
		return nil, false
	}
	out := make([]ledger.Annotation, len(versions))
	copy(out, versions)
	return out, true
}

// Annotation implements state.State.
func (s *State) Annotation(id ledger.Identifier) (ledger.Annotation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.annotationLocked(id)
}

// AnnotationsAll implements state.State.
func (s *State) AnnotationsAll(after *uuid.UUID) []ledger.Annotation {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := cursorStart(s.annotationOrder, s.annotationOrderIdx, after)
	end := start + state.PageSize
	if end > len(s.annotationOrder) {
		end = len(s.annotationOrder)
	}

	out := make([]ledger.Annotation, 0, end-start)
	for _, u := range s.annotationOrder[start:end] {
		versions := s.annotationVersions[u]
		out = append(out, versions[len(versions)-1])
	}
	return out
}

// AnnotationsByStatus implements state.State.
func (s *State) AnnotationsByStatus(status state.Status, after *uuid.UUID) []ledger.Annotation {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := cursorStart(s.annotationOrder, s.annotationOrderIdx, after)
	var out []ledger.Annotation
	for i := start; i < len(s.annotationOrder) && len(out) < state.PageSize; i++ {
		versions := s.annotationVersions[s.annotationOrder[i]]
		if status == state.StatusDeprecated {
			for vi := 0; vi < len(versions)-1 && len(out) < state.PageSize; vi++ {
				if len(s.entityStatus[versions[vi].Identifier()]) == 0 {
					out = append(out, versions[vi])
				}
			}
			continue
		}

		latest := versions[len(versions)-1]
		st := s.entityStatus[latest.Identifier()]
		if status == state.StatusAccepted {
			if len(st) == 0 {
				out = append(out, latest)
			}
			continue
		}
		if st.Has(status) {
			out = append(out, latest)
		}
	}
	return out
}

// AnnotationsByObject implements state.State.
func (s *State) AnnotationsByObject(objectID ledger.Identifier) []ledger.Annotation {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []ledger.Annotation
	for _, annUUID := range s.objectAnnotationLink.byKey(objectID) {
		out = append(out, s.annotationVersions[annUUID]...)
	}
	return out
}

// AnnotationStatus implements state.State.
func (s *State) AnnotationStatus(id ledger.Identifier) (state.StatusSet, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.entityStatus[id]
	if !ok {
		return nil, false
	}
	return st.Clone(), true
}

// SchemaExists implements state.State.
func (s *State) SchemaExists(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.schemaExistsLocked(name)
}

// Schema implements state.State.
func (s *State) Schema(name string) (uuid.UUID, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.schemaNames[name]
	return u, ok
}

// SchemasAll implements state.State.
func (s *State) SchemasAll() map[string]uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]uuid.UUID, len(s.schemaNames))
	for k, v := range s.schemaNames {
		out[k] = v
	}
	return out
}

// SchemasInfo implements state.State.
func (s *State) SchemasInfo() []state.SchemaInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]state.SchemaInfo, 0, len(s.schemaNames))
	for name, u := range s.schemaNames {
		out = append(out, state.SchemaInfo{
			Name:     name,
			UUID:     u,
			Versions: len(s.objectVersions[u]),
		})
	}
	return out
}

// ObjectInfo implements state.State.
func (s *State) ObjectInfo(id uuid.UUID) (state.ObjectInfo, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	versions, ok := s.objectVersions[id]
	if !ok {
		return state.ObjectInfo{}, false
	}
	return state.ObjectInfo{UUID: id, Versions: len(versions)}, true
}

// AnnotationInfo implements state.State.
func (s *State) AnnotationInfo(id uuid.UUID) (state.AnnotationInfo, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	versions, ok := s.annotationVersions[id]
	if !ok {
		return state.AnnotationInfo{}, false
	}
	return state.AnnotationInfo{UUID: id, Versions: len(versions)}, true
}

// EventInfo implements state.State.
func (s *State) EventInfo(id uuid.UUID) (state.EventInfo, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	event, err := s.recordKeeper.Read(id)
	if err != nil {
		return state.EventInfo{}, false
	}

	info := state.EventInfo{UUID: id, Kind: event.Kind()}
	if link, ok := s.eventReviewLink[id]; ok {
		review := state.ReviewRejected
		if link.accepted {
			review = state.ReviewAccepted
		}
		info.Review = &review
	}
	return info, true
}

// Owners implements state.State.
func (s *State) Owners() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.owners))
	copy(out, s.owners)
	return out
}

// OwnerExists implements state.State.
func (s *State) OwnerExists(owner string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.ownerRank[owner]
	return ok
}

// EventPending implements state.State.
func (s *State) EventPending(id uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.pendingEvents[id]
	return ok
}

// EventsByObject implements state.State.
func (s *State) EventsByObject(id ledger.Identifier) []uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]uuid.UUID(nil), s.entityEventLink.byKey(id)...)
}

// EventsByAnnotation implements state.State.
func (s *State) EventsByAnnotation(id ledger.Identifier) []uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]uuid.UUID(nil), s.entityEventLink.byKey(id)...)
}
