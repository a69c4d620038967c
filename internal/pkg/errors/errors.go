// Package errors provides the two structured error families the dataset
// event engine raises: ValidationError for well-formed-but-rejected events
// and StorageError for Depot/RecordKeeper backing failures.
//
// Import Path: github.com/kvshepherd-labs/ledgerkeep/internal/pkg/errors
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors for common failure scenarios.
var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
	ErrConflict      = errors.New("conflict")
	ErrInternal      = errors.New("internal error")
)

// ValidationKind enumerates the reasons an event can be rejected.
type ValidationKind string

// Validation error kinds.
const (
	KindFieldShape      ValidationKind = "FIELD_SHAPE"
	KindDuplicateUUID   ValidationKind = "DUPLICATE_UUID"
	KindIntegrity       ValidationKind = "INTEGRITY"
	KindSchema          ValidationKind = "SCHEMA"
	KindNotFound        ValidationKind = "NOT_FOUND"
	KindVersionMismatch ValidationKind = "VERSION_MISMATCH"
	KindDuplicateHash   ValidationKind = "DUPLICATE_HASH"
	KindSchemaImmutable ValidationKind = "SCHEMA_IMMUTABLE"
	KindStatus          ValidationKind = "STATUS"
	KindAlreadyReviewed ValidationKind = "ALREADY_REVIEWED"
	KindNotAnOwner      ValidationKind = "NOT_AN_OWNER"
	KindOwnerRoster     ValidationKind = "OWNER_ROSTER"
	KindOwnerRank       ValidationKind = "OWNER_RANK"
	KindDuplicateName   ValidationKind = "DUPLICATE_NAME"
	KindUnreachable     ValidationKind = "UNREACHABLE_EVENT_KIND"
)

// ValidationError reports a well-formed event that violates a business rule.
// The engine refuses it atomically: no log entry, no state change, no blob
// side effects survive a ValidationError.
type ValidationError struct {
	Kind    ValidationKind
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("validation error [%s]: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("validation error [%s]: %s", e.Kind, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NewValidation constructs a ValidationError.
func NewValidation(kind ValidationKind, format string, args ...any) *ValidationError {
	return &ValidationError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// WrapValidation constructs a ValidationError wrapping an underlying cause.
func WrapValidation(kind ValidationKind, err error, format string, args ...any) *ValidationError {
	return &ValidationError{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}

// HTTPStatus maps a ValidationError onto the 4xx a host would surface.
func (e *ValidationError) HTTPStatus() int {
	switch e.Kind {
	case KindNotFound:
		return http.StatusNotFound
	case KindDuplicateUUID, KindDuplicateHash, KindDuplicateName, KindAlreadyReviewed:
		return http.StatusConflict
	case KindNotAnOwner:
		return http.StatusForbidden
	default:
		return http.StatusBadRequest
	}
}

// StorageKind enumerates Depot/RecordKeeper backing failure modes.
type StorageKind string

// Storage error kinds.
const (
	StorageNotFound         StorageKind = "NOT_FOUND"
	StorageAlreadyExists    StorageKind = "ALREADY_EXISTS"
	StorageNotFinalized     StorageKind = "NOT_FINALIZED"
	StorageAlreadyFinalized StorageKind = "ALREADY_FINALIZED"
	StorageBoundaryExceeded StorageKind = "BOUNDARY_EXCEEDED"
	StorageIO               StorageKind = "IO"
)

// StorageError reports a Depot or RecordKeeper backing failure. Same
// atomicity contract as ValidationError.
type StorageError struct {
	Kind    StorageKind
	Message string
	Err     error
}

func (e *StorageError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("storage error [%s]: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("storage error [%s]: %s", e.Kind, e.Message)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// NewStorage constructs a StorageError.
func NewStorage(kind StorageKind, message string) *StorageError {
	return &StorageError{Kind: kind, Message: message}
}

// WrapStorage constructs a StorageError wrapping an underlying I/O failure.
func WrapStorage(kind StorageKind, message string, err error) *StorageError {
	return &StorageError{Kind: kind, Message: message, Err: err}
}

// HTTPStatus maps a StorageError onto the 5xx a host would surface.
func (e *StorageError) HTTPStatus() int {
	if e.Kind == StorageNotFound {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

// AsValidation unwraps err into a *ValidationError if possible.
func AsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

// AsStorage unwraps err into a *StorageError if possible.
func AsStorage(err error) (*StorageError, bool) {
	var se *StorageError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}
