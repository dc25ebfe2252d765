// Package apperr carries a classified error kind from the point of failure
// (resolver, extractor, storage, record store) to the HTTP layer, so status
// mapping switches on kind instead of matching message substrings.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies a pipeline failure.
type Kind int

const (
	// KindInternal is the default for unclassified failures.
	KindInternal Kind = iota
	// KindValidation marks caller errors: empty or malformed input URL.
	KindValidation
	// KindRateLimited marks upstream rate-limit or quota exhaustion.
	KindRateLimited
	// KindExtraction marks media subprocess failures (non-zero exit, spawn).
	KindExtraction
	// KindStorage marks blob upload failures.
	KindStorage
	// KindStorageConfig marks an unconfigured or unreachable blob store.
	KindStorageConfig
	// KindStore marks record store (database) failures.
	KindStore
	// KindConflict marks an insert against an already-existing identity.
	KindConflict
	// KindNotFound marks a lookup miss.
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindRateLimited:
		return "rate_limited"
	case KindExtraction:
		return "extraction"
	case KindStorage:
		return "storage"
	case KindStorageConfig:
		return "storage_config"
	case KindStore:
		return "store"
	case KindConflict:
		return "conflict"
	case KindNotFound:
		return "not_found"
	default:
		return "internal"
	}
}

// Error is a classified error with an optional wrapped cause.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// New creates a classified error without a cause.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Newf creates a classified error from a format string.
func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates a classified error around a cause.
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf returns the kind of the first classified error in err's chain,
// or KindInternal when none is present.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// IsKind reports whether err's chain carries the given kind.
func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// PublicMessage returns the classified message of err, or a generic fallback
// for unclassified errors so internals never leak to clients.
func PublicMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "internal server error"
}
