package event

import "errors"

// Sentinel errors for the document registry.
var (
	// ErrNilListener is returned when a nil listener is provided.
	ErrNilListener = errors.New("listener cannot be nil")

	// ErrInvalidKind is returned when an event kind is empty.
	ErrInvalidKind = errors.New("invalid event kind")
)
