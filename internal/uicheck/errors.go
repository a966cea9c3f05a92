package uicheck

import "errors"

// Sentinel errors returned by the package.
var (
	// ErrClosed is returned when attempting to use a closed Session.
	ErrClosed = errors.New("uicheck: session is closed")

	// ErrNotFound is returned when a bounded wait for an element expires.
	ErrNotFound = errors.New("uicheck: element not found before timeout")
)
