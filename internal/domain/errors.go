package domain

import "errors"

var (
	// ErrTenantNotFound signals an unregistered tenant id.
	ErrTenantNotFound = errors.New("tenant not found")
	// ErrTenantExists signals a duplicate tenant registration.
	ErrTenantExists = errors.New("tenant already registered")
	// ErrDocumentNotFound signals a missing equipment document.
	ErrDocumentNotFound = errors.New("equipment document not found")
	// ErrStoreUnavailable signals that the document store could not be reached.
	ErrStoreUnavailable = errors.New("document store unavailable")
	// ErrStoreTimeout signals that a store call exceeded its deadline.
	ErrStoreTimeout = errors.New("document store timeout")
	// ErrRecognizerUnavailable signals a named-entity recognizer failure.
	ErrRecognizerUnavailable = errors.New("entity recognizer unavailable")
)
