package tectonic

import "errors"

var (
	// ErrDestroyed is the panic value for any use of a destroyed container.
	ErrDestroyed = errors.New("tectonic: container destroyed")
	// ErrNotInitialized is returned when calling a method on an element
	// that has no attached container.
	ErrNotInitialized = errors.New("tectonic: not initialized")
	// ErrNoSuchMethod is returned for unknown or internal method names.
	ErrNoSuchMethod = errors.New("tectonic: no such method")
	// ErrBadArgument is returned when a method receives arguments of the wrong type.
	ErrBadArgument = errors.New("tectonic: bad argument")
)
