package storage

import "errors"

var (
	// ErrEmptyAddress is returned when a project without an address reaches the store.
	ErrEmptyAddress = errors.New("storage: project has no address")
	// ErrClosed is returned by stores used after Close.
	ErrClosed = errors.New("storage: store closed")
)
