package registry

import "errors"

var (
	ErrRead   = errors.New("failed to read registry")
	ErrWrite  = errors.New("failed to write registry")
	ErrDecode = errors.New("malformed registry")
	ErrMarker = errors.New("failed to write marker file")
)
