package manager

import "errors"

var (
	ErrNoScanRoot  = errors.New("no scan directory configured")
	ErrUnknownType = errors.New("could not determine server type")
)
