package server

import "errors"

var (
	ErrClassify   = errors.New("classification failed")
	ErrController = errors.New("controller error")
)
