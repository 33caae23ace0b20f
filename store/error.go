package store

import "errors"

var (
	ErrClosed   = errors.New("store closed")
	ErrNoDriver = errors.New("unsupported driver")
)
