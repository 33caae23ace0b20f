package view

import "errors"

var (
	ErrAuthorization = errors.New("authorization failed")
	ErrNotValid      = errors.New("not valid")
	ErrNoStreaming   = errors.New("streaming unsupported")
)
