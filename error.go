package gatekeeper

import "errors"

var (
	ErrBadConfig   = errors.New("bad config")
	ErrExists      = errors.New("exists")
	ErrMissingData = errors.New("missing data")
	ErrNotExist    = errors.New("not exist")
	ErrNotValid    = errors.New("invalid")
	ErrUnexpected  = errors.New("unexpected")
)
