package widget

import "errors"

var (
	ErrExchange = errors.New("exchange failed")
	ErrNotValid = errors.New("not valid")
	ErrUserInfo = errors.New("user info failed")
)
