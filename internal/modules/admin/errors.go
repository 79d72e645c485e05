package admin

import "errors"

var (
	ErrNotFound       = errors.New("user not found")
	ErrUnknownRole    = errors.New("unknown role")
	ErrSelfDemotion   = errors.New("cannot change your own role")
	ErrSelfDeactivate = errors.New("cannot deactivate your own account")
)
