package user

import "errors"

var (
	ErrInvalidToken          = errors.New("invalid or missing access token")
	ErrManagerAccessRequired = errors.New("manager access required")
	ErrAdminAccessRequired   = errors.New("admin access required")
)
