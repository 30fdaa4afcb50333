package domain

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidAPIKey      = errors.New("invalid api key")
	ErrDeviceNotFound     = errors.New("device not found")
	ErrSaveNotFound       = errors.New("save not found")
	ErrVersionNotFound    = errors.New("save version not found")
	ErrLocationNotFound   = errors.New("save location not found")
	ErrNotOwner           = errors.New("not authorized for this resource")
	ErrPlanLimit          = errors.New("plan limit reached")
)
