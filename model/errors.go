package model

import "errors"

var (
	ErrNotFound      = errors.New("record not found")
	ErrInvalidMode   = errors.New("invalid mode")
	ErrInvalidToggle = errors.New("invalid on/off value")
	ErrInvalidLength = errors.New("invalid length")
)
