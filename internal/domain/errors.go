package domain

import "errors"

var (
	ErrUnknownEventType = errors.New("unknown event type")
	ErrMissingEndpoint  = errors.New("relationship endpoint not found")
)
