package adapter

import "errors"

var (
	ErrNotConnected    = errors.New("pub/sub is not connected")
	ErrEmptySubject    = errors.New("subject is empty")
	ErrNoPubSubAddress = errors.New("pub/sub address is empty")

	ErrSeqBadRequest      = errors.New("seq rejected events")
	ErrSeqUnauthorized    = errors.New("seq api key rejected")
	ErrSeqPayloadTooLarge = errors.New("seq payload too large")
	ErrSeqUnavailable     = errors.New("seq is unavailable")
)
