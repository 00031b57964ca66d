package domain

import "errors"

var (
	// ErrMalformedEvent is returned when an inbound payload is missing required fields.
	ErrMalformedEvent = errors.New("malformed event")
	// ErrUnknownEvent is returned for inbound event types outside the protocol.
	ErrUnknownEvent = errors.New("unknown event type")
	// ErrInvalidQuestion indicates a catalog entry cannot be played.
	ErrInvalidQuestion = errors.New("invalid question")
	// ErrGatewayClosed is returned when submitting to a gateway that stopped running.
	ErrGatewayClosed = errors.New("gateway closed")
)
