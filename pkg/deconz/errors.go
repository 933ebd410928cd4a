package deconz

import "fmt"

// SLIPError reports a SLIP byte-stuffing decode/encode failure.
type SLIPError struct {
	Msg string
}

func (e *SLIPError) Error() string { return fmt.Sprintf("SLIP error: %s", e.Msg) }

// EncodingError reports that an outgoing message could not be serialized.
type EncodingError struct {
	Msg string
}

func (e *EncodingError) Error() string { return fmt.Sprintf("encoding error: %s", e.Msg) }

// DecodingError reports that an incoming frame was malformed.
type DecodingError struct {
	Msg string
}

func (e *DecodingError) Error() string { return fmt.Sprintf("decoding error: %s", e.Msg) }

// InternalError reports a process-internal failure: a channel cancellation,
// a dropped receiver, or a client shutdown in progress.
type InternalError struct {
	Msg string
}

func (e *InternalError) Error() string { return fmt.Sprintf("internal error: %s", e.Msg) }

// NonSuccessResponseError reports that the module replied with a non-Success status.
type NonSuccessResponseError struct {
	Status StatusCode
}

func (e *NonSuccessResponseError) Error() string {
	return fmt.Sprintf("device returned non-success status: %s", e.Status)
}

// UnexpectedResponsePayloadError reports that the status was Success but the
// payload variant did not match what the request expected.
type UnexpectedResponsePayloadError struct {
	Expected string
	Actual IncomingPayload
}

func (e *UnexpectedResponsePayloadError) Error() string {
	return fmt.Sprintf("unexpected response payload: expected %s, got %T", e.Expected, e.Actual)
}

// ErrChannelCanceled is returned by a Call whose underlying channel was
// dropped before a response arrived.
var ErrChannelCanceled = &InternalError{Msg: "channel canceled"}
