package analyzer

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput is matched by every *InvalidInputError via errors.Is
	ErrInvalidInput = errors.New("invalid input")

	// ErrMalformedPayload is wrapped by live collaborators when a response
	// cannot be decoded into a usable payload
	ErrMalformedPayload = errors.New("malformed live payload")
)

// InputKind names what the caller supplied
type InputKind string

const (
	InputURL     InputKind = "url"
	InputKeyword InputKind = "keyword"
)

// InvalidInputError is the only error the engine returns to callers
type InvalidInputError struct {
	Kind   InputKind
	Input  string
	Reason string
	Err    error
}

func (e *InvalidInputError) Error() string {
	if e == nil {
		return "<nil>"
	}
	msg := fmt.Sprintf("invalid %s %q: %s", e.Kind, e.Input, e.Reason)
	if e.Err != nil {
		msg += fmt.Sprintf(": %v", e.Err)
	}
	return msg
}

func (e *InvalidInputError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func (e *InvalidInputError) Is(target error) bool {
	return target == ErrInvalidInput
}

func invalidInput(kind InputKind, input, reason string, err error) *InvalidInputError {
	return &InvalidInputError{Kind: kind, Input: input, Reason: reason, Err: err}
}

// FailureReason classifies why a live attempt produced no usable payload
type FailureReason string

const (
	ReasonUnavailable FailureReason = "unavailable"
	ReasonTransport   FailureReason = "transport"
	ReasonMalformed   FailureReason = "malformed"
	ReasonNoData      FailureReason = "no_data"
	ReasonCanceled    FailureReason = "canceled"
)

// LiveAdapterFailure describes a failed live attempt. It is absorbed by the
// engine and only ever handed to an Observer.
type LiveAdapterFailure struct {
	Kind   InputKind
	Reason FailureReason
	Err    error
}

func (e *LiveAdapterFailure) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("live %s attempt failed (%s): %v", e.Kind, e.Reason, e.Err)
	}
	return fmt.Sprintf("live %s attempt failed (%s)", e.Kind, e.Reason)
}

func (e *LiveAdapterFailure) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
