package sgv

import "fmt"

// Error taxonomy. Normalization errors (MalformedTimestampError,
// MissingFieldError, UnknownVaccineTypeError) mean the upstream API changed
// shape. Transport errors mean we could not reach it or read it. Callers
// branch with errors.As.

type MalformedTimestampError struct {
	Raw string
	Err error
}

func (e *MalformedTimestampError) Error() string {
	return fmt.Sprintf("malformed timestamp: %q", e.Raw)
}

func (e *MalformedTimestampError) Unwrap() error {
	return e.Err
}

type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing required field: %s", e.Field)
}

type UnknownVaccineTypeError struct {
	Raw string
}

func (e *UnknownVaccineTypeError) Error() string {
	return fmt.Sprintf("unknown vaccine type: %q", e.Raw)
}

type TransportError struct {
	Url        string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("request to %s failed: %v", e.Url, e.Err)
	}
	return fmt.Sprintf("request to %s failed: status code %d", e.Url, e.StatusCode)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

type MalformedResponseError struct {
	Url string
	Err error
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("could not parse response from %s: %v", e.Url, e.Err)
}

func (e *MalformedResponseError) Unwrap() error {
	return e.Err
}
