package vlr

import (
	"errors"
	"fmt"
)

var (
	// ErrCircuitOpen means recent requests kept failing and no request was sent.
	ErrCircuitOpen = errors.New("upstream circuit open")

	ErrPlayerNotFound = errors.New("player not found")
)

// RequestError is a transport failure: nothing usable came back.
type RequestError struct {
	Endpoint string
	Err      error
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("request %s: %v", e.Endpoint, e.Err)
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

type NotFoundError struct {
	Endpoint string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s: not found", e.Endpoint)
}

// StatusError is any non-2xx response other than 404.
type StatusError struct {
	Endpoint   string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: unexpected status %d", e.Endpoint, e.StatusCode)
}

type DecodeError struct {
	Endpoint string
	Err      error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s: %v", e.Endpoint, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
