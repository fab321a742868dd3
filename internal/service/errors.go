package service

import "fmt"

// RemoteError means the films API answered with a non-success status
type RemoteError struct {
	Status int
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("HTTP %d", e.Status)
}

// TransportError means the request to the films API never completed
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("films request failed: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }
