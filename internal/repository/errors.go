package repository

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when an update or delete matched no row.
var ErrNotFound = errors.New("record not found")

// RemoteError wraps any failure coming back from the relational store so
// callers never see driver-specific error shapes.
type RemoteError struct {
	Op    string
	Cause error
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Cause)
}

func (e *RemoteError) Unwrap() error {
	return e.Cause
}

// remoteErr wraps err unless it is nil or already a RemoteError.
func remoteErr(op string, err error) error {
	if err == nil {
		return nil
	}
	var re *RemoteError
	if errors.As(err, &re) {
		return err
	}
	return &RemoteError{Op: op, Cause: err}
}

// IsNotFound reports whether err is a RemoteError caused by a missing row.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
