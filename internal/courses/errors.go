package courses

import (
	"errors"
	"fmt"
)

var (
	// ErrRequestFailed is matched by every failure of a call to the course API,
	// whatever the cause: transport, status or body shape.
	ErrRequestFailed   = errors.New("request failed")
	ErrCourseNotFound  = errors.New("course not found")
	ErrNothingSelected = errors.New("no course selected")
)

// FetchError describes a failed call to the course API.
type FetchError struct {
	Op      string
	URL     string
	Status  int
	Message string
	Err     error
}

func (e *FetchError) Error() string {
	msg := fmt.Sprintf("%s %s", e.Op, e.URL)
	if e.Status != 0 {
		msg = fmt.Sprintf("%s: status %d", msg, e.Status)
	}
	if e.Message != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Message)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

func (e *FetchError) Is(target error) bool {
	return target == ErrRequestFailed
}
