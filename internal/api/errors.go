package api

import (
	"errors"
	"fmt"
)

// ErrSaveRejected means the backend answered the save request but declared
// it unsuccessful. The client surfaces a generic failure and lets the user
// retry; nothing is retried automatically.
var ErrSaveRejected = errors.New("backend rejected the template")

// StatusError is a non-2xx response. Detail carries the backend's error
// body message when it parsed, otherwise the HTTP status text.
type StatusError struct {
	Code   int
	Detail string
}

func (e *StatusError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("backend returned %d: %s", e.Code, e.Detail)
	}
	return fmt.Sprintf("backend returned %d", e.Code)
}
