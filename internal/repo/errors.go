package repo

import (
	"fmt"
	"net/http"
)

// TransportError reports a failed exchange with the analyzer: the service was
// unreachable, answered with a non-2xx status, or sent a body that could not be
// decoded. Reason carries the analyzer's own error text when it supplied one.
type TransportError struct {
	Op         string
	StatusCode int
	Reason     string
	Err        error
}

func (e *TransportError) Error() string {
	switch {
	case e.Reason != "":
		return fmt.Sprintf("%s: analyzer returned %d: %s", e.Op, e.StatusCode, e.Reason)
	case e.StatusCode != 0 && e.Err == nil:
		return fmt.Sprintf("%s: analyzer returned %d %s", e.Op, e.StatusCode, http.StatusText(e.StatusCode))
	case e.StatusCode != 0:
		return fmt.Sprintf("%s: analyzer returned %d: %v", e.Op, e.StatusCode, e.Err)
	default:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
}

func (e *TransportError) Unwrap() error { return e.Err }

// ApplicationError reports a 2xx exchange whose payload did not signal success.
type ApplicationError struct {
	Status  string
	Message string
}

func (e *ApplicationError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("analyzer reported status %q", e.Status)
	}
	return fmt.Sprintf("analyzer reported status %q: %s", e.Status, e.Message)
}
