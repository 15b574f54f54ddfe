package xerrors

import (
	"context"
	"fmt"
	"net/http"
)

// HTTPError is a non-2xx answer from the booking backend.
type HTTPError struct {
	Status  int
	Message string // response.data.message, may be empty
}

func (e *HTTPError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("HTTP %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("HTTP %d", e.Status)
}

// ActionError carries the human readable summary of a failed action while
// keeping the underlying cause reachable through errors.Is / errors.As.
type ActionError struct {
	Action  string
	Summary string
	Cause   error
}

func (e *ActionError) Error() string { return e.Summary }

func (e *ActionError) Unwrap() error { return e.Cause }

// Describe maps a failure of action to the message shown to the user.
func Describe(action string, err error) string {
	if err == nil {
		return ""
	}

	var httpErr *HTTPError
	switch {
	case Is(err, ErrUnreachable):
		return "Cannot reach server, please check your connection"
	case As(err, &httpErr):
		switch httpErr.Status {
		case http.StatusUnsupportedMediaType:
			return fmt.Sprintf("%s failed: unsupported request format", action)
		case http.StatusNotFound:
			return fmt.Sprintf("%s failed: resource not found", action)
		}
		if httpErr.Message != "" {
			return fmt.Sprintf("%s failed: HTTP %d: %s", action, httpErr.Status, httpErr.Message)
		}
		return fmt.Sprintf("%s failed: HTTP %d", action, httpErr.Status)
	default:
		return fmt.Sprintf("%s failed: %s", action, err.Error())
	}
}

// Normalize wraps err into an *ActionError. An error that is already an
// *ActionError is returned unchanged.
func Normalize(action string, err error) error {
	if err == nil {
		return nil
	}
	var actionErr *ActionError
	if As(err, &actionErr) {
		return err
	}
	return &ActionError{
		Action:  action,
		Summary: Describe(action, err),
		Cause:   err,
	}
}

// StatusCode picks the HTTP status a handler should answer with for err.
func StatusCode(err error) int {
	var httpErr *HTTPError
	switch {
	case err == nil:
		return http.StatusOK
	case Is(err, ErrUnreachable):
		return http.StatusBadGateway
	case Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case Is(err, ErrNotFound):
		return http.StatusNotFound
	case Is(err, ErrInvalidInput):
		return http.StatusBadRequest
	case Is(err, ErrRequestPending), Is(err, ErrNoCart):
		return http.StatusConflict
	case Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case As(err, &httpErr):
		if httpErr.Status >= 400 && httpErr.Status < 500 {
			return httpErr.Status
		}
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
