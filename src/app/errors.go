package app

import (
	"errors"
	"fmt"

	"fakeddit/src/api"
)

const (
	FeedRoute     = "/"
	LoginRoute    = "/login"
	RegisterRoute = "/register"
)

var (
	// ErrDeclined is returned when the user answers no to a confirmation prompt.
	ErrDeclined = errors.New("action cancelled")
	// ErrNotFound is returned when a mutation targets an entity missing from local state.
	ErrNotFound = errors.New("not found in the current view, reload and try again")
	// ErrStale is returned when a response arrives for a fetch that has been superseded.
	ErrStale = errors.New("response discarded: view changed")
)

type (
	// ValidationError is an empty required field, caught before any network call.
	ValidationError struct {
		Field string
	}

	// AuthError means the session is missing or unusable.
	AuthError struct {
		RedirectTo string
		Err        error
	}

	// RejectedError is the backend refusing a submitted form. It is shown in place and
	// never navigates.
	RejectedError struct {
		Err *api.Error
	}

	// DecodeError means the stored token could not be decoded into claims.
	DecodeError struct {
		Err error
	}
)

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s is required", e.Field)
}

func (e *AuthError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("authentication required: %v", e.Err)
	}
	return "authentication required"
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

func (e *RejectedError) Error() string {
	return e.Err.Error()
}

func (e *RejectedError) Unwrap() error {
	return e.Err
}

func formRejected(err error) error {
	var backend *api.Error
	if errors.As(err, &backend) {
		return &RejectedError{Err: backend}
	}
	return err
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("malformed session token: %v", e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

func loginRequired(err error) *AuthError {
	return &AuthError{RedirectTo: LoginRoute, Err: err}
}

// Describe turns an error into the text to show and, for authentication failures, the
// route to send the user to.
func Describe(err error) (message, redirectTo string) {
	if err == nil {
		return "", ""
	}
	var (
		validation *ValidationError
		rejected   *RejectedError
		auth       *AuthError
		decode     *DecodeError
		backend    *api.Error
	)
	switch {
	case errors.As(err, &validation):
		return validation.Error(), ""
	case errors.As(err, &rejected):
		return rejected.Err.Message(), ""
	case errors.As(err, &auth):
		redirect := auth.RedirectTo
		if redirect == "" {
			redirect = LoginRoute
		}
		return "Please log in to continue", redirect
	case errors.As(err, &decode):
		return "Please log in to continue", LoginRoute
	case errors.As(err, &backend):
		if backend.Unauthorized() {
			return backend.Message(), LoginRoute
		}
		return backend.Message(), ""
	default:
		return err.Error(), ""
	}
}
