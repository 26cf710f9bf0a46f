package services

import (
	"fmt"

	"github.com/juju/errors"
)

// The juju "…f" constructors append the kind to the message ("x forbidden");
// these keep client-facing messages as written.

func forbidden(format string, args ...interface{}) error {
	return errors.WithType(errors.New(fmt.Sprintf(format, args...)), errors.Forbidden)
}

func unauthorized(format string, args ...interface{}) error {
	return errors.WithType(errors.New(fmt.Sprintf(format, args...)), errors.Unauthorized)
}

func badRequest(format string, args ...interface{}) error {
	return errors.WithType(errors.New(fmt.Sprintf(format, args...)), errors.BadRequest)
}

func conflict(format string, args ...interface{}) error {
	return errors.WithType(errors.New(fmt.Sprintf(format, args...)), errors.AlreadyExists)
}

func notFound(format string, args ...interface{}) error {
	return errors.WithType(errors.New(fmt.Sprintf(format, args...)), errors.NotFound)
}

// ErrAssistantUnavailable is returned when a completion call fails or AI is not configured.
var ErrAssistantUnavailable = errors.WithType(errors.New("AI assistant is currently unavailable"), errors.NotSupported)
