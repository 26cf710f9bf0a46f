// Package controllers holds the fiber handlers. Handlers parse the request,
// take the caller from the verified token and delegate to the services.
package controllers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/juju/errors"

	"github.com/meinhoongagan/senior-care-app/logging"
	"github.com/meinhoongagan/senior-care-app/middleware"
	"github.com/meinhoongagan/senior-care-app/utils"
	"github.com/meinhoongagan/senior-care-app/validation"
)

// respondError maps a service error to its HTTP status. Untyped errors are
// logged and reported as a generic 500.
func respondError(c *fiber.Ctx, err error) error {
	var ve *validation.RequestValidationError
	if errors.As(err, &ve) {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Error:   "Validation failed",
			Details: ve.Fields,
		})
	}

	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, errors.Unauthorized):
		status = fiber.StatusUnauthorized
	case errors.Is(err, errors.Forbidden):
		status = fiber.StatusForbidden
	case errors.Is(err, errors.NotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, errors.BadRequest), errors.Is(err, errors.NotValid):
		status = fiber.StatusBadRequest
	case errors.Is(err, errors.AlreadyExists):
		status = fiber.StatusConflict
	case errors.Is(err, errors.NotSupported):
		status = fiber.StatusServiceUnavailable
	}

	if status == fiber.StatusInternalServerError {
		logging.Error().
			Err(err).
			Str("request_id", middleware.GetRequestID(c)).
			Str("path", c.Path()).
			Msg("Unhandled error")
		return c.Status(status).JSON(utils.ErrorResponse{Error: "Internal server error"})
	}
	return c.Status(status).JSON(utils.ErrorResponse{Error: err.Error()})
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{Error: "Cannot parse JSON"})
}

// paramID reads a positive numeric path parameter.
func paramID(c *fiber.Ctx, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Params(name), 10, 64)
	if err != nil || id == 0 {
		return 0, validation.NewFieldError(name, name+" must be a positive integer")
	}
	return uint(id), nil
}

func queryBool(c *fiber.Ctx, name string) bool {
	v, err := strconv.ParseBool(c.Query(name))
	return err == nil && v
}

// ErrorHandler is the app-wide fallback for errors that escape a handler,
// including fiber's own 404 and 405 errors.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(utils.ErrorResponse{Error: fe.Message})
	}
	return respondError(c, err)
}
