package server

import (
	"errors"

	"postapi/models"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
)

var (
	ErrInvalidID   = errors.New("invalid post id")
	ErrMissingID   = errors.New("missing post id")
	ErrInvalidBody = errors.New("invalid request body")
)

// ErrorResponse is the body written by ErrorHandler
type ErrorResponse struct {
	Status    int    `json:"status"`
	Message   string `json:"message"`
	RequestID string `json:"requestId,omitempty"`
}

func isBadRequest(err error) bool {
	return errors.Is(err, ErrInvalidID) ||
		errors.Is(err, ErrMissingID) ||
		errors.Is(err, ErrInvalidBody) ||
		errors.Is(err, models.ErrNoFields)
}

// ErrorHandler is the central error handler. Client mistakes are answered
// with 400 and their message, everything else with a generic 500 so driver
// errors never reach the client.
func ErrorHandler(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	message := "internal server error"

	var fe *fiber.Error
	switch {
	case isBadRequest(err):
		status = fiber.StatusBadRequest
		message = err.Error()
	case errors.As(err, &fe):
		status = fe.Code
		message = fe.Message
	}

	requestID := c.GetRespHeader(fiber.HeaderXRequestID)
	if status >= fiber.StatusInternalServerError {
		log.WithFields(log.Fields{
			"method":    c.Method(),
			"path":      c.Path(),
			"requestId": requestID,
			"error":     err,
		}).Error("Request failed")
	}

	return c.Status(status).JSON(ErrorResponse{
		Status:    status,
		Message:   message,
		RequestID: requestID,
	})
}

// localError describes a failure inside the handler instead of passing it
// to ErrorHandler. Only used with config.ErrorModeLegacy.
type localError func(c *fiber.Ctx, err error) fiber.Map

// localErrors answers handler failures with 200 and a {message, request}
// body, the way clients of the legacy API expect.
func localErrors(describe localError, next fiber.Handler) fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := next(c)
		if err == nil {
			return nil
		}

		log.WithFields(log.Fields{
			"method": c.Method(),
			"path":   c.Path(),
			"error":  err,
		}).Error("Request failed")

		return c.Status(fiber.StatusOK).JSON(describe(c, err))
	}
}

func describeWith(action string) localError {
	return func(c *fiber.Ctx, err error) fiber.Map {
		return fiber.Map{
			"message": "Error while " + action + ": " + err.Error(),
			"request": requestBody(c),
		}
	}
}

func describeDelete(c *fiber.Ctx, err error) fiber.Map {
	return fiber.Map{
		"message": "Error while deleting: " + err.Error(),
		"request": "You tried to delete id: " + deleteTarget(c),
	}
}

// requestBody echoes the JSON body back, or an empty object. It decodes
// with the app's JSONDecoder, like BodyParser does.
func requestBody(c *fiber.Ctx) interface{} {
	var body map[string]interface{}
	if err := c.App().Config().JSONDecoder(c.Body(), &body); err != nil || body == nil {
		return fiber.Map{}
	}
	return body
}
