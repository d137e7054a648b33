package httpd

import (
	stderrors "errors"
	"net/http"

	"github.com/gofiber/fiber/v2"
	goerrors "github.com/goliatone/go-errors"

	"github.com/dracker/dracker/internal/auth"
)

const internalMessage = "Internal Server Error"

// errorHandler renders every error as {"msg": ...}. Rich errors carry their
// own status; anything else is treated as internal. Internal messages leak
// only in debug mode.
func errorHandler(logger auth.Logger, debug bool) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status, msg := statusFor(err)

		if status >= fiber.StatusInternalServerError {
			logger.Error("request %s %s failed: %v", c.Method(), c.Path(), err)
			if !debug {
				msg = internalMessage
			}
		}

		return c.Status(status).JSON(fiber.Map{"msg": msg})
	}
}

func statusFor(err error) (int, string) {
	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) {
		if richErr.Code >= http.StatusBadRequest {
			return richErr.Code, richErr.Message
		}
		return categoryStatus(richErr.Category), richErr.Message
	}

	var fiberErr *fiber.Error
	if stderrors.As(err, &fiberErr) {
		return fiberErr.Code, fiberErr.Message
	}

	return fiber.StatusInternalServerError, err.Error()
}

func categoryStatus(category goerrors.Category) int {
	switch category {
	case goerrors.CategoryAuth:
		return fiber.StatusUnauthorized
	case goerrors.CategoryAuthz:
		return fiber.StatusForbidden
	case goerrors.CategoryValidation, goerrors.CategoryBadInput:
		return fiber.StatusBadRequest
	case goerrors.CategoryNotFound:
		return fiber.StatusNotFound
	case goerrors.CategoryConflict:
		return fiber.StatusConflict
	case goerrors.CategoryRateLimit:
		return fiber.StatusTooManyRequests
	default:
		return fiber.StatusInternalServerError
	}
}
