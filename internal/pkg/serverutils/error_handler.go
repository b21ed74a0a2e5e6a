package serverutils

import (
	"errors"

	"edupath-be/internal/pkg/apperror"

	"github.com/gofiber/fiber/v2"
)

// StatusFor maps domain errors onto HTTP status codes.
func StatusFor(err error) int {
	var fiberErr *fiber.Error
	switch {
	case errors.As(err, &fiberErr):
		return fiberErr.Code
	case errors.Is(err, apperror.ErrSessionNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, apperror.ErrSessionNotReady):
		return fiber.StatusConflict
	case errors.Is(err, apperror.ErrInvalidInput):
		return fiber.StatusBadRequest
	case errors.Is(err, apperror.ErrEmbeddingFailure):
		return fiber.StatusBadGateway
	case errors.Is(err, apperror.ErrCatalogUnavailable):
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}

// ErrorHandlerMiddleware turns handler errors into the JSON envelope.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}
		code := StatusFor(err)
		return ctx.Status(code).JSON(ErrorResponse(code, err.Error()))
	}
}
