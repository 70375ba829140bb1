package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/farmacia-admin/internal/application/dto"
	"github.com/jhoicas/farmacia-admin/internal/domain"
	"github.com/jhoicas/farmacia-admin/internal/infrastructure/backend"
)

// Códigos de error del API del dashboard.
const (
	CodeInvalidBody        = "INVALID_BODY"
	CodeValidation         = "VALIDATION"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeForbidden          = "FORBIDDEN"
	CodeNotFound           = "NOT_FOUND"
	CodeInsufficientStock  = "INSUFFICIENT_STOCK"
	CodeBackendError       = "BACKEND_ERROR"
	CodeBackendUnavailable = "BACKEND_UNAVAILABLE"
	CodeMalformedResponse  = "MALFORMED_RESPONSE"
	CodeInternal           = "INTERNAL"
)

// writeError traduce un error de la aplicación a status HTTP y dto.ErrorResponse.
func writeError(c *fiber.Ctx, err error) error {
	status, body := errorResponse(err)
	return c.Status(status).JSON(body)
}

func errorResponse(err error) (int, dto.ErrorResponse) {
	var (
		valErr   *domain.ValidationError
		stockErr *domain.StockError
		apiErr   *backend.APIError
	)
	switch {
	case errors.As(err, &valErr):
		return fiber.StatusBadRequest, dto.ErrorResponse{Code: CodeValidation, Message: valErr.Error(), Fields: valErr.Fields}
	case errors.Is(err, domain.ErrValidation):
		return fiber.StatusBadRequest, dto.ErrorResponse{Code: CodeValidation, Message: err.Error()}
	case errors.As(err, &stockErr):
		return fiber.StatusConflict, dto.ErrorResponse{Code: CodeInsufficientStock, Message: "stock insuficiente: " + stockErr.Error()}
	case errors.Is(err, domain.ErrInsufficientStock):
		return fiber.StatusConflict, dto.ErrorResponse{Code: CodeInsufficientStock, Message: err.Error()}
	case errors.Is(err, domain.ErrForbidden):
		return fiber.StatusForbidden, dto.ErrorResponse{Code: CodeForbidden, Message: "no tiene acceso a esta sección"}
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound, dto.ErrorResponse{Code: CodeNotFound, Message: domain.ErrNotFound.Error()}
	case errors.Is(err, domain.ErrSessionExpired):
		return fiber.StatusUnauthorized, dto.ErrorResponse{Code: CodeUnauthorized, Message: domain.ErrSessionExpired.Error()}
	case errors.Is(err, domain.ErrUnauthorized):
		return fiber.StatusUnauthorized, dto.ErrorResponse{Code: CodeUnauthorized, Message: domain.ErrUnauthorized.Error()}
	case errors.As(err, &apiErr):
		status := apiErr.Status
		if status < 400 || status > 599 {
			status = fiber.StatusBadGateway
		}
		return status, dto.ErrorResponse{Code: CodeBackendError, Message: apiErr.Message}
	case errors.Is(err, backend.ErrMalformedResponse):
		return fiber.StatusBadGateway, dto.ErrorResponse{Code: CodeMalformedResponse, Message: backend.ErrMalformedResponse.Error()}
	case errors.Is(err, backend.ErrTransport):
		return fiber.StatusBadGateway, dto.ErrorResponse{Code: CodeBackendUnavailable, Message: backend.ErrTransport.Error()}
	default:
		return fiber.StatusInternalServerError, dto.ErrorResponse{Code: CodeInternal, Message: "error interno"}
	}
}

func invalidBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: CodeInvalidBody, Message: "cuerpo inválido"})
}
