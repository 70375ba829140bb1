package dto

import "github.com/jhoicas/farmacia-admin/internal/domain"

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string              `json:"code"`
	Message string              `json:"message"`
	Fields  []domain.FieldError `json:"fields,omitempty"`
}

// MessageResponse respuesta de operaciones sin datos (reenviar código, cerrar sesión).
type MessageResponse struct {
	Message string `json:"message"`
}
