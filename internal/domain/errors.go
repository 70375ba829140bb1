package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrValidation        = errors.New("datos inválidos")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrForbidden         = errors.New("acceso denegado")
	ErrSessionExpired    = errors.New("la sesión expiró, inicie sesión de nuevo")
	ErrInsufficientStock = errors.New("stock insuficiente")
)

// FieldError describe un campo de formulario rechazado antes de llamar al backend.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError agrupa los campos rechazados. errors.Is(err, ErrValidation) es true.
type ValidationError struct {
	Fields []FieldError
}

// NewValidationError construye un error de validación de un solo campo.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: []FieldError{{Field: field, Message: message}}}
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return ErrValidation.Error()
	}
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Message)
	}
	return strings.Join(msgs, "; ")
}

// Is permite errors.Is(err, ErrValidation).
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// StockError indica que una línea pide más unidades de las disponibles.
type StockError struct {
	ItemName  string
	Requested int64
	Available int64
}

func (e *StockError) Error() string {
	return fmt.Sprintf("%s: se pidieron %d y hay %d disponibles", e.ItemName, e.Requested, e.Available)
}

// Unwrap enlaza con ErrInsufficientStock.
func (e *StockError) Unwrap() error { return ErrInsufficientStock }
