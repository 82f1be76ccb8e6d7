package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Errores de dominio (sin dependencias externas). Son las "clases" de error;
// el detalle viaja en *Error y se compara con errors.Is contra estas variables.
var (
	ErrValidation        = errors.New("entrada inválida")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrConflict          = errors.New("conflicto con el estado actual")
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrStateTransition   = errors.New("transición de estado no permitida")
	ErrPermission        = errors.New("acceso denegado")
)

// Códigos legibles por máquina expuestos en las respuestas de error.
const (
	CodeValidation        = "VALIDATION"
	CodeInsufficientStock = "INSUFFICIENT_STOCK"
	CodeConflict          = "CONFLICT"
	CodeNotFound          = "NOT_FOUND"
	CodeStateTransition   = "STATE_TRANSITION"
	CodePermission        = "FORBIDDEN"
	CodeInternal          = "INTERNAL"
)

// Error error de dominio con tipo, mensaje y detalle por campo (validaciones).
type Error struct {
	Kind    error
	Message string
	Fields  map[string]string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return e.Kind.Error()
	}
	if len(e.Fields) == 0 {
		return e.Message
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return e.Message + " (" + strings.Join(parts, "; ") + ")"
}

// Unwrap permite errors.Is(err, domain.ErrValidation), etc.
func (e *Error) Unwrap() error { return e.Kind }

// Validation construye un ErrValidation con detalle por campo.
func Validation(field, msg string) *Error {
	return &Error{Kind: ErrValidation, Message: "datos inválidos", Fields: map[string]string{field: msg}}
}

// ValidationFields construye un ErrValidation con varios campos.
func ValidationFields(fields map[string]string) *Error {
	return &Error{Kind: ErrValidation, Message: "datos inválidos", Fields: fields}
}

// NotFound recurso referenciado inexistente.
func NotFound(resource, id string) *Error {
	return &Error{Kind: ErrNotFound, Message: fmt.Sprintf("%s %s no encontrado", resource, id)}
}

// Conflict duplicado o colisión.
func Conflict(format string, args ...any) *Error {
	return &Error{Kind: ErrConflict, Message: fmt.Sprintf(format, args...)}
}

// StateTransition cambio de estado ilegal (incluye doble liquidación).
func StateTransition(format string, args ...any) *Error {
	return &Error{Kind: ErrStateTransition, Message: fmt.Sprintf(format, args...)}
}

// InsufficientStock salida mayor que la existencia actual.
func InsufficientStock(productID string, current, requested int64) *Error {
	return &Error{
		Kind:    ErrInsufficientStock,
		Message: fmt.Sprintf("stock insuficiente para %s: disponible %d, solicitado %d", productID, current, requested),
	}
}

// Permission el actor no puede ejecutar la acción.
func Permission(action string) *Error {
	return &Error{Kind: ErrPermission, Message: "acción no autorizada: " + action}
}

// Code devuelve el código de máquina del error.
func Code(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrValidation):
		return CodeValidation
	case errors.Is(err, ErrInsufficientStock):
		return CodeInsufficientStock
	case errors.Is(err, ErrConflict):
		return CodeConflict
	case errors.Is(err, ErrNotFound):
		return CodeNotFound
	case errors.Is(err, ErrStateTransition):
		return CodeStateTransition
	case errors.Is(err, ErrPermission):
		return CodePermission
	default:
		return CodeInternal
	}
}

// FieldErrors devuelve el detalle por campo si err es un *Error.
func FieldErrors(err error) map[string]string {
	var de *Error
	if errors.As(err, &de) {
		return de.Fields
	}
	return nil
}
