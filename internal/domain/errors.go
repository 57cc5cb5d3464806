package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrValidation         = errors.New("datos inconsistentes entre entidades")
	ErrInvalidState       = errors.New("transición no permitida desde el estado actual")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")
	ErrInsufficientStock  = errors.New("stock insuficiente")
	ErrCodeGeneration     = errors.New("no se pudo generar un código de venta único")
)

// StockError detalla una falta de stock para una variante. Unwrap devuelve ErrInsufficientStock.
type StockError struct {
	VariantID string
	Available int
	Requested int
}

func (e *StockError) Error() string {
	return fmt.Sprintf("stock insuficiente para la variante %s: disponible %d, solicitado %d",
		e.VariantID, e.Available, e.Requested)
}

func (e *StockError) Unwrap() error { return ErrInsufficientStock }

// NotFoundError indica qué entidad referenciada no existe. Unwrap devuelve ErrNotFound.
type NotFoundError struct {
	Entity string
	Key    string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no existe %s %q", e.Entity, e.Key)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// NewNotFound construye un NotFoundError.
func NewNotFound(entity, key string) error {
	return &NotFoundError{Entity: entity, Key: key}
}
