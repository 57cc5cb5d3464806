package entity

import "strings"

// Status ciclo de vida compartido por órdenes de compra y ventas.
// pending es el estado inicial; confirmed y cancelled son terminales.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
)

// Valid indica si s es un estado conocido.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled:
		return true
	}
	return false
}

// Terminal indica si desde s ya no hay transiciones.
func (s Status) Terminal() bool {
	return s == StatusConfirmed || s == StatusCancelled
}

// CanTransition devuelve true solo para pending→confirmed y pending→cancelled.
func (s Status) CanTransition(to Status) bool {
	return s == StatusPending && to.Terminal()
}

// ParseStatus convierte texto (sin distinguir mayúsculas) en Status.
func ParseStatus(s string) (Status, bool) {
	st := Status(strings.ToLower(strings.TrimSpace(s)))
	return st, st.Valid()
}
