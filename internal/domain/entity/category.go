package entity

import "time"

// Longitud permitida para el nombre de una categoría.
const (
	CategoryNameMin = 2
	CategoryNameMax = 100
)

// Category agrupa productos. El nombre es único.
type Category struct {
	ID        string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}
