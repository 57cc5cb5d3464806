package entity

import "time"

// Supplier proveedor al que se emiten órdenes de compra. Cada producto pertenece a un proveedor.
type Supplier struct {
	ID        string
	Name      string
	Phone     string
	Email     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
