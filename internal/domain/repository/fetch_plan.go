package repository

// FetchPlan indica qué relaciones cargar junto con la entidad principal.
// Reemplaza los joins ad hoc por lectura: cada caso de uso declara lo que necesita serializar.
type FetchPlan uint8

const (
	// FetchLines carga las líneas de una orden o venta.
	FetchLines FetchPlan = 1 << iota
	// FetchVariants carga la variante de cada línea.
	FetchVariants
	// FetchProducts carga el producto de cada variante (y sus variantes cuando se lee un producto).
	FetchProducts
	// FetchParties carga proveedor (órdenes, productos) o cliente (ventas).
	FetchParties
	// FetchCategories carga las categorías de cada producto.
	FetchCategories
)

const (
	// FetchHeader solo la fila principal.
	FetchHeader FetchPlan = 0
	// FetchFull todas las relaciones necesarias para la respuesta completa.
	FetchFull = FetchLines | FetchVariants | FetchProducts | FetchParties | FetchCategories
)

// Has indica si el plan incluye todas las relaciones de other.
func (p FetchPlan) Has(other FetchPlan) bool {
	return p&other == other
}
