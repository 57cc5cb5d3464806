// Package memory implementa los repositorios y el TxRunner en memoria.
// Se usa con STORAGE_DRIVER=memory y en las pruebas de casos de uso.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/jhoicas/ventas-api/internal/application/ports"
	"github.com/jhoicas/ventas-api/internal/domain/entity"
)

// state tablas del store. Las entidades se guardan sin relaciones cargadas.
type state struct {
	users      map[string]*entity.User
	categories map[string]*entity.Category
	suppliers  map[string]*entity.Supplier
	products   map[string]*entity.Product
	variants   map[string]*entity.Variant
	orders     map[string]*entity.PurchaseOrder
	sales      map[string]*entity.Sale
}

func newState() *state {
	return &state{
		users:      make(map[string]*entity.User),
		categories: make(map[string]*entity.Category),
		suppliers:  make(map[string]*entity.Supplier),
		products:   make(map[string]*entity.Product),
		variants:   make(map[string]*entity.Variant),
		orders:     make(map[string]*entity.PurchaseOrder),
		sales:      make(map[string]*entity.Sale),
	}
}

func (s *state) clone() *state {
	c := newState()
	for k, v := range s.users {
		c.users[k] = copyUser(v)
	}
	for k, v := range s.categories {
		c.categories[k] = copyCategory(v)
	}
	for k, v := range s.suppliers {
		c.suppliers[k] = copySupplier(v)
	}
	for k, v := range s.products {
		c.products[k] = copyProduct(v)
	}
	for k, v := range s.variants {
		c.variants[k] = copyVariant(v)
	}
	for k, v := range s.orders {
		c.orders[k] = copyOrder(v)
	}
	for k, v := range s.sales {
		c.sales[k] = copySale(v)
	}
	return c
}

// Store base de datos en memoria. Las transacciones se serializan con el lock de escritura,
// lo que equivale a bloquear todas las filas que tocan.
type Store struct {
	mu sync.RWMutex
	st *state
}

// New crea un store vacío.
func New() *Store {
	return &Store{st: newState()}
}

// handle da acceso al estado. Fuera de una transacción cada llamada toma el lock;
// dentro, el lock ya lo tiene Run.
type handle struct {
	s    *Store
	inTx bool
}

func (h handle) read(fn func(st *state) error) error {
	if !h.inTx {
		h.s.mu.RLock()
		defer h.s.mu.RUnlock()
	}
	return fn(h.s.st)
}

func (h handle) write(fn func(st *state) error) error {
	if !h.inTx {
		h.s.mu.Lock()
		defer h.s.mu.Unlock()
	}
	return fn(h.s.st)
}

// Run ejecuta fn con todos los repositorios sobre una copia del estado; si fn falla o entra
// en pánico, el estado vuelve a la foto tomada antes de empezar. El pánico se relanza.
func (s *Store) Run(ctx context.Context, fn func(repos ports.TxRepos) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.st.clone()
	defer func() {
		if p := recover(); p != nil {
			s.st = snapshot
			panic(p)
		}
	}()
	if err := fn(s.repos(true)); err != nil {
		s.st = snapshot
		return err
	}
	return nil
}

// Repos devuelve los repositorios para uso fuera de transacción.
func (s *Store) Repos() ports.TxRepos {
	return s.repos(false)
}

func (s *Store) repos(inTx bool) ports.TxRepos {
	h := handle{s: s, inTx: inTx}
	return ports.TxRepos{
		Users:      &UserRepository{h: h},
		Categories: &CategoryRepository{h: h},
		Suppliers:  &SupplierRepository{h: h},
		Products:   &ProductRepository{h: h},
		Variants:   &VariantRepository{h: h},
		Orders:     &PurchaseOrderRepository{h: h},
		Sales:      &SaleRepository{h: h},
	}
}

// Analytics devuelve el repositorio de reportes.
func (s *Store) Analytics() *AnalyticsRepository {
	return &AnalyticsRepository{h: handle{s: s}}
}

// page aplica limit/offset; limit <= 0 devuelve todo desde offset.
func page[T any](items []T, limit, offset int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return []T{}
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}

func sortedIDs(ids []string) []string {
	out := append([]string(nil), ids...)
	sort.Strings(out)
	return out
}
