package domain

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNotFoundError_MensajeSinGenero(t *testing.T) {
	tests := []struct {
		entity string
		key    string
		want   string
	}{
		{"venta", "ABC123", `no existe venta "ABC123"`},
		{"orden de compra", "o-1", `no existe orden de compra "o-1"`},
		{"producto", "p-1", `no existe producto "p-1"`},
	}
	for _, tt := range tests {
		t.Run(tt.entity, func(t *testing.T) {
			err := NewNotFound(tt.entity, tt.key)
			assert.EqualError(t, err, tt.want)
			assert.ErrorIs(t, err, ErrNotFound)
			assert.ErrorIs(t, fmt.Errorf("cargar: %w", err), ErrNotFound)
		})
	}
}

func TestStockError_DesenvuelveAStockInsuficiente(t *testing.T) {
	err := &StockError{VariantID: "var-1", Available: 1, Requested: 3}

	assert.ErrorIs(t, err, ErrInsufficientStock)
	assert.Contains(t, err.Error(), "disponible 1, solicitado 3")
}
