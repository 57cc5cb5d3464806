package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/ventas-api/internal/domain"
)

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, isUniqueViolation(&pgconn.PgError{Code: "23505"}))
	assert.True(t, isUniqueViolation(fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"})))
	assert.False(t, isUniqueViolation(&pgconn.PgError{Code: "23503"}))
}

func TestIsInvalidTextRepresentation_IDMalFormado(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "22P02", Message: `invalid input syntax for type uuid: "abc"`}

	assert.True(t, isInvalidTextRepresentation(pgErr))
	assert.True(t, isInvalidTextRepresentation(fmt.Errorf("get sale: %w", pgErr)))
	assert.False(t, isInvalidTextRepresentation(&pgconn.PgError{Code: "23505"}))
	assert.False(t, isInvalidTextRepresentation(errors.New("22P02")))
}

func TestIsNoRows_IncluyeIDMalFormado(t *testing.T) {
	assert.True(t, isNoRows(pgx.ErrNoRows))
	assert.True(t, isNoRows(&pgconn.PgError{Code: "22P02"}))
	assert.False(t, isNoRows(&pgconn.PgError{Code: "23514"}))
	assert.False(t, isNoRows(errors.New("conexión perdida")))
}

func TestMapWriteError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"unico", &pgconn.PgError{Code: "23505"}, domain.ErrDuplicate},
		{"llave foranea", &pgconn.PgError{Code: "23503"}, domain.ErrConflict},
		{"id mal formado", &pgconn.PgError{Code: "22P02"}, domain.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, mapWriteError("delete sale", tt.err), tt.want)
		})
	}

	other := mapWriteError("delete sale", errors.New("timeout"))
	assert.NotErrorIs(t, other, domain.ErrNotFound)
	assert.Contains(t, other.Error(), "delete sale")
}

func TestValidIDs_DescartaNoUUID(t *testing.T) {
	good := "3f1c2a9e-8d5b-4f6a-9c0e-2b7d1a4e6f80"

	assert.Equal(t, []string{good}, validIDs([]string{"abc", good, "", "123"}))
	assert.Empty(t, validIDs([]string{"var-a"}))
}
