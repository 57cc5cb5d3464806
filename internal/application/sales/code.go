package sales

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/jhoicas/ventas-api/internal/domain"
	"github.com/jhoicas/ventas-api/internal/domain/entity"
	"github.com/jhoicas/ventas-api/internal/domain/repository"
)

// CodeGenerator produce candidatos de código de venta.
type CodeGenerator func() string

// RandomCode toma los primeros 8 caracteres hexadecimales de un UUID v4, en mayúsculas.
func RandomCode() string {
	hex := strings.ReplaceAll(uuid.NewString(), "-", "")
	return strings.ToUpper(hex[:entity.SaleCodeLength])
}

// uniqueCode intenta hasta maxAttempts candidatos y devuelve el primero que no existe.
func uniqueCode(ctx context.Context, sales repository.SaleRepository, gen CodeGenerator, maxAttempts int) (string, error) {
	for i := 0; i < maxAttempts; i++ {
		code := gen()
		exists, err := sales.CodeExists(ctx, code)
		if err != nil {
			return "", err
		}
		if !exists {
			return code, nil
		}
	}
	return "", domain.ErrCodeGeneration
}
