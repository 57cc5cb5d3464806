// Package analytics contiene los reportes de ventas del período.
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/ventas-api/internal/application/dto"
	"github.com/jhoicas/ventas-api/internal/domain"
	"github.com/jhoicas/ventas-api/internal/domain/repository"
)

const reportTopVariants = 10 // variantes en el ranking del reporte

// SalesReportUseCase resumen de ventas y ranking de variantes en un rango de fechas.
//
// Fuente de datos: AnalyticsRepository (consultas read-only).
type SalesReportUseCase struct {
	analyticsRepo repository.AnalyticsRepository
	now           func() time.Time
}

// NewSalesReportUseCase construye el caso de uso.
func NewSalesReportUseCase(analyticsRepo repository.AnalyticsRepository) *SalesReportUseCase {
	return &SalesReportUseCase{analyticsRepo: analyticsRepo, now: time.Now}
}

// Report construye el SalesReportResponse para [from, to).
// Sin from se usa el inicio del mes en curso; sin to, el momento actual.
func (uc *SalesReportUseCase) Report(ctx context.Context, from, to time.Time) (*dto.SalesReportResponse, error) {
	now := uc.now().UTC()
	if from.IsZero() {
		from = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	}
	if to.IsZero() {
		to = now
	}
	if !from.Before(to) {
		return nil, fmt.Errorf("%w: from debe ser anterior a to", domain.ErrInvalidInput)
	}

	type summaryResult struct {
		summary *repository.SalesSummaryResult
		err     error
	}
	type topResult struct {
		top []repository.TopVariantResult
		err error
	}
	summaryCh := make(chan summaryResult, 1)
	topCh := make(chan topResult, 1)

	go func() {
		s, err := uc.analyticsRepo.SalesSummary(ctx, from, to)
		summaryCh <- summaryResult{s, err}
	}()
	go func() {
		t, err := uc.analyticsRepo.TopVariants(ctx, from, to, reportTopVariants)
		topCh <- topResult{t, err}
	}()

	summary := <-summaryCh
	top := <-topCh
	if summary.err != nil {
		return nil, fmt.Errorf("reporte: resumen de ventas: %w", summary.err)
	}
	if top.err != nil {
		return nil, fmt.Errorf("reporte: top variantes: %w", top.err)
	}

	out := &dto.SalesReportResponse{
		From:           from,
		To:             to,
		Revenue:        summary.summary.Revenue.Round(2),
		CountByStatus:  summary.summary.CountByStatus,
		UnitsCommitted: summary.summary.UnitsCommitted,
		TopVariants:    make([]dto.TopVariantDTO, 0, len(top.top)),
	}
	if out.CountByStatus == nil {
		out.CountByStatus = map[string]int{}
	}
	for _, t := range top.top {
		out.TopVariants = append(out.TopVariants, dto.TopVariantDTO{
			VariantID:   t.VariantID,
			ProductID:   t.ProductID,
			ProductName: t.ProductName,
			Color:       t.Color,
			Size:        t.Size,
			UnitsSold:   t.UnitsSold,
			Revenue:     t.Revenue,
		})
	}
	return out, nil
}
