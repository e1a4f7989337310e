package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sigfarma/sigfarma-api/internal/application/dto"
	"github.com/sigfarma/sigfarma-api/internal/domain"
	"github.com/sigfarma/sigfarma-api/internal/domain/entity"
	"github.com/sigfarma/sigfarma-api/internal/domain/repository"
)

// SalesReportPDFGenerator puerto del generador de la representación PDF del
// reporte de ventas. La implementación vive en infrastructure/pdf.
type SalesReportPDFGenerator interface {
	GenerateSalesReportPDF(ctx context.Context, report *dto.SalesReportDTO) ([]byte, error)
}

// ReportUseCase reporte de ventas por rango de fechas y su exportación a PDF.
type ReportUseCase struct {
	analyticsRepo repository.AnalyticsRepository
	generator     SalesReportPDFGenerator
}

// NewReportUseCase construye el caso de uso.
func NewReportUseCase(analyticsRepo repository.AnalyticsRepository, generator SalesReportPDFGenerator) *ReportUseCase {
	return &ReportUseCase{analyticsRepo: analyticsRepo, generator: generator}
}

// GetSalesReport arma el reporte del rango [from, to]. El rango invertido es
// entrada inválida; un rango sin ventas devuelve el reporte vacío, no error.
func (uc *ReportUseCase) GetSalesReport(ctx context.Context, from, to time.Time) (*dto.SalesReportDTO, error) {
	if from.IsZero() || to.IsZero() || to.Before(from) {
		return nil, domain.ErrInvalidInput
	}

	rows, err := uc.analyticsRepo.GetSalesReport(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("reporte de ventas: %w", err)
	}

	report := &dto.SalesReportDTO{
		From:       from,
		To:         to,
		Rows:       make([]dto.SalesReportRowDTO, 0, len(rows)),
		GrandTotal: decimal.Zero,
	}
	for _, row := range rows {
		report.Rows = append(report.Rows, dto.SalesReportRowDTO{
			SaleID:      row.SaleID,
			CashierName: row.CashierName,
			CreatedAt:   row.CreatedAt,
			Status:      row.Status,
			ItemCount:   row.ItemCount,
			Total:       row.Total.Round(2),
		})
		// Las ventas canceladas se listan pero no suman al total.
		if row.Status == entity.SaleStatusActive {
			report.GrandTotal = report.GrandTotal.Add(row.Total)
		}
	}
	report.GrandTotal = report.GrandTotal.Round(2)
	return report, nil
}

// GetSalesReportPDF genera el PDF del reporte del rango. Devuelve los bytes y
// un nombre de archivo sugerido.
func (uc *ReportUseCase) GetSalesReportPDF(ctx context.Context, from, to time.Time) ([]byte, string, error) {
	report, err := uc.GetSalesReport(ctx, from, to)
	if err != nil {
		return nil, "", err
	}
	pdfBytes, err := uc.generator.GenerateSalesReportPDF(ctx, report)
	if err != nil {
		return nil, "", fmt.Errorf("PDF del reporte de ventas: %w", err)
	}
	filename := fmt.Sprintf("reporte-ventas-%s-%s.pdf", from.Format("20060102"), to.Format("20060102"))
	return pdfBytes, filename, nil
}
