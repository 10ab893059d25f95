package usecase

import (
	"context"
	"time"

	"github.com/tu-usuario/despensa-api/internal/application/dto"
	"github.com/tu-usuario/despensa-api/internal/domain/repository"
)

// StockReportPDFGenerator puerto para la representación PDF del reporte de
// stock (vencimientos + críticos).
type StockReportPDFGenerator interface {
	GenerateStockReportPDF(ctx context.Context, generatedAt time.Time, expiring []dto.ExpiringItemDTO, lowStock []dto.LowStockItemDTO) ([]byte, error)
}

// ReportUseCase proyecciones de solo lectura: vencimientos, stock crítico,
// ranking de salidas y el resumen del dashboard.
type ReportUseCase struct {
	repo         repository.ReportRepository
	movementRepo repository.MovementRepository
	pdfGenerator StockReportPDFGenerator
	defaultDays  int // ventana por defecto del reporte de vencimientos
}

// NewReportUseCase construye el caso de uso.
func NewReportUseCase(
	repo repository.ReportRepository,
	movementRepo repository.MovementRepository,
	pdfGenerator StockReportPDFGenerator,
	defaultExpiringDays int,
) *ReportUseCase {
	if defaultExpiringDays <= 0 {
		defaultExpiringDays = 15
	}
	return &ReportUseCase{
		repo:         repo,
		movementRepo: movementRepo,
		pdfGenerator: pdfGenerator,
		defaultDays:  defaultExpiringDays,
	}
}

// Expiring lotes con existencias que vencen dentro de days días (incluye ya
// vencidos). days <= 0 usa la ventana por defecto.
func (uc *ReportUseCase) Expiring(ctx context.Context, days int) ([]dto.ExpiringItemDTO, error) {
	if days <= 0 {
		days = uc.defaultDays
	}
	items, err := uc.repo.ExpiringBatches(ctx, time.Duration(days)*24*time.Hour)
	if err != nil {
		return nil, err
	}
	return toExpiringDTOs(items), nil
}

// LowStock productos en o por debajo de su umbral mínimo, mayor déficit primero.
func (uc *ReportUseCase) LowStock(ctx context.Context) ([]dto.LowStockItemDTO, error) {
	items, err := uc.repo.LowStockProducts(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.LowStockItemDTO, 0, len(items))
	for _, it := range items {
		out = append(out, dto.LowStockItemDTO{
			ProductID:     it.ProductID,
			Name:          it.Name,
			Unit:          it.Unit,
			TotalQuantity: it.TotalQuantity,
			MinStock:      it.MinStock,
		})
	}
	return out, nil
}

// TopExits productos rankeados por salidas acumuladas.
func (uc *ReportUseCase) TopExits(ctx context.Context, limit int) ([]dto.TopExitItemDTO, error) {
	if limit <= 0 {
		limit = 10
	}
	items, err := uc.repo.TopExits(ctx, limit)
	if err != nil {
		return nil, err
	}
	out := make([]dto.TopExitItemDTO, 0, len(items))
	for _, it := range items {
		out = append(out, dto.TopExitItemDTO{
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			Unit:        it.Unit,
			TotalExits:  it.TotalExits,
		})
	}
	return out, nil
}

// Dashboard resumen de la pantalla principal: valor total del inventario,
// productos críticos, lotes que vencen en 7 días y los últimos 5 movimientos.
func (uc *ReportUseCase) Dashboard(ctx context.Context) (*dto.DashboardResponse, error) {
	value, err := uc.repo.InventoryValue(ctx)
	if err != nil {
		return nil, err
	}
	critical, err := uc.repo.LowStockProducts(ctx)
	if err != nil {
		return nil, err
	}
	expiring, err := uc.repo.ExpiringBatches(ctx, 7*24*time.Hour)
	if err != nil {
		return nil, err
	}
	recent, err := uc.movementRepo.Recent(5)
	if err != nil {
		return nil, err
	}

	movements := make([]dto.MovementResponse, 0, len(recent))
	for _, m := range recent {
		movements = append(movements, dto.MovementResponse{
			ID:          m.ID,
			ProductID:   m.ProductID,
			ProductName: m.ProductName,
			Type:        m.Type,
			Quantity:    m.Quantity,
			Actor:       m.Actor,
			Annotation:  m.Annotation,
			CreatedAt:   m.CreatedAt,
		})
	}
	return &dto.DashboardResponse{
		InventoryValue:  value,
		CriticalCount:   len(critical),
		ExpiringCount:   len(expiring),
		RecentMovements: movements,
	}, nil
}

// ReportPDF genera el PDF del reporte de stock (vencimientos + críticos).
func (uc *ReportUseCase) ReportPDF(ctx context.Context) ([]byte, error) {
	expiring, err := uc.Expiring(ctx, uc.defaultDays)
	if err != nil {
		return nil, err
	}
	lowStock, err := uc.LowStock(ctx)
	if err != nil {
		return nil, err
	}
	return uc.pdfGenerator.GenerateStockReportPDF(ctx, time.Now(), expiring, lowStock)
}

func toExpiringDTOs(items []repository.ExpiringBatchItem) []dto.ExpiringItemDTO {
	out := make([]dto.ExpiringItemDTO, 0, len(items))
	for _, it := range items {
		out = append(out, dto.ExpiringItemDTO{
			BatchID:     it.BatchID,
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			LotLabel:    it.LotLabel,
			Unit:        it.Unit,
			ExpiryDate:  it.ExpiryDate,
			Quantity:    it.Quantity,
		})
	}
	return out
}
