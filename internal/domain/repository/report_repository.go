package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// ExpiringBatchItem fila del reporte de vencimientos: lote con existencias y
// fecha de vencimiento dentro de la ventana.
type ExpiringBatchItem struct {
	BatchID     string
	ProductID   string
	ProductName string
	LotLabel    string
	Unit        string
	ExpiryDate  time.Time
	Quantity    decimal.Decimal
}

// LowStockItem producto cuyo stock total está en o por debajo de su umbral mínimo.
type LowStockItem struct {
	ProductID     string
	Name          string
	Unit          string
	TotalQuantity decimal.Decimal
	MinStock      decimal.Decimal
}

// TopExitItem producto rankeado por la suma de sus salidas (movimientos EXIT).
type TopExitItem struct {
	ProductID   string
	ProductName string
	Unit        string
	TotalExits  decimal.Decimal
}

// ReportRepository define el puerto de las proyecciones de solo lectura.
type ReportRepository interface {
	// ExpiringBatches lotes con cantidad > 0 y vencimiento no nulo dentro de la
	// ventana, ascendente por vencimiento.
	ExpiringBatches(ctx context.Context, within time.Duration) ([]ExpiringBatchItem, error)
	// LowStockProducts productos con total <= umbral, ordenados por déficit descendente.
	LowStockProducts(ctx context.Context) ([]LowStockItem, error)
	TopExits(ctx context.Context, limit int) ([]TopExitItem, error)
	// InventoryValue suma precio * cantidad total de todos los productos.
	InventoryValue(ctx context.Context) (decimal.Decimal, error)
}
