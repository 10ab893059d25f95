package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExpiringItemDTO fila del reporte de vencimientos.
type ExpiringItemDTO struct {
	BatchID     string          `json:"batch_id"`
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	LotLabel    string          `json:"lot_label,omitempty"`
	Unit        string          `json:"unit"`
	ExpiryDate  time.Time       `json:"expiry_date"`
	Quantity    decimal.Decimal `json:"quantity"`
}

// LowStockItemDTO fila del reporte de stock crítico.
type LowStockItemDTO struct {
	ProductID     string          `json:"product_id"`
	Name          string          `json:"name"`
	Unit          string          `json:"unit"`
	TotalQuantity decimal.Decimal `json:"total_quantity"`
	MinStock      decimal.Decimal `json:"min_stock"`
}

// TopExitItemDTO fila del ranking de salidas.
type TopExitItemDTO struct {
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Unit        string          `json:"unit"`
	TotalExits  decimal.Decimal `json:"total_exits"`
}

// DashboardResponse resumen para la pantalla principal: valor total del
// inventario, cuántos productos están en stock crítico, cuántos lotes vencen
// pronto y la última actividad.
type DashboardResponse struct {
	InventoryValue  decimal.Decimal    `json:"inventory_value"`
	CriticalCount   int                `json:"critical_count"`
	ExpiringCount   int                `json:"expiring_count"`
	RecentMovements []MovementResponse `json:"recent_movements"`
}
