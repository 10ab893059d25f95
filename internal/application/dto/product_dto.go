package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest body para POST /api/products. El stock inicial es cero:
// las existencias solo entran vía movimientos de entrada.
type CreateProductRequest struct {
	Name       string          `json:"name"`
	CategoryID string          `json:"category_id,omitempty"`
	Unit       string          `json:"unit"`
	Price      decimal.Decimal `json:"price"`
	MinStock   decimal.Decimal `json:"min_stock"`
}

// UpdateProductRequest body para PUT /api/products/{id}. Campos nil no se tocan.
// Quantity es la ruta legada de edición directa: dispara un ajuste
// (ADJUSTMENT_UP/DOWN) en lugar de escribir la cantidad sin rastro.
type UpdateProductRequest struct {
	Name       *string          `json:"name,omitempty"`
	CategoryID *string          `json:"category_id,omitempty"`
	Unit       *string          `json:"unit,omitempty"`
	Price      *decimal.Decimal `json:"price,omitempty"`
	MinStock   *decimal.Decimal `json:"min_stock,omitempty"`
	Quantity   *decimal.Decimal `json:"quantity,omitempty"`
}

// ProductResponse representación de un producto con sus agregados derivados.
type ProductResponse struct {
	ID            string          `json:"id"`
	CategoryID    string          `json:"category_id,omitempty"`
	Name          string          `json:"name"`
	Unit          string          `json:"unit"`
	Price         decimal.Decimal `json:"price"`
	MinStock      decimal.Decimal `json:"min_stock"`
	TotalQuantity decimal.Decimal `json:"total_quantity"`
	NearestExpiry *time.Time      `json:"nearest_expiry,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// ProductListResponse respuesta paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// BatchResponse representación de un lote.
type BatchResponse struct {
	ID         string          `json:"id"`
	ProductID  string          `json:"product_id"`
	LotLabel   string          `json:"lot_label,omitempty"`
	ExpiryDate *time.Time      `json:"expiry_date,omitempty"`
	Quantity   decimal.Decimal `json:"quantity"`
	CreatedAt  time.Time       `json:"created_at"`
}
