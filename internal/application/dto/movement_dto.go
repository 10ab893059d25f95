package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryRequest body para POST /api/movements/entry.
// Con BatchID recarga un lote existente (ignora LotLabel/Expiry);
// sin BatchID crea un lote nuevo con la etiqueta y el vencimiento dados.
type EntryRequest struct {
	ProductID string          `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	Actor     string          `json:"actor,omitempty"`
	BatchID   string          `json:"batch_id,omitempty"`
	LotLabel  string          `json:"lot_label,omitempty"`
	Expiry    string          `json:"expiry,omitempty"` // YYYY-MM-DD
}

// ExitRequest body para POST /api/movements/exit. El caller elige el lote
// (la lista de lotes viene ordenada FEFO, pero la elección es suya).
type ExitRequest struct {
	ProductID string          `json:"product_id"`
	BatchID   string          `json:"batch_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	Actor     string          `json:"actor,omitempty"`
}

// MovementResponse representación de un movimiento del libro.
type MovementResponse struct {
	ID          string          `json:"id"`
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Type        string          `json:"type"`
	Quantity    decimal.Decimal `json:"quantity"`
	Actor       string          `json:"actor"`
	Annotation  string          `json:"annotation,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}
