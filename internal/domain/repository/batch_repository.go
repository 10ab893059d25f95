package repository

import (
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/despensa-api/internal/domain/entity"
)

// BatchRepository define el puerto de persistencia para los lotes (Batch Store).
type BatchRepository interface {
	Create(batch *entity.Batch) error
	GetByID(id string) (*entity.Batch, error)
	// GetImplicit devuelve el lote implícito del producto (sin etiqueta y sin
	// vencimiento), usado por los ajustes directos de cantidad. nil si no existe.
	GetImplicit(productID string) (*entity.Batch, error)
	// TopUp suma qty a la cantidad restante del lote y devuelve el lote actualizado.
	TopUp(batchID string, qty decimal.Decimal) (*entity.Batch, error)
	// Withdraw resta qty en una sola sentencia condicional
	// (UPDATE ... WHERE quantity >= qty): chequeo y decremento son atómicos.
	// Devuelve ErrInsufficientStock si no alcanza y ErrNotFound si el lote no existe.
	Withdraw(batchID string, qty decimal.Decimal) (*entity.Batch, error)
	// ListAvailable devuelve los lotes con cantidad > 0 ordenados por vencimiento
	// ascendente (sin vencimiento al final), para que el flujo de salida ofrezca
	// primero el stock que vence antes (FEFO).
	ListAvailable(productID string) ([]*entity.Batch, error)
	// TotalQuantity suma las cantidades de todos los lotes del producto
	// (los lotes en cero aportan 0).
	TotalQuantity(productID string) (decimal.Decimal, error)
	DeleteByProduct(productID string) error
}
