package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Batch representa un lote físico de un producto: una cantidad recibida junta,
// con su propia fecha de vencimiento. La cantidad restante nunca es negativa.
// Un lote en cero queda inerte pero no se borra: su historial sigue referenciable.
type Batch struct {
	ID         string
	ProductID  string
	LotLabel   string          // etiqueta legible del lote; vacío para el lote implícito de ajustes
	ExpiryDate *time.Time      // nil si no vence
	Quantity   decimal.Decimal // cantidad restante, >= 0
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Depleted indica si el lote quedó sin existencias.
func (b *Batch) Depleted() bool {
	return b.Quantity.LessThanOrEqual(decimal.Zero)
}
