package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto de la despensa.
// TotalQuantity y NearestExpiry son caches denormalizados derivados de los lotes;
// el servicio de inventario los refresca en la misma transacción que muta los lotes.
type Product struct {
	ID            string
	CategoryID    string // vacío si no tiene categoría
	Name          string
	Unit          string          // unidad de medida (kg, un, lt, ...)
	Price         decimal.Decimal // precio unitario
	MinStock      decimal.Decimal // umbral de stock mínimo
	TotalQuantity decimal.Decimal // cache: suma de cantidades de todos los lotes
	NearestExpiry *time.Time      // cache: vencimiento más próximo entre lotes con cantidad > 0
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
