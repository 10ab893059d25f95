package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento de inventario. La dirección va en el tipo;
// la cantidad del movimiento es siempre una magnitud positiva.
const (
	MovementTypeENTRY          = "ENTRY"           // entrada (reposición)
	MovementTypeEXIT           = "EXIT"            // salida (consumo/venta)
	MovementTypeADJUSTMENTUp   = "ADJUSTMENT_UP"   // ajuste directo hacia arriba
	MovementTypeADJUSTMENTDown = "ADJUSTMENT_DOWN" // ajuste directo hacia abajo
)

// ActorSystem actor por defecto cuando la operación no trae identidad.
const ActorSystem = "system"

// Movement es un registro inmutable del libro de movimientos: nunca se
// actualiza ni se borra, aunque el producto o el lote de origen desaparezcan.
// ProductName es un snapshot denormalizado para que el historial siga legible
// después de eliminar el producto.
type Movement struct {
	ID          string
	ProductID   string
	ProductName string
	Type        string
	Quantity    decimal.Decimal // magnitud positiva
	Actor       string          // "system" si no hay identidad
	Annotation  string          // ej. etiqueta del lote o "lote existente"
	CreatedAt   time.Time       // asignado al escribir, inmutable
}
