package inventory

import (
	"context"

	"github.com/tu-usuario/despensa-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza que la mutación de lotes y el
// refresco del cache de agregados se confirmen juntos.
//
// El repositorio de movimientos no participa: el libro se escribe después del
// commit y sus fallos no revierten el stock (ver Service.recordMovement).
type TxRunner interface {
	Run(ctx context.Context, fn func(
		batchRepo repository.BatchRepository,
		productRepo repository.ProductRepository,
	) error) error
}
