package repository

import "github.com/tu-usuario/despensa-api/internal/domain/entity"

// MovementRepository define el puerto de persistencia del libro de movimientos.
// El libro es append-only: no existen operaciones de update ni delete.
type MovementRepository interface {
	Create(movement *entity.Movement) error
	// Recent devuelve los últimos movimientos, descendente por fecha.
	Recent(limit int) ([]*entity.Movement, error)
	ListByProduct(productID string, limit int) ([]*entity.Movement, error)
}
