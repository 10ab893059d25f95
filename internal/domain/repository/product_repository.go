package repository

import "github.com/tu-usuario/despensa-api/internal/domain/entity"

// ProductRepository define el puerto de persistencia para Product (DIP).
// TotalQuantity y NearestExpiry no se escriben directamente: se refrescan
// con RefreshAggregates dentro de la transacción que mutó los lotes.
type ProductRepository interface {
	Create(product *entity.Product) error
	GetByID(id string) (*entity.Product, error)
	// Update actualiza solo metadatos (nombre, categoría, unidad, precio, umbral).
	Update(product *entity.Product) error
	// RefreshAggregates recalcula TotalQuantity y NearestExpiry desde los lotes
	// y los persiste en la fila del producto, en una sola sentencia.
	RefreshAggregates(productID string) error
	List(limit, offset int) ([]*entity.Product, error)
	Delete(id string) error
	CountByCategory(categoryID string) (int, error)
}
