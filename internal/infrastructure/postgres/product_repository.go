package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/despensa-api/internal/domain/entity"
	"github.com/tu-usuario/despensa-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

const productColumns = "id, category_id, name, unit, price, min_stock, total_quantity, nearest_expiry, created_at, updated_at"

// Create persiste un nuevo producto. El stock inicia en cero: solo entra vía movimientos.
func (r *ProductRepo) Create(product *entity.Product) error {
	query := `
		INSERT INTO products (id, category_id, name, unit, price, min_stock, total_quantity, nearest_expiry, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	categoryID := (*string)(nil)
	if product.CategoryID != "" {
		categoryID = &product.CategoryID
	}
	_, err := r.q.Exec(context.Background(), query,
		product.ID, categoryID, product.Name, product.Unit, product.Price,
		product.MinStock, product.TotalQuantity, product.NearestExpiry,
		product.CreatedAt, product.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID obtiene un producto por ID.
func (r *ProductRepo) GetByID(id string) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	p, err := scanProduct(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// Update actualiza metadatos. No toca TotalQuantity ni NearestExpiry (se refrescan vía RefreshAggregates).
func (r *ProductRepo) Update(product *entity.Product) error {
	query := `
		UPDATE products SET category_id = $2, name = $3, unit = $4, price = $5, min_stock = $6, updated_at = $7
		WHERE id = $1`
	categoryID := (*string)(nil)
	if product.CategoryID != "" {
		categoryID = &product.CategoryID
	}
	_, err := r.q.Exec(context.Background(), query,
		product.ID, categoryID, product.Name, product.Unit, product.Price,
		product.MinStock, product.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	return nil
}

// RefreshAggregates recalcula y persiste el cache de agregados del producto en
// una sola sentencia: total = suma de todos los lotes; vencimiento más próximo
// solo entre lotes con cantidad > 0. Debe ejecutarse en la misma transacción
// que mutó los lotes para que el cache nunca quede desfasado del estado confirmado.
func (r *ProductRepo) RefreshAggregates(productID string) error {
	query := `
		UPDATE products SET
			total_quantity = (
				SELECT COALESCE(SUM(quantity), 0) FROM batches WHERE product_id = $1
			),
			nearest_expiry = (
				SELECT MIN(expiry_date) FROM batches
				WHERE product_id = $1 AND quantity > 0 AND expiry_date IS NOT NULL
			),
			updated_at = now()
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query, productID)
	if err != nil {
		return fmt.Errorf("refresh product aggregates: %w", err)
	}
	return nil
}

// List lista productos ordenados por vencimiento más próximo (los que vencen
// antes primero, como la vista principal de la app), con paginación.
func (r *ProductRepo) List(limit, offset int) ([]*entity.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
		ORDER BY nearest_expiry ASC NULLS LAST, created_at DESC
		LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	var list []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// Delete elimina un producto por ID. Los movimientos históricos no se tocan.
func (r *ProductRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	return nil
}

// CountByCategory cuenta los productos que referencian la categoría.
func (r *ProductRepo) CountByCategory(categoryID string) (int, error) {
	var count int
	err := r.q.QueryRow(context.Background(),
		`SELECT COUNT(*) FROM products WHERE category_id = $1`, categoryID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count products by category: %w", err)
	}
	return count, nil
}

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	var categoryID *string
	if err := row.Scan(&p.ID, &categoryID, &p.Name, &p.Unit, &p.Price, &p.MinStock,
		&p.TotalQuantity, &p.NearestExpiry, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	if categoryID != nil {
		p.CategoryID = *categoryID
	}
	return &p, nil
}
