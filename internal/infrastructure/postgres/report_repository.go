package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/despensa-api/internal/domain/repository"
)

var _ repository.ReportRepository = (*ReportRepo)(nil)

// ReportRepo proyecciones de solo lectura sobre PostgreSQL.
type ReportRepo struct {
	q Querier
}

// NewReportRepository construye el adaptador. Pasar pool o tx (Querier).
func NewReportRepository(q Querier) *ReportRepo {
	return &ReportRepo{q: q}
}

// ExpiringBatches devuelve los lotes con existencias y vencimiento dentro de la
// ventana, ascendente por vencimiento. Incluye lotes ya vencidos (siguen en
// estantería hasta que alguien los dé de baja).
func (r *ReportRepo) ExpiringBatches(ctx context.Context, within time.Duration) ([]repository.ExpiringBatchItem, error) {
	query := `
		SELECT b.id, b.product_id, p.name, b.lot_label, p.unit, b.expiry_date, b.quantity
		FROM batches b
		JOIN products p ON p.id = b.product_id
		WHERE b.quantity > 0
		  AND b.expiry_date IS NOT NULL
		  AND b.expiry_date <= $1
		ORDER BY b.expiry_date ASC`
	rows, err := r.q.Query(ctx, query, time.Now().Add(within))
	if err != nil {
		return nil, fmt.Errorf("expiring batches: %w", err)
	}
	defer rows.Close()

	var items []repository.ExpiringBatchItem
	for rows.Next() {
		var it repository.ExpiringBatchItem
		if err := rows.Scan(&it.BatchID, &it.ProductID, &it.ProductName, &it.LotLabel,
			&it.Unit, &it.ExpiryDate, &it.Quantity); err != nil {
			return nil, fmt.Errorf("scan expiring batch: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// LowStockProducts devuelve los productos con total <= umbral mínimo,
// ordenados por déficit descendente (mayor quiebre primero).
func (r *ReportRepo) LowStockProducts(ctx context.Context) ([]repository.LowStockItem, error) {
	query := `
		SELECT id, name, unit, total_quantity, min_stock
		FROM products
		WHERE total_quantity <= min_stock
		ORDER BY (min_stock - total_quantity) DESC`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("low stock products: %w", err)
	}
	defer rows.Close()

	var items []repository.LowStockItem
	for rows.Next() {
		var it repository.LowStockItem
		if err := rows.Scan(&it.ProductID, &it.Name, &it.Unit, &it.TotalQuantity, &it.MinStock); err != nil {
			return nil, fmt.Errorf("scan low stock item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// TopExits rankea productos por la suma de sus salidas. Lee del libro de
// movimientos, así el ranking incluye productos ya eliminados (LEFT JOIN:
// el nombre sale del snapshot del movimiento).
func (r *ReportRepo) TopExits(ctx context.Context, limit int) ([]repository.TopExitItem, error) {
	query := `
		SELECT m.product_id, MAX(m.product_name), COALESCE(MAX(p.unit), ''), SUM(m.quantity)
		FROM movements m
		LEFT JOIN products p ON p.id = m.product_id
		WHERE m.type = 'EXIT'
		GROUP BY m.product_id
		ORDER BY SUM(m.quantity) DESC
		LIMIT $1`
	rows, err := r.q.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("top exits: %w", err)
	}
	defer rows.Close()

	var items []repository.TopExitItem
	for rows.Next() {
		var it repository.TopExitItem
		if err := rows.Scan(&it.ProductID, &it.ProductName, &it.Unit, &it.TotalExits); err != nil {
			return nil, fmt.Errorf("scan top exit item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// InventoryValue suma precio * cantidad total de todos los productos.
func (r *ReportRepo) InventoryValue(ctx context.Context) (decimal.Decimal, error) {
	var value decimal.Decimal
	err := r.q.QueryRow(ctx,
		`SELECT COALESCE(SUM(price * total_quantity), 0) FROM products`,
	).Scan(&value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("inventory value: %w", err)
	}
	return value, nil
}
