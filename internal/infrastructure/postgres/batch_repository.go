package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/despensa-api/internal/domain"
	"github.com/tu-usuario/despensa-api/internal/domain/entity"
	"github.com/tu-usuario/despensa-api/internal/domain/repository"
)

var _ repository.BatchRepository = (*BatchRepo)(nil)

// BatchRepo implementación de BatchRepository sobre PostgreSQL (usable con pool o tx).
type BatchRepo struct {
	q Querier
}

// NewBatchRepository construye el adaptador de lotes. Pasar pool o tx (Querier).
func NewBatchRepository(q Querier) *BatchRepo {
	return &BatchRepo{q: q}
}

const batchColumns = "id, product_id, lot_label, expiry_date, quantity, created_at, updated_at"

// Create persiste un lote nuevo.
func (r *BatchRepo) Create(batch *entity.Batch) error {
	if batch.ID == "" {
		batch.ID = uuid.New().String()
	}
	query := `
		INSERT INTO batches (id, product_id, lot_label, expiry_date, quantity, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(context.Background(), query,
		batch.ID, batch.ProductID, batch.LotLabel, batch.ExpiryDate,
		batch.Quantity, batch.CreatedAt, batch.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert batch: %w", err)
	}
	return nil
}

// GetByID obtiene un lote por ID.
func (r *BatchRepo) GetByID(id string) (*entity.Batch, error) {
	query := `SELECT ` + batchColumns + ` FROM batches WHERE id = $1`
	b, err := scanBatch(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get batch: %w", err)
	}
	return b, nil
}

// GetImplicit obtiene el lote implícito del producto (sin etiqueta ni vencimiento).
// Lo usan los ajustes directos de cantidad; nil si no existe.
func (r *BatchRepo) GetImplicit(productID string) (*entity.Batch, error) {
	query := `
		SELECT ` + batchColumns + `
		FROM batches
		WHERE product_id = $1 AND lot_label = '' AND expiry_date IS NULL
		ORDER BY created_at ASC
		LIMIT 1`
	b, err := scanBatch(r.q.QueryRow(context.Background(), query, productID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get implicit batch: %w", err)
	}
	return b, nil
}

// TopUp suma qty a la cantidad restante del lote. Un lote en cero vuelve a
// estar activo al recargarlo.
func (r *BatchRepo) TopUp(batchID string, qty decimal.Decimal) (*entity.Batch, error) {
	query := `
		UPDATE batches
		SET quantity = quantity + $2, updated_at = now()
		WHERE id = $1
		RETURNING ` + batchColumns
	b, err := scanBatch(r.q.QueryRow(context.Background(), query, batchID, qty))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("top up batch: %w", err)
	}
	return b, nil
}

// Withdraw resta qty con una sola sentencia condicional: el chequeo de saldo y
// el decremento son atómicos, sin ventana entre lectura y escritura.
func (r *BatchRepo) Withdraw(batchID string, qty decimal.Decimal) (*entity.Batch, error) {
	query := `
		UPDATE batches
		SET quantity = quantity - $2, updated_at = now()
		WHERE id = $1 AND quantity >= $2
		RETURNING ` + batchColumns
	b, err := scanBatch(r.q.QueryRow(context.Background(), query, batchID, qty))
	if err == nil {
		return b, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("withdraw batch: %w", err)
	}
	// Cero filas: distinguir lote inexistente de saldo insuficiente.
	existing, lookupErr := r.GetByID(batchID)
	if lookupErr != nil {
		return nil, lookupErr
	}
	if existing == nil {
		return nil, domain.ErrNotFound
	}
	return nil, domain.ErrInsufficientStock
}

// ListAvailable lotes con cantidad > 0, ordenados por vencimiento ascendente
// (sin vencimiento al final) para ofrecer primero el stock que vence antes (FEFO).
func (r *BatchRepo) ListAvailable(productID string) ([]*entity.Batch, error) {
	query := `
		SELECT ` + batchColumns + `
		FROM batches
		WHERE product_id = $1 AND quantity > 0
		ORDER BY expiry_date ASC NULLS LAST, created_at ASC`
	rows, err := r.q.Query(context.Background(), query, productID)
	if err != nil {
		return nil, fmt.Errorf("list available batches: %w", err)
	}
	defer rows.Close()
	var list []*entity.Batch
	for rows.Next() {
		b, err := scanBatch(rows)
		if err != nil {
			return nil, fmt.Errorf("scan batch: %w", err)
		}
		list = append(list, b)
	}
	return list, rows.Err()
}

// TotalQuantity suma las cantidades de todos los lotes del producto.
func (r *BatchRepo) TotalQuantity(productID string) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.q.QueryRow(context.Background(),
		`SELECT COALESCE(SUM(quantity), 0) FROM batches WHERE product_id = $1`,
		productID,
	).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum batch quantities: %w", err)
	}
	return total, nil
}

// DeleteByProduct elimina todos los lotes del producto (al eliminar el producto).
func (r *BatchRepo) DeleteByProduct(productID string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM batches WHERE product_id = $1`, productID)
	if err != nil {
		return fmt.Errorf("delete batches: %w", err)
	}
	return nil
}

func scanBatch(row pgx.Row) (*entity.Batch, error) {
	var b entity.Batch
	if err := row.Scan(&b.ID, &b.ProductID, &b.LotLabel, &b.ExpiryDate, &b.Quantity, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, err
	}
	return &b, nil
}
