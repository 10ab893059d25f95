package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/despensa-api/internal/domain"
	"github.com/tu-usuario/despensa-api/internal/domain/entity"
	"github.com/tu-usuario/despensa-api/internal/domain/repository"
	"github.com/tu-usuario/despensa-api/pkg/logger"
)

// Service orquesta las operaciones de inventario. Es el único componente que
// toca lotes y libro de movimientos en una misma operación de negocio: la
// mutación de lotes y el refresco del cache van juntos en una transacción, y
// el movimiento se registra después del commit (best-effort: un fallo del
// libro se loguea y no se propaga, el stock ya confirmado no se revierte).
type Service struct {
	txRunner     TxRunner
	productRepo  repository.ProductRepository
	batchRepo    repository.BatchRepository
	movementRepo repository.MovementRepository
	log          *logger.Logger
}

// NewService construye el servicio de inventario. productRepo, batchRepo y
// movementRepo van atados al pool (las versiones transaccionales las entrega
// el TxRunner).
func NewService(
	txRunner TxRunner,
	productRepo repository.ProductRepository,
	batchRepo repository.BatchRepository,
	movementRepo repository.MovementRepository,
	log *logger.Logger,
) *Service {
	return &Service{
		txRunner:     txRunner,
		productRepo:  productRepo,
		batchRepo:    batchRepo,
		movementRepo: movementRepo,
		log:          log,
	}
}

// IntakeInput entrada de stock. Con BatchID recarga un lote existente
// (LotLabel/Expiry se ignoran: el lote ya los tiene); sin BatchID crea un
// lote nuevo con esa etiqueta y vencimiento.
type IntakeInput struct {
	ProductID string
	Quantity  decimal.Decimal
	Actor     string
	BatchID   string
	LotLabel  string
	Expiry    *time.Time
}

// DispenseInput salida de stock contra un lote concreto elegido por el caller.
type DispenseInput struct {
	ProductID string
	BatchID   string
	Quantity  decimal.Decimal
	Actor     string
}

// Intake registra una entrada: crea o recarga el lote, refresca los agregados
// del producto en la misma transacción y escribe un movimiento ENTRY.
func (s *Service) Intake(ctx context.Context, in IntakeInput) (*entity.Batch, error) {
	if !in.Quantity.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidQuantity
	}
	product, err := s.productRepo.GetByID(in.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}

	var (
		batch      *entity.Batch
		annotation string
	)
	err = s.txRunner.Run(ctx, func(
		batchRepo repository.BatchRepository,
		productRepo repository.ProductRepository,
	) error {
		if in.BatchID != "" {
			b, err := batchRepo.TopUp(in.BatchID, in.Quantity)
			if err != nil {
				return err
			}
			if b.ProductID != in.ProductID {
				// El lote existe pero pertenece a otro producto: rollback.
				return domain.ErrNotFound
			}
			batch = b
			annotation = "lote existente"
		} else {
			now := time.Now()
			b := &entity.Batch{
				ID:         uuid.New().String(),
				ProductID:  in.ProductID,
				LotLabel:   in.LotLabel,
				ExpiryDate: in.Expiry,
				Quantity:   in.Quantity,
				CreatedAt:  now,
				UpdatedAt:  now,
			}
			if err := batchRepo.Create(b); err != nil {
				return err
			}
			batch = b
			annotation = "lote nuevo"
			if in.LotLabel != "" {
				annotation = "lote nuevo " + in.LotLabel
			}
		}
		return productRepo.RefreshAggregates(in.ProductID)
	})
	if err != nil {
		return nil, err
	}

	s.recordMovement(product, entity.MovementTypeENTRY, in.Quantity, in.Actor, annotation)
	return batch, nil
}

// Dispense registra una salida contra un lote. El chequeo de saldo y el
// decremento son una sola sentencia condicional en el repositorio: sin efecto
// parcial en caso de stock insuficiente.
func (s *Service) Dispense(ctx context.Context, in DispenseInput) (*entity.Batch, error) {
	if !in.Quantity.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidQuantity
	}
	product, err := s.productRepo.GetByID(in.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}

	var batch *entity.Batch
	err = s.txRunner.Run(ctx, func(
		batchRepo repository.BatchRepository,
		productRepo repository.ProductRepository,
	) error {
		b, err := batchRepo.Withdraw(in.BatchID, in.Quantity)
		if err != nil {
			return err
		}
		if b.ProductID != in.ProductID {
			return domain.ErrNotFound
		}
		batch = b
		return productRepo.RefreshAggregates(in.ProductID)
	})
	if err != nil {
		return nil, err
	}

	annotation := "lote " + batch.LotLabel
	if batch.LotLabel == "" {
		annotation = "lote sin etiqueta"
	}
	s.recordMovement(product, entity.MovementTypeEXIT, in.Quantity, in.Actor, annotation)
	return batch, nil
}

// Adjust es la ruta legada de edición directa de cantidad: calcula el delta
// contra el total real y lo aplica sobre los lotes. Un delta positivo recarga
// (o crea) el lote implícito del producto, sin etiqueta ni vencimiento; uno
// negativo consume lotes disponibles en orden FEFO. Registra exactamente un
// movimiento ADJUSTMENT_UP/DOWN con la magnitud del delta; delta cero no
// registra nada.
func (s *Service) Adjust(ctx context.Context, productID string, newTotal decimal.Decimal, actor string) error {
	if newTotal.IsNegative() {
		return domain.ErrInvalidQuantity
	}
	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		return err
	}
	if product == nil {
		return domain.ErrNotFound
	}

	var delta decimal.Decimal
	err = s.txRunner.Run(ctx, func(
		batchRepo repository.BatchRepository,
		productRepo repository.ProductRepository,
	) error {
		current, err := batchRepo.TotalQuantity(productID)
		if err != nil {
			return err
		}
		delta = newTotal.Sub(current)
		if delta.IsZero() {
			return nil
		}
		if delta.IsPositive() {
			if err := s.applyPositiveDelta(batchRepo, productID, delta); err != nil {
				return err
			}
		} else {
			if err := s.applyNegativeDelta(batchRepo, productID, delta.Neg()); err != nil {
				return err
			}
		}
		return productRepo.RefreshAggregates(productID)
	})
	if err != nil {
		return err
	}
	if delta.IsZero() {
		return nil
	}

	kind := entity.MovementTypeADJUSTMENTUp
	if delta.IsNegative() {
		kind = entity.MovementTypeADJUSTMENTDown
	}
	s.recordMovement(product, kind, delta.Abs(), actor, "ajuste directo de cantidad")
	return nil
}

// applyPositiveDelta suma el delta al lote implícito del producto, creándolo si no existe.
func (s *Service) applyPositiveDelta(batchRepo repository.BatchRepository, productID string, delta decimal.Decimal) error {
	implicit, err := batchRepo.GetImplicit(productID)
	if err != nil {
		return err
	}
	if implicit != nil {
		_, err := batchRepo.TopUp(implicit.ID, delta)
		return err
	}
	now := time.Now()
	return batchRepo.Create(&entity.Batch{
		ID:        uuid.New().String(),
		ProductID: productID,
		Quantity:  delta,
		CreatedAt: now,
		UpdatedAt: now,
	})
}

// applyNegativeDelta consume lotes disponibles en orden FEFO hasta cubrir la magnitud.
func (s *Service) applyNegativeDelta(batchRepo repository.BatchRepository, productID string, magnitude decimal.Decimal) error {
	available, err := batchRepo.ListAvailable(productID)
	if err != nil {
		return err
	}
	remaining := magnitude
	for _, b := range available {
		if !remaining.GreaterThan(decimal.Zero) {
			break
		}
		take := b.Quantity
		if take.GreaterThan(remaining) {
			take = remaining
		}
		if _, err := batchRepo.Withdraw(b.ID, take); err != nil {
			return err
		}
		remaining = remaining.Sub(take)
	}
	if remaining.GreaterThan(decimal.Zero) {
		// newTotal >= 0 garantiza cobertura; si llega acá hubo una carrera.
		return domain.ErrInsufficientStock
	}
	return nil
}

// RemoveProduct elimina el producto y sus lotes en una transacción. Los
// movimientos históricos no se tocan: el historial sobrevive a la entidad
// que describe (cada fila guarda el nombre del producto como snapshot).
func (s *Service) RemoveProduct(ctx context.Context, productID string) error {
	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		return err
	}
	if product == nil {
		return domain.ErrNotFound
	}
	return s.txRunner.Run(ctx, func(
		batchRepo repository.BatchRepository,
		productRepo repository.ProductRepository,
	) error {
		if err := batchRepo.DeleteByProduct(productID); err != nil {
			return err
		}
		return productRepo.Delete(productID)
	})
}

// AvailableBatches lotes con existencias del producto, ordenados FEFO.
func (s *Service) AvailableBatches(productID string) ([]*entity.Batch, error) {
	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	return s.batchRepo.ListAvailable(productID)
}

// RecentMovements últimos movimientos del libro, descendente por fecha.
func (s *Service) RecentMovements(limit int) ([]*entity.Movement, error) {
	return s.movementRepo.Recent(limit)
}

// ProductMovements movimientos de un producto, descendente por fecha.
func (s *Service) ProductMovements(productID string, limit int) ([]*entity.Movement, error) {
	return s.movementRepo.ListByProduct(productID, limit)
}

// recordMovement escribe el movimiento en el libro después del commit del
// stock. Un fallo acá no revierte nada: se loguea para el operador y la
// operación se da por exitosa (la exactitud del stock manda sobre la
// completitud de la auditoría).
func (s *Service) recordMovement(product *entity.Product, kind string, qty decimal.Decimal, actor, annotation string) {
	if actor == "" {
		actor = entity.ActorSystem
	}
	mov := &entity.Movement{
		ID:          uuid.New().String(),
		ProductID:   product.ID,
		ProductName: product.Name,
		Type:        kind,
		Quantity:    qty,
		Actor:       actor,
		Annotation:  annotation,
		CreatedAt:   time.Now(),
	}
	if err := s.movementRepo.Create(mov); err != nil {
		s.log.Warn().
			Err(err).
			Str("product_id", product.ID).
			Str("type", kind).
			Str("quantity", qty.String()).
			Msg("no se pudo registrar el movimiento en el libro")
	}
}
