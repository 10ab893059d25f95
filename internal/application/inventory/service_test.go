package inventory_test

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/despensa-api/internal/application/inventory"
	"github.com/tu-usuario/despensa-api/internal/domain"
	"github.com/tu-usuario/despensa-api/internal/domain/entity"
	"github.com/tu-usuario/despensa-api/internal/domain/repository"
	"github.com/tu-usuario/despensa-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria
//
// Un único store compartido respalda los tres repositorios. El TxRunner fake
// toma un snapshot de productos y lotes antes de ejecutar fn y lo restaura si
// fn falla, para reproducir la semántica de rollback de la transacción real.
// ──────────────────────────────────────────────────────────────────────────────

type memStore struct {
	products  map[string]*entity.Product
	batches   map[string]*entity.Batch
	movements []*entity.Movement
}

func newMemStore() *memStore {
	return &memStore{
		products: make(map[string]*entity.Product),
		batches:  make(map[string]*entity.Batch),
	}
}

func (s *memStore) snapshot() (map[string]*entity.Product, map[string]*entity.Batch) {
	ps := make(map[string]*entity.Product, len(s.products))
	for k, v := range s.products {
		cp := *v
		ps[k] = &cp
	}
	bs := make(map[string]*entity.Batch, len(s.batches))
	for k, v := range s.batches {
		cp := *v
		bs[k] = &cp
	}
	return ps, bs
}

type memBatchRepo struct{ s *memStore }

func (r *memBatchRepo) Create(b *entity.Batch) error {
	cp := *b
	r.s.batches[b.ID] = &cp
	return nil
}

func (r *memBatchRepo) GetByID(id string) (*entity.Batch, error) {
	b, ok := r.s.batches[id]
	if !ok {
		return nil, nil
	}
	cp := *b
	return &cp, nil
}

func (r *memBatchRepo) GetImplicit(productID string) (*entity.Batch, error) {
	for _, b := range r.s.batches {
		if b.ProductID == productID && b.LotLabel == "" && b.ExpiryDate == nil {
			cp := *b
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memBatchRepo) TopUp(batchID string, qty decimal.Decimal) (*entity.Batch, error) {
	b, ok := r.s.batches[batchID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	b.Quantity = b.Quantity.Add(qty)
	b.UpdatedAt = time.Now()
	cp := *b
	return &cp, nil
}

func (r *memBatchRepo) Withdraw(batchID string, qty decimal.Decimal) (*entity.Batch, error) {
	b, ok := r.s.batches[batchID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if b.Quantity.LessThan(qty) {
		return nil, domain.ErrInsufficientStock
	}
	b.Quantity = b.Quantity.Sub(qty)
	b.UpdatedAt = time.Now()
	cp := *b
	return &cp, nil
}

func (r *memBatchRepo) ListAvailable(productID string) ([]*entity.Batch, error) {
	var out []*entity.Batch
	for _, b := range r.s.batches {
		if b.ProductID == productID && b.Quantity.GreaterThan(decimal.Zero) {
			cp := *b
			out = append(out, &cp)
		}
	}
	// FEFO: vencimiento ascendente, sin vencimiento al final
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i].ExpiryDate, out[j].ExpiryDate
		switch {
		case a == nil && b == nil:
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return a.Before(*b)
		}
	})
	return out, nil
}

func (r *memBatchRepo) TotalQuantity(productID string) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, b := range r.s.batches {
		if b.ProductID == productID {
			total = total.Add(b.Quantity)
		}
	}
	return total, nil
}

func (r *memBatchRepo) DeleteByProduct(productID string) error {
	for id, b := range r.s.batches {
		if b.ProductID == productID {
			delete(r.s.batches, id)
		}
	}
	return nil
}

type memProductRepo struct{ s *memStore }

func (r *memProductRepo) Create(p *entity.Product) error {
	cp := *p
	r.s.products[p.ID] = &cp
	return nil
}

func (r *memProductRepo) GetByID(id string) (*entity.Product, error) {
	p, ok := r.s.products[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *memProductRepo) Update(p *entity.Product) error {
	cur, ok := r.s.products[p.ID]
	if !ok {
		return domain.ErrNotFound
	}
	cur.Name = p.Name
	cur.CategoryID = p.CategoryID
	cur.Unit = p.Unit
	cur.Price = p.Price
	cur.MinStock = p.MinStock
	cur.UpdatedAt = p.UpdatedAt
	return nil
}

// RefreshAggregates recalcula total y vencimiento más próximo igual que la
// sentencia SQL real: el total suma todos los lotes, el vencimiento solo
// considera lotes con existencias.
func (r *memProductRepo) RefreshAggregates(productID string) error {
	p, ok := r.s.products[productID]
	if !ok {
		return domain.ErrNotFound
	}
	total := decimal.Zero
	var nearest *time.Time
	for _, b := range r.s.batches {
		if b.ProductID != productID {
			continue
		}
		total = total.Add(b.Quantity)
		if b.Quantity.GreaterThan(decimal.Zero) && b.ExpiryDate != nil {
			if nearest == nil || b.ExpiryDate.Before(*nearest) {
				t := *b.ExpiryDate
				nearest = &t
			}
		}
	}
	p.TotalQuantity = total
	p.NearestExpiry = nearest
	return nil
}

func (r *memProductRepo) List(limit, offset int) ([]*entity.Product, error) {
	var out []*entity.Product
	for _, p := range r.s.products {
		cp := *p
		out = append(out, &cp)
	}
	return out, nil
}

func (r *memProductRepo) Delete(id string) error {
	if _, ok := r.s.products[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.products, id)
	return nil
}

func (r *memProductRepo) CountByCategory(categoryID string) (int, error) {
	n := 0
	for _, p := range r.s.products {
		if p.CategoryID == categoryID {
			n++
		}
	}
	return n, nil
}

type memMovementRepo struct {
	s       *memStore
	failing bool // simula un libro caído para el test de best-effort
}

func (r *memMovementRepo) Create(m *entity.Movement) error {
	if r.failing {
		return errors.New("libro de movimientos no disponible")
	}
	cp := *m
	r.s.movements = append(r.s.movements, &cp)
	return nil
}

func (r *memMovementRepo) Recent(limit int) ([]*entity.Movement, error) {
	out := make([]*entity.Movement, 0, len(r.s.movements))
	for i := len(r.s.movements) - 1; i >= 0 && len(out) < limit; i-- {
		cp := *r.s.movements[i]
		out = append(out, &cp)
	}
	return out, nil
}

func (r *memMovementRepo) ListByProduct(productID string, limit int) ([]*entity.Movement, error) {
	out := make([]*entity.Movement, 0)
	for i := len(r.s.movements) - 1; i >= 0 && len(out) < limit; i-- {
		if r.s.movements[i].ProductID == productID {
			cp := *r.s.movements[i]
			out = append(out, &cp)
		}
	}
	return out, nil
}

type memTxRunner struct{ s *memStore }

func (tx *memTxRunner) Run(ctx context.Context, fn func(
	batchRepo repository.BatchRepository,
	productRepo repository.ProductRepository,
) error) error {
	ps, bs := tx.s.snapshot()
	err := fn(&memBatchRepo{s: tx.s}, &memProductRepo{s: tx.s})
	if err != nil {
		tx.s.products = ps
		tx.s.batches = bs
		return err
	}
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

func buildService(t *testing.T) (*inventory.Service, *memStore) {
	t.Helper()
	s := newMemStore()
	return buildServiceWith(t, s, &memMovementRepo{s: s})
}

func buildServiceWith(t *testing.T, s *memStore, movRepo repository.MovementRepository) (*inventory.Service, *memStore) {
	t.Helper()
	log := logger.New(logger.Config{Env: "development", Level: "error"})
	svc := inventory.NewService(
		&memTxRunner{s: s},
		&memProductRepo{s: s},
		&memBatchRepo{s: s},
		movRepo,
		log,
	)
	return svc, s
}

func seedProduct(s *memStore, id, name string) {
	now := time.Now()
	s.products[id] = &entity.Product{
		ID:            id,
		Name:          name,
		Unit:          "kg",
		Price:         decimal.NewFromInt(10),
		MinStock:      decimal.NewFromInt(5),
		TotalQuantity: decimal.Zero,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func seedBatch(s *memStore, id, productID, label string, expiry *time.Time, qty int64) {
	now := time.Now()
	s.batches[id] = &entity.Batch{
		ID:         id,
		ProductID:  productID,
		LotLabel:   label,
		ExpiryDate: expiry,
		Quantity:   decimal.NewFromInt(qty),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

func daysFromNow(d int) *time.Time {
	t := time.Now().AddDate(0, 0, d)
	return &t
}

func qty(n int64) decimal.Decimal { return decimal.NewFromInt(n) }

// ──────────────────────────────────────────────────────────────────────────────
// Intake — entradas
// ──────────────────────────────────────────────────────────────────────────────

func TestIntake_LoteNuevo_CreaLoteYMovimiento(t *testing.T) {
	svc, s := buildService(t)
	seedProduct(s, "p1", "Arroz")

	batch, err := svc.Intake(context.Background(), inventory.IntakeInput{
		ProductID: "p1",
		Quantity:  qty(10),
		Actor:     "maria",
		LotLabel:  "L-001",
		Expiry:    daysFromNow(30),
	})
	require.NoError(t, err)
	require.NotNil(t, batch)
	assert.Equal(t, "L-001", batch.LotLabel)
	assert.True(t, batch.Quantity.Equal(qty(10)))

	// El agregado se refresca en la misma operación
	assert.True(t, s.products["p1"].TotalQuantity.Equal(qty(10)),
		"el total del producto debe reflejar el lote nuevo")
	require.NotNil(t, s.products["p1"].NearestExpiry)

	// Exactamente un movimiento ENTRY con snapshot del nombre
	require.Len(t, s.movements, 1)
	m := s.movements[0]
	assert.Equal(t, entity.MovementTypeENTRY, m.Type)
	assert.Equal(t, "Arroz", m.ProductName)
	assert.Equal(t, "maria", m.Actor)
	assert.True(t, m.Quantity.Equal(qty(10)))
}

func TestIntake_LoteExistente_RecargaSinTocarEtiqueta(t *testing.T) {
	svc, s := buildService(t)
	seedProduct(s, "p1", "Arroz")
	seedBatch(s, "b1", "p1", "L-001", daysFromNow(30), 5)

	batch, err := svc.Intake(context.Background(), inventory.IntakeInput{
		ProductID: "p1",
		Quantity:  qty(7),
		BatchID:   "b1",
		LotLabel:  "IGNORADA", // con batch_id la etiqueta del request no aplica
	})
	require.NoError(t, err)
	assert.Equal(t, "L-001", batch.LotLabel)
	assert.True(t, batch.Quantity.Equal(qty(12)))
	assert.True(t, s.products["p1"].TotalQuantity.Equal(qty(12)))
	require.Len(t, s.movements, 1)
	assert.Equal(t, entity.MovementTypeENTRY, s.movements[0].Type)
}

func TestIntake_CantidadInvalida_RechazaSinEfectos(t *testing.T) {
	svc, s := buildService(t)
	seedProduct(s, "p1", "Arroz")

	for _, q := range []decimal.Decimal{decimal.Zero, qty(-3)} {
		_, err := svc.Intake(context.Background(), inventory.IntakeInput{
			ProductID: "p1",
			Quantity:  q,
		})
		assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
	}
	assert.Empty(t, s.batches, "no debe crearse ningún lote")
	assert.Empty(t, s.movements, "no debe registrarse ningún movimiento")
}

func TestIntake_ProductoInexistente_RetornaNotFound(t *testing.T) {
	svc, _ := buildService(t)
	_, err := svc.Intake(context.Background(), inventory.IntakeInput{
		ProductID: "no-existe",
		Quantity:  qty(1),
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestIntake_LoteDeOtroProducto_RollbackCompleto(t *testing.T) {
	svc, s := buildService(t)
	seedProduct(s, "p1", "Arroz")
	seedProduct(s, "p2", "Frijol")
	seedBatch(s, "b2", "p2", "L-FRI", nil, 4)

	_, err := svc.Intake(context.Background(), inventory.IntakeInput{
		ProductID: "p1",
		Quantity:  qty(3),
		BatchID:   "b2", // pertenece a p2
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.True(t, s.batches["b2"].Quantity.Equal(qty(4)),
		"el rollback debe dejar el lote ajeno intacto")
	assert.Empty(t, s.movements)
}

func TestIntake_ActorVacio_RegistraSystem(t *testing.T) {
	svc, s := buildService(t)
	seedProduct(s, "p1", "Arroz")

	_, err := svc.Intake(context.Background(), inventory.IntakeInput{
		ProductID: "p1",
		Quantity:  qty(2),
	})
	require.NoError(t, err)
	require.Len(t, s.movements, 1)
	assert.Equal(t, entity.ActorSystem, s.movements[0].Actor)
}

// ──────────────────────────────────────────────────────────────────────────────
// Dispense — salidas
// ──────────────────────────────────────────────────────────────────────────────

func TestDispense_DescuentaDelLoteYRegistraExit(t *testing.T) {
	svc, s := buildService(t)
	seedProduct(s, "p1", "Arroz")
	seedBatch(s, "b1", "p1", "L-001", daysFromNow(10), 8)
	require.NoError(t, (&memProductRepo{s: s}).RefreshAggregates("p1"))

	batch, err := svc.Dispense(context.Background(), inventory.DispenseInput{
		ProductID: "p1",
		BatchID:   "b1",
		Quantity:  qty(3),
		Actor:     "jose",
	})
	require.NoError(t, err)
	assert.True(t, batch.Quantity.Equal(qty(5)))
	assert.True(t, s.products["p1"].TotalQuantity.Equal(qty(5)))

	require.Len(t, s.movements, 1)
	m := s.movements[0]
	assert.Equal(t, entity.MovementTypeEXIT, m.Type)
	assert.True(t, m.Quantity.Equal(qty(3)))
	assert.Equal(t, "jose", m.Actor)
}

func TestDispense_StockInsuficiente_SinEfectoParcial(t *testing.T) {
	svc, s := buildService(t)
	seedProduct(s, "p1", "Arroz")
	seedBatch(s, "b1", "p1", "L-001", nil, 2)

	_, err := svc.Dispense(context.Background(), inventory.DispenseInput{
		ProductID: "p1",
		BatchID:   "b1",
		Quantity:  qty(5),
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.True(t, s.batches["b1"].Quantity.Equal(qty(2)),
		"con saldo insuficiente el lote no debe cambiar")
	assert.Empty(t, s.movements)
}

func TestDispense_LoteInexistente_RetornaNotFound(t *testing.T) {
	svc, s := buildService(t)
	seedProduct(s, "p1", "Arroz")

	_, err := svc.Dispense(context.Background(), inventory.DispenseInput{
		ProductID: "p1",
		BatchID:   "no-existe",
		Quantity:  qty(1),
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Empty(t, s.movements)
}

func TestDispense_CantidadInvalida_Rechaza(t *testing.T) {
	svc, _ := buildService(t)
	_, err := svc.Dispense(context.Background(), inventory.DispenseInput{
		ProductID: "p1",
		BatchID:   "b1",
		Quantity:  decimal.Zero,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
}

// ──────────────────────────────────────────────────────────────────────────────
// Adjust — edición directa de cantidad
// ──────────────────────────────────────────────────────────────────────────────

func TestAdjust_DeltaPositivo_CreaLoteImplicito(t *testing.T) {
	svc, s := buildService(t)
	seedProduct(s, "p1", "Arroz")
	seedBatch(s, "b1", "p1", "L-001", daysFromNow(10), 4)

	err := svc.Adjust(context.Background(), "p1", qty(10), "admin")
	require.NoError(t, err)

	// 4 existentes + 6 en el lote implícito
	implicit, _ := (&memBatchRepo{s: s}).GetImplicit("p1")
	require.NotNil(t, implicit, "el delta positivo debe ir al lote implícito")
	assert.True(t, implicit.Quantity.Equal(qty(6)))
	assert.True(t, s.products["p1"].TotalQuantity.Equal(qty(10)))

	require.Len(t, s.movements, 1)
	m := s.movements[0]
	assert.Equal(t, entity.MovementTypeADJUSTMENTUp, m.Type)
	assert.True(t, m.Quantity.Equal(qty(6)), "el movimiento lleva la magnitud del delta")
	assert.Equal(t, "admin", m.Actor)
}

func TestAdjust_DeltaPositivoRepetido_ReusaLoteImplicito(t *testing.T) {
	svc, s := buildService(t)
	seedProduct(s, "p1", "Arroz")

	require.NoError(t, svc.Adjust(context.Background(), "p1", qty(5), ""))
	require.NoError(t, svc.Adjust(context.Background(), "p1", qty(9), ""))

	implicitCount := 0
	for _, b := range s.batches {
		if b.LotLabel == "" && b.ExpiryDate == nil {
			implicitCount++
		}
	}
	assert.Equal(t, 1, implicitCount, "solo debe existir un lote implícito por producto")
	assert.True(t, s.products["p1"].TotalQuantity.Equal(qty(9)))
}

func TestAdjust_DeltaNegativo_ConsumeFEFO(t *testing.T) {
	svc, s := buildService(t)
	seedProduct(s, "p1", "Arroz")
	seedBatch(s, "b-tarde", "p1", "L-B", daysFromNow(60), 10)
	seedBatch(s, "b-pronto", "p1", "L-A", daysFromNow(5), 4)
	seedBatch(s, "b-sin", "p1", "L-C", nil, 3)

	// 17 → 5: hay que consumir 12
	err := svc.Adjust(context.Background(), "p1", qty(5), "admin")
	require.NoError(t, err)

	// FEFO: primero el que vence antes, después el siguiente, el sin vencimiento al final
	assert.True(t, s.batches["b-pronto"].Quantity.IsZero(), "el lote que vence primero se agota primero")
	assert.True(t, s.batches["b-tarde"].Quantity.Equal(qty(2)))
	assert.True(t, s.batches["b-sin"].Quantity.Equal(qty(3)), "el lote sin vencimiento se toca al final")
	assert.True(t, s.products["p1"].TotalQuantity.Equal(qty(5)))

	// Ningún lote queda negativo
	for id, b := range s.batches {
		assert.False(t, b.Quantity.IsNegative(), "lote %s quedó negativo", id)
	}

	require.Len(t, s.movements, 1)
	m := s.movements[0]
	assert.Equal(t, entity.MovementTypeADJUSTMENTDown, m.Type)
	assert.True(t, m.Quantity.Equal(qty(12)))
}

func TestAdjust_MismoTotal_NoRegistraMovimiento(t *testing.T) {
	svc, s := buildService(t)
	seedProduct(s, "p1", "Arroz")
	seedBatch(s, "b1", "p1", "L-001", nil, 7)

	err := svc.Adjust(context.Background(), "p1", qty(7), "admin")
	require.NoError(t, err)
	assert.Empty(t, s.movements, "delta cero no debe dejar rastro en el libro")
}

func TestAdjust_TotalNegativo_Rechaza(t *testing.T) {
	svc, s := buildService(t)
	seedProduct(s, "p1", "Arroz")

	err := svc.Adjust(context.Background(), "p1", qty(-1), "admin")
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
	assert.Empty(t, s.movements)
}

func TestAdjust_ProductoInexistente_RetornaNotFound(t *testing.T) {
	svc, _ := buildService(t)
	err := svc.Adjust(context.Background(), "no-existe", qty(5), "admin")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Agregados derivados
// ──────────────────────────────────────────────────────────────────────────────

func TestAggregates_VencimientoIgnoraLotesAgotados(t *testing.T) {
	svc, s := buildService(t)
	seedProduct(s, "p1", "Yogur")
	seedBatch(s, "b-viejo", "p1", "L-V", daysFromNow(2), 3) // vence antes
	seedBatch(s, "b-nuevo", "p1", "L-N", daysFromNow(20), 5)
	require.NoError(t, (&memProductRepo{s: s}).RefreshAggregates("p1"))

	// Agotar el lote que vencía primero
	_, err := svc.Dispense(context.Background(), inventory.DispenseInput{
		ProductID: "p1",
		BatchID:   "b-viejo",
		Quantity:  qty(3),
	})
	require.NoError(t, err)

	p := s.products["p1"]
	require.NotNil(t, p.NearestExpiry)
	assert.True(t, p.NearestExpiry.After(time.Now().AddDate(0, 0, 10)),
		"el vencimiento más próximo debe saltar al lote con existencias")
	assert.True(t, p.TotalQuantity.Equal(qty(5)))
}

func TestAggregates_TotalSiempreIgualASumaDeLotes(t *testing.T) {
	svc, s := buildService(t)
	seedProduct(s, "p1", "Arroz")
	ctx := context.Background()

	_, err := svc.Intake(ctx, inventory.IntakeInput{ProductID: "p1", Quantity: qty(10), LotLabel: "L-1", Expiry: daysFromNow(15)})
	require.NoError(t, err)
	_, err = svc.Intake(ctx, inventory.IntakeInput{ProductID: "p1", Quantity: qty(4), LotLabel: "L-2"})
	require.NoError(t, err)
	require.NoError(t, svc.Adjust(ctx, "p1", qty(9), ""))

	sum := decimal.Zero
	for _, b := range s.batches {
		sum = sum.Add(b.Quantity)
	}
	assert.True(t, s.products["p1"].TotalQuantity.Equal(sum),
		"tras cualquier secuencia de operaciones el total cacheado debe igualar la suma de lotes")
}

// ──────────────────────────────────────────────────────────────────────────────
// RemoveProduct y persistencia del historial
// ──────────────────────────────────────────────────────────────────────────────

func TestRemoveProduct_BorraLotesYConservaMovimientos(t *testing.T) {
	svc, s := buildService(t)
	seedProduct(s, "p1", "Arroz")
	ctx := context.Background()

	_, err := svc.Intake(ctx, inventory.IntakeInput{ProductID: "p1", Quantity: qty(5), LotLabel: "L-1"})
	require.NoError(t, err)
	require.Len(t, s.movements, 1)

	require.NoError(t, svc.RemoveProduct(ctx, "p1"))

	assert.Empty(t, s.batches, "los lotes del producto deben eliminarse")
	assert.NotContains(t, s.products, "p1")
	require.Len(t, s.movements, 1, "el historial sobrevive al borrado del producto")
	assert.Equal(t, "Arroz", s.movements[0].ProductName,
		"el movimiento conserva el nombre como snapshot")
}

func TestRemoveProduct_Inexistente_RetornaNotFound(t *testing.T) {
	svc, _ := buildService(t)
	err := svc.RemoveProduct(context.Background(), "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Libro best-effort
// ──────────────────────────────────────────────────────────────────────────────

func TestRecordMovement_FalloDelLibro_NoRevierteElStock(t *testing.T) {
	s := newMemStore()
	svc, _ := buildServiceWith(t, s, &memMovementRepo{s: s, failing: true})
	seedProduct(s, "p1", "Arroz")

	batch, err := svc.Intake(context.Background(), inventory.IntakeInput{
		ProductID: "p1",
		Quantity:  qty(10),
		LotLabel:  "L-1",
	})
	require.NoError(t, err, "el fallo del libro no debe propagarse al caller")
	require.NotNil(t, batch)
	assert.True(t, s.products["p1"].TotalQuantity.Equal(qty(10)),
		"el stock confirmado se mantiene aunque el libro falle")
	assert.Empty(t, s.movements)
}

// ──────────────────────────────────────────────────────────────────────────────
// Consultas
// ──────────────────────────────────────────────────────────────────────────────

func TestAvailableBatches_OrdenFEFO(t *testing.T) {
	svc, s := buildService(t)
	seedProduct(s, "p1", "Arroz")
	seedBatch(s, "b-sin", "p1", "L-C", nil, 1)
	seedBatch(s, "b-tarde", "p1", "L-B", daysFromNow(60), 1)
	seedBatch(s, "b-pronto", "p1", "L-A", daysFromNow(5), 1)
	seedBatch(s, "b-agotado", "p1", "L-Z", daysFromNow(1), 0)

	batches, err := svc.AvailableBatches("p1")
	require.NoError(t, err)
	require.Len(t, batches, 3, "los lotes agotados no se ofrecen")
	assert.Equal(t, "b-pronto", batches[0].ID)
	assert.Equal(t, "b-tarde", batches[1].ID)
	assert.Equal(t, "b-sin", batches[2].ID, "sin vencimiento va al final")
}

func TestAvailableBatches_ProductoInexistente_RetornaNotFound(t *testing.T) {
	svc, _ := buildService(t)
	_, err := svc.AvailableBatches("no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
