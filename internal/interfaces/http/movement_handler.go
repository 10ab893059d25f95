package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/despensa-api/internal/application/dto"
	"github.com/tu-usuario/despensa-api/internal/application/inventory"
	"github.com/tu-usuario/despensa-api/internal/domain"
	"github.com/tu-usuario/despensa-api/internal/domain/entity"
)

// MovementHandler maneja entradas, salidas y la consulta del libro de
// movimientos (protegido).
type MovementHandler struct {
	svc *inventory.Service
}

// NewMovementHandler construye el handler.
func NewMovementHandler(svc *inventory.Service) *MovementHandler {
	return &MovementHandler{svc: svc}
}

// Entry godoc
// @Summary      Registrar entrada de stock
// @Description  Con batch_id recarga un lote existente; sin batch_id crea un lote nuevo
//
//	con lot_label y expiry (YYYY-MM-DD) opcionales.
//
// @Tags         movements
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.EntryRequest  true  "product_id, quantity, batch_id | lot_label + expiry"
// @Success      201   {object}  dto.BatchResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/movements/entry [post]
func (h *MovementHandler) Entry(c *fiber.Ctx) error {
	var in dto.EntryRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.ProductID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "product_id es requerido"})
	}
	var expiry *time.Time
	if in.Expiry != "" {
		t, err := time.Parse("2006-01-02", in.Expiry)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "expiry debe ser YYYY-MM-DD"})
		}
		expiry = &t
	}
	batch, err := h.svc.Intake(c.Context(), inventory.IntakeInput{
		ProductID: in.ProductID,
		Quantity:  in.Quantity,
		Actor:     resolveActor(c, in.Actor),
		BatchID:   in.BatchID,
		LotLabel:  in.LotLabel,
		Expiry:    expiry,
	})
	if err != nil {
		return movementError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toBatchResponse(batch))
}

// Exit godoc
// @Summary      Registrar salida de stock
// @Description  Descuenta quantity del lote indicado. Chequeo de saldo y decremento son
//
//	atómicos: con saldo insuficiente no hay efecto parcial.
//
// @Tags         movements
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ExitRequest  true  "product_id, batch_id, quantity"
// @Success      201   {object}  dto.BatchResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/movements/exit [post]
func (h *MovementHandler) Exit(c *fiber.Ctx) error {
	var in dto.ExitRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.ProductID == "" || in.BatchID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "product_id y batch_id son requeridos"})
	}
	batch, err := h.svc.Dispense(c.Context(), inventory.DispenseInput{
		ProductID: in.ProductID,
		BatchID:   in.BatchID,
		Quantity:  in.Quantity,
		Actor:     resolveActor(c, in.Actor),
	})
	if err != nil {
		return movementError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toBatchResponse(batch))
}

// List godoc
// @Summary      Consultar el libro de movimientos
// @Description  Más recientes primero. Con product_id filtra por producto; los movimientos
//
//	de productos eliminados siguen apareciendo con el nombre que tenían.
//
// @Tags         movements
// @Security     Bearer
// @Produce      json
// @Param        product_id  query  string  false  "Filtrar por producto"
// @Param        limit       query  int     false  "Límite"  default(50)
// @Success      200  {array}  dto.MovementResponse
// @Router       /api/movements [get]
func (h *MovementHandler) List(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 50)
	if limit <= 0 {
		limit = 50
	}
	if limit > 500 {
		limit = 500
	}
	var (
		movements []*entity.Movement
		err       error
	)
	if productID := c.Query("product_id"); productID != "" {
		movements, err = h.svc.ProductMovements(productID, limit)
	} else {
		movements, err = h.svc.RecentMovements(limit)
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	out := make([]dto.MovementResponse, 0, len(movements))
	for _, m := range movements {
		out = append(out, dto.MovementResponse{
			ID:          m.ID,
			ProductID:   m.ProductID,
			ProductName: m.ProductName,
			Type:        m.Type,
			Quantity:    m.Quantity,
			Actor:       m.Actor,
			Annotation:  m.Annotation,
			CreatedAt:   m.CreatedAt,
		})
	}
	return c.JSON(out)
}

// resolveActor: el nombre del token manda; el actor del body es fallback para
// integraciones sin sesión de usuario.
func resolveActor(c *fiber.Ctx, bodyActor string) string {
	if actor := GetActor(c); actor != "" {
		return actor
	}
	return bodyActor
}

func toBatchResponse(b *entity.Batch) dto.BatchResponse {
	return dto.BatchResponse{
		ID:         b.ID,
		ProductID:  b.ProductID,
		LotLabel:   b.LotLabel,
		ExpiryDate: b.ExpiryDate,
		Quantity:   b.Quantity,
		CreatedAt:  b.CreatedAt,
	}
}

func movementError(c *fiber.Ctx, err error) error {
	switch err {
	case domain.ErrInvalidQuantity:
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "quantity debe ser mayor que cero"})
	case domain.ErrNotFound:
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "producto o lote no encontrado"})
	case domain.ErrInsufficientStock:
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: "stock insuficiente en el lote"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}
