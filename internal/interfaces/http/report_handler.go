package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/despensa-api/internal/application/dto"
	"github.com/tu-usuario/despensa-api/internal/application/usecase"
)

// ReportHandler maneja los reportes de solo lectura (protegido).
type ReportHandler struct {
	uc *usecase.ReportUseCase
}

// NewReportHandler construye el handler.
func NewReportHandler(uc *usecase.ReportUseCase) *ReportHandler {
	return &ReportHandler{uc: uc}
}

// Expiring godoc
// @Summary      Lotes por vencer
// @Description  Lotes con existencias que vencen dentro de days días, incluyendo los ya
//
//	vencidos, más próximos primero.
//
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        days  query  int  false  "Ventana en días"  default(15)
// @Success      200   {array}  dto.ExpiringItemDTO
// @Router       /api/reports/expiring [get]
func (h *ReportHandler) Expiring(c *fiber.Ctx) error {
	days := c.QueryInt("days", 0)
	out, err := h.uc.Expiring(c.Context(), days)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// LowStock godoc
// @Summary      Productos en nivel crítico
// @Description  Productos cuyo total está en o por debajo de su mínimo, mayor déficit primero.
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.LowStockItemDTO
// @Router       /api/reports/low-stock [get]
func (h *ReportHandler) LowStock(c *fiber.Ctx) error {
	out, err := h.uc.LowStock(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// TopExits godoc
// @Summary      Ranking de salidas
// @Description  Productos ordenados por cantidad total de salidas (EXIT) acumuladas.
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        limit  query  int  false  "Límite"  default(10)
// @Success      200    {array}  dto.TopExitItemDTO
// @Router       /api/reports/top-exits [get]
func (h *ReportHandler) TopExits(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 10)
	out, err := h.uc.TopExits(c.Context(), limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// Dashboard godoc
// @Summary      Resumen del dashboard
// @Description  Valor del inventario, conteo de críticos, lotes que vencen en 7 días y
//
//	los últimos movimientos.
//
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.DashboardResponse
// @Router       /api/reports/dashboard [get]
func (h *ReportHandler) Dashboard(c *fiber.Ctx) error {
	out, err := h.uc.Dashboard(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// PDF godoc
// @Summary      Reporte de stock en PDF
// @Description  Vencimientos próximos y productos críticos en un PDF imprimible.
// @Tags         reports
// @Security     Bearer
// @Produce      application/pdf
// @Success      200  {file}  binary
// @Router       /api/reports/pdf [get]
func (h *ReportHandler) PDF(c *fiber.Ctx) error {
	data, err := h.uc.ReportPDF(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	c.Set("Content-Type", "application/pdf")
	c.Set("Content-Disposition", `inline; filename="reporte-stock.pdf"`)
	return c.Send(data)
}
