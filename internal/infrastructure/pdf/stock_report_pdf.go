// Package pdf implementa la generación del reporte de stock imprimible
// (vencimientos próximos + productos en nivel crítico).
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Reporte de Stock  │  Fecha de generación           │
//	│  ─────────────────────────────────────────────────────────  │
//	│  SECCIÓN 1: Lotes por vencer                                │
//	│  TABLA: Producto | Lote | Vence | Cantidad                  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  SECCIÓN 2: Stock crítico                                   │
//	│  TABLA: Producto | Actual | Mínimo | Déficit                │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: leyenda de generación                              │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/tu-usuario/despensa-api/internal/application/dto"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorAlert   = &props.Color{Red: 170, Green: 40, Blue: 40}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoStockReportGenerator implementa usecase.StockReportPDFGenerator usando
// Maroto v2.
type MarotoStockReportGenerator struct{}

// NewMarotoStockReportGenerator construye el generador.
func NewMarotoStockReportGenerator() *MarotoStockReportGenerator {
	return &MarotoStockReportGenerator{}
}

// GenerateStockReportPDF genera el PDF y devuelve sus bytes.
func (g *MarotoStockReportGenerator) GenerateStockReportPDF(
	_ context.Context,
	generatedAt time.Time,
	expiring []dto.ExpiringItemDTO,
	lowStock []dto.LowStockItemDTO,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Reporte de Stock", true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(generatedAt))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	// Sección 1: lotes por vencer
	m.AddRows(sectionTitleRow("LOTES POR VENCER", colorAlert))
	m.AddRows(expiringHeaderRow())
	if len(expiring) == 0 {
		m.AddRows(emptyRow("Sin lotes por vencer en la ventana del reporte."))
	}
	for _, r := range expiringRows(expiring, generatedAt) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	// Sección 2: stock crítico
	m.AddRows(sectionTitleRow("PRODUCTOS EN NIVEL CRÍTICO", colorAlert))
	m.AddRows(lowStockHeaderRow())
	if len(lowStock) == 0 {
		m.AddRows(emptyRow("Ningún producto por debajo de su mínimo."))
	}
	for _, r := range lowStockRows(lowStock) {
		m.AddRows(r)
	}

	// Footer
	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(footerRow(generatedAt))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: título del reporte (izq) y fecha de generación (der).
func headerRow(generatedAt time.Time) core.Row {
	return row.New(16).Add(
		col.New(7).Add(
			text.New("REPORTE DE STOCK", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Vencimientos próximos y niveles críticos", props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("Generado: "+generatedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 2, Color: colorGray,
			}),
		),
	)
}

func sectionTitleRow(title string, color *props.Color) core.Row {
	return row.New(8).Add(col.New(12).Add(
		text.New(title, props.Text{
			Style: fontstyle.Bold, Size: 9, Color: color, Top: 2,
		}),
	))
}

// expiringHeaderRow: cabecera de la tabla de vencimientos.
func expiringHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Producto", 5, align.Left),
		h("Lote", 2, align.Left),
		h("Vence", 2, align.Center),
		h("Cantidad", 3, align.Right),
	)
}

// expiringRows: una fila por lote; los ya vencidos van en rojo.
func expiringRows(items []dto.ExpiringItemDTO, now time.Time) []core.Row {
	result := make([]core.Row, 0, len(items))
	for _, it := range items {
		lot := it.LotLabel
		if lot == "" {
			lot = "—"
		}
		dateColor := colorGray
		if it.ExpiryDate.Before(now) {
			dateColor = colorAlert
		}
		result = append(result, row.New(7).Add(
			col.New(5).Add(text.New(
				it.ProductName,
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(2).Add(text.New(
				lot,
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1, Color: colorGray},
			)),
			col.New(2).Add(text.New(
				it.ExpiryDate.Format("02/01/2006"),
				props.Text{Size: 8, Align: align.Center, Top: 1, Color: dateColor},
			)),
			col.New(3).Add(text.New(
				it.Quantity.String()+" "+it.Unit,
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
		))
	}
	return result
}

// lowStockHeaderRow: cabecera de la tabla de stock crítico.
func lowStockHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Producto", 5, align.Left),
		h("Actual", 2, align.Right),
		h("Mínimo", 2, align.Right),
		h("Déficit", 3, align.Right),
	)
}

// lowStockRows: una fila por producto crítico.
func lowStockRows(items []dto.LowStockItemDTO) []core.Row {
	result := make([]core.Row, 0, len(items))
	for _, it := range items {
		deficit := it.MinStock.Sub(it.TotalQuantity)
		result = append(result, row.New(7).Add(
			col.New(5).Add(text.New(
				it.Name,
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(2).Add(text.New(
				it.TotalQuantity.String(),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(2).Add(text.New(
				it.MinStock.String(),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1, Color: colorGray},
			)),
			col.New(3).Add(text.New(
				deficit.String()+" "+it.Unit,
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1, Color: colorAlert},
			)),
		))
	}
	return result
}

func emptyRow(msg string) core.Row {
	return row.New(7).Add(col.New(12).Add(
		text.New(msg, props.Text{Size: 8, Color: colorGray, Top: 1, Left: 1}),
	))
}

// footerRow: leyenda de generación.
func footerRow(generatedAt time.Time) core.Row {
	return row.New(8).Add(col.New(12).Add(
		text.New(
			"Reporte generado el "+generatedAt.Format("02/01/2006 a las 15:04")+
				". Los totales reflejan el estado del inventario al momento de la generación.",
			props.Text{Size: 6.5, Color: colorGray, Top: 2},
		),
	))
}
