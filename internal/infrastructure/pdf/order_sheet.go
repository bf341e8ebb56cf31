// Package pdf genera la hoja de pedido imprimible de una solicitud de
// reposición con Maroto v2: cabecera con tienda y fecha, tabla de líneas con
// SKU, cantidades y costo estimado, y bloque de total.
package pdf

import (
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
	"github.com/shopspring/decimal"

	"github.com/jhoicas/stocksync-api/internal/application/restock"
	"github.com/jhoicas/stocksync-api/internal/domain/entity"
)

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

var _ restock.OrderSheetRenderer = (*OrderSheetRenderer)(nil)

// OrderSheetRenderer implementa restock.OrderSheetRenderer usando Maroto v2.
type OrderSheetRenderer struct{}

// NewOrderSheetRenderer construye el generador.
func NewOrderSheetRenderer() *OrderSheetRenderer { return &OrderSheetRenderer{} }

// Render genera el PDF y devuelve sus bytes.
func (g *OrderSheetRenderer) Render(req *entity.RestockRequest, shopDomain string) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Hoja de pedido de reposición", true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(req, shopDomain))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(tableHeaderRow())
	for _, r := range tableItemRows(req.Items) {
		m.AddRows(r)
	}
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalRow(req))
	if req.Notes != "" {
		m.AddRows(notesRow(req.Notes))
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// headerRow: tienda y estado (izq), fecha y vencimiento del enlace (der).
func headerRow(req *entity.RestockRequest, shopDomain string) core.Row {
	fecha := req.CreatedAt.Format("02/01/2006")
	return row.New(18).Add(
		col.New(7).Add(
			text.New("SOLICITUD DE REPOSICIÓN", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Tienda: "+shopDomain, props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("Estado: "+req.Status, props.Text{
				Style: fontstyle.Bold, Size: 9, Align: align.Right, Top: 2,
			}),
			text.New("Fecha: "+fecha, props.Text{
				Size: 8, Align: align.Right, Top: 8, Color: colorGray,
			}),
			text.New(expiryLabel(req.TokenExpiresAt), props.Text{
				Size: 8, Align: align.Right, Top: 13, Color: colorGray,
			}),
		),
	)
}

func expiryLabel(expiresAt *time.Time) string {
	if expiresAt == nil {
		return "Enlace: sin emitir"
	}
	return "Enlace vence: " + expiresAt.Format("02/01/2006 15:04")
}

// tableHeaderRow: cabecera de la tabla de líneas.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("SKU", 2, align.Left),
		h("Producto", 4, align.Left),
		h("Stock", 1, align.Center),
		h("Solicitado", 1, align.Center),
		h("Aprobado", 1, align.Center),
		h("P.Unit", 1, align.Right),
		h("Estimado", 2, align.Right),
	)
}

// tableItemRows: una fila por línea.
func tableItemRows(items []entity.RestockRequestItem) []core.Row {
	result := make([]core.Row, 0, len(items))
	for _, it := range items {
		approved := "—"
		if it.ApprovedQuantity != nil {
			approved = fmt.Sprintf("%d", *it.ApprovedQuantity)
		}
		result = append(result, row.New(7).Add(
			col.New(2).Add(text.New(it.SKU, props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1})),
			col.New(4).Add(text.New(it.ProductName, props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1})),
			col.New(1).Add(text.New(fmt.Sprintf("%d", it.CurrentQuantity), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(1).Add(text.New(fmt.Sprintf("%d", it.RequestedQuantity), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(1).Add(text.New(approved, props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(1).Add(text.New("$"+it.UnitPrice.StringFixed(2), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(2).Add(text.New("$"+it.EstimatedCost().StringFixed(2), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		))
	}
	return result
}

// totalRow: total estimado alineado a la derecha.
func totalRow(req *entity.RestockRequest) core.Row {
	total := decimal.Zero
	for _, it := range req.Items {
		total = total.Add(it.EstimatedCost())
	}
	return row.New(10).Add(
		col.New(8),
		col.New(2).Add(text.New("TOTAL ESTIMADO:", props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: colorPrimary, Right: 2, Top: 2,
		})),
		col.New(2).Add(text.New("$"+total.StringFixed(2), props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: colorPrimary, Right: 1, Top: 2,
		})),
	)
}

// notesRow: notas del operador al pie.
func notesRow(notes string) core.Row {
	return row.New(14).Add(col.New(12).Add(
		text.New("Notas:", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 2}),
		text.New(notes, props.Text{Size: 8, Top: 7, Color: colorGray}),
	))
}
