// Package pdf genera los documentos imprimibles de la farmacia con Maroto v2:
// el recibo de venta y el reporte de consignaciones.
//
// Layout del recibo (A4):
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Farmacia            │  Recibo N° + Fecha           │
//	│  ─────────────────────────────────────────────────────────  │
//	│  CLIENTE + ATENDIDO POR                                     │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Cant | Producto | P.Unit | Desc% | Total            │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTAL                                                      │
//	│  QR con el id de la venta                                   │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/jhoicas/farmacia-admin/internal/application/pharmacy"
	"github.com/jhoicas/farmacia-admin/internal/domain/entity"
)

var _ pharmacy.ReceiptGenerator = (*MarotoReceiptGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 110, Blue: 90}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
	colorDanger  = &props.Color{Red: 170, Green: 30, Blue: 30}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoReceiptGenerator implementa pharmacy.ReceiptGenerator usando Maroto v2.
type MarotoReceiptGenerator struct {
	pharmacyName string
	lang         language.Tag
}

// NewMarotoReceiptGenerator construye el generador. locale es una etiqueta BCP 47
// ("es", "es-CO", "en"); si no se reconoce se usa español.
func NewMarotoReceiptGenerator(pharmacyName, locale string) *MarotoReceiptGenerator {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.Spanish
	}
	return &MarotoReceiptGenerator{
		pharmacyName: nonEmpty(pharmacyName, "Farmacia"),
		lang:         tag,
	}
}

// SaleReceipt genera el recibo de una venta y devuelve sus bytes.
func (g *MarotoReceiptGenerator) SaleReceipt(_ context.Context, sale *entity.Sale, cashier entity.User) ([]byte, error) {
	if sale == nil {
		return nil, fmt.Errorf("pdf: venta nula")
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Recibo de venta "+sale.ID, true).
		WithAuthor(g.pharmacyName, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(g.receiptHeaderRow(sale))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(g.customerRow(sale, cashier))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(saleTableHeaderRow())
	for _, r := range g.saleDetailRows(sale.Lines) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(g.totalRow(sale.TotalAmount))

	m.AddRows(line.NewRow(3))
	m.AddRows(receiptFooterRow(sale.ID))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar recibo: %w", err)
	}
	return doc.GetBytes(), nil
}

// ConsignmentReport genera el listado de lotes en horizontal. Las columnas de montos
// solo aparecen si showMoney es true.
func (g *MarotoReceiptGenerator) ConsignmentReport(_ context.Context, list []entity.Consignment, showMoney bool, generatedBy entity.User, at time.Time) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithOrientation(orientation.Horizontal).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 8}).
		WithTitle("Reporte de consignaciones", true).
		WithAuthor(g.pharmacyName, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(row.New(16).Add(
		col.New(8).Add(
			text.New(g.pharmacyName, props.Text{Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1}),
			text.New("REPORTE DE CONSIGNACIONES", props.Text{Size: 9, Top: 9, Color: colorGray}),
		),
		col.New(4).Add(
			text.New("Generado: "+at.Format("02/01/2006 15:04"), props.Text{Size: 8, Align: align.Right, Top: 2, Color: colorGray}),
			text.New("Por: "+g.titleCase(generatedBy.FullName()), props.Text{Size: 8, Align: align.Right, Top: 8, Color: colorGray}),
		),
	))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(consignmentHeaderRow(showMoney))

	totalCost, totalPaid, totalBalance := decimal.Zero, decimal.Zero, decimal.Zero
	for _, c := range list {
		m.AddRows(g.consignmentRow(c, showMoney, at))
		totalCost = totalCost.Add(c.PurchaseCost)
		totalPaid = totalPaid.Add(c.TotalPaid)
		totalBalance = totalBalance.Add(c.Balance)
	}
	if len(list) == 0 {
		m.AddRows(row.New(8).Add(col.New(12).Add(
			text.New("No hay consignaciones registradas.", props.Text{Size: 8, Align: align.Center, Top: 2, Color: colorGray}),
		)))
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	summary := fmt.Sprintf("%d lote(s)", len(list))
	if showMoney {
		summary += fmt.Sprintf("   |   Costo: %s   |   Pagado: %s   |   Saldo: %s",
			g.money(totalCost), g.money(totalPaid), g.money(totalBalance))
	}
	m.AddRows(row.New(8).Add(col.New(12).Add(
		text.New(summary, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Top: 2, Color: colorPrimary}),
	)))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar reporte: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones del recibo ──────────────────────────────────────────────────────

func (g *MarotoReceiptGenerator) receiptHeaderRow(sale *entity.Sale) core.Row {
	fecha := "—"
	if !sale.CreatedAt.IsZero() {
		fecha = sale.CreatedAt.Format("02/01/2006 15:04")
	}
	return row.New(18).Add(
		col.New(7).Add(
			text.New(g.pharmacyName, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
		),
		col.New(5).Add(
			text.New("RECIBO DE VENTA", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New(sale.ID, props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right, Top: 7,
			}),
			text.New("Fecha: "+fecha, props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

func (g *MarotoReceiptGenerator) customerRow(sale *entity.Sale, cashier entity.User) core.Row {
	return row.New(14).Add(
		col.New(8).Add(
			text.New("CLIENTE", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
			text.New(g.titleCase(nonEmpty(sale.CustomerName, "Consumidor final")), props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 6,
			}),
		),
		col.New(4).Add(
			text.New("ATENDIDO POR", props.Text{Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1}),
			text.New(g.titleCase(nonEmpty(cashier.FullName(), sale.UploadedBy)), props.Text{
				Size: 9, Align: align.Right, Top: 6,
			}),
		),
	)
}

func saleTableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Cant.", 1, align.Center),
		h("Producto", 5, align.Left),
		h("Precio Unit.", 2, align.Right),
		h("Desc.", 1, align.Center),
		h("Total", 3, align.Right),
	).WithStyle(&props.Cell{BackgroundColor: colorPrimary})
}

func (g *MarotoReceiptGenerator) saleDetailRows(lines []entity.SaleLine) []core.Row {
	result := make([]core.Row, 0, len(lines))
	for _, l := range lines {
		result = append(result, row.New(7).Add(
			col.New(1).Add(text.New(
				fmt.Sprintf("%d", l.Quantity),
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(5).Add(text.New(
				nonEmpty(l.ItemName, l.ItemID),
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(2).Add(text.New(
				g.money(l.UnitPrice),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(1).Add(text.New(
				l.Discount.StringFixed(0)+"%",
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(3).Add(text.New(
				g.money(l.LineTotal),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
		))
	}
	return result
}

func (g *MarotoReceiptGenerator) totalRow(total decimal.Decimal) core.Row {
	return row.New(10).Add(
		col.New(6),
		col.New(3).Add(text.New("TOTAL:", props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: colorPrimary, Right: 2, Top: 2,
		})),
		col.New(3).Add(text.New(g.money(total), props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: colorPrimary, Right: 1, Top: 2,
		})),
	)
}

func receiptFooterRow(saleID string) core.Row {
	return row.New(35).Add(
		col.New(3).Add(code.NewQr(saleID, props.Rect{
			Percent: 95,
			Center:  true,
		})),
		col.New(9).Add(
			text.New("Gracias por su compra.", props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 6, Left: 3, Color: colorPrimary,
			}),
			text.New("Conserve este recibo. Para cambios o reclamos presente el código de la venta.", props.Text{
				Size: 8, Top: 14, Left: 3, Color: colorGray,
			}),
		),
	)
}

// ── Secciones del reporte ─────────────────────────────────────────────────────

func consignmentHeaderRow(showMoney bool) core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	cols := []core.Col{
		h("Producto", 3, align.Left),
		h("Lote", 2, align.Left),
		h("Cant.", 1, align.Center),
		h("Proveedor", 2, align.Left),
		h("Vence", 1, align.Center),
	}
	if showMoney {
		cols = append(cols,
			h("Costo", 1, align.Right),
			h("Pagado", 1, align.Right),
			h("Saldo", 1, align.Right),
		)
	} else {
		cols = append(cols, h("", 3, align.Left))
	}
	return row.New(8).Add(cols...).WithStyle(&props.Cell{BackgroundColor: colorPrimary})
}

func (g *MarotoReceiptGenerator) consignmentRow(c entity.Consignment, showMoney bool, now time.Time) core.Row {
	cell := props.Text{Size: 7.5, Top: 1, Left: 1, Right: 1}
	expiry := props.Text{Size: 7.5, Top: 1, Align: align.Center}
	if c.IsExpired(now) {
		expiry.Color = colorDanger
		expiry.Style = fontstyle.Bold
	}
	vence := "—"
	if !c.ExpiryDate.IsZero() {
		vence = c.ExpiryDate.Format("02/01/2006")
	}
	qty := cell
	qty.Align = align.Center
	right := cell
	right.Align = align.Right

	cols := []core.Col{
		col.New(3).Add(text.New(nonEmpty(c.ItemName, c.ItemID), cell)),
		col.New(2).Add(text.New(c.BatchNumber, cell)),
		col.New(1).Add(text.New(fmt.Sprintf("%d", c.Quantity), qty)),
		col.New(2).Add(text.New(nonEmpty(c.Supplier, "—"), cell)),
		col.New(1).Add(text.New(vence, expiry)),
	}
	if showMoney {
		cols = append(cols,
			col.New(1).Add(text.New(g.money(c.PurchaseCost), right)),
			col.New(1).Add(text.New(g.money(c.TotalPaid), right)),
			col.New(1).Add(text.New(g.money(c.Balance), right)),
		)
	} else {
		cols = append(cols, col.New(3))
	}
	return row.New(6).Add(cols...)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// titleCase pone en mayúscula la inicial de cada palabra. cases.Caser guarda estado,
// así que se crea uno por llamada.
func (g *MarotoReceiptGenerator) titleCase(s string) string {
	return cases.Title(g.lang).String(s)
}

// money formatea un monto con dos decimales y los separadores del idioma configurado.
// Ej (es): 25000 → "$25.000,00".
func (g *MarotoReceiptGenerator) money(d decimal.Decimal) string {
	return "$" + message.NewPrinter(g.lang).Sprint(number.Decimal(d.Round(2).InexactFloat64(), number.Scale(2)))
}
