// Package pdf implementa los documentos impresos del almacén usando Maroto v2:
// la lista de empaque que acompaña cada pedido y la etiqueta de envío con el
// código de rastreo de la transportadora.
//
// Layout de la lista de empaque (A4):
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Lista de empaque  │  Referencia + Fecha             │
//	│  ─────────────────────────────────────────────────────────  │
//	│  DESTINO: Nombre / Dirección / Ciudad / Región               │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: SKU | Descripción | Pedido | Preparado | Faltante    │
//	│  ─────────────────────────────────────────────────────────  │
//	│  PIE: total de líneas + leyenda de verificación              │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
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

	"github.com/invorya/wms-api/internal/application/packing"
	"github.com/invorya/wms-api/internal/application/shipping"
	"github.com/invorya/wms-api/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// ── Generator ─────────────────────────────────────────────────────────────────

var (
	_ packing.SlipGenerator   = (*DocumentGenerator)(nil)
	_ shipping.LabelGenerator = (*DocumentGenerator)(nil)
)

// DocumentGenerator implementa los generadores de documentos del almacén
// usando Maroto v2.
type DocumentGenerator struct{}

// NewDocumentGenerator construye el generador.
func NewDocumentGenerator() *DocumentGenerator { return &DocumentGenerator{} }

// PackingSlip genera la lista de empaque del pedido y devuelve sus bytes.
func (g *DocumentGenerator) PackingSlip(order *entity.Order) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Lista de Empaque "+order.Reference, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(slipHeaderRow(order))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(destinationRow(order.Destination))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(slipTableHeaderRow())
	for _, r := range slipLineRows(order.Lines) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(slipFooterRow(order))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: lista de empaque %s: %w", order.Reference, err)
	}
	return doc.GetBytes(), nil
}

// ShippingLabel genera la etiqueta de envío con el código de barras del
// número de rastreo.
func (g *DocumentGenerator) ShippingLabel(shipment *entity.Shipment, order *entity.Order) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(15).WithRightMargin(15).
		WithTopMargin(15).WithBottomMargin(15).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 10}).
		WithTitle("Etiqueta "+shipment.Number, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(labelHeaderRow(shipment))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.8}))
	m.AddRows(labelDestinationRow(shipment.Destination))
	m.AddRows(labelDetailRow(shipment, order))
	m.AddRows(line.NewRow(2))

	// Código de barras del número de rastreo (code128).
	if shipment.TrackingNumber != "" {
		m.AddRows(row.New(34).Add(
			col.New(12).Add(
				code.NewBar(shipment.TrackingNumber, props.Barcode{
					Percent: 85,
					Center:  true,
				}),
			),
		))
		m.AddRows(row.New(6).Add(col.New(12).Add(
			text.New(shipment.TrackingNumber, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Center, Top: 1,
			}),
		)))
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: etiqueta %s: %w", shipment.Number, err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones de la lista de empaque ──────────────────────────────────────────

// slipHeaderRow: título (izq) y referencia + fecha (der).
func slipHeaderRow(order *entity.Order) core.Row {
	fecha := order.CreatedAt.Format("02/01/2006")

	return row.New(18).Add(
		col.New(7).Add(
			text.New("LISTA DE EMPAQUE", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Documento de verificación de contenido", props.Text{
				Size: 8, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New(order.Reference, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 3,
			}),
			text.New("Fecha del pedido: "+fecha, props.Text{
				Size: 8, Align: align.Right, Top: 11, Color: colorGray,
			}),
		),
	)
}

// destinationRow: bloque con los datos de entrega.
func destinationRow(dest entity.Destination) core.Row {
	return row.New(16).Add(
		col.New(12).Add(
			text.New("DESTINO", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(dest.Name, props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 6,
			}),
			text.New(fmt.Sprintf("%s   |   %s, %s   |   CP %s",
				nonEmpty(dest.Address, "—"),
				nonEmpty(dest.City, "—"),
				nonEmpty(dest.Region, "—"),
				nonEmpty(dest.PostalCode, "—"),
			), props.Text{Size: 8, Top: 12, Color: colorGray}),
		),
	)
}

// slipTableHeaderRow: cabecera de la tabla de líneas.
func slipTableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("SKU", 2, align.Left),
		h("Descripción", 5, align.Left),
		h("Pedido", 2, align.Right),
		h("Preparado", 2, align.Right),
		h("Falt.", 1, align.Center),
	)
}

// slipLineRows: una fila por línea del pedido.
func slipLineRows(lines []entity.OrderLine) []core.Row {
	result := make([]core.Row, 0, len(lines))
	for _, l := range lines {
		short := ""
		if l.Short {
			short = l.ShortQty.StringFixed(0)
		}
		result = append(result, row.New(7).Add(
			col.New(2).Add(text.New(
				l.SKU,
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(5).Add(text.New(
				l.Description,
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(2).Add(text.New(
				l.Quantity.StringFixed(0),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(2).Add(text.New(
				l.PickedQty.StringFixed(0),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(1).Add(text.New(
				short,
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
		))
	}
	return result
}

// slipFooterRow: resumen y leyenda de verificación.
func slipFooterRow(order *entity.Order) core.Row {
	return row.New(14).Add(
		col.New(12).Add(
			text.New(fmt.Sprintf("Total de líneas: %d   |   Unidades pedidas: %s",
				order.TotalLines(), order.TotalQuantity().StringFixed(0),
			), props.Text{Style: fontstyle.Bold, Size: 9, Top: 2}),
			text.New(
				"Verifique el contenido contra esta lista al recibir el paquete. "+
					"Las cantidades en Falt. no fueron despachadas y no se facturan.",
				props.Text{Size: 7, Color: colorGray, Top: 9},
			),
		),
	)
}

// ── Secciones de la etiqueta ──────────────────────────────────────────────────

// labelHeaderRow: transportadora (izq) y número de envío (der).
func labelHeaderRow(shipment *entity.Shipment) core.Row {
	return row.New(16).Add(
		col.New(7).Add(
			text.New(nonEmpty(shipment.CarrierName, "SIN TRANSPORTADORA"), props.Text{
				Style: fontstyle.Bold, Size: 14, Color: colorPrimary, Top: 1,
			}),
		),
		col.New(5).Add(
			text.New(shipment.Number, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 1,
			}),
			text.New(fmt.Sprintf("Peso: %s kg", shipment.WeightKg.StringFixed(2)), props.Text{
				Size: 9, Align: align.Right, Top: 9, Color: colorGray,
			}),
		),
	)
}

// labelDestinationRow: el destinatario en grande, como lo lee el repartidor.
func labelDestinationRow(dest entity.Destination) core.Row {
	return row.New(30).Add(
		col.New(12).Add(
			text.New("ENTREGAR A", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorGray, Top: 1,
			}),
			text.New(dest.Name, props.Text{
				Style: fontstyle.Bold, Size: 16, Top: 7,
			}),
			text.New(dest.Address, props.Text{Size: 11, Top: 15}),
			text.New(fmt.Sprintf("%s, %s %s — %s",
				dest.City, dest.Region, dest.PostalCode, nonEmpty(dest.Country, "CO"),
			), props.Text{Size: 11, Top: 22}),
		),
	)
}

// labelDetailRow: referencia del pedido y conteo de bultos.
func labelDetailRow(shipment *entity.Shipment, order *entity.Order) core.Row {
	return row.New(10).Add(
		col.New(6).Add(
			text.New("Pedido: "+order.Reference, props.Text{Size: 9, Top: 2}),
		),
		col.New(6).Add(
			text.New(fmt.Sprintf("Líneas: %d   |   Lado mayor: %s cm",
				order.TotalLines(), shipment.LongestSideCm.StringFixed(0),
			), props.Text{Size: 9, Align: align.Right, Top: 2}),
		),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
