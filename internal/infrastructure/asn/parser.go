// Package asn parsea los avisos de despacho (ASN) que los proveedores envían
// en XML antes de la llegada física de la mercancía.
//
// Formato esperado:
//
//	<?xml version="1.0" encoding="ISO-8859-1"?>
//	<AvisoDespacho>
//	  <Referencia>ASN-2026-0042</Referencia>
//	  <OrdenCompra>PO-2026-0001</OrdenCompra>
//	  <Proveedor>Suministros Andinos</Proveedor>
//	  <FechaEstimada>2026-03-01</FechaEstimada>
//	  <Lineas>
//	    <Linea>
//	      <SKU>SKU-1</SKU>
//	      <Cantidad>25</Cantidad>
//	      <Lote>L-9</Lote>
//	      <Vencimiento>2026-09-30</Vencimiento>
//	    </Linea>
//	  </Lineas>
//	</AvisoDespacho>
//
// Lote y Vencimiento son opcionales por línea. Los proveedores legados envían
// ISO-8859-1 o Windows-1252; el lector de charset los transcodifica a UTF-8.
package asn

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/invorya/wms-api/internal/application/inbound"
	"github.com/invorya/wms-api/internal/domain"
	"github.com/invorya/wms-api/internal/domain/entity"
)

var _ inbound.ASNParser = (*XMLParser)(nil)

// XMLParser implementa inbound.ASNParser sobre etree.
type XMLParser struct{}

// NewXMLParser construye el parser.
func NewXMLParser() *XMLParser { return &XMLParser{} }

// Parse descifra el XML del aviso y lo valida estructuralmente. El resultado
// no lleva ID ni CreatedAt; eso lo decide el caso de uso al registrarlo.
func (p *XMLParser) Parse(data []byte) (*entity.AdvanceShipNotice, error) {
	doc := etree.NewDocument()
	doc.ReadSettings.CharsetReader = charsetReader
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, fmt.Errorf("asn: XML ilegible: %v: %w", err, domain.ErrValidation)
	}

	root := doc.Root()
	if root == nil || root.Tag != "AvisoDespacho" {
		return nil, fmt.Errorf("asn: se esperaba raíz AvisoDespacho: %w", domain.ErrValidation)
	}

	notice := &entity.AdvanceShipNotice{
		Reference: childText(root, "Referencia"),
		PONumber:  childText(root, "OrdenCompra"),
		Supplier:  childText(root, "Proveedor"),
	}
	if notice.Reference == "" {
		return nil, fmt.Errorf("asn: falta Referencia: %w", domain.ErrValidation)
	}
	if notice.PONumber == "" {
		return nil, fmt.Errorf("asn: falta OrdenCompra: %w", domain.ErrValidation)
	}

	if eta := childText(root, "FechaEstimada"); eta != "" {
		t, err := parseDate(eta)
		if err != nil {
			return nil, fmt.Errorf("asn: FechaEstimada %q: %w", eta, domain.ErrValidation)
		}
		notice.ETA = t
	}

	lines := root.FindElements("Lineas/Linea")
	if len(lines) == 0 {
		return nil, fmt.Errorf("asn %s: sin líneas: %w", notice.Reference, domain.ErrValidation)
	}
	for i, el := range lines {
		line, err := parseLine(el)
		if err != nil {
			return nil, fmt.Errorf("asn %s línea %d: %w", notice.Reference, i+1, err)
		}
		notice.Lines = append(notice.Lines, line)
	}
	return notice, nil
}

// parseLine valida una línea: SKU y cantidad positiva son obligatorios.
func parseLine(el *etree.Element) (entity.ASNLine, error) {
	line := entity.ASNLine{
		SKU:     childText(el, "SKU"),
		LotCode: childText(el, "Lote"),
	}
	if line.SKU == "" {
		return line, fmt.Errorf("falta SKU: %w", domain.ErrValidation)
	}

	rawQty := childText(el, "Cantidad")
	qty, err := decimal.NewFromString(rawQty)
	if err != nil || !qty.IsPositive() {
		return line, fmt.Errorf("cantidad %q inválida: %w", rawQty, domain.ErrValidation)
	}
	line.Quantity = qty

	if raw := childText(el, "Vencimiento"); raw != "" {
		t, err := parseDate(raw)
		if err != nil {
			return line, fmt.Errorf("vencimiento %q: %w", raw, domain.ErrValidation)
		}
		line.ExpiryDate = &t
	}
	return line, nil
}

// charsetReader transcodifica las codificaciones legadas declaradas en el
// prólogo XML. UTF-8 y desconocidas pasan sin tocar.
func charsetReader(charset string, input io.Reader) (io.Reader, error) {
	switch {
	case strings.EqualFold(charset, "ISO-8859-1"), strings.EqualFold(charset, "ISO8859-1"):
		return transform.NewReader(input, charmap.ISO8859_1.NewDecoder()), nil
	case strings.EqualFold(charset, "Windows-1252"), strings.EqualFold(charset, "CP1252"):
		return transform.NewReader(input, charmap.Windows1252.NewDecoder()), nil
	}
	return input, nil
}

// parseDate acepta fecha sola o timestamp RFC 3339.
func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

func childText(el *etree.Element, tag string) string {
	child := el.SelectElement(tag)
	if child == nil {
		return ""
	}
	return strings.TrimSpace(child.Text())
}
