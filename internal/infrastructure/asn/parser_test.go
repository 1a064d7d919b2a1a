package asn_test

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/invorya/wms-api/internal/domain"
	asnparser "github.com/invorya/wms-api/internal/infrastructure/asn"
)

// Muestra tal como llega de un proveedor legado: declarada y codificada en
// ISO-8859-1 (0xED = í, 0xF1 = ñ).
var asnISO = []byte("<?xml version=\"1.0\" encoding=\"ISO-8859-1\"?>\n" +
	"<AvisoDespacho>\n" +
	"  <Referencia>ASN-2026-0042</Referencia>\n" +
	"  <OrdenCompra>PO-2026-0001</OrdenCompra>\n" +
	"  <Proveedor>Log\xedstica Espa\xf1ola</Proveedor>\n" +
	"  <FechaEstimada>2026-03-01</FechaEstimada>\n" +
	"  <Lineas>\n" +
	"    <Linea>\n" +
	"      <SKU>SKU-1</SKU>\n" +
	"      <Cantidad>25</Cantidad>\n" +
	"      <Lote>L-9</Lote>\n" +
	"      <Vencimiento>2026-09-30</Vencimiento>\n" +
	"    </Linea>\n" +
	"    <Linea>\n" +
	"      <SKU>SKU-2</SKU>\n" +
	"      <Cantidad>100</Cantidad>\n" +
	"    </Linea>\n" +
	"  </Lineas>\n" +
	"</AvisoDespacho>\n")

func TestParseTranscodificaISO88591(t *testing.T) {
	notice, err := asnparser.NewXMLParser().Parse(asnISO)
	require.NoError(t, err)

	assert.Equal(t, "ASN-2026-0042", notice.Reference)
	assert.Equal(t, "PO-2026-0001", notice.PONumber)
	assert.Equal(t, "Logística Española", notice.Supplier)
	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), notice.ETA)

	require.Len(t, notice.Lines, 2)
	assert.Equal(t, "SKU-1", notice.Lines[0].SKU)
	assert.True(t, notice.Lines[0].Quantity.Equal(dec("25")))
	assert.Equal(t, "L-9", notice.Lines[0].LotCode)
	require.NotNil(t, notice.Lines[0].ExpiryDate)
	assert.Equal(t, time.Date(2026, 9, 30, 0, 0, 0, 0, time.UTC), *notice.Lines[0].ExpiryDate)

	assert.Equal(t, "SKU-2", notice.Lines[1].SKU)
	assert.Empty(t, notice.Lines[1].LotCode)
	assert.Nil(t, notice.Lines[1].ExpiryDate)
}

func TestParseAceptaUTF8SinDeclaracion(t *testing.T) {
	xml := []byte(`<AvisoDespacho>
	  <Referencia>ASN-1</Referencia>
	  <OrdenCompra>PO-1</OrdenCompra>
	  <Proveedor>Cañón y Cía</Proveedor>
	  <Lineas><Linea><SKU>SKU-1</SKU><Cantidad>5</Cantidad></Linea></Lineas>
	</AvisoDespacho>`)

	notice, err := asnparser.NewXMLParser().Parse(xml)
	require.NoError(t, err)
	assert.Equal(t, "Cañón y Cía", notice.Supplier)
	assert.True(t, notice.ETA.IsZero())
}

func TestParseRechazaRaizDesconocida(t *testing.T) {
	xml := []byte(`<Pedido><Referencia>X</Referencia></Pedido>`)

	_, err := asnparser.NewXMLParser().Parse(xml)
	assert.True(t, errors.Is(err, domain.ErrValidation), "err = %v", err)
}

func TestParseExigeReferenciaYOrdenDeCompra(t *testing.T) {
	sinReferencia := []byte(`<AvisoDespacho>
	  <OrdenCompra>PO-1</OrdenCompra>
	  <Lineas><Linea><SKU>S</SKU><Cantidad>1</Cantidad></Linea></Lineas>
	</AvisoDespacho>`)
	_, err := asnparser.NewXMLParser().Parse(sinReferencia)
	assert.True(t, errors.Is(err, domain.ErrValidation), "err = %v", err)

	sinOrden := []byte(`<AvisoDespacho>
	  <Referencia>ASN-1</Referencia>
	  <Lineas><Linea><SKU>S</SKU><Cantidad>1</Cantidad></Linea></Lineas>
	</AvisoDespacho>`)
	_, err = asnparser.NewXMLParser().Parse(sinOrden)
	assert.True(t, errors.Is(err, domain.ErrValidation), "err = %v", err)
}

func TestParseRechazaCantidadesNoPositivas(t *testing.T) {
	for _, cantidad := range []string{"abc", "-5", "0", ""} {
		xml := []byte(`<AvisoDespacho>
		  <Referencia>ASN-1</Referencia>
		  <OrdenCompra>PO-1</OrdenCompra>
		  <Lineas><Linea><SKU>SKU-1</SKU><Cantidad>` + cantidad + `</Cantidad></Linea></Lineas>
		</AvisoDespacho>`)

		_, err := asnparser.NewXMLParser().Parse(xml)
		assert.True(t, errors.Is(err, domain.ErrValidation), "cantidad %q: err = %v", cantidad, err)
	}
}

func TestParseExigeAlMenosUnaLinea(t *testing.T) {
	xml := []byte(`<AvisoDespacho>
	  <Referencia>ASN-1</Referencia>
	  <OrdenCompra>PO-1</OrdenCompra>
	  <Lineas></Lineas>
	</AvisoDespacho>`)

	_, err := asnparser.NewXMLParser().Parse(xml)
	assert.True(t, errors.Is(err, domain.ErrValidation), "err = %v", err)
}

func TestParseRechazaXMLMalformado(t *testing.T) {
	_, err := asnparser.NewXMLParser().Parse([]byte("<AvisoDespacho><Referencia>"))
	assert.True(t, errors.Is(err, domain.ErrValidation), "err = %v", err)
}

// ── helpers ──────────────────────────────────────────────────────────────────

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
